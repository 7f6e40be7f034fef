package corners

import "github.com/ezhangle/SetoutPoints/pkg/kernel"

// ExtractCorners walks solid, face, loop and edge in order and counts the
// start point of every edge curve taken relative to the face being walked.
// A full circle made of two arcs therefore contributes two corners.
func ExtractCorners(solids []kernel.Solid, cmp Comparer) (*VertexCounts, error) {
	vc := NewVertexCounts(cmp)
	for _, s := range solids {
		faces, err := s.Faces()
		if err != nil {
			return nil, err
		}
		for _, f := range faces {
			loops, err := f.EdgeLoops()
			if err != nil {
				return nil, err
			}
			for _, loop := range loops {
				for _, e := range loop {
					c, err := e.CurveFollowingFace(f)
					if err != nil {
						return nil, err
					}
					p, err := c.EndPoint(0)
					if err != nil {
						return nil, err
					}
					vc.Add(p)
				}
			}
		}
	}
	return vc, nil
}
