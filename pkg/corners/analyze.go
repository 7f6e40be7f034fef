package corners

import (
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// Analysis is the result of running the full pipeline on one element.
type Analysis struct {
	Solids    []kernel.Solid
	Transform kernel.Transform
	Corners   *VertexCounts
	Box       BoundingBoxInfo
}

// Analyze resolves the solids of e, extracts their corners and bounds them.
// It returns ErrNoSolids when e has nothing to measure.
func Analyze(e kernel.Element, opts kernel.Options, cmp Comparer) (*Analysis, error) {
	solids, xf, err := ResolveSolids(e, opts)
	if err != nil {
		return nil, err
	}
	if len(solids) == 0 {
		return nil, ErrNoSolids
	}

	vc, err := ExtractCorners(solids, cmp)
	if err != nil {
		return nil, err
	}

	box, err := ComputeBoundingBox(vc, xf)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Solids:    solids,
		Transform: xf,
		Corners:   vc,
		Box:       box,
	}, nil
}

// SetoutPoints returns the corner keys mapped into the output frame, in
// encounter order.
func (a *Analysis) SetoutPoints() []mgl64.Vec3 {
	pts := a.Corners.Points()
	for i, p := range pts {
		pts[i] = a.Transform.Apply(p)
	}
	return pts
}
