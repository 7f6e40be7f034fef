package corners

import (
	"github.com/ezhangle/SetoutPoints/pkg/geom"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
)

// ResolveSolids returns the solids to measure for e and the transform that
// maps their local frame into the element's placement.
//
// Solids attached directly to the element win and come with the identity
// transform. Only when there are none does the resolver fall back to the
// symbol geometry of the last instance seen, paired with that instance's
// transform. Symbol geometry is not searched for further instances. Solids
// without faces are skipped in both passes. When nothing is found the result
// is an empty slice and the identity.
func ResolveSolids(e kernel.Element, opts kernel.Options) ([]kernel.Solid, kernel.Transform, error) {
	objs, err := e.Geometry(opts)
	if err != nil {
		return nil, nil, err
	}

	solids, inst, err := collectSolids(objs)
	if err != nil {
		return nil, nil, err
	}
	if len(solids) > 0 || inst == nil {
		return solids, geom.Identity(), nil
	}

	symObjs, err := inst.SymbolGeometry()
	if err != nil {
		return nil, nil, err
	}
	// A nested instance inside symbol geometry is ignored.
	symSolids, _, err := collectSolids(symObjs)
	if err != nil {
		return nil, nil, err
	}
	if len(symSolids) == 0 {
		return symSolids, geom.Identity(), nil
	}

	xf := inst.Transform()
	if xf == nil {
		xf = geom.Identity()
	}
	return symSolids, xf, nil
}

// collectSolids keeps solids with at least one face, in order, and returns
// the last instance among objs.
func collectSolids(objs []kernel.GeometryObject) ([]kernel.Solid, kernel.Instance, error) {
	solids := []kernel.Solid{}
	var inst kernel.Instance
	for _, obj := range objs {
		switch v := obj.(type) {
		case kernel.Solid:
			faces, err := v.Faces()
			if err != nil {
				return nil, nil, err
			}
			if len(faces) > 0 {
				solids = append(solids, v)
			}
		case kernel.Instance:
			inst = v
		}
	}
	return solids, inst, nil
}
