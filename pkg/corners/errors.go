package corners

import "github.com/pkg/errors"

var (
	// ErrNoVertices is returned when a bounding box is requested for an
	// empty vertex mapping.
	ErrNoVertices = errors.New("corners: no vertices to bound")

	// ErrNoSolids is returned by Analyze when an element resolves to no
	// usable solids.
	ErrNoSolids = errors.New("corners: element has no solids with faces")

	// ErrInvalidTolerance is returned for a tolerance that is not a
	// positive finite number.
	ErrInvalidTolerance = errors.New("corners: tolerance must be positive and finite")
)
