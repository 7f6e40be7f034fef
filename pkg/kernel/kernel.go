// Package kernel defines the abstract host geometry interface.
// Implementations (brep, mesh) expose boundary-represented solids, symbol
// instances and placement transforms behind this interface. The abstraction
// keeps corner extraction independent of any particular geometry kernel.
package kernel

import "github.com/go-gl/mathgl/mgl64"

// Transform is an affine map from one coordinate frame to another.
type Transform interface {
	// Apply maps a point into the target frame.
	Apply(p mgl64.Vec3) mgl64.Vec3
	Inverse() Transform
	IsIdentity() bool
	// Mat4 returns the homogeneous matrix so transforms from different
	// implementations can be composed.
	Mat4() mgl64.Mat4
}

// Curve is a bounded, parametrized curve.
type Curve interface {
	// EndPoint returns the start (0) or end (1) of the curve.
	EndPoint(index int) (mgl64.Vec3, error)
}

// Edge is a boundary edge shared by one or two faces.
type Edge interface {
	// CurveFollowingFace returns the edge curve oriented the way the edge is
	// traversed along f. The same edge may report reversed endpoints for
	// each of its adjacent faces.
	CurveFollowingFace(f Face) (Curve, error)
}

// EdgeLoop is an ordered, closed sequence of edges bounding a face.
type EdgeLoop []Edge

// Face is a bounded surface of a solid.
type Face interface {
	EdgeLoops() ([]EdgeLoop, error)
}

// Solid is a boundary representation made of faces.
type Solid interface {
	Faces() ([]Face, error)
}

// GeometryObject is any item produced by an element's geometry. Only Solid
// and Instance values are interpreted; anything else (curves, points, text)
// is ignored.
type GeometryObject interface{}

// Instance is a placed reference to shared symbol geometry.
type Instance interface {
	// SymbolGeometry returns the geometry of the shared definition, in the
	// symbol's own coordinate frame.
	SymbolGeometry() ([]GeometryObject, error)
	// Transform maps the symbol frame into the instance placement.
	Transform() Transform
}

// Element is a modeled object that can produce geometry.
type Element interface {
	Name() string
	Geometry(opts Options) ([]GeometryObject, error)
}
