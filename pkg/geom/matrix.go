// Package geom provides the mgl64-backed affine transform used by the
// reference hosts and the scene engine.
package geom

import (
	"fmt"
	"math"

	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// Compile-time interface check.
var _ kernel.Transform = Matrix{}

// identityThreshold is the per-element slack allowed when deciding whether a
// matrix is the identity.
const identityThreshold = 1e-12

// Matrix is an affine transform stored as a homogeneous column-major matrix.
// The zero value is not a valid transform; use Identity.
type Matrix struct {
	m mgl64.Mat4
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{m: mgl64.Ident4()}
}

// FromMat4 wraps an existing homogeneous matrix.
func FromMat4(m mgl64.Mat4) Matrix {
	return Matrix{m: m}
}

// FromTransform converts any kernel.Transform into a Matrix.
func FromTransform(t kernel.Transform) Matrix {
	if m, ok := t.(Matrix); ok {
		return m
	}
	return Matrix{m: t.Mat4()}
}

// Translation returns a transform that moves points by (x, y, z).
func Translation(x, y, z float64) Matrix {
	return Matrix{m: mgl64.Translate3D(x, y, z)}
}

// RotationX returns a rotation about the X axis by the given angle in degrees.
func RotationX(deg float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DX(mgl64.DegToRad(deg))}
}

// RotationY returns a rotation about the Y axis by the given angle in degrees.
func RotationY(deg float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DY(mgl64.DegToRad(deg))}
}

// RotationZ returns a rotation about the Z axis by the given angle in degrees.
func RotationZ(deg float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DZ(mgl64.DegToRad(deg))}
}

// Scaling returns a non-uniform scale about the origin.
func Scaling(x, y, z float64) Matrix {
	return Matrix{m: mgl64.Scale3D(x, y, z)}
}

// Apply maps p through the transform.
func (t Matrix) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, t.m)
}

// Inverse returns the inverse transform. A singular matrix (zero scale)
// inverts to the zero matrix, as mgl64 does.
func (t Matrix) Inverse() kernel.Transform {
	return Matrix{m: t.m.Inv()}
}

// Then returns the transform that applies t first and next second.
func (t Matrix) Then(next kernel.Transform) Matrix {
	return Matrix{m: next.Mat4().Mul4(t.m)}
}

// IsIdentity reports whether t leaves every point unchanged.
func (t Matrix) IsIdentity() bool {
	id := mgl64.Ident4()
	for i := range t.m {
		if math.Abs(t.m[i]-id[i]) > identityThreshold {
			return false
		}
	}
	return true
}

// Mat4 returns the homogeneous matrix.
func (t Matrix) Mat4() mgl64.Mat4 {
	return t.m
}

// Origin returns the image of the origin, i.e. the translation part.
func (t Matrix) Origin() mgl64.Vec3 {
	return t.m.Col(3).Vec3()
}

// ApproxEqual compares two transforms element-wise within eps.
func (t Matrix) ApproxEqual(o kernel.Transform, eps float64) bool {
	om := o.Mat4()
	for i := range t.m {
		if math.Abs(t.m[i]-om[i]) > eps {
			return false
		}
	}
	return true
}

func (t Matrix) String() string {
	o := t.Origin()
	if t.IsIdentity() {
		return "identity"
	}
	return fmt.Sprintf("affine(origin %.4f,%.4f,%.4f)", o[0], o[1], o[2])
}

// Compose chains transforms so the first argument is applied first.
// With no arguments it returns the identity.
func Compose(ts ...kernel.Transform) Matrix {
	out := Identity()
	for _, t := range ts {
		out = out.Then(t)
	}
	return out
}
