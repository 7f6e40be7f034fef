// Package sdfx renders setout envelopes with the github.com/deadsy/sdfx
// SDF-based CAD library.
//
// An envelope is the solid box described by a corners.BoundingBoxInfo: its
// local half-extents centered on the mapped center. Only the plan rotation
// (about Z) of the placement transform is applied to the box, so envelopes
// of rotated instances follow the instance on site.
package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/ezhangle/SetoutPoints/pkg/corners"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/pkg/errors"
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// minThickness is the thickness given to a flat axis so that laminae
// still render as a solid.
const minThickness = corners.DefaultTolerance

// Envelope wraps an sdf.SDF3 box for one scene object.
type Envelope struct {
	Name string
	s    sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box in the output frame.
func (e *Envelope) BoundingBox() (min, max [3]float64) {
	bb := e.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Renderer builds envelopes and tessellates them.
type Renderer struct {
	cells int
}

// New returns a Renderer with the default resolution.
func New() *Renderer {
	return &Renderer{cells: defaultMeshCells}
}

// NewWithCells returns a Renderer whose marching cubes grid has cells
// along the longest axis.
func NewWithCells(cells int) (*Renderer, error) {
	if cells < 2 {
		return nil, errors.Errorf("sdfx: need at least 2 cells, got %d", cells)
	}
	return &Renderer{cells: cells}, nil
}

// Envelope builds the envelope of box placed by xf. A nil xf is the identity.
func (r *Renderer) Envelope(name string, box corners.BoundingBoxInfo, xf kernel.Transform) (*Envelope, error) {
	half := box.HalfExtents()
	size := v3.Vec{
		X: math.Max(2*half.X(), minThickness),
		Y: math.Max(2*half.Y(), minThickness),
		Z: math.Max(2*half.Z(), minThickness),
	}
	s, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "sdfx: envelope %q", name)
	}

	c := box.Center()
	m := sdf.Translate3d(v3.Vec{X: c.X(), Y: c.Y(), Z: c.Z()}).Mul(sdf.RotateZ(PlanRotation(xf)))
	return &Envelope{Name: name, s: sdf.Transform3D(s, m)}, nil
}

// PlanRotation returns the rotation about Z, in radians, that xf applies to
// the X axis.
func PlanRotation(xf kernel.Transform) float64 {
	if xf == nil || xf.IsIdentity() {
		return 0
	}
	m := xf.Mat4()
	return math.Atan2(m.At(1, 0), m.At(0, 0))
}

// ToMesh converts an envelope to a triangle mesh using marching cubes.
func (r *Renderer) ToMesh(e *Envelope) (*kernel.Mesh, error) {
	if e == nil || e.s == nil {
		return nil, errors.New("sdfx: nil envelope")
	}

	renderer := render.NewMarchingCubesUniform(r.cells)
	triangles := render.ToTriangles(e.s, renderer)
	if len(triangles) == 0 {
		return nil, errors.Errorf("sdfx: envelope %q produced no triangles", e.Name)
	}

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices:   vertices,
		Normals:    normals,
		Indices:    indices,
		ObjectName: e.Name,
	}, nil
}
