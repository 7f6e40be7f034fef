package brep

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// edgeKey identifies a straight edge by its unordered vertex pair.
type edgeKey struct {
	lo, hi int
}

// Polyhedron builds a planar-faced solid from vertices and faces given as
// vertex index loops. Edges shared by two faces are created once; the first
// face to use an edge fixes its intrinsic direction.
func Polyhedron(name string, verts []mgl64.Vec3, faces [][]int) (*Solid, error) {
	edges := make(map[edgeKey]*Edge)
	var built []*Face

	for fi, loop := range faces {
		if len(loop) < 3 {
			return nil, errors.Errorf("brep: face %d has %d vertices, need at least 3", fi, len(loop))
		}
		uses := make([]Use, 0, len(loop))
		for i, a := range loop {
			b := loop[(i+1)%len(loop)]
			if a < 0 || a >= len(verts) || b < 0 || b >= len(verts) {
				return nil, errors.Errorf("brep: face %d references vertex outside [0,%d)", fi, len(verts))
			}
			if a == b {
				return nil, errors.Errorf("brep: face %d has a zero-length edge at vertex %d", fi, a)
			}
			key := edgeKey{lo: a, hi: b}
			if a > b {
				key = edgeKey{lo: b, hi: a}
			}
			e, ok := edges[key]
			if !ok {
				e = NewEdge(&Line{Start: verts[a], End: verts[b]})
				edges[key] = e
				uses = append(uses, Fwd(e))
				continue
			}
			start, _ := e.curve.EndPoint(0)
			uses = append(uses, Use{Edge: e, Reversed: start != verts[a]})
		}
		built = append(built, NewFace("", uses))
	}

	return NewSolid(name, built...), nil
}

// Prism extrudes a counter-clockwise polygon in the XY plane at base[i].Z()
// upward by height.
func Prism(name string, base []mgl64.Vec3, height float64) (*Solid, error) {
	n := len(base)
	if n < 3 {
		return nil, errors.Errorf("brep: prism %q needs at least 3 base points, got %d", name, n)
	}
	if height <= 0 {
		return nil, errors.Errorf("brep: prism %q height is %.4f, must be positive", name, height)
	}

	verts := make([]mgl64.Vec3, 0, 2*n)
	verts = append(verts, base...)
	for _, p := range base {
		verts = append(verts, p.Add(mgl64.Vec3{0, 0, height}))
	}

	bottom := make([]int, n)
	top := make([]int, n)
	for i := 0; i < n; i++ {
		bottom[i] = n - 1 - i
		top[i] = n + i
	}
	faces := [][]int{bottom, top}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, []int{i, j, n + j, n + i})
	}

	return Polyhedron(name, verts, faces)
}

// Box creates an axis-aligned box spanning min to max.
func Box(name string, min, max mgl64.Vec3) (*Solid, error) {
	size := max.Sub(min)
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		return nil, errors.Errorf("brep: box %q has non-positive size %v", name, size)
	}
	base := []mgl64.Vec3{
		{min.X(), min.Y(), min.Z()},
		{max.X(), min.Y(), min.Z()},
		{max.X(), max.Y(), min.Z()},
		{min.X(), max.Y(), min.Z()},
	}
	return Prism(name, base, size.Z())
}

// circle returns the two arcs of a full circle in the XY plane about center,
// split at angle 0 and 180 degrees.
func circle(center mgl64.Vec3, radius float64) (a, b *Edge, p0, p1 mgl64.Vec3) {
	p0 = center.Add(mgl64.Vec3{radius, 0, 0})
	p1 = center.Add(mgl64.Vec3{-radius, 0, 0})
	a = NewEdge(&Arc{Center: center, Start: p0, End: p1})
	b = NewEdge(&Arc{Center: center, Start: p1, End: p0})
	return a, b, p0, p1
}

// Cylinder creates a Z-aligned cylinder whose base circle is centered at
// base. The lateral surface is split into two half-cylinder faces joined by
// two seam lines, and each circle is two arcs.
func Cylinder(name string, base mgl64.Vec3, radius, height float64) (*Solid, error) {
	if radius <= 0 {
		return nil, errors.Errorf("brep: cylinder %q radius is %.4f, must be positive", name, radius)
	}
	if height <= 0 {
		return nil, errors.Errorf("brep: cylinder %q height is %.4f, must be positive", name, height)
	}

	bA, bB, p0, p1 := circle(base, radius)
	tA, tB, q0, q1 := circle(base.Add(mgl64.Vec3{0, 0, height}), radius)
	s0 := NewEdge(&Line{Start: p0, End: q0})
	s1 := NewEdge(&Line{Start: p1, End: q1})

	bottom := NewFace("bottom", []Use{Rev(bB), Rev(bA)})
	top := NewFace("top", []Use{Fwd(tA), Fwd(tB)})
	sideA := NewFace("side-a", []Use{Fwd(bA), Fwd(s1), Rev(tA), Rev(s0)})
	sideB := NewFace("side-b", []Use{Fwd(bB), Fwd(s0), Rev(tB), Rev(s1)})

	return NewSolid(name, bottom, top, sideA, sideB), nil
}

// Disk creates a single planar circular face in the XY plane. It is a
// lamina, not a closed solid, and is mostly useful for tests and sketches.
func Disk(name string, center mgl64.Vec3, radius float64) (*Solid, error) {
	if radius <= 0 {
		return nil, errors.Errorf("brep: disk %q radius is %.4f, must be positive", name, radius)
	}
	a, b, _, _ := circle(center, radius)
	return NewSolid(name, NewFace("disk", []Use{Fwd(a), Fwd(b)})), nil
}

// Empty returns a solid with no faces.
func Empty(name string) *Solid {
	return NewSolid(name)
}
