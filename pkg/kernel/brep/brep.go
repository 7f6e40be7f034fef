// Package brep is an in-memory boundary-representation host. It implements
// the kernel interfaces with explicit faces, edge loops and shared edges
// whose curve orientation depends on the face they are queried against.
package brep

import (
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/pkg/errors"
)

// Compile-time interface checks.
var (
	_ kernel.Solid = (*Solid)(nil)
	_ kernel.Face  = (*Face)(nil)
	_ kernel.Edge  = (*Edge)(nil)
)

// ErrEdgeNotOnFace is returned when an edge is asked for its curve relative
// to a face it does not bound.
var ErrEdgeNotOnFace = errors.New("brep: edge does not bound the given face")

// faceUse records how a face traverses an edge.
type faceUse struct {
	face     *Face
	reversed bool
}

// Edge is a curve shared by the faces it bounds.
type Edge struct {
	curve Curve
	uses  []faceUse
}

// NewEdge creates an edge with the given intrinsic curve.
func NewEdge(c Curve) *Edge {
	return &Edge{curve: c}
}

// Curve returns the edge's intrinsic curve.
func (e *Edge) Curve() Curve {
	return e.curve
}

// CurveFollowingFace returns the curve in the direction f traverses it.
func (e *Edge) CurveFollowingFace(f kernel.Face) (kernel.Curve, error) {
	bf, ok := f.(*Face)
	if !ok {
		return nil, ErrEdgeNotOnFace
	}
	for _, u := range e.uses {
		if u.face != bf {
			continue
		}
		if u.reversed {
			return e.curve.Reversed(), nil
		}
		return e.curve, nil
	}
	return nil, ErrEdgeNotOnFace
}

// Faces returns the number of faces bounded by e.
func (e *Edge) Faces() int {
	return len(e.uses)
}

// Use is one edge occurrence in a face loop.
type Use struct {
	Edge     *Edge
	Reversed bool
}

// Fwd uses e in its intrinsic direction.
func Fwd(e *Edge) Use { return Use{Edge: e} }

// Rev uses e against its intrinsic direction.
func Rev(e *Edge) Use { return Use{Edge: e, Reversed: true} }

// Face is a bounded surface with one outer loop and optional inner loops.
type Face struct {
	Name  string
	loops []kernel.EdgeLoop
}

// NewFace creates a face from loops of edge uses and registers the face on
// every edge it uses.
func NewFace(name string, loops ...[]Use) *Face {
	f := &Face{Name: name}
	for _, loop := range loops {
		el := make(kernel.EdgeLoop, 0, len(loop))
		for _, u := range loop {
			u.Edge.uses = append(u.Edge.uses, faceUse{face: f, reversed: u.Reversed})
			el = append(el, u.Edge)
		}
		f.loops = append(f.loops, el)
	}
	return f
}

// EdgeLoops returns the face's loops; the first is the outer boundary.
func (f *Face) EdgeLoops() ([]kernel.EdgeLoop, error) {
	return f.loops, nil
}

// Solid is a closed set of faces.
type Solid struct {
	Name  string
	faces []*Face
}

// NewSolid creates a solid from faces.
func NewSolid(name string, faces ...*Face) *Solid {
	return &Solid{Name: name, faces: faces}
}

// Faces returns the faces of the solid.
func (s *Solid) Faces() ([]kernel.Face, error) {
	out := make([]kernel.Face, len(s.faces))
	for i, f := range s.faces {
		out[i] = f
	}
	return out, nil
}

// FaceCount returns the number of faces.
func (s *Solid) FaceCount() int {
	return len(s.faces)
}
