package brep

import (
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Compile-time interface checks.
var (
	_ kernel.Curve = (*Line)(nil)
	_ kernel.Curve = (*Arc)(nil)
)

// Curve is a bounded curve that can report its reverse.
type Curve interface {
	kernel.Curve
	Reversed() Curve
}

// Line is a straight segment from Start to End.
type Line struct {
	Start, End mgl64.Vec3
}

// EndPoint returns Start for index 0 and End for index 1.
func (l *Line) EndPoint(index int) (mgl64.Vec3, error) {
	switch index {
	case 0:
		return l.Start, nil
	case 1:
		return l.End, nil
	}
	return mgl64.Vec3{}, errors.Errorf("brep: line endpoint index %d out of range", index)
}

// Reversed returns the segment traversed from End to Start.
func (l *Line) Reversed() Curve {
	return &Line{Start: l.End, End: l.Start}
}

// Arc is a circular arc about Center from Start to End. A full circle is
// always built from two arcs so every edge has distinct endpoints.
type Arc struct {
	Center     mgl64.Vec3
	Start, End mgl64.Vec3
}

// EndPoint returns Start for index 0 and End for index 1.
func (a *Arc) EndPoint(index int) (mgl64.Vec3, error) {
	switch index {
	case 0:
		return a.Start, nil
	case 1:
		return a.End, nil
	}
	return mgl64.Vec3{}, errors.Errorf("brep: arc endpoint index %d out of range", index)
}

// Reversed returns the same arc traversed from End to Start.
func (a *Arc) Reversed() Curve {
	return &Arc{Center: a.Center, Start: a.End, End: a.Start}
}

// Radius returns the distance from Center to Start.
func (a *Arc) Radius() float64 {
	return a.Start.Sub(a.Center).Len()
}
