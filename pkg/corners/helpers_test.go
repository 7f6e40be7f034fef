package corners

import (
	"math"
	"testing"

	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/brep"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const float64EqualityThreshold = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func vecAlmostEqual(a, b mgl64.Vec3) bool {
	return almostEqual(a[0], b[0]) && almostEqual(a[1], b[1]) && almostEqual(a[2], b[2])
}

func mustBox(t *testing.T, name string, min, max mgl64.Vec3) *brep.Solid {
	t.Helper()
	s, err := brep.Box(name, min, max)
	if err != nil {
		t.Fatalf("brep.Box(%q) error = %v", name, err)
	}
	return s
}

// errHost stands in for a failure inside the host geometry kernel.
var errHost = errors.New("host: geometry unavailable")

// failingElement fails to produce geometry.
type failingElement struct{}

func (failingElement) Name() string { return "broken" }
func (failingElement) Geometry(kernel.Options) ([]kernel.GeometryObject, error) {
	return nil, errHost
}

// failingSolid fails to enumerate its faces.
type failingSolid struct{}

func (failingSolid) Faces() ([]kernel.Face, error) { return nil, errHost }

// failingInstance fails to produce symbol geometry.
type failingInstance struct{}

func (failingInstance) SymbolGeometry() ([]kernel.GeometryObject, error) { return nil, errHost }
func (failingInstance) Transform() kernel.Transform                      { return nil }

// failingFace fails to enumerate its loops.
type failingFace struct{}

func (failingFace) EdgeLoops() ([]kernel.EdgeLoop, error) { return nil, errHost }

// failingEdge cannot produce a curve.
type failingEdge struct{}

func (failingEdge) CurveFollowingFace(kernel.Face) (kernel.Curve, error) { return nil, errHost }

// brokenCurveEdge yields a curve with no endpoints.
type brokenCurveEdge struct{}

func (brokenCurveEdge) CurveFollowingFace(kernel.Face) (kernel.Curve, error) {
	return brokenCurve{}, nil
}

type brokenCurve struct{}

func (brokenCurve) EndPoint(int) (mgl64.Vec3, error) { return mgl64.Vec3{}, errHost }

// faceSolid is a solid made of arbitrary faces.
type faceSolid []kernel.Face

func (s faceSolid) Faces() ([]kernel.Face, error) { return s, nil }

// loopFace is a face made of arbitrary loops.
type loopFace []kernel.EdgeLoop

func (f loopFace) EdgeLoops() ([]kernel.EdgeLoop, error) { return f, nil }
