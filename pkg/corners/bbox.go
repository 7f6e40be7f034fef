package corners

import (
	"fmt"
	"math"

	"github.com/ezhangle/SetoutPoints/pkg/geom"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBoxInfo describes the box enclosing a set of corners. Extents are
// measured in the local frame of the corners; only the center is mapped into
// the output frame. Under rotation or non-uniform scale the half-extents are
// therefore not the extents of the transformed box.
type BoundingBoxInfo struct {
	center   mgl64.Vec3
	half     mgl64.Vec3
	localMin mgl64.Vec3
	localMax mgl64.Vec3
}

// Center returns the box center in the output frame.
func (b BoundingBoxInfo) Center() mgl64.Vec3 { return b.center }

// HalfWidth returns half the local X extent.
func (b BoundingBoxInfo) HalfWidth() float64 { return b.half[0] }

// HalfDepth returns half the local Y extent.
func (b BoundingBoxInfo) HalfDepth() float64 { return b.half[1] }

// HalfHeight returns half the local Z extent.
func (b BoundingBoxInfo) HalfHeight() float64 { return b.half[2] }

// HalfExtents returns (HalfWidth, HalfDepth, HalfHeight).
func (b BoundingBoxInfo) HalfExtents() mgl64.Vec3 { return b.half }

// LocalMin returns the componentwise minimum in the local frame.
func (b BoundingBoxInfo) LocalMin() mgl64.Vec3 { return b.localMin }

// LocalMax returns the componentwise maximum in the local frame.
func (b BoundingBoxInfo) LocalMax() mgl64.Vec3 { return b.localMax }

func (b BoundingBoxInfo) String() string {
	return fmt.Sprintf("center %s half-extents %s",
		FormatPoint(b.center), FormatPoint(b.half))
}

// ComputeBoundingBox scans the keys of vc for their local min and max,
// takes the midpoint as the local center and maps only that center through
// xf. Counts are ignored. A nil xf is treated as the identity.
func ComputeBoundingBox(vc *VertexCounts, xf kernel.Transform) (BoundingBoxInfo, error) {
	if vc == nil || vc.Len() == 0 {
		return BoundingBoxInfo{}, ErrNoVertices
	}
	if xf == nil {
		xf = geom.Identity()
	}

	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	vc.Each(func(p mgl64.Vec3, _ int) {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	})

	local := min.Add(max).Mul(0.5)
	return BoundingBoxInfo{
		center:   xf.Apply(local),
		half:     max.Sub(min).Mul(0.5),
		localMin: min,
		localMax: max,
	}, nil
}
