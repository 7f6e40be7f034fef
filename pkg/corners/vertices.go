package corners

import "github.com/go-gl/mathgl/mgl64"

// VertexCounts maps tolerance classes of points to the number of edge
// occurrences that landed in each class. The first point added to a class is
// its representative.
//
// Iteration follows encounter order; callers must not rely on it for
// anything but presentation.
type VertexCounts struct {
	cmp    Comparer
	cells  map[uint64][]int // cell hash -> indexes into points
	points []mgl64.Vec3
	counts []int
	total  int
}

// NewVertexCounts returns an empty mapping using cmp for equality.
func NewVertexCounts(cmp Comparer) *VertexCounts {
	return &VertexCounts{
		cmp:   cmp,
		cells: make(map[uint64][]int),
	}
}

// Comparer returns the comparer the mapping was built with.
func (vc *VertexCounts) Comparer() Comparer {
	return vc.cmp
}

// find returns the index of the earliest representative equal to p.
func (vc *VertexCounts) find(p mgl64.Vec3) (int, bool) {
	home := vc.cmp.cellOf(p)
	best := -1
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				k := cell{home[0] + dx, home[1] + dy, home[2] + dz}
				for _, idx := range vc.cells[hashCell(k)] {
					if best >= 0 && idx >= best {
						continue
					}
					if vc.cmp.Equal(vc.points[idx], p) {
						best = idx
					}
				}
			}
		}
	}
	return best, best >= 0
}

// Add records one occurrence of p and returns the new count of its class.
func (vc *VertexCounts) Add(p mgl64.Vec3) int {
	vc.total++
	if idx, ok := vc.find(p); ok {
		vc.counts[idx]++
		return vc.counts[idx]
	}
	idx := len(vc.points)
	vc.points = append(vc.points, p)
	vc.counts = append(vc.counts, 1)
	h := vc.cmp.Hash(p)
	vc.cells[h] = append(vc.cells[h], idx)
	return 1
}

// Count returns the count of the class p belongs to, or 0.
func (vc *VertexCounts) Count(p mgl64.Vec3) int {
	if idx, ok := vc.find(p); ok {
		return vc.counts[idx]
	}
	return 0
}

// Representative returns the stored key for the class p belongs to.
func (vc *VertexCounts) Representative(p mgl64.Vec3) (mgl64.Vec3, bool) {
	if idx, ok := vc.find(p); ok {
		return vc.points[idx], true
	}
	return mgl64.Vec3{}, false
}

// Len returns the number of distinct keys.
func (vc *VertexCounts) Len() int {
	return len(vc.points)
}

// Total returns the number of occurrences added.
func (vc *VertexCounts) Total() int {
	return vc.total
}

// Points returns the keys in encounter order.
func (vc *VertexCounts) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(vc.points))
	copy(out, vc.points)
	return out
}

// Each calls fn for every key and its count in encounter order.
func (vc *VertexCounts) Each(fn func(p mgl64.Vec3, count int)) {
	for i, p := range vc.points {
		fn(p, vc.counts[i])
	}
}
