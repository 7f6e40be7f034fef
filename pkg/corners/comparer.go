package corners

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTolerance is one sixteenth of an inch expressed in feet, the base
// length unit of the model.
const DefaultTolerance = 1.0 / 192

// Comparer decides when two points are the same corner. Two points are equal
// when they differ by less than the tolerance on every axis.
//
// The zero value uses DefaultTolerance.
type Comparer struct {
	tol float64
}

// NewComparer returns a comparer with the given absolute tolerance.
func NewComparer(tol float64) (Comparer, error) {
	if !(tol > 0) || math.IsInf(tol, 0) {
		return Comparer{}, ErrInvalidTolerance
	}
	return Comparer{tol: tol}, nil
}

// Tolerance returns the absolute tolerance in model units.
func (c Comparer) Tolerance() float64 {
	if c.tol == 0 {
		return DefaultTolerance
	}
	return c.tol
}

// Equal reports whether p and q are within tolerance of each other.
func (c Comparer) Equal(p, q mgl64.Vec3) bool {
	tol := c.Tolerance()
	for i := 0; i < 3; i++ {
		if !(math.Abs(p[i]-q[i]) < tol) {
			return false
		}
	}
	return true
}

// cell is a grid cell whose side is the tolerance.
type cell [3]int64

func (c Comparer) cellOf(p mgl64.Vec3) cell {
	tol := c.Tolerance()
	return cell{
		int64(math.Floor(p[0] / tol)),
		int64(math.Floor(p[1] / tol)),
		int64(math.Floor(p[2] / tol)),
	}
}

func hashCell(k cell) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range k {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Hash returns the hash of the grid cell containing p. Points that compare
// Equal always fall in the same or an adjacent cell, so a lookup that probes
// the neighbouring cells never misses a match.
func (c Comparer) Hash(p mgl64.Vec3) uint64 {
	return hashCell(c.cellOf(p))
}

// Key renders p rounded to two decimals in model units.
func (c Comparer) Key(p mgl64.Vec3) string {
	return FormatPoint(p)
}
