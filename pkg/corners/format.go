package corners

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// FormatLength renders a length with two decimals. Negative zero is printed
// as zero.
func FormatLength(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// FormatPoint renders p as "(x, y, z)" with two decimals per coordinate.
func FormatPoint(p mgl64.Vec3) string {
	return "(" + FormatLength(p[0]) + ", " + FormatLength(p[1]) + ", " + FormatLength(p[2]) + ")"
}
