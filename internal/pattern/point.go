package pattern

import (
	"cmp"

	"gonum.org/v1/gonum/floats/scalar"

	"dpcheck/internal/output"
)

// Tolerance is the absolute per-axis tolerance used by Point.Equal.
const Tolerance = 0.95

// Point is a 2D coordinate in a simulated pattern.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint creates a new Point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Equal reports whether both coordinates are within Tolerance of other's.
func (p Point) Equal(other Point) bool {
	return scalar.EqualWithinAbs(p.X, other.X, Tolerance) &&
		scalar.EqualWithinAbs(p.Y, other.Y, Tolerance)
}

// Compare orders points by x, then y, using exact comparison.
// Two points may be Equal and still compare non-zero.
func (p Point) Compare(other Point) int {
	if c := cmp.Compare(p.X, other.X); c != 0 {
		return c
	}
	return cmp.Compare(p.Y, other.Y)
}

// Sub returns p shifted by -other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Point) String() string {
	return "(" + output.FormatExact(p.X) + ", " + output.FormatExact(p.Y) + ")"
}
