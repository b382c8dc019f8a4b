package pattern

import (
	"dpcheck/internal/errors"
	"dpcheck/internal/output"
)

// LineKind distinguishes kinematic (Kikuchi) lines from HOLZ lines.
type LineKind int

const (
	// Kinematic is a first-order Kikuchi line.
	Kinematic LineKind = 1
	// HOLZ is a higher-order Laue-zone line, produced in CBED mode only.
	HOLZ LineKind = 2
)

func (k LineKind) String() string {
	switch k {
	case Kinematic:
		return "kline"
	case HOLZ:
		return "hline"
	default:
		return "unknown"
	}
}

// Valid reports whether k is a known kind.
func (k LineKind) Valid() bool {
	return k == Kinematic || k == HOLZ
}

// ErrIncomparable is matched (via errors.Is) by every error reporting that two values
// have no defined order, such as lines of different kinds.
var ErrIncomparable = errors.New(errors.Incomparable, "values have no defined order", nil)

// Line is an undirected segment between two points.
// Intensity is informational and takes no part in equality or ordering.
type Line struct {
	P1        Point    `json:"p1"`
	P2        Point    `json:"p2"`
	Kind      LineKind `json:"kind"`
	Intensity float64  `json:"intensity,omitempty"`
}

// NewLine creates a line of the given kind with zero intensity.
func NewLine(p1, p2 Point, kind LineKind) Line {
	return Line{P1: p1, P2: p2, Kind: kind}
}

// Equal reports whether both lines have the same kind and the same endpoints in
// either orientation.
func (l Line) Equal(other Line) bool {
	if l.Kind != other.Kind {
		return false
	}
	return (l.P1.Equal(other.P1) && l.P2.Equal(other.P2)) ||
		(l.P1.Equal(other.P2) && l.P2.Equal(other.P1))
}

// Compare orders lines of the same kind by (P1, P2).
// Lines of different kinds are incomparable.
func (l Line) Compare(other Line) (int, error) {
	if l.Kind != other.Kind {
		return 0, errors.Newf(errors.Incomparable, "cannot order %s against %s", l.Kind, other.Kind)
	}
	return l.order(other), nil
}

// order compares endpoints only; callers guarantee equal kinds.
func (l Line) order(other Line) int {
	if c := l.P1.Compare(other.P1); c != 0 {
		return c
	}
	return l.P2.Compare(other.P2)
}

func (l Line) String() string {
	s := "[" + l.P1.String() + ", " + l.P2.String() + "]"
	if l.Intensity != 0 {
		s += ", intensity: " + output.FormatExact(l.Intensity)
	}
	return s
}
