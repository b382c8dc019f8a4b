package pattern

import (
	"cmp"
	"fmt"
)

// Index is the Miller index (h, k, l) of a diffracted beam.
type Index struct {
	I1 int `json:"i1"`
	I2 int `json:"i2"`
	I3 int `json:"i3"`
}

// NewIndex creates a new Index.
func NewIndex(i1, i2, i3 int) Index {
	return Index{I1: i1, I2: i2, I3: i3}
}

// Equal reports exact equality.
func (i Index) Equal(other Index) bool {
	return i == other
}

// Compare orders indexes lexicographically.
func (i Index) Compare(other Index) int {
	if c := cmp.Compare(i.I1, other.I1); c != 0 {
		return c
	}
	if c := cmp.Compare(i.I2, other.I2); c != 0 {
		return c
	}
	return cmp.Compare(i.I3, other.I3)
}

func (i Index) String() string {
	return fmt.Sprintf("(%d, %d, %d)", i.I1, i.I2, i.I3)
}
