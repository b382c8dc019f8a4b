package pattern

import (
	"cmp"

	"dpcheck/internal/output"
)

// Disk is a diffracted-beam spot.
type Disk struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Index  Index   `json:"index"`
}

// NewDisk creates a new Disk.
func NewDisk(center Point, radius float64, index Index) Disk {
	return Disk{Center: center, Radius: radius, Index: index}
}

// Equal requires an identical index, an identical radius and centers within Tolerance.
// The radius is compared exactly, unlike the center.
func (d Disk) Equal(other Disk) bool {
	if !d.Index.Equal(other.Index) || d.Radius != other.Radius {
		return false
	}
	return d.Center.Equal(other.Center)
}

// Compare orders disks by index, then center, then radius.
func (d Disk) Compare(other Disk) int {
	if c := d.Index.Compare(other.Index); c != 0 {
		return c
	}
	if c := d.Center.Compare(other.Center); c != 0 {
		return c
	}
	return cmp.Compare(d.Radius, other.Radius)
}

func (d Disk) String() string {
	return "index: " + d.Index.String() +
		" center: " + d.Center.String() +
		" radius: " + output.FormatExact(d.Radius)
}
