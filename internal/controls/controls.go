// Package controls defines the microscope settings a pattern was simulated under.
// Sweeps use EMControl as their comparison key.
package controls

import (
	"cmp"
	"fmt"

	"dpcheck/internal/output"
)

// EMControl holds the microscope and simulation controls of one run.
type EMControl struct {
	Zone         [3]int     `json:"zone"`
	Tilt         [2]float64 `json:"tilt"`
	Defl         [2]float64 `json:"defl"`
	CameraLength int        `json:"cl"`
	Voltage      int        `json:"vt"`
}

// Default returns zone (0,0,1), no tilt or deflection, 1000 mm camera length, 200 kV.
func Default() EMControl {
	return EMControl{
		Zone:         [3]int{0, 0, 1},
		CameraLength: 1000,
		Voltage:      200,
	}
}

// Equal reports field-wise exact equality.
func (c EMControl) Equal(other EMControl) bool {
	return c == other
}

// Compare orders controls by zone, tilt, deflection, camera length, then voltage.
func (c EMControl) Compare(other EMControl) int {
	for i := range c.Zone {
		if r := cmp.Compare(c.Zone[i], other.Zone[i]); r != 0 {
			return r
		}
	}
	for i := range c.Tilt {
		if r := cmp.Compare(c.Tilt[i], other.Tilt[i]); r != 0 {
			return r
		}
	}
	for i := range c.Defl {
		if r := cmp.Compare(c.Defl[i], other.Defl[i]); r != 0 {
			return r
		}
	}
	if r := cmp.Compare(c.CameraLength, other.CameraLength); r != 0 {
		return r
	}
	return cmp.Compare(c.Voltage, other.Voltage)
}

func (c EMControl) String() string {
	return fmt.Sprintf("zone=(%d, %d, %d) tilt=(%s, %s) defl=(%s, %s) cl=%d vt=%d",
		c.Zone[0], c.Zone[1], c.Zone[2],
		output.FormatExact(c.Tilt[0]), output.FormatExact(c.Tilt[1]),
		output.FormatExact(c.Defl[0]), output.FormatExact(c.Defl[1]),
		c.CameraLength, c.Voltage)
}

// ToMap returns the document form of the controls.
func (c EMControl) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"zone": []interface{}{c.Zone[0], c.Zone[1], c.Zone[2]},
		"tilt": []interface{}{c.Tilt[0], c.Tilt[1]},
		"defl": []interface{}{c.Defl[0], c.Defl[1]},
		"cl":   c.CameraLength,
		"vt":   c.Voltage,
	}
}
