package document

import (
	"slices"
	"strings"

	"dpcheck/internal/controls"
)

var controlKeys = []string{"zone", "tilt", "defl", "cl", "vt"}

// DecodeControls reads microscope controls from a document table. Absent keys keep
// their controls.Default value; unknown keys are rejected.
func DecodeControls(doc map[string]any) (controls.EMControl, error) {
	c := controls.Default()
	for k := range doc {
		if !slices.Contains(controlKeys, k) {
			return c, invalid("controls."+k, "unknown key (want one of %s)", strings.Join(controlKeys, ", "))
		}
	}

	if v, ok := doc["zone"]; ok {
		z, err := ints("controls.zone", v, 3)
		if err != nil {
			return c, err
		}
		c.Zone = [3]int{z[0], z[1], z[2]}
	}
	if v, ok := doc["tilt"]; ok {
		t, err := floats("controls.tilt", v, 2)
		if err != nil {
			return c, err
		}
		c.Tilt = [2]float64{t[0], t[1]}
	}
	if v, ok := doc["defl"]; ok {
		d, err := floats("controls.defl", v, 2)
		if err != nil {
			return c, err
		}
		c.Defl = [2]float64{d[0], d[1]}
	}
	if v, ok := doc["cl"]; ok {
		n, ok := asInt(v)
		if !ok || n <= 0 {
			return c, invalid("controls.cl", "want a positive camera length, got %v", v)
		}
		c.CameraLength = n
	}
	if v, ok := doc["vt"]; ok {
		n, ok := asInt(v)
		if !ok || n <= 0 {
			return c, invalid("controls.vt", "want a positive voltage, got %v", v)
		}
		c.Voltage = n
	}
	return c, nil
}
