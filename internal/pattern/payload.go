package pattern

import (
	"fmt"
	"math"

	"dpcheck/internal/errors"
)

// Counts are the entity counts a simulation run declares alongside its lists.
type Counts struct {
	NKLines int `json:"nklines"`
	NDisks  int `json:"ndisks"`
	NHLines int `json:"nhlines"`
}

func (c Counts) String() string {
	return fmt.Sprintf("nklines=%d ndisks=%d nhlines=%d", c.NKLines, c.NDisks, c.NHLines)
}

// CountsLine describes declared counts that differ between a new run and its
// baseline.
func CountsLine(run, baseline Counts) string {
	return fmt.Sprintf("Entity counts %s in the new run, %s in the baseline", run, baseline)
}

// RawLine is one line as emitted by the simulation: two endpoints and an intensity.
type RawLine struct {
	X1        float64
	Y1        float64
	X2        float64
	Y2        float64
	Intensity float64
}

// RawDisk is one diffracted beam as emitted by the simulation.
type RawDisk struct {
	C   [2]float64
	R   float64
	Idx [3]int
}

// Payload is the raw output of one simulation run. Bounds, when non-zero, is
// subtracted from every coordinate during construction.
type Payload struct {
	Name   string
	Nums   Counts
	KLines []RawLine
	HLines []RawLine
	Disks  []RawDisk
	Bounds [2]float64
}

// validate checks declared counts and numeric sanity. It never mutates p.
func (p *Payload) validate() error {
	checks := []struct {
		category string
		declared int
		actual   int
	}{
		{"klines", p.Nums.NKLines, len(p.KLines)},
		{"disks", p.Nums.NDisks, len(p.Disks)},
		{"hlines", p.Nums.NHLines, len(p.HLines)},
	}
	for _, c := range checks {
		if c.declared != c.actual {
			return errors.Newf(errors.CountMismatch, "pattern %q declares %d %s but carries %d",
				p.Name, c.declared, c.category, c.actual).
				WithDetails(map[string]interface{}{
					"category": c.category,
					"declared": c.declared,
					"actual":   c.actual,
				})
		}
	}

	if !finite(p.Bounds[0], p.Bounds[1]) {
		return errors.Newf(errors.PayloadInvalid, "pattern %q: bounds must be finite", p.Name)
	}
	for i, l := range p.KLines {
		if !finite(l.X1, l.Y1, l.X2, l.Y2, l.Intensity) {
			return nonFinite(p.Name, "klines", i)
		}
	}
	for i, l := range p.HLines {
		if !finite(l.X1, l.Y1, l.X2, l.Y2, l.Intensity) {
			return nonFinite(p.Name, "hlines", i)
		}
	}
	for i, d := range p.Disks {
		if !finite(d.C[0], d.C[1], d.R) {
			return nonFinite(p.Name, "disks", i)
		}
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func nonFinite(name, category string, i int) error {
	return errors.New(errors.PayloadInvalid,
		fmt.Sprintf("pattern %q: %s[%d] has a non-finite value", name, category, i), nil)
}
