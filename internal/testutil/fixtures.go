// Package testutil provides payload and pattern builders shared by package tests.
package testutil

import (
	"testing"

	"dpcheck/internal/controls"
	"dpcheck/internal/pattern"
	"dpcheck/internal/sweep"
)

// KLine builds a raw line from two endpoints.
func KLine(x1, y1, x2, y2 float64) pattern.RawLine {
	return pattern.RawLine{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Disk builds a raw disk.
func Disk(cx, cy, r float64, i1, i2, i3 int) pattern.RawDisk {
	return pattern.RawDisk{C: [2]float64{cx, cy}, R: r, Idx: [3]int{i1, i2, i3}}
}

// Payload builds a payload whose declared counts match its lists.
func Payload(name string, klines, hlines []pattern.RawLine, disks []pattern.RawDisk) pattern.Payload {
	return pattern.Payload{
		Name: name,
		Nums: pattern.Counts{
			NKLines: len(klines),
			NDisks:  len(disks),
			NHLines: len(hlines),
		},
		KLines: klines,
		HLines: hlines,
		Disks:  disks,
	}
}

// MustPattern builds a pattern, failing the test on error.
func MustPattern(t testing.TB, p pattern.Payload) *pattern.Pattern {
	t.Helper()

	pt, err := pattern.New(p)
	if err != nil {
		t.Fatalf("pattern.New(%q) error = %v", p.Name, err)
	}
	return pt
}

// SiPayload is a small CBED-like payload for silicon with two klines, one hline and
// three disks.
func SiPayload() pattern.Payload {
	return Payload("Si",
		[]pattern.RawLine{KLine(10, 20, 30, 40), KLine(-5, 2.5, 7, 8)},
		[]pattern.RawLine{KLine(1, 1, 2, 2)},
		[]pattern.RawDisk{
			Disk(0, 0, 1.0, 0, 0, 0),
			Disk(12.5, -3, 1.0, 2, 0, 0),
			Disk(-12.5, 3, 1.0, -2, 0, 0),
		},
	)
}

// Controls returns default microscope controls with the given zone axis.
func Controls(z1, z2, z3 int) controls.EMControl {
	c := controls.Default()
	c.Zone = [3]int{z1, z2, z3}
	return c
}

// SiSweep builds a CBED sweep named "Si" with one SiPayload pattern per zone axis
// (0,0,1), (0,1,1), (1,1,1). Each modify func, if non-nil, edits the payload of the
// entry at the same position before construction.
func SiSweep(t testing.TB, modify ...func(*pattern.Payload)) *sweep.Collection[controls.EMControl] {
	t.Helper()

	s, err := sweep.New[controls.EMControl]("Si", sweep.CBED)
	if err != nil {
		t.Fatalf("sweep.New() error = %v", err)
	}
	zones := [][3]int{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}}
	for i, z := range zones {
		p := SiPayload()
		if i < len(modify) && modify[i] != nil {
			modify[i](&p)
		}
		if err := s.Add(Controls(z[0], z[1], z[2]), MustPattern(t, p)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	return s
}

// ExtraDisk appends one disk to a payload and bumps its declared count.
func ExtraDisk(p *pattern.Payload) {
	p.Disks = append(p.Disks, Disk(5, 5, 1.0, 0, 2, 0))
	p.Nums.NDisks++
}
