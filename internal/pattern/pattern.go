package pattern

import (
	"fmt"
	"slices"
	"strings"
)

// Pattern is one simulation observation. It is immutable after New.
type Pattern struct {
	name   string
	counts Counts
	klines []Line
	hlines []Line
	disks  []Disk
}

// Diff holds the entities of one pattern that have no equal in another,
// per category.
type Diff struct {
	KLines []Line `json:"klines"`
	HLines []Line `json:"hlines"`
	Disks  []Disk `json:"disks"`
}

// Empty reports whether no category holds an entity.
func (d Diff) Empty() bool {
	return len(d.KLines) == 0 && len(d.HLines) == 0 && len(d.Disks) == 0
}

// Len returns the total number of entities across categories.
func (d Diff) Len() int {
	return len(d.KLines) + len(d.HLines) + len(d.Disks)
}

// New builds a Pattern from a raw payload. Lines and disks are mapped to typed
// entities, shifted by the payload bounds, and sorted once. A payload whose
// declared counts disagree with its lists is rejected.
func New(payload Payload) (*Pattern, error) {
	if err := payload.validate(); err != nil {
		return nil, err
	}

	shift := NewPoint(payload.Bounds[0], payload.Bounds[1])
	p := &Pattern{
		name:   payload.Name,
		counts: payload.Nums,
		klines: buildLines(payload.KLines, Kinematic, shift),
		hlines: buildLines(payload.HLines, HOLZ, shift),
		disks:  make([]Disk, 0, len(payload.Disks)),
	}

	for _, d := range payload.Disks {
		center := NewPoint(d.C[0], d.C[1]).Sub(shift)
		p.disks = append(p.disks, NewDisk(center, d.R, NewIndex(d.Idx[0], d.Idx[1], d.Idx[2])))
	}
	slices.SortStableFunc(p.disks, Disk.Compare)

	return p, nil
}

func buildLines(raw []RawLine, kind LineKind, shift Point) []Line {
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, Line{
			P1:        NewPoint(r.X1, r.Y1).Sub(shift),
			P2:        NewPoint(r.X2, r.Y2).Sub(shift),
			Kind:      kind,
			Intensity: r.Intensity,
		})
	}
	slices.SortStableFunc(lines, Line.order)
	return lines
}

// Name returns the crystal name the pattern was simulated for.
func (p *Pattern) Name() string { return p.name }

// Counts returns the declared entity counts.
func (p *Pattern) Counts() Counts { return p.counts }

// KLines returns a copy of the sorted kinematic lines.
func (p *Pattern) KLines() []Line { return slices.Clone(p.klines) }

// HLines returns a copy of the sorted HOLZ lines.
func (p *Pattern) HLines() []Line { return slices.Clone(p.hlines) }

// Disks returns a copy of the sorted disks.
func (p *Pattern) Disks() []Disk { return slices.Clone(p.disks) }

// ContainsLine reports whether the list matching l's kind holds a line equal to l.
// Tolerant equality is not hash-stable, so this is a linear scan.
func (p *Pattern) ContainsLine(l Line) bool {
	if p == nil {
		return false
	}
	list := p.klines
	if l.Kind == HOLZ {
		list = p.hlines
	}
	return slices.ContainsFunc(list, l.Equal)
}

// ContainsDisk reports whether the pattern holds a disk equal to d.
func (p *Pattern) ContainsDisk(d Disk) bool {
	if p == nil {
		return false
	}
	return slices.ContainsFunc(p.disks, d.Equal)
}

// Difference returns the entities of p that have no equal in other (p − other).
// Call it in both directions for a symmetric difference. A nil other holds nothing,
// so every entity of p is returned; a nil p yields an empty Diff.
func (p *Pattern) Difference(other *Pattern) Diff {
	diff := Diff{
		KLines: make([]Line, 0),
		HLines: make([]Line, 0),
		Disks:  make([]Disk, 0),
	}
	if p == nil {
		return diff
	}
	for _, l := range p.klines {
		if !other.ContainsLine(l) {
			diff.KLines = append(diff.KLines, l)
		}
	}
	for _, l := range p.hlines {
		if !other.ContainsLine(l) {
			diff.HLines = append(diff.HLines, l)
		}
	}
	for _, d := range p.disks {
		if !other.ContainsDisk(d) {
			diff.Disks = append(diff.Disks, d)
		}
	}
	return diff
}

// Equal reports whether both patterns share name and counts and neither holds an
// entity the other lacks. Stored order plays no part.
func (p *Pattern) Equal(other *Pattern) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.name != other.name || p.counts != other.counts {
		return false
	}
	if len(p.klines) != len(other.klines) ||
		len(p.hlines) != len(other.hlines) ||
		len(p.disks) != len(other.disks) {
		return false
	}
	return p.Difference(other).Empty() && other.Difference(p).Empty()
}

// Payload converts the pattern back to its raw form. Coordinates are already
// shifted, so the returned bounds are zero.
func (p *Pattern) Payload() Payload {
	out := Payload{
		Name:   p.name,
		Nums:   p.counts,
		KLines: rawLines(p.klines),
		HLines: rawLines(p.hlines),
		Disks:  make([]RawDisk, 0, len(p.disks)),
	}
	for _, d := range p.disks {
		out.Disks = append(out.Disks, RawDisk{
			C:   [2]float64{d.Center.X, d.Center.Y},
			R:   d.Radius,
			Idx: [3]int{d.Index.I1, d.Index.I2, d.Index.I3},
		})
	}
	return out
}

func rawLines(lines []Line) []RawLine {
	out := make([]RawLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, RawLine{X1: l.P1.X, Y1: l.P1.Y, X2: l.P2.X, Y2: l.P2.Y, Intensity: l.Intensity})
	}
	return out
}

// String renders the three sorted lists, numbered from 1.
func (p *Pattern) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# of Kikuchi lines (kline): %d\n", p.counts.NKLines)
	for i, l := range p.klines {
		fmt.Fprintf(&b, "%-10s%s\n", fmt.Sprintf("kline# %d:", i+1), l)
	}

	fmt.Fprintf(&b, "\n# of diffracted beams (disk, index = Miller Index): %d\n", p.counts.NDisks)
	for i, d := range p.disks {
		fmt.Fprintf(&b, "%-10s%s\n", fmt.Sprintf("disk# %d:", i+1), d)
	}

	fmt.Fprintf(&b, "\n# of HOLZ lines (hline): %d", p.counts.NHLines)
	for i, l := range p.hlines {
		fmt.Fprintf(&b, "\n%-10s%s", fmt.Sprintf("hline# %d:", i+1), l)
	}

	return b.String()
}
