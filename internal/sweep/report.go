package sweep

import (
	"fmt"

	"dpcheck/internal/pattern"
)

// EntryStatus classifies one control's part of a sweep difference.
type EntryStatus string

const (
	// Changed means both sweeps hold the controls but their patterns differ.
	Changed EntryStatus = "changed"
	// MissingInBaseline means only the new run holds the controls.
	MissingInBaseline EntryStatus = "missing-in-baseline"
	// MissingInRun means only the baseline holds the controls.
	MissingInRun EntryStatus = "missing-in-run"
)

// EntryDiff is the difference for one controls key. Added holds entities of the new
// run with no equal in the baseline; Removed holds the reverse.
type EntryDiff[K Key[K]] struct {
	Controls K            `json:"controls"`
	Status   EntryStatus  `json:"status"`
	Added    pattern.Diff `json:"added"`
	Removed  pattern.Diff `json:"removed"`
	// Set only when the two patterns disagree on crystal name.
	RunPatternName      string `json:"runPatternName,omitempty"`
	BaselinePatternName string `json:"baselinePatternName,omitempty"`
	// Set only when every entity matches but the declared counts differ.
	RunCounts      *pattern.Counts `json:"runCounts,omitempty"`
	BaselineCounts *pattern.Counts `json:"baselineCounts,omitempty"`
}

// Report is the structured difference between a new run and its baseline.
type Report[K Key[K]] struct {
	Name         string         `json:"name"`
	Mode         Mode           `json:"mode"`
	BaselineName string         `json:"baselineName"`
	BaselineMode Mode           `json:"baselineMode"`
	Incomparable bool           `json:"incomparable"`
	NameMismatch bool           `json:"nameMismatch"`
	Entries      []EntryDiff[K] `json:"entries"`
}

// Empty reports whether the two sweeps were found equal.
func (r Report[K]) Empty() bool {
	return !r.Incomparable && !r.NameMismatch && len(r.Entries) == 0
}

// Diff compares c, the new run, against baseline. Every mismatched control
// contributes its own entry, in the new run's order, followed by controls that only
// the baseline holds. Sweeps of different modes are Incomparable; sweeps of
// different names set NameMismatch. Either way no entries are compared. A nil
// collection on either side is treated as empty.
func (c *Collection[K]) Diff(baseline *Collection[K]) Report[K] {
	switch {
	case c == nil && baseline == nil:
		return Report[K]{Entries: make([]EntryDiff[K], 0)}
	case c == nil:
		c = &Collection[K]{name: baseline.name, mode: baseline.mode}
	case baseline == nil:
		baseline = &Collection[K]{name: c.name, mode: c.mode}
	}

	r := Report[K]{
		Name:         c.name,
		Mode:         c.mode,
		BaselineName: baseline.name,
		BaselineMode: baseline.mode,
		Entries:      make([]EntryDiff[K], 0),
	}
	r.Incomparable = c.mode != baseline.mode
	r.NameMismatch = c.name != baseline.name
	if r.Incomparable || r.NameMismatch {
		return r
	}

	for _, e := range c.entries {
		bp, ok := baseline.Find(e.Controls)
		if !ok {
			r.Entries = append(r.Entries, EntryDiff[K]{
				Controls: e.Controls,
				Status:   MissingInBaseline,
				Added:    whole(e.Pattern),
				Removed:  whole(nil),
			})
			continue
		}
		if e.Pattern.Equal(bp) {
			continue
		}
		d := EntryDiff[K]{
			Controls: e.Controls,
			Status:   Changed,
			Added:    e.Pattern.Difference(bp),
			Removed:  bp.Difference(e.Pattern),
		}
		if e.Pattern.Name() != bp.Name() {
			d.RunPatternName, d.BaselinePatternName = e.Pattern.Name(), bp.Name()
		}
		if rc, bc := e.Pattern.Counts(), bp.Counts(); rc != bc && d.Added.Empty() && d.Removed.Empty() {
			d.RunCounts, d.BaselineCounts = &rc, &bc
		}
		r.Entries = append(r.Entries, d)
	}

	for _, be := range baseline.entries {
		if _, ok := c.find(be.Controls); ok {
			continue
		}
		r.Entries = append(r.Entries, EntryDiff[K]{
			Controls: be.Controls,
			Status:   MissingInRun,
			Added:    whole(nil),
			Removed:  whole(be.Pattern),
		})
	}
	return r
}

// whole returns every entity of p as a Diff; a nil p yields an empty one.
func whole(p *pattern.Pattern) pattern.Diff {
	d := pattern.Diff{
		KLines: make([]pattern.Line, 0),
		HLines: make([]pattern.Line, 0),
		Disks:  make([]pattern.Disk, 0),
	}
	if p != nil {
		d.KLines = append(d.KLines, p.KLines()...)
		d.HLines = append(d.HLines, p.HLines()...)
		d.Disks = append(d.Disks, p.Disks()...)
	}
	return d
}

// ReportDifference renders Diff as console lines. It returns nil when the sweeps are
// equal and a single line when their name or mode differ.
func (c *Collection[K]) ReportDifference(baseline *Collection[K]) []string {
	return c.Diff(baseline).Lines()
}

// Lines renders the report. Each entry becomes a block headed by its controls.
func (r Report[K]) Lines() []string {
	if r.Incomparable || r.NameMismatch {
		return []string{fmt.Sprintf("Sweeps are generated in different mode/name: new run %q (%s), baseline %q (%s)",
			r.Name, r.Mode, r.BaselineName, r.BaselineMode)}
	}
	if len(r.Entries) == 0 {
		return nil
	}

	var lines []string
	for _, e := range r.Entries {
		lines = append(lines, fmt.Sprintf("Control parameters: %v", e.Controls))
		switch e.Status {
		case MissingInBaseline:
			lines = append(lines, "Controls in the new run, not in the baseline")
		case MissingInRun:
			lines = append(lines, "Controls in the baseline, not in the new run")
		}
		if e.RunPatternName != e.BaselinePatternName {
			lines = append(lines, fmt.Sprintf("Crystal name %q in the new run, %q in the baseline",
				e.RunPatternName, e.BaselinePatternName))
		}
		if e.RunCounts != nil && e.BaselineCounts != nil {
			lines = append(lines, pattern.CountsLine(*e.RunCounts, *e.BaselineCounts))
		}
		lines = append(lines, pattern.DiffLines(e.Added, e.Removed)...)
	}
	return lines
}
