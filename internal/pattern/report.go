package pattern

import (
	"fmt"
)

// DiffLines renders the entities only the new run holds (added) and those only
// the baseline holds (removed), klines first, then hlines, then disks. Each entity
// is indented three spaces under a counted header.
func DiffLines(added, removed Diff) []string {
	var lines []string
	lines = appendSection(lines, "klines", added.KLines, removed.KLines)
	lines = appendSection(lines, "hlines", added.HLines, removed.HLines)
	lines = appendSection(lines, "disks", added.Disks, removed.Disks)
	return lines
}

func appendSection[T fmt.Stringer](lines []string, category string, added, removed []T) []string {
	if len(added) > 0 {
		lines = append(lines, fmt.Sprintf("%d %s in the new run, not in the baseline:", len(added), category))
		for _, v := range added {
			lines = append(lines, "   "+v.String())
		}
	}
	if len(removed) > 0 {
		lines = append(lines, fmt.Sprintf("%d %s in the baseline, not in the new run:", len(removed), category))
		for _, v := range removed {
			lines = append(lines, "   "+v.String())
		}
	}
	return lines
}

// ReportDifference describes how p, the new run, differs from baseline. It returns
// nil when the patterns are equal. Patterns whose entities all match but whose
// declared counts differ, such as two near-identical lines against one, are
// reported by their counts.
func (p *Pattern) ReportDifference(baseline *Pattern) []string {
	if p.Equal(baseline) {
		return nil
	}
	switch {
	case baseline == nil:
		return append([]string{"No pattern in the baseline"}, DiffLines(p.Difference(nil), Diff{})...)
	case p == nil:
		return append([]string{"No pattern in the new run"}, DiffLines(Diff{}, baseline.Difference(nil))...)
	}

	var lines []string
	if p.name != baseline.name {
		lines = append(lines, fmt.Sprintf("Crystal name %q in the new run, %q in the baseline", p.name, baseline.name))
	}
	added, removed := p.Difference(baseline), baseline.Difference(p)
	if added.Empty() && removed.Empty() && p.counts != baseline.counts {
		lines = append(lines, CountsLine(p.counts, baseline.counts))
	}
	return append(lines, DiffLines(added, removed)...)
}
