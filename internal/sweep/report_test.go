package sweep_test

import (
	"reflect"
	"testing"

	"dpcheck/internal/controls"
	"dpcheck/internal/pattern"
	"dpcheck/internal/sweep"
	"dpcheck/internal/testutil"
)

func TestReportDifference_ExtraDisk(t *testing.T) {
	c1, c2 := testutil.Controls(0, 0, 1), testutil.Controls(1, 1, 1)
	p1 := testutil.MustPattern(t, testutil.SiPayload())
	p2 := testutil.MustPattern(t, testutil.SiPayload())

	baseline := newSweep(t, "Si", sweep.CBED, entry(c1, p1), entry(c2, p2))
	run := newSweep(t, "Si", sweep.CBED, entry(c1, p1), entry(c2, siWithExtraDisk(t)))

	if run.Equal(baseline) {
		t.Fatal("Equal() = true, want false")
	}
	want := []string{
		"Control parameters: zone=(1, 1, 1) tilt=(0, 0) defl=(0, 0) cl=1000 vt=200",
		"1 disks in the new run, not in the baseline:",
		"   index: (0, 2, 0) center: (5, 5) radius: 1",
	}
	if got := run.ReportDifference(baseline); !reflect.DeepEqual(got, want) {
		t.Errorf("ReportDifference() =\n%q\nwant\n%q", got, want)
	}

	// Swapping roles swaps the direction labels.
	want[1] = "1 disks in the baseline, not in the new run:"
	if got := baseline.ReportDifference(run); !reflect.DeepEqual(got, want) {
		t.Errorf("baseline.ReportDifference(run) =\n%q\nwant\n%q", got, want)
	}
}

func TestReportDifference_AccumulatesEveryMismatch(t *testing.T) {
	c1, c2, c3 := testutil.Controls(0, 0, 1), testutil.Controls(1, 1, 1), testutil.Controls(1, 1, 0)
	si := testutil.MustPattern(t, testutil.SiPayload())

	baseline := newSweep(t, "Si", sweep.CBED, entry(c1, si), entry(c2, si), entry(c3, si))
	run := newSweep(t, "Si", sweep.CBED, entry(c1, siWithMovedKLine(t)), entry(c2, si), entry(c3, siWithExtraDisk(t)))

	want := []string{
		"Control parameters: zone=(0, 0, 1) tilt=(0, 0) defl=(0, 0) cl=1000 vt=200",
		"1 klines in the new run, not in the baseline:",
		"   [(10, 20), (30, 45)]",
		"1 klines in the baseline, not in the new run:",
		"   [(10, 20), (30, 40)]",
		"Control parameters: zone=(1, 1, 0) tilt=(0, 0) defl=(0, 0) cl=1000 vt=200",
		"1 disks in the new run, not in the baseline:",
		"   index: (0, 2, 0) center: (5, 5) radius: 1",
	}
	if got := run.ReportDifference(baseline); !reflect.DeepEqual(got, want) {
		t.Errorf("ReportDifference() =\n%q\nwant\n%q", got, want)
	}

	r := run.Diff(baseline)
	if len(r.Entries) != 2 {
		t.Fatalf("len(Diff().Entries) = %d, want 2", len(r.Entries))
	}
	for _, e := range r.Entries {
		if e.Status != sweep.Changed {
			t.Errorf("Entries[%v].Status = %v, want %v", e.Controls, e.Status, sweep.Changed)
		}
	}
}

func TestReportDifference_NameOrModeMismatch(t *testing.T) {
	p := testutil.MustPattern(t, testutil.SiPayload())
	run := newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), p))

	tests := []struct {
		name             string
		baseline         *sweep.Collection[controls.EMControl]
		wantIncomparable bool
		wantNameMismatch bool
	}{
		{"name", newSweep(t, "Ge", sweep.CBED, entry(testutil.Controls(0, 0, 1), p)), false, true},
		{"mode", newSweep(t, "Si", sweep.Normal), true, false},
		{"both", newSweep(t, "Ge", sweep.Normal), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run.ReportDifference(tt.baseline); len(got) != 1 {
				t.Fatalf("ReportDifference() = %q, want a single line", got)
			}
			r := run.Diff(tt.baseline)
			if r.Incomparable != tt.wantIncomparable || r.NameMismatch != tt.wantNameMismatch {
				t.Errorf("Diff() Incomparable = %v, NameMismatch = %v, want %v, %v",
					r.Incomparable, r.NameMismatch, tt.wantIncomparable, tt.wantNameMismatch)
			}
			if r.Empty() {
				t.Error("Diff().Empty() = true, want false")
			}
			_, err := run.Compare(tt.baseline)
			if (err != nil) != tt.wantIncomparable {
				t.Errorf("Compare() error = %v, want incomparable %v", err, tt.wantIncomparable)
			}
		})
	}
}

func TestReportDifference_CountsOnly(t *testing.T) {
	c := testutil.Controls(0, 0, 1)
	two := testutil.MustPattern(t, testutil.Payload("Si",
		[]pattern.RawLine{testutil.KLine(0, 0, 10, 10), testutil.KLine(0.1, 0, 10, 10)}, nil, nil))
	one := testutil.MustPattern(t, testutil.Payload("Si",
		[]pattern.RawLine{testutil.KLine(0, 0, 10, 10)}, nil, nil))

	run := newSweep(t, "Si", sweep.CBED, entry(c, two))
	baseline := newSweep(t, "Si", sweep.CBED, entry(c, one))

	r := run.Diff(baseline)
	if len(r.Entries) != 1 || r.Entries[0].RunCounts == nil || r.Entries[0].BaselineCounts == nil {
		t.Fatalf("Diff().Entries = %+v, want one entry with counts", r.Entries)
	}
	want := []string{
		"Control parameters: zone=(0, 0, 1) tilt=(0, 0) defl=(0, 0) cl=1000 vt=200",
		"Entity counts nklines=2 ndisks=0 nhlines=0 in the new run, nklines=1 ndisks=0 nhlines=0 in the baseline",
	}
	if got := r.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() =\n%q\nwant\n%q", got, want)
	}
}

func TestDiff_NilCollections(t *testing.T) {
	si := testutil.MustPattern(t, testutil.SiPayload())
	run := newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), si))
	var missing *sweep.Collection[controls.EMControl]

	r := run.Diff(missing)
	if len(r.Entries) != 1 || r.Entries[0].Status != sweep.MissingInBaseline {
		t.Errorf("Diff(nil).Entries = %+v, want one missing-in-baseline entry", r.Entries)
	}
	r = missing.Diff(run)
	if len(r.Entries) != 1 || r.Entries[0].Status != sweep.MissingInRun {
		t.Errorf("nil.Diff().Entries = %+v, want one missing-in-run entry", r.Entries)
	}
	if !missing.Diff(nil).Empty() {
		t.Error("nil.Diff(nil) should be empty")
	}

	equal, err := run.Compare(nil)
	if equal || err != nil {
		t.Errorf("Compare(nil) = %v, %v, want false, nil", equal, err)
	}
	if equal, _ := missing.Compare(nil); !equal {
		t.Error("nil.Compare(nil) = false, want true")
	}
}

func TestReportDifference_MissingControls(t *testing.T) {
	c1, c2, c3 := testutil.Controls(0, 0, 1), testutil.Controls(1, 1, 1), testutil.Controls(1, 1, 0)
	si := testutil.MustPattern(t, testutil.SiPayload())

	run := newSweep(t, "Si", sweep.CBED, entry(c1, si), entry(c2, si))
	baseline := newSweep(t, "Si", sweep.CBED, entry(c1, si), entry(c3, si))

	r := run.Diff(baseline)
	if len(r.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(r.Entries))
	}
	if r.Entries[0].Status != sweep.MissingInBaseline || !r.Entries[0].Controls.Equal(c2) {
		t.Errorf("Entries[0] = %v %v, want %v %v", r.Entries[0].Status, r.Entries[0].Controls, sweep.MissingInBaseline, c2)
	}
	if r.Entries[1].Status != sweep.MissingInRun || !r.Entries[1].Controls.Equal(c3) {
		t.Errorf("Entries[1] = %v %v, want %v %v", r.Entries[1].Status, r.Entries[1].Controls, sweep.MissingInRun, c3)
	}
	if got := r.Entries[0].Added.Len(); got != si.Counts().NKLines+si.Counts().NHLines+si.Counts().NDisks {
		t.Errorf("Entries[0].Added.Len() = %d, want every entity", got)
	}

	lines := run.ReportDifference(baseline)
	if lines[1] != "Controls in the new run, not in the baseline" {
		t.Errorf("lines[1] = %q", lines[1])
	}
}

func TestReport_Empty(t *testing.T) {
	si := testutil.MustPattern(t, testutil.SiPayload())
	a := newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), si))
	b := newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), si))

	r := a.Diff(b)
	if !r.Empty() {
		t.Errorf("Diff().Empty() = false, entries %v", r.Entries)
	}
	if got := a.ReportDifference(b); got != nil {
		t.Errorf("ReportDifference() = %q, want nil", got)
	}
}
