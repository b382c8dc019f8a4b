package sweep_test

import (
	"errors"
	"strings"
	"testing"

	"dpcheck/internal/controls"
	dperrors "dpcheck/internal/errors"
	"dpcheck/internal/pattern"
	"dpcheck/internal/sweep"
	"dpcheck/internal/testutil"
)

func siWithExtraDisk(t *testing.T) *pattern.Pattern {
	t.Helper()
	p := testutil.SiPayload()
	p.Disks = append(p.Disks, testutil.Disk(5, 5, 1.0, 0, 2, 0))
	p.Nums.NDisks++
	return testutil.MustPattern(t, p)
}

func siWithMovedKLine(t *testing.T) *pattern.Pattern {
	t.Helper()
	p := testutil.SiPayload()
	p.KLines[0] = testutil.KLine(10, 20, 30, 45)
	return testutil.MustPattern(t, p)
}

func newSweep(t *testing.T, name string, mode sweep.Mode, entries ...sweep.Entry[controls.EMControl]) *sweep.Collection[controls.EMControl] {
	t.Helper()
	c, err := sweep.New[controls.EMControl](name, mode)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, e := range entries {
		if err := c.Add(e.Controls, e.Pattern); err != nil {
			t.Fatalf("Add(%v) error = %v", e.Controls, err)
		}
	}
	return c
}

func entry(c controls.EMControl, p *pattern.Pattern) sweep.Entry[controls.EMControl] {
	return sweep.Entry[controls.EMControl]{Controls: c, Pattern: p}
}

func TestNew_Validation(t *testing.T) {
	if _, err := sweep.New[controls.EMControl]("", sweep.CBED); err == nil {
		t.Error("New(\"\") error = nil, want error")
	}
	if _, err := sweep.New[controls.EMControl]("Si", sweep.Mode(7)); err == nil {
		t.Error("New(mode 7) error = nil, want error")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    sweep.Mode
		wantErr bool
	}{
		{"normal", sweep.Normal, false},
		{"CBED", sweep.CBED, false},
		{"1", sweep.Normal, false},
		{" 2 ", sweep.CBED, false},
		{"kinematic", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sweep.ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAdd_RejectsDuplicateControls(t *testing.T) {
	p := testutil.MustPattern(t, testutil.SiPayload())
	c := newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), p))

	err := c.Add(testutil.Controls(0, 0, 1), p)
	if !dperrors.HasCode(err, dperrors.DuplicateControls) {
		t.Errorf("Add(duplicate) error = %v, want %s", err, dperrors.DuplicateControls)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestAdd_RejectsHOLZLinesInNormalMode(t *testing.T) {
	c := newSweep(t, "Si", sweep.Normal)

	err := c.Add(testutil.Controls(0, 0, 1), testutil.MustPattern(t, testutil.SiPayload()))
	if !dperrors.HasCode(err, dperrors.ModeMismatch) {
		t.Errorf("Add(hlines in normal mode) error = %v, want %s", err, dperrors.ModeMismatch)
	}

	noHOLZ := testutil.SiPayload()
	noHOLZ.HLines = nil
	noHOLZ.Nums.NHLines = 0
	if err := c.Add(testutil.Controls(0, 0, 1), testutil.MustPattern(t, noHOLZ)); err != nil {
		t.Errorf("Add(no hlines) error = %v", err)
	}
}

func TestAdd_RejectsNilPattern(t *testing.T) {
	c := newSweep(t, "Si", sweep.CBED)
	if err := c.Add(testutil.Controls(0, 0, 1), nil); err == nil {
		t.Error("Add(nil) error = nil, want error")
	}
}

func TestFindAndAt(t *testing.T) {
	p1 := testutil.MustPattern(t, testutil.SiPayload())
	p2 := siWithExtraDisk(t)
	c := newSweep(t, "Si", sweep.CBED,
		entry(testutil.Controls(0, 0, 1), p1),
		entry(testutil.Controls(1, 1, 1), p2))

	got, ok := c.Find(testutil.Controls(1, 1, 1))
	if !ok || got != p2 {
		t.Errorf("Find(1,1,1) = %v, %v, want second pattern", got, ok)
	}
	if _, ok := c.Find(testutil.Controls(2, 0, 0)); ok {
		t.Error("Find(2,0,0) ok = true, want false")
	}
	if c.At(0).Pattern != p1 {
		t.Error("At(0) should return the first added entry")
	}
	if len(c.Entries()) != 2 {
		t.Errorf("len(Entries()) = %d, want 2", len(c.Entries()))
	}
}

func TestEqual_ReorderingInvariance(t *testing.T) {
	c1, c2, c3 := testutil.Controls(0, 0, 1), testutil.Controls(1, 1, 1), testutil.Controls(1, 1, 0)
	p1 := testutil.MustPattern(t, testutil.SiPayload())
	p2 := siWithExtraDisk(t)
	p3 := siWithMovedKLine(t)

	a := newSweep(t, "Si", sweep.CBED, entry(c1, p1), entry(c2, p2), entry(c3, p3))
	b := newSweep(t, "Si", sweep.CBED, entry(c3, p3), entry(c1, p1), entry(c2, p2))

	if !a.Equal(b) || !b.Equal(a) {
		t.Error("permuted sweeps should be equal")
	}
	if lines := a.ReportDifference(b); len(lines) != 0 {
		t.Errorf("ReportDifference() = %v, want empty", lines)
	}
}

func TestEqual_Symmetry(t *testing.T) {
	c1, c2 := testutil.Controls(0, 0, 1), testutil.Controls(1, 1, 1)
	p1 := testutil.MustPattern(t, testutil.SiPayload())

	tests := []struct {
		name string
		a, b *sweep.Collection[controls.EMControl]
		want bool
	}{
		{
			name: "same",
			a:    newSweep(t, "Si", sweep.CBED, entry(c1, p1)),
			b:    newSweep(t, "Si", sweep.CBED, entry(c1, p1)),
			want: true,
		},
		{
			name: "different name",
			a:    newSweep(t, "Si", sweep.CBED, entry(c1, p1)),
			b:    newSweep(t, "Ge", sweep.CBED, entry(c1, p1)),
			want: false,
		},
		{
			name: "different length",
			a:    newSweep(t, "Si", sweep.CBED, entry(c1, p1)),
			b:    newSweep(t, "Si", sweep.CBED, entry(c1, p1), entry(c2, p1)),
			want: false,
		},
		{
			name: "different controls",
			a:    newSweep(t, "Si", sweep.CBED, entry(c1, p1)),
			b:    newSweep(t, "Si", sweep.CBED, entry(c2, p1)),
			want: false,
		},
		{
			name: "different pattern",
			a:    newSweep(t, "Si", sweep.CBED, entry(c1, p1)),
			b:    newSweep(t, "Si", sweep.CBED, entry(c1, siWithExtraDisk(t))),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("a.Equal(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("b.Equal(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare_ModeMismatchIsIncomparable(t *testing.T) {
	noHOLZ := testutil.SiPayload()
	noHOLZ.HLines = nil
	noHOLZ.Nums.NHLines = 0
	p := testutil.MustPattern(t, noHOLZ)

	normal := newSweep(t, "Si", sweep.Normal, entry(testutil.Controls(0, 0, 1), p))
	cbed := newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), p))

	eq, err := normal.Compare(cbed)
	if eq {
		t.Error("Compare() = true, want false")
	}
	if !errors.Is(err, pattern.ErrIncomparable) {
		t.Errorf("Compare() error = %v, want ErrIncomparable", err)
	}
	if normal.Equal(cbed) {
		t.Error("Equal() across modes = true, want false")
	}

	eq, err = cbed.Compare(newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), p)))
	if err != nil || !eq {
		t.Errorf("Compare(same mode) = %v, %v, want true, nil", eq, err)
	}
}

func TestSortFunc(t *testing.T) {
	p := testutil.MustPattern(t, testutil.SiPayload())
	c := newSweep(t, "Si", sweep.CBED,
		entry(testutil.Controls(1, 1, 1), p),
		entry(testutil.Controls(-1, 0, 0), p),
		entry(testutil.Controls(0, 0, 1), p))
	before := newSweep(t, "Si", sweep.CBED, c.Entries()...)

	c.SortFunc(controls.EMControl.Compare)

	want := [][3]int{{-1, 0, 0}, {0, 0, 1}, {1, 1, 1}}
	for i, z := range want {
		if got := c.At(i).Controls.Zone; got != z {
			t.Errorf("At(%d).Zone = %v, want %v", i, got, z)
		}
	}
	if !c.Equal(before) {
		t.Error("sorting should not change equality")
	}
}

func TestString(t *testing.T) {
	p := testutil.MustPattern(t, testutil.SiPayload())
	c := newSweep(t, "Si", sweep.CBED, entry(testutil.Controls(0, 0, 1), p))

	got := c.String()
	wantPrefix := "*****EM Controls: zone=(0, 0, 1) tilt=(0, 0) defl=(0, 0) cl=1000 vt=200\n# of Kikuchi lines (kline): 2"
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("String() = %q, want prefix %q", got, wantPrefix)
	}
}

// temperature is a controls key unrelated to microscope settings.
type temperature float64

func (k temperature) Equal(o temperature) bool { return k == o }

func TestCollection_CustomKey(t *testing.T) {
	p := testutil.MustPattern(t, testutil.SiPayload())
	a, _ := sweep.New[temperature]("Si", sweep.CBED)
	b, _ := sweep.New[temperature]("Si", sweep.CBED)
	for _, k := range []temperature{300, 77} {
		if err := a.Add(k, p); err != nil {
			t.Fatalf("Add(%v) error = %v", k, err)
		}
	}
	for _, k := range []temperature{77, 300} {
		if err := b.Add(k, p); err != nil {
			t.Fatalf("Add(%v) error = %v", k, err)
		}
	}
	if !a.Equal(b) {
		t.Error("sweeps keyed by temperature should be equal regardless of order")
	}
}
