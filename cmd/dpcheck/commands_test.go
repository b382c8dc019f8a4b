package main

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"dpcheck/internal/baseline"
	"dpcheck/internal/config"
	"dpcheck/internal/document"
	"dpcheck/internal/errors"
	"dpcheck/internal/pattern"
	"dpcheck/internal/slogutil"
	"dpcheck/internal/testutil"
)

func writePattern(t *testing.T, dir, name string, p pattern.Payload) string {
	t.Helper()
	data, err := document.MarshalPattern(testutil.MustPattern(t, p), document.JSON)
	if err != nil {
		t.Fatalf("MarshalPattern() error = %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeSweep(t *testing.T, path string, s *document.Sweep) string {
	t.Helper()
	if err := document.WriteSweep(path, s); err != nil {
		t.Fatalf("WriteSweep() error = %v", err)
	}
	return path
}

func TestComparePatterns(t *testing.T) {
	dir := t.TempDir()
	base := writePattern(t, dir, "base.json", testutil.SiPayload())
	same := writePattern(t, dir, "same.json", testutil.SiPayload())
	extra := testutil.SiPayload()
	testutil.ExtraDisk(&extra)
	changed := writePattern(t, dir, "changed.json", extra)

	resp, err := comparePatterns(same, base)
	if err != nil {
		t.Fatalf("comparePatterns() error = %v", err)
	}
	if !resp.Equal || len(resp.Report) != 0 {
		t.Errorf("identical patterns: Equal = %v, Report = %v", resp.Equal, resp.Report)
	}

	resp, err = comparePatterns(changed, base)
	if err != nil {
		t.Fatalf("comparePatterns() error = %v", err)
	}
	if resp.Equal {
		t.Fatal("Equal = true, want false")
	}
	if len(resp.Added.Disks) != 1 || !resp.Removed.Empty() {
		t.Errorf("Added = %+v, Removed = %+v", resp.Added, resp.Removed)
	}
	want := []string{
		"1 disks in the new run, not in the baseline:",
		"   index: (0, 2, 0) center: (5, 5) radius: 1",
	}
	if !slices.Equal(resp.Report, want) {
		t.Errorf("Report = %q, want %q", resp.Report, want)
	}
}

func TestComparePatterns_MissingFile(t *testing.T) {
	dir := t.TempDir()
	base := writePattern(t, dir, "base.json", testutil.SiPayload())

	if _, err := comparePatterns(filepath.Join(dir, "nope.json"), base); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDiffSweeps(t *testing.T) {
	dir := t.TempDir()
	base := writeSweep(t, filepath.Join(dir, "base.yaml"), testutil.SiSweep(t))
	run := writeSweep(t, filepath.Join(dir, "run.json"), testutil.SiSweep(t, nil, testutil.ExtraDisk))

	resp, err := diffSweeps(run, base)
	if err != nil {
		t.Fatalf("diffSweeps() error = %v", err)
	}
	if resp.Equal {
		t.Fatal("Equal = true, want false")
	}
	if resp.Entries != 3 {
		t.Errorf("Entries = %d, want 3", resp.Entries)
	}
	if len(resp.Diff.Entries) != 1 {
		t.Fatalf("len(Diff.Entries) = %d, want 1", len(resp.Diff.Entries))
	}
	if !strings.HasPrefix(resp.Report[0], "Control parameters: zone=(0, 1, 1)") {
		t.Errorf("Report[0] = %q", resp.Report[0])
	}
}

func TestDiffSweeps_NameMismatch(t *testing.T) {
	dir := t.TempDir()
	base := writeSweep(t, filepath.Join(dir, "base.json"), testutil.SiSweep(t))

	other, err := document.DecodeSweepMap(map[string]any{"name": "Ge", "mode": "cbed", "entries": []any{}})
	if err != nil {
		t.Fatalf("DecodeSweepMap() error = %v", err)
	}
	run := writeSweep(t, filepath.Join(dir, "run.json"), other)

	resp, err := diffSweeps(run, base)
	if err != nil {
		t.Fatalf("diffSweeps() error = %v", err)
	}
	if resp.Equal || !resp.Diff.NameMismatch || resp.Diff.Incomparable {
		t.Errorf("Equal = %v, NameMismatch = %v, Incomparable = %v", resp.Equal, resp.Diff.NameMismatch, resp.Diff.Incomparable)
	}
	if len(resp.Report) != 1 || !strings.HasPrefix(resp.Report[0], "Sweeps are generated in different mode/name") {
		t.Errorf("Report = %q", resp.Report)
	}
}

func TestConvertSweep(t *testing.T) {
	dir := t.TempDir()
	in := writeSweep(t, filepath.Join(dir, "in.yaml"), testutil.SiSweep(t))
	out := filepath.Join(dir, "out", "si.toml")

	s, err := convertSweep(in, out, true)
	if err != nil {
		t.Fatalf("convertSweep() error = %v", err)
	}
	back, err := document.ReadSweep(out)
	if err != nil {
		t.Fatalf("ReadSweep() error = %v", err)
	}
	if !back.Equal(s) {
		t.Error("converted sweep differs from its source")
	}
	if z := back.At(0).Controls.Zone; z != [3]int{0, 0, 1} {
		t.Errorf("first zone after sort = %v, want (0, 0, 1)", z)
	}
}

func TestShowDocument(t *testing.T) {
	dir := t.TempDir()
	pat := writePattern(t, dir, "si.json", testutil.SiPayload())
	sw := writeSweep(t, filepath.Join(dir, "si-sweep.json.zst"), testutil.SiSweep(t))

	resp, err := showDocument(pat)
	if err != nil {
		t.Fatalf("showDocument(pattern) error = %v", err)
	}
	if resp.Kind != "pattern" || resp.Text == "" {
		t.Errorf("Kind = %q, Text empty = %v", resp.Kind, resp.Text == "")
	}

	resp, err = showDocument(sw)
	if err != nil {
		t.Fatalf("showDocument(sweep) error = %v", err)
	}
	if resp.Kind != "sweep" {
		t.Errorf("Kind = %q, want sweep", resp.Kind)
	}
	if !strings.HasPrefix(resp.Text, "*****EM Controls:") {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestShowDocument_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"name": "Si"}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := showDocument(path)
	if !errors.HasCode(err, errors.PayloadInvalid) {
		t.Errorf("error = %v, want PAYLOAD_INVALID", err)
	}
}

func TestRecordBaseline(t *testing.T) {
	dir := t.TempDir()
	logger := slogutil.NewDiscardLogger()
	store, err := baseline.Open(filepath.Join(dir, "baselines.db"), logger, baseline.Options{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	env := &cliEnv{root: dir, cfg: config.DefaultConfig(), logger: logger}
	ctx := context.Background()

	path := writeSweep(t, filepath.Join(dir, "si.json"), testutil.SiSweep(t))
	first, err := recordBaseline(ctx, store, env, "si-cbed", path)
	if err != nil {
		t.Fatalf("recordBaseline() error = %v", err)
	}
	if first.Unchanged {
		t.Error("first record reported unchanged")
	}

	again, err := recordBaseline(ctx, store, env, "si-cbed", path)
	if err != nil {
		t.Fatalf("recordBaseline() error = %v", err)
	}
	if !again.Unchanged {
		t.Error("identical record not reported unchanged")
	}
	if again.Baseline.ID != first.Baseline.ID {
		t.Errorf("ID = %q, want %q", again.Baseline.ID, first.Baseline.ID)
	}

	changed := writeSweep(t, filepath.Join(dir, "si2.json"), testutil.SiSweep(t, testutil.ExtraDisk))
	third, err := recordBaseline(ctx, store, env, "si-cbed", changed)
	if err != nil {
		t.Fatalf("recordBaseline() error = %v", err)
	}
	if third.Unchanged {
		t.Error("changed record reported unchanged")
	}
}

func TestImportResponse(t *testing.T) {
	resp := importResponse("in", []*baseline.Record{{Feature: "f", Name: "Si", Mode: "cbed", Entries: 3, Digest: "d"}})
	if resp.Action != "Imported" || len(resp.Baselines) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if e := resp.Baselines[0]; e.Feature != "f" || e.Name != "Si" || e.Entries != 3 {
		t.Errorf("entry = %+v", e)
	}
}

func TestInitConfig(t *testing.T) {
	root := t.TempDir()

	path, err := initConfig(root, false)
	if err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := initConfig(root, false); err == nil {
		t.Error("expected error when config exists")
	}
	if _, err := initConfig(root, true); err != nil {
		t.Errorf("initConfig(force) error = %v", err)
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Report.Format != "human" {
		t.Errorf("Report.Format = %q, want human", cfg.Report.Format)
	}
	if cfg.Logging.File != ".dpcheck/logs/dpcheck.log" {
		t.Errorf("Logging.File = %q, want .dpcheck/logs/dpcheck.log", cfg.Logging.File)
	}
}

func TestFormatConfigHuman(t *testing.T) {
	got, err := formatConfigHuman(&ConfigShowResponse{UsedDefaults: true, Config: config.DefaultConfig()})
	if err != nil {
		t.Fatalf("formatConfigHuman() error = %v", err)
	}
	if !strings.HasPrefix(got, "Config: defaults (no config file)") {
		t.Errorf("output should name its source, got %q", got)
	}
	for _, key := range []string{"baseline.compress", "logging.level", "report.format"} {
		if !strings.Contains(got, key) {
			t.Errorf("output missing %s", key)
		}
	}
}

func TestSuggestedFixes(t *testing.T) {
	fixes := suggestedFixes(errors.Newf(errors.BaselineNotFound, "no baseline"))
	if len(fixes) != 1 || !strings.Contains(fixes[0], "dpcheck baseline record") {
		t.Errorf("fixes = %q", fixes)
	}
	if fixes := suggestedFixes(errors.Newf(errors.PayloadInvalid, "bad")); len(fixes) != 0 {
		t.Errorf("fixes = %q, want none", fixes)
	}
}
