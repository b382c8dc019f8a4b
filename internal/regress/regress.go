// Package regress checks new simulation runs against stored baselines.
package regress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dpcheck/internal/baseline"
	"dpcheck/internal/controls"
	"dpcheck/internal/document"
	"dpcheck/internal/errors"
	"dpcheck/internal/sweep"
)

// Result is the outcome of one check.
type Result struct {
	CheckID      string                           `json:"checkId"`
	Feature      string                           `json:"feature"`
	Baseline     *baseline.Record                 `json:"baseline"`
	Passed       bool                             `json:"passed"`
	Incomparable bool                             `json:"incomparable"`
	Report       []string                         `json:"report"`
	Diff         sweep.Report[controls.EMControl] `json:"diff"`
	Duration     time.Duration                    `json:"durationNs"`
}

// Runner records baselines and checks runs against them.
type Runner struct {
	store  *baseline.Store
	logger *slog.Logger
}

// NewRunner creates a runner over store.
func NewRunner(store *baseline.Store, logger *slog.Logger) *Runner {
	return &Runner{store: store, logger: logger}
}

// Record reads the sweep document at path and stores it as the baseline for feature.
func (r *Runner) Record(ctx context.Context, feature, path string) (*baseline.Record, error) {
	s, err := document.ReadSweep(path)
	if err != nil {
		return nil, err
	}
	return r.RecordSweep(ctx, feature, s)
}

// RecordSweep stores s as the baseline for feature.
func (r *Runner) RecordSweep(ctx context.Context, feature string, s *document.Sweep) (*baseline.Record, error) {
	rec, err := r.store.Put(ctx, feature, s)
	if err != nil {
		return nil, fmt.Errorf("recording baseline %s/%s: %w", feature, s.Name(), err)
	}
	return rec, nil
}

// Check reads the sweep document at path and compares it with its baseline.
func (r *Runner) Check(ctx context.Context, feature, path string) (*Result, error) {
	s, err := document.ReadSweep(path)
	if err != nil {
		return nil, err
	}
	return r.CheckSweep(ctx, feature, s)
}

// CheckSweep compares s, the new run, with the baseline stored under feature and
// the sweep's name, and records the outcome. A difference is not an error: it is
// reported through Result.Passed.
func (r *Runner) CheckSweep(ctx context.Context, feature string, s *document.Sweep) (*Result, error) {
	start := time.Now()

	rec, err := r.store.Get(ctx, feature, s.Name())
	if err != nil {
		return nil, err
	}
	base, err := rec.Sweep()
	if err != nil {
		return nil, errors.New(errors.BaselineCorrupt, fmt.Sprintf("baseline %s/%s cannot be decoded", feature, s.Name()), err)
	}

	res := &Result{Feature: feature, Baseline: rec}
	equal, err := s.Compare(base)
	switch {
	case errors.HasCode(err, errors.Incomparable):
		res.Incomparable = true
	case err != nil:
		return nil, err
	default:
		res.Passed = equal
	}
	res.Diff = s.Diff(base)
	res.Report = res.Diff.Lines()

	differences := len(res.Diff.Entries)
	if res.Diff.Incomparable || res.Diff.NameMismatch {
		differences = 1
	}
	check := &baseline.Check{
		BaselineID:  rec.ID,
		Passed:      res.Passed,
		Differences: differences,
		Report:      res.Report,
	}
	if err := r.store.RecordCheck(ctx, check); err != nil {
		return nil, err
	}
	res.CheckID = check.ID
	res.Duration = time.Since(start)

	level := slog.LevelInfo
	if !res.Passed {
		level = slog.LevelWarn
	}
	r.logger.Log(ctx, level, "Checked run against baseline",
		"feature", feature,
		"name", s.Name(),
		"passed", res.Passed,
		"differences", differences,
		"checkId", check.ID,
	)
	return res, nil
}

// History returns a baseline and its most recent checks.
func (r *Runner) History(ctx context.Context, feature, name string, limit int) (*baseline.Record, []baseline.Check, error) {
	rec, err := r.store.Get(ctx, feature, name)
	if err != nil {
		return nil, nil, err
	}
	checks, err := r.store.ListChecks(ctx, rec.ID, limit)
	if err != nil {
		return nil, nil, err
	}
	return rec, checks, nil
}
