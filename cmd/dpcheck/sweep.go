package main

import (
	"os"

	"github.com/spf13/cobra"

	"dpcheck/internal/controls"
	"dpcheck/internal/document"
	"dpcheck/internal/errors"
	"dpcheck/internal/sweep"
)

var sweepSort bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Work with sweep documents",
	Long:  "Compare and convert sweeps: named collections of patterns keyed by microscope controls",
}

var sweepDiffCmd = &cobra.Command{
	Use:   "diff <new> <baseline>",
	Short: "Report every control whose pattern differs",
	Long: `Compare a new sweep with a baseline sweep and report, per control, the
entities present in only one of them. Sweeps of different name or mode are
reported as incomparable. Exits 1 when the sweeps differ.

Examples:
  dpcheck sweep diff run/si.yaml baselines/si.json
  dpcheck sweep diff run/si.json baselines/si.json.zst --format json`,
	Args: cobra.ExactArgs(2),
	Run:  runSweepDiff,
}

var sweepConvertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a sweep document between formats",
	Long: `Read a sweep and write it in the format named by the output extension
(.json, .yaml, .yml or .toml; append .zst to compress).

Examples:
  dpcheck sweep convert run/si.yaml baselines/si.json.zst
  dpcheck sweep convert run/si.json run/si.toml --sort`,
	Args: cobra.ExactArgs(2),
	Run:  runSweepConvert,
}

func init() {
	sweepConvertCmd.Flags().BoolVar(&sweepSort, "sort", false, "Order entries by controls before writing")

	sweepCmd.AddCommand(sweepDiffCmd)
	sweepCmd.AddCommand(sweepConvertCmd)
	rootCmd.AddCommand(sweepCmd)
}

// SweepDiffResponseCLI is the result of comparing two sweeps
type SweepDiffResponseCLI struct {
	New      string                           `json:"new"`
	Baseline string                           `json:"baseline"`
	Equal    bool                             `json:"equal"`
	Entries  int                              `json:"entries"`
	Diff     sweep.Report[controls.EMControl] `json:"diff"`
	Report   []string                         `json:"report,omitempty"`
}

func runSweepDiff(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()

	resp, err := diffSweeps(args[0], args[1])
	if err != nil {
		exitWithError(err)
	}
	env.logger.Debug("Compared sweeps",
		"new", args[0],
		"baseline", args[1],
		"equal", resp.Equal,
		"differences", len(resp.Diff.Entries),
	)

	env.print(resp)
	if !resp.Equal {
		env.close()
		os.Exit(exitDifferent)
	}
}

func diffSweeps(newPath, basePath string) (*SweepDiffResponseCLI, error) {
	run, err := document.ReadSweep(newPath)
	if err != nil {
		return nil, err
	}
	base, err := document.ReadSweep(basePath)
	if err != nil {
		return nil, err
	}

	equal, err := run.Compare(base)
	if err != nil && !errors.HasCode(err, errors.Incomparable) {
		return nil, err
	}
	report := run.Diff(base)

	return &SweepDiffResponseCLI{
		New:      newPath,
		Baseline: basePath,
		Equal:    equal,
		Entries:  run.Len(),
		Diff:     report,
		Report:   report.Lines(),
	}, nil
}

func runSweepConvert(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()

	s, err := convertSweep(args[0], args[1], sweepSort)
	if err != nil {
		exitWithError(err)
	}
	env.logger.Info("Converted sweep", "from", args[0], "to", args[1], "name", s.Name(), "entries", s.Len())
}

func convertSweep(in, out string, sorted bool) (*document.Sweep, error) {
	s, err := document.ReadSweep(in)
	if err != nil {
		return nil, err
	}
	if sorted {
		s.SortFunc(controls.EMControl.Compare)
	}
	if err := document.WriteSweep(out, s); err != nil {
		return nil, err
	}
	return s, nil
}
