package main

import (
	"os"

	"github.com/spf13/cobra"

	"dpcheck/internal/document"
	"dpcheck/internal/pattern"
)

var compareCmd = &cobra.Command{
	Use:   "compare <new> <baseline>",
	Short: "Compare two pattern documents",
	Long: `Compare a newly simulated pattern with a baseline pattern.

Kikuchi lines, HOLZ lines and disks are matched within a fixed positional
tolerance. Exits 1 when the patterns differ.

Examples:
  dpcheck compare run/si_001.json baselines/si_001.json
  dpcheck compare run/si_001.yaml baselines/si_001.json.zst --format json`,
	Args: cobra.ExactArgs(2),
	Run:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

// CompareResponseCLI is the result of comparing two patterns
type CompareResponseCLI struct {
	New      string       `json:"new"`
	Baseline string       `json:"baseline"`
	Equal    bool         `json:"equal"`
	Added    pattern.Diff `json:"added"`
	Removed  pattern.Diff `json:"removed"`
	Report   []string     `json:"report,omitempty"`
}

func runCompare(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()

	resp, err := comparePatterns(args[0], args[1])
	if err != nil {
		exitWithError(err)
	}
	env.logger.Debug("Compared patterns", "new", args[0], "baseline", args[1], "equal", resp.Equal)

	env.print(resp)
	if !resp.Equal {
		env.close()
		os.Exit(exitDifferent)
	}
}

func comparePatterns(newPath, basePath string) (*CompareResponseCLI, error) {
	run, err := document.ReadPattern(newPath)
	if err != nil {
		return nil, err
	}
	base, err := document.ReadPattern(basePath)
	if err != nil {
		return nil, err
	}

	return &CompareResponseCLI{
		New:      newPath,
		Baseline: basePath,
		Equal:    run.Equal(base),
		Added:    run.Difference(base),
		Removed:  base.Difference(run),
		Report:   run.ReportDifference(base),
	}, nil
}
