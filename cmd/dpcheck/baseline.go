package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"dpcheck/internal/baseline"
	"dpcheck/internal/document"
	"dpcheck/internal/errors"
	"dpcheck/internal/regress"
)

var (
	baselineFeature     string
	baselineListFeature string
	historyLimit        int
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Record and check sweeps against stored baselines",
	Long: `Manage baselines stored in .dpcheck/baselines.db.

A baseline is a known-good sweep filed under a feature and the sweep's name.
New runs are checked against the baseline with the same feature and name.`,
}

var baselineRecordCmd = &cobra.Command{
	Use:   "record <document>",
	Short: "Store a sweep as the baseline for its feature and name",
	Long: `Store a sweep as the baseline for its feature and name, replacing any
previous baseline. Recording an identical sweep is a no-op.

Examples:
  dpcheck baseline record --feature si-cbed run/si.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runBaselineRecord,
}

var baselineCheckCmd = &cobra.Command{
	Use:   "check <document>",
	Short: "Check a sweep against its baseline",
	Long: `Compare a new sweep with the baseline of the same feature and name, record
the outcome, and print the difference report. Exits 1 when the run differs.

Examples:
  dpcheck baseline check --feature si-cbed run/si.yaml
  dpcheck baseline check --feature si-cbed run/si.yaml --format json`,
	Args: cobra.ExactArgs(1),
	Run:  runBaselineCheck,
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored baselines",
	Args:  cobra.NoArgs,
	Run:   runBaselineList,
}

var baselineDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a baseline and its check history",
	Args:  cobra.ExactArgs(1),
	Run:   runBaselineDelete,
}

var baselineHistoryCmd = &cobra.Command{
	Use:   "history <name>",
	Short: "Show recent checks against a baseline",
	Args:  cobra.ExactArgs(1),
	Run:   runBaselineHistory,
}

var baselineExportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export all baselines with a manifest",
	Long: `Write every baseline to dir as <feature>/<name>.json.zst and index them in
manifest.toml. dir defaults to baseline.dir from the config.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBaselineExport,
}

var baselineImportCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import baselines from an exported directory",
	Long: `Verify every file listed in dir/manifest.toml against its digest, then store
them all. Nothing is stored when any file fails verification.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBaselineImport,
}

func init() {
	for _, c := range []*cobra.Command{baselineRecordCmd, baselineCheckCmd, baselineDeleteCmd, baselineHistoryCmd} {
		c.Flags().StringVar(&baselineFeature, "feature", "default", "Feature the baseline is filed under")
	}
	baselineListCmd.Flags().StringVar(&baselineListFeature, "feature", "", "Only list baselines of this feature")
	baselineHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of checks to show")

	baselineCmd.AddCommand(baselineRecordCmd)
	baselineCmd.AddCommand(baselineCheckCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineDeleteCmd)
	baselineCmd.AddCommand(baselineHistoryCmd)
	baselineCmd.AddCommand(baselineExportCmd)
	baselineCmd.AddCommand(baselineImportCmd)
	rootCmd.AddCommand(baselineCmd)
}

// RecordResponseCLI is the result of recording a baseline
type RecordResponseCLI struct {
	Baseline  *baseline.Record `json:"baseline"`
	Unchanged bool             `json:"unchanged"`
}

// CheckResponseCLI is the result of checking a run
type CheckResponseCLI struct {
	Result *regress.Result `json:"result"`
}

// BaselineListResponseCLI lists stored baselines
type BaselineListResponseCLI struct {
	Feature   string            `json:"feature,omitempty"`
	Baselines []baseline.Record `json:"baselines"`
}

// HistoryResponseCLI is a baseline with its recent checks
type HistoryResponseCLI struct {
	Baseline *baseline.Record `json:"baseline"`
	Checks   []baseline.Check `json:"checks"`
}

// TransferResponseCLI is the result of an export or import
type TransferResponseCLI struct {
	Action    string                   `json:"action"`
	Dir       string                   `json:"dir"`
	Baselines []baseline.ManifestEntry `json:"baselines"`
}

// Preposition returns the word joining the action and the directory.
func (t *TransferResponseCLI) Preposition() string {
	if t.Action == "Exported" {
		return "to"
	}
	return "from"
}

func runBaselineRecord(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()
	store := env.mustOpenStore()
	defer store.Close()

	resp, err := recordBaseline(context.Background(), store, env, baselineFeature, args[0])
	if err != nil {
		exitWithError(err)
	}
	env.print(resp)
}

func recordBaseline(ctx context.Context, store *baseline.Store, env *cliEnv, feature, path string) (*RecordResponseCLI, error) {
	sw, err := document.ReadSweep(path)
	if err != nil {
		return nil, err
	}
	// A missing or damaged baseline is replaced by recording.
	prior, err := store.Get(ctx, feature, sw.Name())
	if err != nil && !errors.HasCode(err, errors.BaselineNotFound) && !errors.HasCode(err, errors.BaselineCorrupt) {
		return nil, err
	}

	rec, err := regress.NewRunner(store, env.logger).RecordSweep(ctx, feature, sw)
	if err != nil {
		return nil, err
	}
	return &RecordResponseCLI{
		Baseline:  rec,
		Unchanged: prior != nil && prior.Digest == rec.Digest,
	}, nil
}

func runBaselineCheck(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()
	store := env.mustOpenStore()

	runner := regress.NewRunner(store, env.logger)
	res, err := runner.Check(context.Background(), baselineFeature, args[0])
	if err != nil {
		store.Close()
		exitWithError(err)
	}

	env.print(&CheckResponseCLI{Result: res})
	store.Close()
	if !res.Passed {
		env.close()
		os.Exit(exitDifferent)
	}
}

func runBaselineList(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()
	store := env.mustOpenStore()
	defer store.Close()

	records, err := store.List(context.Background(), baselineListFeature)
	if err != nil {
		exitWithError(err)
	}
	env.print(&BaselineListResponseCLI{Feature: baselineListFeature, Baselines: records})
}

func runBaselineDelete(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()
	store := env.mustOpenStore()
	defer store.Close()

	if err := store.Delete(context.Background(), baselineFeature, args[0]); err != nil {
		exitWithError(err)
	}
	env.logger.Info("Deleted baseline", "feature", baselineFeature, "name", args[0])
}

func runBaselineHistory(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()
	store := env.mustOpenStore()
	defer store.Close()

	runner := regress.NewRunner(store, env.logger)
	rec, checks, err := runner.History(context.Background(), baselineFeature, args[0], historyLimit)
	if err != nil {
		exitWithError(err)
	}
	env.print(&HistoryResponseCLI{Baseline: rec, Checks: checks})
}

func runBaselineExport(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()
	store := env.mustOpenStore()
	defer store.Close()

	dir := transferDir(env, args)
	m, err := store.Export(context.Background(), dir)
	if err != nil {
		exitWithError(err)
	}
	env.print(&TransferResponseCLI{Action: "Exported", Dir: dir, Baselines: m.Baselines})
}

func runBaselineImport(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()
	store := env.mustOpenStore()
	defer store.Close()

	dir := transferDir(env, args)
	records, err := store.Import(context.Background(), dir)
	if err != nil {
		exitWithError(err)
	}
	env.print(importResponse(dir, records))
}

func transferDir(env *cliEnv, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return env.cfg.BaselineDir(env.root)
}

func importResponse(dir string, records []*baseline.Record) *TransferResponseCLI {
	resp := &TransferResponseCLI{Action: "Imported", Dir: dir, Baselines: make([]baseline.ManifestEntry, 0, len(records))}
	for _, r := range records {
		resp.Baselines = append(resp.Baselines, baseline.ManifestEntry{
			Feature: r.Feature,
			Name:    r.Name,
			Mode:    r.Mode,
			Entries: r.Entries,
			Digest:  r.Digest,
		})
	}
	return resp
}
