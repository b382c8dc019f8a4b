package main

import (
	"fmt"
	"log/slog"
	"os"

	"dpcheck/internal/baseline"
	"dpcheck/internal/config"
	"dpcheck/internal/errors"
	"dpcheck/internal/slogutil"
)

// cliEnv carries what every command needs: project root, config and logger.
type cliEnv struct {
	root    string
	cfg     *config.Config
	logger  *slog.Logger
	factory *slogutil.Factory
}

func loadEnv() (*cliEnv, error) {
	root := rootFlag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	var cfg *config.Config
	var err error
	if configFlag != "" {
		cfg, err = config.LoadConfigFile(configFlag)
	} else {
		cfg, err = config.LoadConfig(root)
	}
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "invalid config", err)
	}

	factory := slogutil.NewFactory(root, cfg)
	if verbosityFlag > 0 || quietFlag {
		factory.WithCLILevel(slogutil.LevelFromVerbosity(verbosityFlag, quietFlag))
	}
	logger, err := factory.CLILogger(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &cliEnv{root: root, cfg: cfg, logger: logger, factory: factory}, nil
}

// mustLoadEnv returns the command environment or exits on error.
func mustLoadEnv() *cliEnv {
	env, err := loadEnv()
	if err != nil {
		exitWithError(err)
	}
	return env
}

func (e *cliEnv) close() {
	_ = e.factory.Close()
}

// format resolves the output format: flag first, then config.
func (e *cliEnv) format() OutputFormat {
	if formatFlag != "" {
		return OutputFormat(formatFlag)
	}
	return OutputFormat(e.cfg.Report.Format)
}

func (e *cliEnv) openStore() (*baseline.Store, error) {
	return baseline.Open(e.cfg.StorePath(e.root), e.logger, baseline.Options{Compress: e.cfg.Baseline.Compress})
}

func (e *cliEnv) mustOpenStore() *baseline.Store {
	store, err := e.openStore()
	if err != nil {
		exitWithError(err)
	}
	return store
}

// print formats resp and writes it to stdout, exiting on a formatting error.
func (e *cliEnv) print(resp interface{}) {
	out, err := FormatResponse(resp, e.format())
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(out)
}

// exitWithError prints err with any suggested fixes and exits.
func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, fix := range suggestedFixes(err) {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", fix)
	}
	os.Exit(exitError)
}

func suggestedFixes(err error) []string {
	code := errors.CodeOf(err)
	var hints []string
	for _, fix := range errors.GetSuggestedFixes(code) {
		switch {
		case fix.Command != "":
			hints = append(hints, fmt.Sprintf("%s (%s)", fix.Description, fix.Command))
		case fix.URL != "":
			hints = append(hints, fmt.Sprintf("%s (%s)", fix.Description, fix.URL))
		default:
			hints = append(hints, fix.Description)
		}
	}
	return hints
}
