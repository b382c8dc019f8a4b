package slogutil

import (
	"io"
	"log/slog"

	"dpcheck/internal/config"
)

// Factory builds loggers from configuration. A level given on the command line
// overrides the configured console level; the log file always uses the configured
// level.
type Factory struct {
	root     string
	config   *config.Config
	cliLevel *slog.Level
	closers  []io.Closer
}

// NewFactory creates a factory for the project at root. A nil cfg means defaults.
func NewFactory(root string, cfg *config.Config) *Factory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Factory{root: root, config: cfg}
}

// WithCLILevel overrides the console level.
func (f *Factory) WithCLILevel(level slog.Level) *Factory {
	f.cliLevel = &level
	return f
}

// ConsoleLevel returns the effective console level.
func (f *Factory) ConsoleLevel() slog.Level {
	if f.cliLevel != nil {
		return *f.cliLevel
	}
	return LevelFromString(f.config.Logging.Level)
}

// CLILogger creates the command-line logger: console output to w, teed into the
// configured log file when one is set.
func (f *Factory) CLILogger(w io.Writer) (*slog.Logger, error) {
	console := NewHandler(w, f.config.Logging.Format, f.ConsoleLevel())

	path := f.config.LogFile(f.root)
	if path == "" {
		return slog.New(console), nil
	}

	rf, err := OpenRotatingFile(path, ParseSize(f.config.Logging.MaxSize), f.config.Logging.MaxBackups)
	if err != nil {
		return nil, err
	}
	f.closers = append(f.closers, rf)

	file := NewLineHandler(rf, &slog.HandlerOptions{Level: LevelFromString(f.config.Logging.Level)})
	return NewTeeLogger(console, file), nil
}

// Close closes every file the factory opened.
func (f *Factory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
