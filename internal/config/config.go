package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"dpcheck/internal/paths"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = 1

// EnvPrefix prefixes environment overrides, e.g. DPCHECK_LOGGING_LEVEL=debug.
const EnvPrefix = "DPCHECK"

// Config represents the complete dpcheck configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Store    StoreConfig    `json:"store" mapstructure:"store"`
	Baseline BaselineConfig `json:"baseline" mapstructure:"baseline"`
	Report   ReportConfig   `json:"report" mapstructure:"report"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// StoreConfig locates the baseline database
type StoreConfig struct {
	// Path is relative to the project root unless absolute. Empty means .dpcheck/baselines.db.
	Path string `json:"path" mapstructure:"path"`
}

// BaselineConfig controls how baselines are stored and exported
type BaselineConfig struct {
	Dir      string `json:"dir" mapstructure:"dir"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// ReportConfig controls CLI report rendering
type ReportConfig struct {
	Format string `json:"format" mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
	// File, when set, receives a copy of every log line. Relative to the project root.
	File       string `json:"file" mapstructure:"file"`
	MaxSize    string `json:"maxSize" mapstructure:"maxsize"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxbackups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Baseline: BaselineConfig{
			Dir:      "baselines",
			Compress: true,
		},
		Report: ReportConfig{
			Format: "human",
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "info",
			MaxSize:    "10MB",
			MaxBackups: 3,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("baseline.dir", d.Baseline.Dir)
	v.SetDefault("baseline.compress", d.Baseline.Compress)
	v.SetDefault("report.format", d.Report.Format)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxsize", d.Logging.MaxSize)
	v.SetDefault("logging.maxbackups", d.Logging.MaxBackups)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from .dpcheck/config.json under root.
// A missing file yields the defaults, still subject to environment overrides.
func LoadConfig(root string) (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(paths.StateDir(root))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, err
		}
	}
	return unmarshal(v)
}

// LoadConfigFile loads configuration from an explicit file. JSON, YAML and TOML
// are accepted, chosen by extension.
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

// Save writes the configuration to .dpcheck/config.json
func (c *Config) Save(root string) error {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(paths.ConfigPath(root), data, 0644)
}

// StorePath resolves the baseline database location against root.
func (c *Config) StorePath(root string) string {
	return resolve(root, c.Store.Path, paths.StorePath(root))
}

// LogFile resolves the log file against root. Empty means no log file.
func (c *Config) LogFile(root string) string {
	return resolve(root, c.Logging.File, "")
}

// BaselineDir resolves the export directory against root.
func (c *Config) BaselineDir(root string) string {
	return resolve(root, c.Baseline.Dir, filepath.Join(root, "baselines"))
}

func resolve(root, path, fallback string) string {
	switch {
	case path == "":
		return fallback
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(root, path)
	}
}

var (
	outputFormats = []string{"human", "json"}
	logLevels     = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if !slices.Contains(outputFormats, c.Report.Format) {
		return &ConfigError{Field: "report.format", Message: "must be human or json"}
	}
	if !slices.Contains(outputFormats, c.Logging.Format) {
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return &ConfigError{Field: "logging.level", Message: "must be debug, info, warn or error"}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
