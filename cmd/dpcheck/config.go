package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"dpcheck/internal/config"
	"dpcheck/internal/paths"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dpcheck configuration",
	Long:  "View and manage dpcheck configuration stored in .dpcheck/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after defaults, the config file and
DPCHECK_* environment overrides are applied.

Examples:
  dpcheck config show
  DPCHECK_REPORT_FORMAT=json dpcheck config show --format json`,
	Args: cobra.NoArgs,
	Run:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  "Write .dpcheck/config.json with default settings and a log file at .dpcheck/logs/dpcheck.log",
	Args:  cobra.NoArgs,
	Run:   runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string         `json:"configPath"`
	UsedDefaults bool           `json:"usedDefaults"`
	Config       *config.Config `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()

	path := configFlag
	if path == "" {
		path = paths.ConfigPath(env.root)
	}
	_, statErr := os.Stat(path)
	resp := &ConfigShowResponse{ConfigPath: path, UsedDefaults: os.IsNotExist(statErr), Config: env.cfg}

	if env.format() == FormatJSON {
		env.print(resp)
		return
	}
	out, err := formatConfigHuman(resp)
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(out)
}

// formatConfigHuman prints one dotted key per line, sorted.
func formatConfigHuman(resp *ConfigShowResponse) (string, error) {
	data, err := json.Marshal(resp.Config)
	if err != nil {
		return "", err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return "", err
	}

	flat := make(map[string]string)
	flatten("", m, flat)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	source := resp.ConfigPath
	if resp.UsedDefaults {
		source = "defaults (no config file)"
	}
	b.WriteString(fmt.Sprintf("Config: %s\n\n", source))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %-22s %s\n", k, flat[k]))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func flatten(prefix string, m map[string]interface{}, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			flatten(key, sub, out)
			continue
		}
		out[key] = fmt.Sprint(v)
	}
}

func runConfigInit(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()

	path, err := initConfig(env.root, configInitForce)
	if err != nil {
		exitWithError(err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func initConfig(root string, force bool) (string, error) {
	path := paths.ConfigPath(root)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := config.DefaultConfig()
	logFile, err := filepath.Rel(root, paths.LogPath(root))
	if err != nil {
		return "", err
	}
	cfg.Logging.File = filepath.ToSlash(logFile)
	if err := cfg.Save(root); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
