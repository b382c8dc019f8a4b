package main

import (
	"github.com/spf13/cobra"

	"dpcheck/internal/version"
)

var (
	configFlag    string
	rootFlag      string
	formatFlag    string
	verbosityFlag int
	quietFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "dpcheck",
	Short: "dpcheck - diffraction pattern regression checker",
	Long: `dpcheck compares electron diffraction simulation output against stored baselines.

Patterns (Kikuchi lines, HOLZ lines and diffracted disks) are compared with a fixed
positional tolerance, sweeps are matched by their microscope controls, and every
mismatched control is reported.`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("dpcheck version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: .dpcheck/config.json)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Project root holding .dpcheck (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Output format: human or json (default from config)")
	rootCmd.PersistentFlags().CountVarP(&verbosityFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all log output")
}
