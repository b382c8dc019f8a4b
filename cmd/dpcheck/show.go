package main

import (
	"github.com/spf13/cobra"

	"dpcheck/internal/document"
)

var showCmd = &cobra.Command{
	Use:   "show <document>",
	Short: "Print a pattern or sweep in readable form",
	Long: `Decode a pattern or sweep document and print its entities.

Examples:
  dpcheck show run/si_001.json
  dpcheck show baselines/si.json.zst`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// ShowResponseCLI is a decoded document
type ShowResponseCLI struct {
	Path     string         `json:"path"`
	Kind     string         `json:"kind"`
	Text     string         `json:"-"`
	Document map[string]any `json:"document"`
}

func runShow(cmd *cobra.Command, args []string) {
	env := mustLoadEnv()
	defer env.close()

	resp, err := showDocument(args[0])
	if err != nil {
		exitWithError(err)
	}
	env.print(resp)
}

// showDocument decodes path fully, so an invalid document fails here rather
// than printing partially.
func showDocument(path string) (*ShowResponseCLI, error) {
	doc, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if document.IsSweep(doc) {
		s, err := document.DecodeSweepMap(doc)
		if err != nil {
			return nil, err
		}
		return &ShowResponseCLI{Path: path, Kind: "sweep", Text: s.String(), Document: document.EncodeSweepMap(s)}, nil
	}

	p, err := document.DecodePatternMap(doc)
	if err != nil {
		return nil, err
	}
	return &ShowResponseCLI{Path: path, Kind: "pattern", Text: p.String(), Document: document.EncodePattern(p)}, nil
}
