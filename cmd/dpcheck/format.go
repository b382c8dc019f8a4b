package main

import (
	"fmt"
	"strings"
	"time"

	"dpcheck/internal/output"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := output.EncodeJSON(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *CompareResponseCLI:
		return formatCompareHuman(v), nil
	case *SweepDiffResponseCLI:
		return formatSweepDiffHuman(v), nil
	case *ShowResponseCLI:
		return v.Text, nil
	case *RecordResponseCLI:
		return formatRecordHuman(v), nil
	case *CheckResponseCLI:
		return formatCheckHuman(v), nil
	case *BaselineListResponseCLI:
		return formatBaselineListHuman(v), nil
	case *HistoryResponseCLI:
		return formatHistoryHuman(v), nil
	case *TransferResponseCLI:
		return formatTransferHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatCompareHuman(resp *CompareResponseCLI) string {
	if resp.Equal {
		return "Patterns are equal"
	}
	return strings.Join(resp.Report, "\n")
}

func formatSweepDiffHuman(resp *SweepDiffResponseCLI) string {
	if resp.Equal {
		return fmt.Sprintf("Sweeps are equal (%d entries)", resp.Entries)
	}
	return strings.Join(resp.Report, "\n")
}

func formatRecordHuman(resp *RecordResponseCLI) string {
	r := resp.Baseline
	verb := "Recorded"
	if resp.Unchanged {
		verb = "Unchanged"
	}
	return fmt.Sprintf("%s baseline %s/%s (%s, %d entries, digest %s)",
		verb, r.Feature, r.Name, r.Mode, r.Entries, shortDigest(r.Digest))
}

func formatCheckHuman(resp *CheckResponseCLI) string {
	var b strings.Builder
	r := resp.Result
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	b.WriteString(fmt.Sprintf("%s %s/%s against baseline %s (%sms)\n",
		status, r.Feature, r.Baseline.Name, shortDigest(r.Baseline.Digest), output.FormatFloat(float64(r.Duration)/float64(time.Millisecond))))
	for _, line := range r.Report {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatBaselineListHuman(resp *BaselineListResponseCLI) string {
	if len(resp.Baselines) == 0 {
		return "No baselines recorded"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-16s %-24s %-7s %7s  %-12s %s\n", "FEATURE", "NAME", "MODE", "ENTRIES", "DIGEST", "CREATED"))
	for _, r := range resp.Baselines {
		b.WriteString(fmt.Sprintf("%-16s %-24s %-7s %7d  %-12s %s\n",
			r.Feature, r.Name, r.Mode, r.Entries, shortDigest(r.Digest), r.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatHistoryHuman(resp *HistoryResponseCLI) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Baseline %s/%s (digest %s)\n", resp.Baseline.Feature, resp.Baseline.Name, shortDigest(resp.Baseline.Digest)))
	if len(resp.Checks) == 0 {
		b.WriteString("No checks recorded")
		return b.String()
	}
	for _, c := range resp.Checks {
		status := "PASS"
		if !c.Passed {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %d differences  %s\n",
			c.CreatedAt.Format("2006-01-02 15:04:05"), status, c.Differences, c.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTransferHuman(resp *TransferResponseCLI) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d baselines %s %s\n", resp.Action, len(resp.Baselines), resp.Preposition(), resp.Dir))
	for _, r := range resp.Baselines {
		b.WriteString(fmt.Sprintf("  %s/%s\n", r.Feature, r.Name))
	}
	return strings.TrimRight(b.String(), "\n")
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
