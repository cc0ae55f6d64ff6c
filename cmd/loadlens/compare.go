package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/loadlens/internal/config"
	"github.com/nao1215/loadlens/internal/database"
	"github.com/spf13/cobra"
)

// Direction of a metric change between two runs. For latency and error
// rate lower is better, so a decrease is an improvement.
const (
	directionImproved  = "improved"
	directionWorsened  = "worsened"
	directionUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [label]",
		Short: "Compare analyzed runs stored in the history database",
		Long: `Compare inspects the run history that the analyze command records
and compares the latest two runs of a label: p95 latency, error rate,
and request count. The label of a run is its result file name without
the extension.

Examples:
  # List all labels in the history database
  loadlens compare --list-labels

  # List the recorded runs of a label
  loadlens compare --list basic-load-test_20240103_120000

  # Compare the two most recent runs of a label
  loadlens compare basic-load-test_20240103_120000

  # Compare the latest run against a specific earlier run
  loadlens compare --with-run-id 12 basic-load-test_20240103_120000`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List recorded runs of the given label instead of comparing")
	cmd.Flags().BoolP("list-labels", "L", false,
		"List all labels in the history database")
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run against the run with this ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison as JSON")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	listLabels, err := cmd.Flags().GetBool("list-labels")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no run history found: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listLabels {
		return printLabels(ctx, cmd, db)
	}

	if len(args) == 0 {
		return fmt.Errorf("label argument is required (see --list-labels for available labels)")
	}
	label := args[0]

	if listRuns {
		return printRuns(ctx, cmd, db, label)
	}

	return compareRuns(ctx, cmd, db, label, withRunID, jsonOutput)
}

// printLabels lists all labels stored in the history database.
func printLabels(ctx context.Context, cmd *cobra.Command, db *database.RunDB) error {
	labels, err := db.ListLabels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list labels: %w", err)
	}
	if len(labels) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-40s %6s  %s\n", "LABEL", "RUNS", "LAST RUN")
	for _, info := range labels {
		fmt.Fprintf(w, "%-40s %6d  %s\n",
			info.Label, info.RunCount, info.LastRun.Format(time.RFC3339))
	}
	return nil
}

// printRuns lists the recorded runs of a label, newest first.
func printRuns(ctx context.Context, cmd *cobra.Command, db *database.RunDB, label string) error {
	runs, err := db.LatestRuns(ctx, label, 20)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no runs recorded for label %q", label)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%6s  %-25s %12s %12s %10s\n",
		"ID", "TIMESTAMP", "P95 (ms)", "ERR RATE", "REQUESTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%6d  %-25s %12s %12s %10s\n",
			run.ID,
			run.Timestamp.Format(time.RFC3339),
			formatNullFloat(run.P95, "%.2f"),
			formatNullRate(run.ErrorRate),
			formatNullFloat(run.Requests, "%.0f"),
		)
	}
	return nil
}

// formatNullFloat formats a nullable float, or "-" when absent.
func formatNullFloat(v sql.NullFloat64, format string) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf(format, v.Float64)
}

// formatNullRate formats a nullable error rate as a percentage.
func formatNullRate(v sql.NullFloat64) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", v.Float64*100)
}

// MetricDelta describes how one metric changed between two runs.
type MetricDelta struct {
	// Before is the metric value of the older run.
	Before float64 `json:"before"`

	// After is the metric value of the newer run.
	After float64 `json:"after"`

	// Delta is After minus Before.
	Delta float64 `json:"delta"`

	// Direction is improved, worsened, or unchanged. Empty for metrics
	// without a better direction (request count).
	Direction string `json:"direction,omitempty"`
}

// Comparison is the result of comparing two runs of the same label.
type Comparison struct {
	// Label is the run label both runs share.
	Label string `json:"label"`

	// BaseRunID is the ID of the older run.
	BaseRunID int64 `json:"baseRunId"`

	// LatestRunID is the ID of the newer run.
	LatestRunID int64 `json:"latestRunId"`

	// P95 compares p95 latency in milliseconds. Nil when either run has
	// no recorded p95.
	P95 *MetricDelta `json:"p95,omitempty"`

	// ErrorRate compares the failure rate. Nil when either run has no
	// recorded rate.
	ErrorRate *MetricDelta `json:"errorRate,omitempty"`

	// Requests compares the total request count. Nil when either run
	// has no recorded count.
	Requests *MetricDelta `json:"requests,omitempty"`
}

// compareRuns compares the latest run of a label against an earlier one.
func compareRuns(ctx context.Context, cmd *cobra.Command, db *database.RunDB, label string, withRunID int64, jsonOutput bool) error {
	runs, err := db.LatestRuns(ctx, label, 2)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no runs recorded for label %q", label)
	}
	latest := runs[0]

	var base database.Run
	if withRunID != 0 {
		run, err := db.RunByID(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to load run %d: %w", withRunID, err)
		}
		if run == nil {
			return fmt.Errorf("run %d not found", withRunID)
		}
		base = *run
	} else {
		if len(runs) < 2 {
			return fmt.Errorf("label %q has only one run; nothing to compare", label)
		}
		base = runs[1]
	}

	cmp := buildComparison(label, base, latest)

	if jsonOutput {
		data, err := json.MarshalIndent(cmp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode comparison: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printComparison(cmd.OutOrStdout(), cmp, base, latest)
	return nil
}

// buildComparison computes metric deltas between base and latest.
func buildComparison(label string, base, latest database.Run) *Comparison {
	cmp := &Comparison{
		Label:       label,
		BaseRunID:   base.ID,
		LatestRunID: latest.ID,
	}

	if base.P95.Valid && latest.P95.Valid {
		cmp.P95 = lowerIsBetterDelta(base.P95.Float64, latest.P95.Float64)
	}
	if base.ErrorRate.Valid && latest.ErrorRate.Valid {
		cmp.ErrorRate = lowerIsBetterDelta(base.ErrorRate.Float64, latest.ErrorRate.Float64)
	}
	if base.Requests.Valid && latest.Requests.Valid {
		cmp.Requests = &MetricDelta{
			Before: base.Requests.Float64,
			After:  latest.Requests.Float64,
			Delta:  latest.Requests.Float64 - base.Requests.Float64,
		}
	}
	return cmp
}

// lowerIsBetterDelta builds a delta for a metric where smaller is better.
func lowerIsBetterDelta(before, after float64) *MetricDelta {
	d := &MetricDelta{
		Before: before,
		After:  after,
		Delta:  after - before,
	}
	switch {
	case d.Delta < 0:
		d.Direction = directionImproved
	case d.Delta > 0:
		d.Direction = directionWorsened
	default:
		d.Direction = directionUnchanged
	}
	return d
}

// printComparison renders a comparison as human-readable text.
func printComparison(w io.Writer, cmp *Comparison, base, latest database.Run) {
	fmt.Fprintf(w, "Comparing %q: run %d (%s) -> run %d (%s)\n\n",
		cmp.Label,
		base.ID, base.Timestamp.Format(time.RFC3339),
		latest.ID, latest.Timestamp.Format(time.RFC3339))

	if cmp.P95 != nil {
		fmt.Fprintf(w, "  P95 latency: %.2f ms -> %.2f ms (%+.2f ms, %s)\n",
			cmp.P95.Before, cmp.P95.After, cmp.P95.Delta, cmp.P95.Direction)
	}
	if cmp.ErrorRate != nil {
		fmt.Fprintf(w, "  Error rate:  %.2f%% -> %.2f%% (%+.2f%%, %s)\n",
			cmp.ErrorRate.Before*100, cmp.ErrorRate.After*100,
			cmp.ErrorRate.Delta*100, cmp.ErrorRate.Direction)
	}
	if cmp.Requests != nil {
		fmt.Fprintf(w, "  Requests:    %.0f -> %.0f (%+.0f)\n",
			cmp.Requests.Before, cmp.Requests.After, cmp.Requests.Delta)
	}
	if cmp.P95 == nil && cmp.ErrorRate == nil && cmp.Requests == nil {
		fmt.Fprintln(w, "  No comparable metrics recorded for these runs.")
	}
}
