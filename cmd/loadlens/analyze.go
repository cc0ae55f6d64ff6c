package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/nao1215/loadlens/internal/analyze"
	"github.com/nao1215/loadlens/internal/config"
	"github.com/nao1215/loadlens/internal/database"
	"github.com/nao1215/loadlens/internal/loader"
	"github.com/nao1215/loadlens/internal/model"
	"github.com/nao1215/loadlens/internal/report"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [results.json...]",
		Short: "Analyze k6 load test result files",
		Long: `Analyze reads k6 result files (JSON summary exports) and prints a
human-readable report for each: latency statistics, request counts,
error rate, virtual users, and data transfer, classified against
thresholds, followed by recommendations.

Missing metrics or fields never fail the analysis; the corresponding
sections are skipped or defaulted. A file that does not exist or cannot
be decoded fails the command.

Examples:
  # Analyze a single result file
  loadlens analyze ` + config.ExampleResultsPath + `

  # Analyze several result files concurrently
  loadlens analyze run1.json run2.json run3.json

  # Output JSON or Markdown instead of plain text
  loadlens analyze --json results.json
  loadlens analyze --markdown results.json

  # Write the report to a file
  loadlens analyze -o report.md --markdown results.json

  # Use custom thresholds from a configuration file
  loadlens analyze -c mythresholds.yaml results.json

Configuration file (.loadlens) example:
  thresholds:
    durationGoodMs: 300
    durationWarnMs: 800
    errorRateGood: 0.005
    errorRateWarn: 0.02`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .loadlens in current or home directory)")

	// Batch analysis flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses for multiple files")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not save the analyzed run to the history database")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Set up structured logging
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling so a batch can be interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAnalyze(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	// Load threshold overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently keep defaults when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Thresholds = cf.Apply(cfg.Thresholds)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	// Positional arguments are the result file paths
	cfg.Targets = args

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// runAnalyze executes the analysis.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	analyzer := analyze.NewAnalyzer(
		analyze.WithThresholds(cfg.Thresholds),
		analyze.WithLogger(logger),
	)

	// Open the run history database. History is best effort: a failure
	// here must never fail the analysis itself.
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("run history disabled: failed to open database",
				"dir", cfg.DBDir, "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAnalyze(ctx, cfg, analyzer, db, logger)
	}
	return runSequentialAnalyze(ctx, cfg, analyzer, db, logger)
}

// runSequentialAnalyze analyzes result files one at a time.
// With a single target, a load failure is returned directly; with
// multiple targets the remaining files are still analyzed and the
// failure count is reported at the end.
func runSequentialAnalyze(ctx context.Context, cfg *config.Config, analyzer *analyze.Analyzer, db *database.RunDB, logger *slog.Logger) error {
	var failures int
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record, err := loader.Load(target)
		if err != nil {
			if len(cfg.Targets) == 1 {
				return err
			}
			logger.Error("analysis failed", "file", target, "error", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failures++
			continue
		}

		summary := analyzer.Analyze(target, record)

		if err := outputReport(cfg, summary); err != nil {
			return err
		}

		saveRun(ctx, db, summary, logger)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d result files failed to load", failures, len(cfg.Targets))
	}
	return nil
}

// runBatchAnalyze analyzes multiple result files concurrently.
func runBatchAnalyze(ctx context.Context, cfg *config.Config, analyzer *analyze.Analyzer, db *database.RunDB, logger *slog.Logger) error {
	bp := analyze.NewBatchProcessor(analyzer,
		analyze.WithConcurrency(cfg.BatchSize),
		analyze.WithBatchLogger(logger),
	)

	var failures int
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(result analyze.BatchResult, _ int) {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", result.Err)
			failures++
			return
		}

		if err := outputReport(cfg, result.Summary); err != nil {
			logger.Error("report failed", "file", result.Path, "error", err)
			failures++
			return
		}

		saveRun(ctx, db, result.Summary, logger)
	})
	if err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d result files failed", failures, len(cfg.Targets))
	}
	return nil
}

// outputReport outputs the summary in the requested format.
func outputReport(cfg *config.Config, summary *model.Summary) error {
	// Determine output destination
	output := os.Stdout
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		var opts []report.SimpleWriterOption
		// Color only on a terminal; file output stays plain.
		if cfg.ReportFile == "" && !color.NoColor {
			opts = append(opts, report.WithColor(true))
		}
		writer = report.NewSimpleWriter(output, opts...)
	}

	_, err := writer.Write(summary)
	return err
}

// saveRun saves the summary to the run history database.
// If db is nil, this function is a no-op. Failures are logged, never returned.
func saveRun(ctx context.Context, db *database.RunDB, summary *model.Summary, logger *slog.Logger) {
	if db == nil {
		return
	}

	label := runLabel(summary.SourceFile)
	id, err := db.SaveRun(ctx, label, summary)
	if err != nil {
		logger.Warn("failed to save run history", "label", label, "error", err)
		return
	}

	logger.Debug("run saved to history", "label", label, "id", id)
}

// runLabel derives the history label from a result file path: the base
// name without its extension.
func runLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
