package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/loadlens/internal/model"
)

// RunDB provides SQLite-based storage for analyzed load test runs.
// It manages connection pooling and provides methods for saving and
// querying run history.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "loadlens.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store analyzed load test summaries as JSON, with the key
	-- comparison indicators denormalized for querying.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		source_file TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		summary_json TEXT NOT NULL,
		p95 REAL,
		error_rate REAL,
		requests REAL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_label ON runs(label);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is a stored analysis run.
type Run struct {
	// ID is the run's database identifier.
	ID int64

	// Label groups runs of the same test for comparison.
	Label string

	// SourceFile is the analyzed result file path.
	SourceFile string

	// Timestamp is when the run was saved.
	Timestamp time.Time

	// Summary is the full analyzed summary.
	Summary *model.Summary

	// P95 is the 95th percentile latency, when the run had one.
	P95 sql.NullFloat64

	// ErrorRate is the failure rate, when the run had one.
	ErrorRate sql.NullFloat64

	// Requests is the total request count, when the run had one.
	Requests sql.NullFloat64
}

// SaveRun persists an analyzed summary under the given label.
// Returns the new run's ID.
func (rdb *RunDB) SaveRun(ctx context.Context, label string, summary *model.Summary) (int64, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	var p95 sql.NullFloat64
	if v, ok := summary.P95(); ok {
		p95 = sql.NullFloat64{Float64: v, Valid: true}
	}
	var errorRate sql.NullFloat64
	if summary.ErrorRate != nil {
		errorRate = sql.NullFloat64{Float64: summary.ErrorRate.Rate, Valid: true}
	}
	var requests sql.NullFloat64
	if summary.HasRequests {
		requests = sql.NullFloat64{Float64: summary.Requests, Valid: true}
	}

	query := `
	INSERT INTO runs (label, source_file, summary_json, p95, error_rate, requests)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		label,
		summary.SourceFile,
		string(summaryJSON),
		p95,
		errorRate,
		requests,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// LatestRuns returns up to limit runs for the given label, newest first.
func (rdb *RunDB) LatestRuns(ctx context.Context, label string, limit int) ([]Run, error) {
	query := `
	SELECT id, label, source_file, timestamp, summary_json, p95, error_rate, requests
	FROM runs
	WHERE label = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := rdb.db.QueryContext(ctx, query, label, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RunByID returns the run with the given identifier.
// Returns nil without error when the run does not exist.
func (rdb *RunDB) RunByID(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, label, source_file, timestamp, summary_json, p95, error_rate, requests
	FROM runs
	WHERE id = ?
	`

	rows, err := rdb.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListLabels returns all distinct run labels with their run counts,
// most recently used first.
func (rdb *RunDB) ListLabels(ctx context.Context) ([]LabelInfo, error) {
	query := `
	SELECT label, COUNT(*), MAX(timestamp)
	FROM runs
	GROUP BY label
	ORDER BY MAX(timestamp) DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []LabelInfo
	for rows.Next() {
		var info LabelInfo
		var timestamp string
		if err := rows.Scan(&info.Label, &info.RunCount, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		info.LastRun = parseTimestamp(timestamp)
		labels = append(labels, info)
	}

	return labels, rows.Err()
}

// LabelInfo describes one run label in the history database.
type LabelInfo struct {
	// Label is the run label.
	Label string

	// RunCount is the number of stored runs for the label.
	RunCount int

	// LastRun is the timestamp of the most recent run.
	LastRun time.Time
}

// scanRuns reads all rows into Run values.
func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var run Run
		var timestamp string
		var summaryJSON string

		err := rows.Scan(
			&run.ID,
			&run.Label,
			&run.SourceFile,
			&timestamp,
			&summaryJSON,
			&run.P95,
			&run.ErrorRate,
			&run.Requests,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = parseTimestamp(timestamp)

		var summary model.Summary
		if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
			return nil, fmt.Errorf("failed to parse stored summary: %w", err)
		}
		run.Summary = &summary

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// parseTimestamp parses a SQLite timestamp string.
// SQLite may return different formats depending on version and configuration.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
