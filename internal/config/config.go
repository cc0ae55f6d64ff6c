package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The threshold numbers mirror the k6 community conventions this tool was
// built around: 500ms/1s latency tiers and 1%/5% error rate tiers.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "loadlens"

	// DefaultConfigFile is the default configuration file name.
	DefaultConfigFile = ".loadlens"

	// DefaultBatchSize is the number of result files analyzed concurrently
	// when more than one path is given. Analysis is cheap; this mostly
	// bounds file handles for very large batches.
	DefaultBatchSize = 4

	// DefaultDurationGoodMs is the latency (ms) below which a duration
	// statistic is classified as good.
	DefaultDurationGoodMs = 500

	// DefaultDurationWarnMs is the latency (ms) below which a duration
	// statistic is classified as warning; at or above it is critical.
	DefaultDurationWarnMs = 1000

	// DefaultErrorRateGood is the failure rate below which the error-rate
	// section is classified as good.
	DefaultErrorRateGood = 0.01

	// DefaultErrorRateWarn is the failure rate below which the error-rate
	// section is classified as warning; at or above it is critical.
	DefaultErrorRateWarn = 0.05

	// ExampleResultsPath is the literal example shown in usage text.
	ExampleResultsPath = "k6-results/basic-load-test_20240103_120000.json"
)

// Thresholds holds the classification boundaries for metric values.
type Thresholds struct {
	// DurationGoodMs is the upper bound (exclusive) of the good latency tier.
	DurationGoodMs float64 `yaml:"durationGoodMs,omitempty"`

	// DurationWarnMs is the upper bound (exclusive) of the warning latency
	// tier. Values at or above it are critical.
	DurationWarnMs float64 `yaml:"durationWarnMs,omitempty"`

	// ErrorRateGood is the upper bound (exclusive) of the good error tier.
	ErrorRateGood float64 `yaml:"errorRateGood,omitempty"`

	// ErrorRateWarn is the upper bound (exclusive) of the warning error
	// tier. Rates at or above it are critical.
	ErrorRateWarn float64 `yaml:"errorRateWarn,omitempty"`
}

// DefaultThresholds returns the built-in classification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DurationGoodMs: DefaultDurationGoodMs,
		DurationWarnMs: DefaultDurationWarnMs,
		ErrorRateGood:  DefaultErrorRateGood,
		ErrorRateWarn:  DefaultErrorRateWarn,
	}
}

// Config holds all configuration options for loadlens.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
type Config struct {
	// Targets is the list of result file paths to analyze.
	// Must contain at least one path.
	Targets []string

	// Thresholds are the classification boundaries, after applying any
	// overrides from the configuration file.
	Thresholds Thresholds

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .loadlens in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// BatchSize is the number of concurrent analyses when processing
	// multiple result files.
	BatchSize int

	// SaveToDB enables saving analyzed summaries to the run history
	// database under the XDG data directory.
	SaveToDB bool

	// DBDir is the directory holding the run history database.
	DBDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		Thresholds: DefaultThresholds(),
		BatchSize:  DefaultBatchSize,
		SaveToDB:   true,
		DBDir:      XDGDataDir(),
	}
}

// Validate checks the configuration for consistency.
// It returns one of the package sentinel errors on failure.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoInput
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks that the threshold tiers are ordered and positive.
func (t Thresholds) Validate() error {
	if t.DurationGoodMs <= 0 || t.DurationWarnMs <= t.DurationGoodMs {
		return ErrInvalidDurationThresholds
	}
	if t.ErrorRateGood <= 0 || t.ErrorRateWarn <= t.ErrorRateGood {
		return ErrInvalidErrorRateThresholds
	}
	return nil
}

// XDGDataDir returns the XDG data directory for loadlens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/loadlens
// On macOS: ~/Library/Application Support/loadlens
// On Windows: %LOCALAPPDATA%\loadlens
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for loadlens.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
