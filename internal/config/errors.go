package config

import (
	"errors"
	"fmt"
)

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no result file path is given.
	// The message doubles as the usage hint, including an example path.
	ErrNoInput = fmt.Errorf(
		"no result file specified: provide a path to a k6 summary file (example: loadlens analyze %s)",
		ExampleResultsPath)

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidDurationThresholds is returned when the latency tiers are
	// not positive or not strictly increasing.
	ErrInvalidDurationThresholds = errors.New("invalid duration thresholds: good must be positive and below warn")

	// ErrInvalidErrorRateThresholds is returned when the error rate tiers
	// are not positive or not strictly increasing.
	ErrInvalidErrorRateThresholds = errors.New("invalid error rate thresholds: good must be positive and below warn")

	// ErrConfigNotFound is returned when an explicitly specified
	// configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
