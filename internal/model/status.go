package model

// Status classifies a metric value against its thresholds.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons. The String() and Glyph() methods provide
// human-readable output when needed.
type Status int

const (
	// StatusGood indicates the value is within the healthy range.
	StatusGood Status = iota

	// StatusWarning indicates the value is elevated but not failing.
	StatusWarning

	// StatusCritical indicates the value exceeds the failure threshold.
	StatusCritical
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusGood:
		return "GOOD"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Glyph returns the status marker used in report output.
func (s Status) Glyph() string {
	switch s {
	case StatusGood:
		return "✅"
	case StatusWarning:
		return "⚠️"
	case StatusCritical:
		return "❌"
	default:
		return "?"
	}
}

// Level is the severity of a recommendation.
type Level int

const (
	// LevelInfo marks neutral, informational recommendations.
	LevelInfo Level = iota

	// LevelSuccess marks positive findings (test passed, latency excellent).
	LevelSuccess

	// LevelWarning marks findings that need attention.
	LevelWarning
)

// String returns a human-readable representation of the level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// Glyph returns the level marker used in report output.
func (l Level) Glyph() string {
	switch l {
	case LevelInfo:
		return "ℹ️"
	case LevelSuccess:
		return "✅"
	case LevelWarning:
		return "⚠️"
	default:
		return "?"
	}
}
