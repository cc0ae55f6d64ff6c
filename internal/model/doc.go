// Package model defines the core data structures for loadlens.
//
// It contains the typed representation of a k6 summary file (ResultRecord,
// MetricEntry, StatValues) and the analysis output (Summary, Recommendation).
// All tolerant decoding lives here: numeric strings are coerced once via the
// Number type, and the scalar-vs-breakdown ambiguity of the "values" field is
// resolved once at parse time by StatValues.
package model
