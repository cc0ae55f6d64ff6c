// Package analyze extracts and classifies metrics from k6 result records.
//
// The Analyzer walks a fixed set of known metric names, classifies each
// value against the configured thresholds, and builds the ordered
// recommendation list. BatchProcessor runs the same analysis over multiple
// result files concurrently.
package analyze
