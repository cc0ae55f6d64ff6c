// Package database provides SQLite-based storage for analyzed run history.
//
// Every successful analysis can be persisted as a run keyed by a label
// (the result file's base name), which enables the compare command to
// diff a run against earlier ones without re-reading old result files.
package database
