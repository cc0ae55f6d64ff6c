// Package main provides the entry point for the loadlens CLI.
//
// loadlens analyzes k6 load test result files and prints a human-readable
// summary: key performance indicators classified against thresholds, and
// a short list of recommendations.
//
// Usage:
//
//	loadlens analyze <results.json>
//	loadlens compare <label>
//
// See --help for all available options.
package main

// main is the entry point for loadlens.
func main() {
	Execute()
}
