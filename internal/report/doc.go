// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: GitHub Flavored Markdown for documentation and sharing
//   - JSONWriter: Structured JSON output for tool integration
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Writers format a
// model.Summary; they never look at the raw result record.
package report
