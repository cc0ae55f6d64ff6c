package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/nao1215/loadlens/internal/model"
)

// bannerWidth is the width of the section separators.
const bannerWidth = 60

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: Output is plain text with status glyphs; ANSI color is
// opt-in and applied only to values, never to the glyphs themselves, so
// piped or file output stays clean and the glyph text is stable for
// consumers that grep it.
type SimpleWriter struct {
	baseWriter

	// colored enables ANSI coloring of classified values.
	colored bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables ANSI coloring of classified values.
// Coloring still honors the NO_COLOR convention via the color package.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.colored = enabled
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeMetadata(&sb, summary)
	w.writeKPI(&sb, summary)
	w.writeRecommendations(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report banner and the analyzed file name.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")
	sb.WriteString("                   K6 LOAD TEST ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("File: %s\n\n", summary.SourceFile))
}

// writeMetadata writes the test metadata section when present.
func (w *SimpleWriter) writeMetadata(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasMetadata {
		return
	}

	sb.WriteString("Test Metadata:\n")
	sb.WriteString(fmt.Sprintf("  Environment: %s\n", summary.BaseURL))
	sb.WriteString(fmt.Sprintf("  Test Type:   %s\n", summary.TestType))
	sb.WriteString("\n")
}

// writeKPI writes the key performance indicator sections in fixed order.
func (w *SimpleWriter) writeKPI(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", bannerWidth))
	sb.WriteString("\n")
	sb.WriteString("KEY PERFORMANCE INDICATORS\n")
	sb.WriteString(strings.Repeat("-", bannerWidth))
	sb.WriteString("\n\n")

	w.writeDuration(sb, summary)
	w.writeRequests(sb, summary)
	w.writeErrorRate(sb, summary)
	w.writeVirtualUsers(sb, summary)
	w.writeDataTransfer(sb, summary)
}

// writeDuration writes the latency section.
func (w *SimpleWriter) writeDuration(sb *strings.Builder, summary *model.Summary) {
	if summary.Duration == nil {
		return
	}

	sb.WriteString("HTTP Request Duration:\n")

	if summary.Duration.Scalar {
		value := strconv.FormatFloat(summary.Duration.Value, 'f', -1, 64)
		sb.WriteString(fmt.Sprintf("  Value: %s ms\n\n", value))
		return
	}

	if len(summary.Duration.Stats) == 0 {
		sb.WriteString("  No recognized statistics\n\n")
		return
	}

	for _, stat := range summary.Duration.Stats {
		value := fmt.Sprintf("%10.2f ms", stat.Value)
		sb.WriteString(fmt.Sprintf("  %-8s %s  %s\n",
			stat.Name, w.colorizeStatus(stat.Status, value), stat.Status.Glyph()))
	}
	sb.WriteString("\n")
}

// writeRequests writes the request count section.
func (w *SimpleWriter) writeRequests(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasRequests {
		return
	}

	sb.WriteString("HTTP Requests:\n")
	sb.WriteString(fmt.Sprintf("  Total: %.0f\n\n", summary.Requests))
}

// writeErrorRate writes the error rate section.
func (w *SimpleWriter) writeErrorRate(sb *strings.Builder, summary *model.Summary) {
	if summary.ErrorRate == nil {
		return
	}

	rate := fmt.Sprintf("%.2f%%", summary.ErrorRate.Rate*100)
	sb.WriteString("Error Rate:\n")
	sb.WriteString(fmt.Sprintf("  Rate: %s  %s\n",
		w.colorizeStatus(summary.ErrorRate.Status, rate), summary.ErrorRate.Status.Glyph()))
	sb.WriteString(fmt.Sprintf("  Failed Requests: %.0f\n\n", summary.ErrorRate.Failed))
}

// writeVirtualUsers writes the VU section. Each line is independent.
func (w *SimpleWriter) writeVirtualUsers(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasVUs && !summary.HasVUsMax {
		return
	}

	sb.WriteString("Virtual Users:\n")
	if summary.HasVUs {
		sb.WriteString(fmt.Sprintf("  Current: %.0f\n", summary.VUs))
	}
	if summary.HasVUsMax {
		sb.WriteString(fmt.Sprintf("  Max: %.0f\n", summary.VUsMax))
	}
	sb.WriteString("\n")
}

// writeDataTransfer writes the data volume section. Each line is independent.
func (w *SimpleWriter) writeDataTransfer(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasDataReceived && !summary.HasDataSent {
		return
	}

	sb.WriteString("Data Transfer:\n")
	if summary.HasDataReceived {
		sb.WriteString(fmt.Sprintf("  Received: %.2f MB\n", summary.ReceivedMB()))
	}
	if summary.HasDataSent {
		sb.WriteString(fmt.Sprintf("  Sent: %.2f MB\n", summary.SentMB()))
	}
	sb.WriteString("\n")
}

// writeRecommendations writes the ordered recommendation list.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")
	sb.WriteString("RECOMMENDATIONS\n")
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n\n")

	for _, rec := range summary.Recommendations {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			rec.Level.Glyph(), w.colorizeLevel(rec.Level, rec.Message)))
	}
	sb.WriteString("\n")
}

// writeFooter writes the closing banner.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")
}

// colorizeStatus colors a classified value when coloring is enabled.
func (w *SimpleWriter) colorizeStatus(status model.Status, s string) string {
	if !w.colored {
		return s
	}
	switch status {
	case model.StatusGood:
		return color.GreenString("%s", s)
	case model.StatusWarning:
		return color.YellowString("%s", s)
	case model.StatusCritical:
		return color.RedString("%s", s)
	default:
		return s
	}
}

// colorizeLevel colors a recommendation message when coloring is enabled.
func (w *SimpleWriter) colorizeLevel(level model.Level, s string) string {
	if !w.colored {
		return s
	}
	switch level {
	case model.LevelSuccess:
		return color.GreenString("%s", s)
	case model.LevelWarning:
		return color.YellowString("%s", s)
	case model.LevelInfo:
		return color.CyanString("%s", s)
	default:
		return s
	}
}
