package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/loadlens/internal/model"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing, e.g. pasting a
// load test result into a pull request or wiki page.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables, lists, and GitHub-flavored
// markdown alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeKPI(md, summary)
	w.writeRecommendations(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the overall alert, and the metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("K6 Load Test Analysis")
	md.PlainText("")

	w.writeAlert(md, summary)

	rows := [][]string{
		{"File", "`" + summary.SourceFile + "`"},
	}
	if summary.HasMetadata {
		rows = append(rows,
			[]string{"Environment", summary.BaseURL},
			[]string{"Test Type", summary.TestType},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes a GitHub-flavored alert summarizing the worst finding.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	worst := worstLevel(summary)
	switch worst {
	case model.LevelWarning:
		md.Warningf("This load test produced warnings that should be addressed.")
	case model.LevelSuccess:
		md.Tip("This load test passed its thresholds.")
	default:
		md.Note("Test completed; no threshold checks fired.")
	}
	md.PlainText("")
}

// worstLevel returns the most severe recommendation level in the summary.
func worstLevel(summary *model.Summary) model.Level {
	worst := model.LevelInfo
	for _, rec := range summary.Recommendations {
		switch rec.Level {
		case model.LevelWarning:
			return model.LevelWarning
		case model.LevelSuccess:
			worst = model.LevelSuccess
		case model.LevelInfo:
			// Keeps the current worst.
		}
	}
	return worst
}

// writeKPI writes the key performance indicator sections.
func (w *MarkdownWriter) writeKPI(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Key Performance Indicators")
	md.PlainText("")

	w.writeDuration(md, summary)
	w.writeCounters(md, summary)
}

// writeDuration writes the latency statistics table.
func (w *MarkdownWriter) writeDuration(md *markdown.Markdown, summary *model.Summary) {
	if summary.Duration == nil {
		return
	}

	md.H3("HTTP Request Duration")
	md.PlainText("")

	if summary.Duration.Scalar {
		md.PlainText(fmt.Sprintf("Value: %s ms",
			strconv.FormatFloat(summary.Duration.Value, 'f', -1, 64)))
		md.PlainText("")
		return
	}

	if len(summary.Duration.Stats) == 0 {
		md.PlainText("No recognized statistics.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary.Duration.Stats))
	for _, stat := range summary.Duration.Stats {
		rows = append(rows, []string{
			stat.Name,
			fmt.Sprintf("%.2f", stat.Value),
			stat.Status.Glyph() + " " + stat.Status.String(),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value (ms)", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCounters writes the remaining KPI sections as a single table.
func (w *MarkdownWriter) writeCounters(md *markdown.Markdown, summary *model.Summary) {
	rows := make([][]string, 0, 6)

	if summary.HasRequests {
		rows = append(rows, []string{"Total Requests", fmt.Sprintf("%.0f", summary.Requests)})
	}
	if summary.ErrorRate != nil {
		rows = append(rows, []string{
			"Error Rate",
			fmt.Sprintf("%.2f%% %s", summary.ErrorRate.Rate*100, summary.ErrorRate.Status.Glyph()),
		})
		rows = append(rows, []string{"Failed Requests", fmt.Sprintf("%.0f", summary.ErrorRate.Failed)})
	}
	if summary.HasVUs {
		rows = append(rows, []string{"Virtual Users", fmt.Sprintf("%.0f", summary.VUs)})
	}
	if summary.HasVUsMax {
		rows = append(rows, []string{"Max Virtual Users", fmt.Sprintf("%.0f", summary.VUsMax)})
	}
	if summary.HasDataReceived {
		rows = append(rows, []string{"Data Received", fmt.Sprintf("%.2f MB", summary.ReceivedMB())})
	}
	if summary.HasDataSent {
		rows = append(rows, []string{"Data Sent", fmt.Sprintf("%.2f MB", summary.SentMB())})
	}

	if len(rows) == 0 {
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecommendations writes the recommendation list.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Recommendations")
	md.PlainText("")

	items := make([]string, 0, len(summary.Recommendations))
	for _, rec := range summary.Recommendations {
		items = append(items, rec.Level.Glyph()+" "+rec.Message)
	}

	md.BulletList(items...)
	md.PlainText("")
}
