package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nao1215/loadlens/internal/model"
)

// createTestSummary creates a summary with sample data for testing.
func createTestSummary() *model.Summary {
	s := model.NewSummary("k6-results/basic-load-test.json")
	s.HasMetadata = true
	s.BaseURL = "https://api.example.com"
	s.TestType = "basic-load"
	s.Duration = &model.DurationSummary{
		Stats: []model.DurationStat{
			{Name: model.StatP95, Value: 450, Status: model.StatusGood},
			{Name: model.StatAvg, Value: 120.5, Status: model.StatusGood},
		},
	}
	s.HasRequests = true
	s.Requests = 1500
	s.ErrorRate = &model.ErrorRateSummary{Rate: 0.002, Failed: 3, Status: model.StatusGood}
	s.HasVUs = true
	s.VUs = 50
	s.HasVUsMax = true
	s.VUsMax = 100
	s.HasDataReceived = true
	s.DataReceivedBytes = 1048576
	s.HasDataSent = true
	s.DataSentBytes = 524288
	s.Recommendations = []model.Recommendation{
		{Level: model.LevelSuccess, Message: "Latency is excellent!"},
		{Level: model.LevelSuccess, Message: "Load test passed! System is performing well."},
	}
	return s
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes banner and file name", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "K6 LOAD TEST ANALYSIS") {
			t.Error("expected output to contain banner title")
		}
		if !strings.Contains(output, "File: k6-results/basic-load-test.json") {
			t.Error("expected output to contain file name")
		}
		if !strings.HasSuffix(output, strings.Repeat("=", 60)+"\n") {
			t.Error("expected output to end with closing banner")
		}
	})

	t.Run("writes metadata", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Environment: https://api.example.com") {
			t.Error("expected output to contain environment")
		}
		if !strings.Contains(output, "Test Type:   basic-load") {
			t.Error("expected output to contain test type")
		}
	})

	t.Run("writes classified duration stats with glyphs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "p(95)") {
			t.Error("expected output to contain p(95)")
		}
		if !strings.Contains(output, "450.00 ms  ✅") {
			t.Error("expected good-status duration line")
		}
	})

	t.Run("writes error rate as two-decimal percentage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Rate: 0.20%  ✅") {
			t.Error("expected good-status error rate line with 0.20%")
		}
		if !strings.Contains(output, "Failed Requests: 3") {
			t.Error("expected failed request count")
		}
	})

	t.Run("converts data transfer to mebibytes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Received: 1.00 MB") {
			t.Error("expected received volume 1.00 MB")
		}
		if !strings.Contains(output, "Sent: 0.50 MB") {
			t.Error("expected sent volume 0.50 MB")
		}
	})

	t.Run("writes both recommendations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Latency is excellent!") {
			t.Error("expected latency recommendation")
		}
		if !strings.Contains(output, "Load test passed! System is performing well.") {
			t.Error("expected overall pass recommendation")
		}
	})

	t.Run("scalar duration printed without classification", func(t *testing.T) {
		t.Parallel()

		s := model.NewSummary("results.json")
		s.Duration = &model.DurationSummary{Scalar: true, Value: 1234.5}
		s.Recommendations = []model.Recommendation{
			{Level: model.LevelInfo, Message: "Test completed successfully."},
		}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Value: 1234.5 ms") {
			t.Error("expected scalar duration line")
		}
		if strings.Contains(output, "1234.5 ms  ✅") || strings.Contains(output, "1234.5 ms  ❌") {
			t.Error("expected no status glyph on scalar duration")
		}
	})

	t.Run("minimal summary keeps header footer and fallback", func(t *testing.T) {
		t.Parallel()

		s := model.NewSummary("empty.json")
		s.Recommendations = []model.Recommendation{
			{Level: model.LevelInfo, Message: "Test completed successfully."},
		}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "K6 LOAD TEST ANALYSIS") {
			t.Error("expected banner")
		}
		if !strings.Contains(output, "Test completed successfully.") {
			t.Error("expected fallback recommendation")
		}
		if strings.Contains(output, "HTTP Request Duration") ||
			strings.Contains(output, "Virtual Users") ||
			strings.Contains(output, "Data Transfer") {
			t.Error("expected absent sections to be skipped")
		}
	})

	t.Run("idempotent output", func(t *testing.T) {
		t.Parallel()

		summary := createTestSummary()

		var first, second bytes.Buffer
		if _, err := NewSimpleWriter(&first).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewSimpleWriter(&second).Write(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !bytes.Equal(first.Bytes(), second.Bytes()) {
			t.Error("expected byte-identical output for repeated writes")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output decodes back", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.Summary
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if decoded.Requests != 1500 {
			t.Errorf("expected 1500 requests, got %v", decoded.Requests)
		}
		if len(decoded.Recommendations) != 2 {
			t.Errorf("expected 2 recommendations, got %d", len(decoded.Recommendations))
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes title and tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# K6 Load Test Analysis") {
			t.Error("expected H1 title")
		}
		if !strings.Contains(output, "## Key Performance Indicators") {
			t.Error("expected KPI heading")
		}
		if !strings.Contains(output, "p(95)") {
			t.Error("expected duration table content")
		}
		if !strings.Contains(output, "0.20%") {
			t.Error("expected error rate content")
		}
		if !strings.Contains(output, "1.00 MB") {
			t.Error("expected data transfer content")
		}
	})

	t.Run("writes recommendation list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Recommendations") {
			t.Error("expected recommendations heading")
		}
		if !strings.Contains(output, "Latency is excellent!") {
			t.Error("expected recommendation content")
		}
	})

	t.Run("warning recommendation produces warning alert", func(t *testing.T) {
		t.Parallel()

		s := model.NewSummary("results.json")
		s.Recommendations = []model.Recommendation{
			{Level: model.LevelWarning, Message: "High error rate detected. Check backend logs."},
		}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "WARNING") {
			t.Error("expected warning alert")
		}
	})
}

// TestMultiWriter tests fan-out to multiple writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, jsonBuf bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&jsonBuf))

	n, err := mw.Write(createTestSummary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n != text.Len()+jsonBuf.Len() {
		t.Errorf("expected total %d bytes, got %d", text.Len()+jsonBuf.Len(), n)
	}
	if text.Len() == 0 || jsonBuf.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}
