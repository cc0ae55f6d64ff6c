package model

import "time"

// Summary is the analyzed view of a result record: every known metric
// extracted, classified, and ready for formatting.
//
// Design decision: We build a separate summary struct rather than printing
// straight from the ResultRecord because:
// 1. It separates extraction/classification from presentation
// 2. It can be serialized to JSON for tools that want structured output
// 3. It is what gets persisted to the run history database
type Summary struct {
	// SourceFile is the path of the analyzed result file.
	SourceFile string `json:"source_file"`

	// AnalyzedAt is when the analysis ran. It is stored with the run
	// history; report writers do not print it.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// === Metadata ===

	// HasMetadata reports whether the record carried a metadata block.
	HasMetadata bool `json:"has_metadata"`

	// BaseURL is the environment base URL, or "Unknown".
	BaseURL string `json:"base_url,omitempty"`

	// TestType is the test scenario name, or "Unknown".
	TestType string `json:"test_type,omitempty"`

	// === Key performance indicators ===

	// Duration holds request latency statistics. Nil when absent.
	Duration *DurationSummary `json:"duration,omitempty"`

	// HasRequests reports whether http_requests was present.
	HasRequests bool `json:"has_requests"`

	// Requests is the total request count.
	Requests float64 `json:"requests"`

	// ErrorRate holds the failure rate section. Nil when absent.
	ErrorRate *ErrorRateSummary `json:"error_rate,omitempty"`

	// HasVUs reports whether the vus metric was present.
	HasVUs bool `json:"has_vus"`

	// VUs is the current virtual user count.
	VUs float64 `json:"vus"`

	// HasVUsMax reports whether the vus_max metric was present.
	HasVUsMax bool `json:"has_vus_max"`

	// VUsMax is the maximum virtual user count.
	VUsMax float64 `json:"vus_max"`

	// HasDataReceived reports whether data_received was present.
	HasDataReceived bool `json:"has_data_received"`

	// DataReceivedBytes is the received byte count.
	DataReceivedBytes float64 `json:"data_received_bytes"`

	// HasDataSent reports whether data_sent was present.
	HasDataSent bool `json:"has_data_sent"`

	// DataSentBytes is the sent byte count.
	DataSentBytes float64 `json:"data_sent_bytes"`

	// Recommendations is the ordered recommendation list. Never empty:
	// a fallback entry is appended when no check fired.
	Recommendations []Recommendation `json:"recommendations"`
}

// NewSummary creates a Summary for the given source file.
func NewSummary(sourceFile string) *Summary {
	return &Summary{
		SourceFile: sourceFile,
		AnalyzedAt: time.Now().UTC(),
	}
}

// P95 returns the 95th percentile latency when the duration section carries
// a statistic breakdown containing it.
func (s *Summary) P95() (float64, bool) {
	if s == nil || s.Duration == nil || s.Duration.Scalar {
		return 0, false
	}
	for _, stat := range s.Duration.Stats {
		if stat.Name == StatP95 {
			return stat.Value, true
		}
	}
	return 0, false
}

// FailureRate returns the error rate, or zero when the section is absent.
func (s *Summary) FailureRate() float64 {
	if s == nil || s.ErrorRate == nil {
		return 0
	}
	return s.ErrorRate.Rate
}

// ReceivedMB returns the received data volume in mebibytes.
func (s *Summary) ReceivedMB() float64 {
	return BytesToMB(s.DataReceivedBytes)
}

// SentMB returns the sent data volume in mebibytes.
func (s *Summary) SentMB() float64 {
	return BytesToMB(s.DataSentBytes)
}

// BytesToMB converts a byte count to mebibytes.
func BytesToMB(b float64) float64 {
	return b / 1024 / 1024
}

// Statistic labels recognized in the http_req_duration breakdown,
// in display order.
const (
	StatP95 = "p(95)"
	StatP99 = "p(99)"
	StatAvg = "avg"
	StatMin = "min"
	StatMax = "max"
)

// StatOrder is the fixed display order for duration statistics.
// Statistics outside this list are not shown.
var StatOrder = []string{StatP95, StatP99, StatAvg, StatMin, StatMax}

// DurationSummary holds the http_req_duration section.
// Exactly one of the two shapes is populated: a scalar value, or an ordered
// list of classified statistics.
type DurationSummary struct {
	// Scalar reports whether the metric carried a bare number instead of
	// a statistic breakdown. Scalar values have no threshold status.
	Scalar bool `json:"scalar"`

	// Value is the bare latency value in milliseconds (scalar shape only).
	Value float64 `json:"value,omitempty"`

	// Stats are the recognized statistics in display order.
	Stats []DurationStat `json:"stats,omitempty"`
}

// DurationStat is one classified latency statistic.
type DurationStat struct {
	// Name is the statistic label (see StatOrder).
	Name string `json:"name"`

	// Value is the latency in milliseconds.
	Value float64 `json:"value"`

	// Status is the threshold classification of Value.
	Status Status `json:"status"`
}

// ErrorRateSummary holds the http_req_failed section.
type ErrorRateSummary struct {
	// Rate is the failure rate between 0 and 1.
	Rate float64 `json:"rate"`

	// Failed is the failed request count.
	Failed float64 `json:"failed"`

	// Status is the threshold classification of Rate.
	Status Status `json:"status"`
}

// Recommendation is one entry in the ordered recommendation list.
type Recommendation struct {
	// Level is the recommendation severity.
	Level Level `json:"level"`

	// Message is the human-readable recommendation text.
	Message string `json:"message"`
}
