package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Known metric names emitted by k6 in the summary file.
// Any other metric name in the input is ignored.
const (
	// MetricHTTPReqDuration holds request latency statistics.
	MetricHTTPReqDuration = "http_req_duration"

	// MetricHTTPRequests holds the total request count.
	MetricHTTPRequests = "http_requests"

	// MetricHTTPReqFailed holds the failure rate and failed request count.
	MetricHTTPReqFailed = "http_req_failed"

	// MetricVUs holds the current virtual user count.
	MetricVUs = "vus"

	// MetricVUsMax holds the maximum virtual user count.
	MetricVUsMax = "vus_max"

	// MetricDataReceived holds the received byte count.
	MetricDataReceived = "data_received"

	// MetricDataSent holds the sent byte count.
	MetricDataSent = "data_sent"
)

// UnknownValue is the placeholder printed for absent metadata fields.
const UnknownValue = "Unknown"

// ResultRecord is the top-level structure of a k6 summary file.
//
// Design decision: We decode into typed optional fields rather than walking
// a map[string]any with ad hoc defaulting. All leniency (missing fields,
// numeric strings, scalar-vs-mapping values) is handled once during
// deserialization, so the analysis code only deals with resolved values.
type ResultRecord struct {
	// Metadata describes the test run. Optional.
	Metadata *Metadata `json:"metadata,omitempty"`

	// Metrics maps metric name to its recorded values.
	Metrics map[string]MetricEntry `json:"metrics,omitempty"`
}

// Metric returns the entry for the given metric name.
// The second return value reports whether the metric is present.
func (r *ResultRecord) Metric(name string) (MetricEntry, bool) {
	if r == nil || r.Metrics == nil {
		return MetricEntry{}, false
	}
	entry, ok := r.Metrics[name]
	return entry, ok
}

// Metadata holds optional test run metadata from the summary file.
type Metadata struct {
	// Env is the environment mapping the test ran with (e.g. BASE_URL).
	// Values may be of any JSON type; non-string values are ignored.
	Env map[string]any `json:"env,omitempty"`

	// TestType names the test scenario (e.g. "basic-load", "spike").
	TestType string `json:"testType,omitempty"`
}

// BaseURL returns the BASE_URL environment entry, or UnknownValue when the
// entry is missing or not a string.
func (m *Metadata) BaseURL() string {
	if m == nil {
		return UnknownValue
	}
	if v, ok := m.Env["BASE_URL"].(string); ok && v != "" {
		return v
	}
	return UnknownValue
}

// Type returns the test type, or UnknownValue when absent.
func (m *Metadata) Type() string {
	if m == nil || m.TestType == "" {
		return UnknownValue
	}
	return m.TestType
}

// MetricEntry holds the recorded values of a single metric.
// Every field is optional; a missing field decodes to its zero value.
type MetricEntry struct {
	// Value is the metric's point value (counts, byte totals, VU levels).
	Value Number `json:"value,omitempty"`

	// Rate is the metric's rate between 0 and 1 (http_req_failed).
	Rate Number `json:"rate,omitempty"`

	// Values holds either a bare number or a statistic breakdown.
	Values *StatValues `json:"values,omitempty"`
}

// Number is a float64 that tolerates the value shapes k6 emits: JSON
// numbers, numeric strings, and null. Anything unparseable decodes to zero.
//
// Design decision: String-vs-numeric coercion is centralized here rather
// than repeated at each use site. A partially populated record must never
// fail decoding, so UnmarshalJSON absorbs bad values instead of erroring.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil
	}
	*n = Number(f)
	return nil
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 {
	return float64(n)
}

// StatValues is the "values" field of a metric entry. k6 emits it either as
// a bare number or as a mapping from statistic label (e.g. "p(95)", "avg")
// to a number or numeric string.
//
// Design decision: The scalar-vs-mapping ambiguity is resolved once here as
// a tagged variant instead of leaking interface{} type switches into the
// analysis code. A value that is neither shape (array, bool) is treated as
// absent, matching the leniency policy for malformed fields.
type StatValues struct {
	scalar    Number
	breakdown map[string]Number
	isScalar  bool
}

// NewScalarStatValues creates a StatValues holding a single number.
func NewScalarStatValues(v float64) *StatValues {
	return &StatValues{scalar: Number(v), isScalar: true}
}

// NewBreakdownStatValues creates a StatValues holding a statistic mapping.
func NewBreakdownStatValues(stats map[string]float64) *StatValues {
	m := make(map[string]Number, len(stats))
	for k, v := range stats {
		m[k] = Number(v)
	}
	return &StatValues{breakdown: m}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *StatValues) UnmarshalJSON(data []byte) error {
	v.scalar = 0
	v.breakdown = nil
	v.isScalar = false

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	if trimmed[0] == '{' {
		m := make(map[string]Number)
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return nil
		}
		v.breakdown = m
		return nil
	}

	var n Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return nil
	}
	// Arrays and booleans fall through Number's lenient decoding as zero,
	// but they must register as absent, not as a zero scalar.
	if trimmed[0] == '[' || trimmed[0] == 't' || trimmed[0] == 'f' {
		return nil
	}
	v.scalar = n
	v.isScalar = true
	return nil
}

// MarshalJSON implements json.Marshaler, round-tripping the original shape.
func (v *StatValues) MarshalJSON() ([]byte, error) {
	if v.IsBreakdown() {
		return json.Marshal(v.breakdown)
	}
	if v.isScalar {
		return json.Marshal(v.scalar)
	}
	return []byte("null"), nil
}

// IsScalar reports whether the value is a bare number.
func (v *StatValues) IsScalar() bool {
	return v != nil && v.isScalar
}

// IsBreakdown reports whether the value is a statistic mapping.
func (v *StatValues) IsBreakdown() bool {
	return v != nil && v.breakdown != nil
}

// Scalar returns the bare number. Zero when the value is not scalar.
func (v *StatValues) Scalar() float64 {
	if !v.IsScalar() {
		return 0
	}
	return v.scalar.Float64()
}

// Stat returns the named statistic from the breakdown.
// The second return value reports whether the statistic is present.
func (v *StatValues) Stat(name string) (float64, bool) {
	if !v.IsBreakdown() {
		return 0, false
	}
	n, ok := v.breakdown[name]
	return n.Float64(), ok
}
