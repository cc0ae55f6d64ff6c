package model

import (
	"encoding/json"
	"testing"
)

// TestNumberUnmarshal tests lenient numeric decoding.
func TestNumberUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain number", input: `123.45`, want: 123.45},
		{name: "integer", input: `42`, want: 42},
		{name: "numeric string", input: `"456.78"`, want: 456.78},
		{name: "numeric string with spaces", input: `" 99 "`, want: 99},
		{name: "null", input: `null`, want: 0},
		{name: "non-numeric string", input: `"fast"`, want: 0},
		{name: "boolean", input: `true`, want: 0},
		{name: "array", input: `[1,2]`, want: 0},
		{name: "object", input: `{"a":1}`, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n Number
			if err := json.Unmarshal([]byte(tt.input), &n); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Float64() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, n.Float64())
			}
		})
	}
}

// TestStatValuesUnmarshal tests the scalar-vs-breakdown tagged variant.
func TestStatValuesUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("breakdown mapping", func(t *testing.T) {
		t.Parallel()

		var v StatValues
		input := `{"p(95)": 450.5, "avg": "120.3", "min": 10}`
		if err := json.Unmarshal([]byte(input), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !v.IsBreakdown() {
			t.Fatal("expected breakdown shape")
		}
		if v.IsScalar() {
			t.Error("expected not scalar")
		}

		p95, ok := v.Stat(StatP95)
		if !ok || p95 != 450.5 {
			t.Errorf("expected p(95)=450.5, got %v (present=%v)", p95, ok)
		}

		// Numeric string statistic is coerced.
		avg, ok := v.Stat(StatAvg)
		if !ok || avg != 120.3 {
			t.Errorf("expected avg=120.3, got %v (present=%v)", avg, ok)
		}

		if _, ok := v.Stat(StatP99); ok {
			t.Error("expected p(99) to be absent")
		}
	})

	t.Run("scalar number", func(t *testing.T) {
		t.Parallel()

		var v StatValues
		if err := json.Unmarshal([]byte(`321.5`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !v.IsScalar() {
			t.Fatal("expected scalar shape")
		}
		if v.Scalar() != 321.5 {
			t.Errorf("expected 321.5, got %v", v.Scalar())
		}
	})

	t.Run("scalar numeric string", func(t *testing.T) {
		t.Parallel()

		var v StatValues
		if err := json.Unmarshal([]byte(`"250"`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !v.IsScalar() {
			t.Fatal("expected scalar shape")
		}
		if v.Scalar() != 250 {
			t.Errorf("expected 250, got %v", v.Scalar())
		}
	})

	t.Run("unsupported shapes treated as absent", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{`[1,2,3]`, `true`, `null`} {
			var v StatValues
			if err := json.Unmarshal([]byte(input), &v); err != nil {
				t.Fatalf("unexpected error for %s: %v", input, err)
			}
			if v.IsScalar() || v.IsBreakdown() {
				t.Errorf("expected %s to register as absent", input)
			}
		}
	})

	t.Run("nil receiver accessors", func(t *testing.T) {
		t.Parallel()

		var v *StatValues
		if v.IsScalar() || v.IsBreakdown() {
			t.Error("expected nil StatValues to report absent")
		}
		if v.Scalar() != 0 {
			t.Error("expected zero scalar from nil receiver")
		}
		if _, ok := v.Stat(StatP95); ok {
			t.Error("expected no statistic from nil receiver")
		}
	})
}

// TestResultRecordDecode tests decoding a full summary file shape.
func TestResultRecordDecode(t *testing.T) {
	t.Parallel()

	input := `{
		"metadata": {
			"env": {"BASE_URL": "https://api.example.com", "STAGE": 3},
			"testType": "spike"
		},
		"metrics": {
			"http_req_duration": {"values": {"p(95)": 450, "p(99)": "800"}},
			"http_requests": {"value": 1200},
			"http_req_failed": {"rate": 0.002, "value": 3},
			"custom_metric": {"value": 7}
		}
	}`

	var record ResultRecord
	if err := json.Unmarshal([]byte(input), &record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Metadata.BaseURL() != "https://api.example.com" {
		t.Errorf("unexpected base URL: %q", record.Metadata.BaseURL())
	}
	if record.Metadata.Type() != "spike" {
		t.Errorf("unexpected test type: %q", record.Metadata.Type())
	}

	entry, ok := record.Metric(MetricHTTPReqFailed)
	if !ok {
		t.Fatal("expected http_req_failed metric")
	}
	if entry.Rate.Float64() != 0.002 {
		t.Errorf("expected rate 0.002, got %v", entry.Rate.Float64())
	}
	if entry.Value.Float64() != 3 {
		t.Errorf("expected value 3, got %v", entry.Value.Float64())
	}

	duration, ok := record.Metric(MetricHTTPReqDuration)
	if !ok {
		t.Fatal("expected http_req_duration metric")
	}
	p99, ok := duration.Values.Stat(StatP99)
	if !ok || p99 != 800 {
		t.Errorf("expected coerced p(99)=800, got %v (present=%v)", p99, ok)
	}

	if _, ok := record.Metric("nonexistent"); ok {
		t.Error("expected missing metric lookup to report absent")
	}
}

// TestMetadataDefaults tests default values for absent metadata fields.
func TestMetadataDefaults(t *testing.T) {
	t.Parallel()

	t.Run("nil metadata", func(t *testing.T) {
		t.Parallel()

		var m *Metadata
		if m.BaseURL() != UnknownValue {
			t.Errorf("expected %q, got %q", UnknownValue, m.BaseURL())
		}
		if m.Type() != UnknownValue {
			t.Errorf("expected %q, got %q", UnknownValue, m.Type())
		}
	})

	t.Run("non-string base URL", func(t *testing.T) {
		t.Parallel()

		m := &Metadata{Env: map[string]any{"BASE_URL": 42}}
		if m.BaseURL() != UnknownValue {
			t.Errorf("expected %q, got %q", UnknownValue, m.BaseURL())
		}
	})
}

// TestResultRecordMetricNilMaps tests lookups against empty records.
func TestResultRecordMetricNilMaps(t *testing.T) {
	t.Parallel()

	var nilRecord *ResultRecord
	if _, ok := nilRecord.Metric(MetricVUs); ok {
		t.Error("expected nil record lookup to report absent")
	}

	empty := &ResultRecord{}
	if _, ok := empty.Metric(MetricVUs); ok {
		t.Error("expected empty record lookup to report absent")
	}
}
