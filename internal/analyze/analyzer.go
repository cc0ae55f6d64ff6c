package analyze

import (
	"log/slog"

	"github.com/nao1215/loadlens/internal/config"
	"github.com/nao1215/loadlens/internal/model"
)

// Recommendation messages. The texts are fixed; which ones appear, and in
// what order, is decided by Analyzer.buildRecommendations.
const (
	recHighErrorRate     = "High error rate detected. Check backend logs."
	recElevatedErrorRate = "Error rate above 1%. Investigate failed endpoints."
	recLatencyHigh       = "P95 latency > 1s. Consider optimization."
	recLatencyElevated   = "P95 latency acceptable but slightly elevated."
	recLatencyExcellent  = "Latency is excellent!"
	recTestPassed        = "Load test passed! System is performing well."
	recCompleted         = "Test completed successfully."
)

// Analyzer extracts known metrics from a result record and classifies
// them against thresholds.
type Analyzer struct {
	thresholds config.Thresholds
	logger     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithThresholds sets custom classification thresholds.
func WithThresholds(t config.Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an Analyzer with default thresholds.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		thresholds: config.DefaultThresholds(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Analyze builds a Summary from the given result record.
// It never fails: missing metrics or fields degrade to defaults, and the
// recommendation list always holds at least the fallback entry. The same
// record always produces the same summary content.
func (a *Analyzer) Analyze(sourceFile string, record *model.ResultRecord) *model.Summary {
	summary := model.NewSummary(sourceFile)

	a.extractMetadata(record, summary)
	a.extractDuration(record, summary)
	a.extractRequests(record, summary)
	a.extractErrorRate(record, summary)
	a.extractVUs(record, summary)
	a.extractDataTransfer(record, summary)
	a.buildRecommendations(record, summary)

	a.logger.Debug("analysis complete",
		"file", sourceFile,
		"metrics", len(record.Metrics),
		"recommendations", len(summary.Recommendations),
	)

	return summary
}

// extractMetadata fills the metadata section when the record carries one.
func (a *Analyzer) extractMetadata(record *model.ResultRecord, summary *model.Summary) {
	if record.Metadata == nil {
		return
	}
	summary.HasMetadata = true
	summary.BaseURL = record.Metadata.BaseURL()
	summary.TestType = record.Metadata.Type()
}

// extractDuration fills the latency section from http_req_duration.
// A statistic breakdown yields the recognized statistics in fixed order,
// each classified on its own value. A bare scalar is carried through
// unclassified.
func (a *Analyzer) extractDuration(record *model.ResultRecord, summary *model.Summary) {
	entry, ok := record.Metric(model.MetricHTTPReqDuration)
	if !ok {
		return
	}

	switch {
	case entry.Values.IsBreakdown():
		duration := &model.DurationSummary{}
		for _, name := range model.StatOrder {
			v, ok := entry.Values.Stat(name)
			if !ok {
				continue
			}
			duration.Stats = append(duration.Stats, model.DurationStat{
				Name:   name,
				Value:  v,
				Status: a.classifyDuration(v),
			})
		}
		summary.Duration = duration
	case entry.Values.IsScalar():
		summary.Duration = &model.DurationSummary{
			Scalar: true,
			Value:  entry.Values.Scalar(),
		}
	default:
		// Metric present but values missing or unusable: show the
		// section as an empty breakdown rather than dropping it.
		summary.Duration = &model.DurationSummary{}
	}
}

// extractRequests fills the request count from http_requests.
func (a *Analyzer) extractRequests(record *model.ResultRecord, summary *model.Summary) {
	entry, ok := record.Metric(model.MetricHTTPRequests)
	if !ok {
		return
	}
	summary.HasRequests = true
	summary.Requests = entry.Value.Float64()
}

// extractErrorRate fills the error rate section from http_req_failed.
func (a *Analyzer) extractErrorRate(record *model.ResultRecord, summary *model.Summary) {
	entry, ok := record.Metric(model.MetricHTTPReqFailed)
	if !ok {
		return
	}
	rate := entry.Rate.Float64()
	summary.ErrorRate = &model.ErrorRateSummary{
		Rate:   rate,
		Failed: entry.Value.Float64(),
		Status: a.classifyErrorRate(rate),
	}
}

// extractVUs fills the virtual user counts. Each metric is independent:
// the absence of one never suppresses the other.
func (a *Analyzer) extractVUs(record *model.ResultRecord, summary *model.Summary) {
	if entry, ok := record.Metric(model.MetricVUs); ok {
		summary.HasVUs = true
		summary.VUs = entry.Value.Float64()
	}
	if entry, ok := record.Metric(model.MetricVUsMax); ok {
		summary.HasVUsMax = true
		summary.VUsMax = entry.Value.Float64()
	}
}

// extractDataTransfer fills the transferred byte counts, each independent.
func (a *Analyzer) extractDataTransfer(record *model.ResultRecord, summary *model.Summary) {
	if entry, ok := record.Metric(model.MetricDataReceived); ok {
		summary.HasDataReceived = true
		summary.DataReceivedBytes = entry.Value.Float64()
	}
	if entry, ok := record.Metric(model.MetricDataSent); ok {
		summary.HasDataSent = true
		summary.DataSentBytes = entry.Value.Float64()
	}
}

// buildRecommendations evaluates the fixed recommendation checks in order.
// Each check appends at most one entry; the fallback fires only when no
// check produced anything.
func (a *Analyzer) buildRecommendations(record *model.ResultRecord, summary *model.Summary) {
	var recs []model.Recommendation

	// Error rate check. The two tiers are mutually exclusive: only the
	// first match fires. Strictly-greater comparisons here, unlike the
	// section status which uses the tier lower bounds inclusively.
	failed, hasFailed := record.Metric(model.MetricHTTPReqFailed)
	if hasFailed {
		rate := failed.Rate.Float64()
		if rate > a.thresholds.ErrorRateWarn {
			recs = append(recs, model.Recommendation{
				Level:   model.LevelWarning,
				Message: recHighErrorRate,
			})
		} else if rate > a.thresholds.ErrorRateGood {
			recs = append(recs, model.Recommendation{
				Level:   model.LevelWarning,
				Message: recElevatedErrorRate,
			})
		}
	}

	// Latency check. Fires exactly once when the duration metric carries
	// a statistic breakdown with a p(95) entry.
	p95, hasP95 := durationP95(record)
	if hasP95 {
		switch {
		case p95 > a.thresholds.DurationWarnMs:
			recs = append(recs, model.Recommendation{
				Level:   model.LevelWarning,
				Message: recLatencyHigh,
			})
		case p95 > a.thresholds.DurationGoodMs:
			recs = append(recs, model.Recommendation{
				Level:   model.LevelInfo,
				Message: recLatencyElevated,
			})
		default:
			recs = append(recs, model.Recommendation{
				Level:   model.LevelSuccess,
				Message: recLatencyExcellent,
			})
		}
	}

	// Overall health check. Additive: it may appear alongside the
	// latency success above.
	if hasFailed && failed.Rate.Float64() < a.thresholds.ErrorRateGood &&
		hasP95 && p95 < a.thresholds.DurationGoodMs {
		recs = append(recs, model.Recommendation{
			Level:   model.LevelSuccess,
			Message: recTestPassed,
		})
	}

	if len(recs) == 0 {
		recs = append(recs, model.Recommendation{
			Level:   model.LevelInfo,
			Message: recCompleted,
		})
	}

	summary.Recommendations = recs
}

// durationP95 returns the p(95) statistic of http_req_duration when the
// metric carries a breakdown containing it.
func durationP95(record *model.ResultRecord) (float64, bool) {
	entry, ok := record.Metric(model.MetricHTTPReqDuration)
	if !ok || !entry.Values.IsBreakdown() {
		return 0, false
	}
	return entry.Values.Stat(model.StatP95)
}

// classifyDuration classifies a latency value in milliseconds.
func (a *Analyzer) classifyDuration(v float64) model.Status {
	switch {
	case v < a.thresholds.DurationGoodMs:
		return model.StatusGood
	case v < a.thresholds.DurationWarnMs:
		return model.StatusWarning
	default:
		return model.StatusCritical
	}
}

// classifyErrorRate classifies a failure rate between 0 and 1.
func (a *Analyzer) classifyErrorRate(r float64) model.Status {
	switch {
	case r < a.thresholds.ErrorRateGood:
		return model.StatusGood
	case r < a.thresholds.ErrorRateWarn:
		return model.StatusWarning
	default:
		return model.StatusCritical
	}
}
