package database

import (
	"context"
	"testing"

	"github.com/nao1215/loadlens/internal/model"
)

// openTestDB opens a RunDB in a temporary directory.
func openTestDB(t *testing.T) *RunDB {
	t.Helper()

	rdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return rdb
}

// testSummary creates a summary for storage tests.
func testSummary(sourceFile string, p95 float64) *model.Summary {
	s := model.NewSummary(sourceFile)
	s.Duration = &model.DurationSummary{
		Stats: []model.DurationStat{
			{Name: model.StatP95, Value: p95, Status: model.StatusGood},
		},
	}
	s.ErrorRate = &model.ErrorRateSummary{Rate: 0.002, Failed: 3, Status: model.StatusGood}
	s.HasRequests = true
	s.Requests = 1500
	s.Recommendations = []model.Recommendation{
		{Level: model.LevelSuccess, Message: "Latency is excellent!"},
	}
	return s
}

// TestSaveAndLoadRun tests the save and query round trip.
func TestSaveAndLoadRun(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	id, err := rdb.SaveRun(ctx, "basic-load", testSummary("results.json", 450))
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive run ID, got %d", id)
	}

	run, err := rdb.RunByID(ctx, id)
	if err != nil {
		t.Fatalf("failed to load run: %v", err)
	}
	if run == nil {
		t.Fatal("expected run to exist")
	}

	if run.Label != "basic-load" {
		t.Errorf("expected label basic-load, got %q", run.Label)
	}
	if !run.P95.Valid || run.P95.Float64 != 450 {
		t.Errorf("expected p95=450, got %+v", run.P95)
	}
	if !run.ErrorRate.Valid || run.ErrorRate.Float64 != 0.002 {
		t.Errorf("expected error rate 0.002, got %+v", run.ErrorRate)
	}
	if !run.Requests.Valid || run.Requests.Float64 != 1500 {
		t.Errorf("expected requests 1500, got %+v", run.Requests)
	}
	if run.Summary == nil || run.Summary.SourceFile != "results.json" {
		t.Error("expected stored summary to round trip")
	}
	if len(run.Summary.Recommendations) != 1 {
		t.Errorf("expected 1 recommendation, got %d", len(run.Summary.Recommendations))
	}
}

// TestLatestRuns tests ordering and limiting of run history.
func TestLatestRuns(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	for _, p95 := range []float64{400, 450, 500} {
		if _, err := rdb.SaveRun(ctx, "basic-load", testSummary("results.json", p95)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
	if _, err := rdb.SaveRun(ctx, "spike", testSummary("spike.json", 900)); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	runs, err := rdb.LatestRuns(ctx, "basic-load", 2)
	if err != nil {
		t.Fatalf("failed to query runs: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	// Newest first: the last saved basic-load run had p95=500.
	if !runs[0].P95.Valid || runs[0].P95.Float64 != 500 {
		t.Errorf("expected newest run first (p95=500), got %+v", runs[0].P95)
	}
	if !runs[1].P95.Valid || runs[1].P95.Float64 != 450 {
		t.Errorf("expected second newest run (p95=450), got %+v", runs[1].P95)
	}
}

// TestRunByIDMissing tests lookup of a nonexistent run.
func TestRunByIDMissing(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)

	run, err := rdb.RunByID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Error("expected nil for missing run")
	}
}

// TestListLabels tests label aggregation.
func TestListLabels(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := rdb.SaveRun(ctx, "basic-load", testSummary("results.json", 450)); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}
	if _, err := rdb.SaveRun(ctx, "spike", testSummary("spike.json", 900)); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	labels, err := rdb.ListLabels(ctx)
	if err != nil {
		t.Fatalf("failed to list labels: %v", err)
	}

	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}

	counts := make(map[string]int)
	for _, info := range labels {
		counts[info.Label] = info.RunCount
	}
	if counts["basic-load"] != 2 || counts["spike"] != 1 {
		t.Errorf("unexpected label counts: %v", counts)
	}
}

// TestOpenWithoutCreate tests that a missing database is not created
// when CreateIfNotExists is disabled.
func TestOpenWithoutCreate(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false, EnableWAL: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("expected error for missing database")
	}
}

// TestSaveRunWithoutIndicators tests saving a summary with no KPIs.
func TestSaveRunWithoutIndicators(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	summary := model.NewSummary("empty.json")
	summary.Recommendations = []model.Recommendation{
		{Level: model.LevelInfo, Message: "Test completed successfully."},
	}

	id, err := rdb.SaveRun(ctx, "empty", summary)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	run, err := rdb.RunByID(ctx, id)
	if err != nil {
		t.Fatalf("failed to load run: %v", err)
	}
	if run.P95.Valid || run.ErrorRate.Valid || run.Requests.Valid {
		t.Error("expected null indicators for empty summary")
	}
}
