package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscope/adapters/loader"
	"tabscope/domain/analysis"
	"tabscope/domain/table"
	"tabscope/internal/observability"
	"tabscope/internal/synthesis"
	"tabscope/internal/testkit"
)

func testOrchestrator(t *testing.T, cfg analysis.Config) *Orchestrator {
	t.Helper()
	log := observability.NewLogger("pipeline", io.Discard)
	synth := synthesis.New(nil, log)
	return New(loader.New(), nil, nil, synth, cfg, log)
}

func sampleCSV(t *testing.T, rows int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, testkit.WriteSampleCSV(path, rows))
	return path
}

func TestRunHappyPath(t *testing.T) {
	o := testOrchestrator(t, analysis.DefaultConfig())
	rec := o.Run(context.Background(), sampleCSV(t, 50))

	assert.Equal(t, analysis.StatusCompleted, rec.Status)
	assert.Empty(t, rec.Error)
	assert.NotEmpty(t, rec.RunID)
	assert.Empty(t, rec.CurrentStage)

	require.NotNil(t, rec.Profile)
	assert.Equal(t, 50, rec.Profile.Overview.TotalRows)
	assert.NotEmpty(t, rec.Charts)
	assert.True(t, strings.HasPrefix(rec.Summary, "EXECUTIVE SUMMARY"))

	for i := 1; i < len(rec.Insights); i++ {
		assert.GreaterOrEqual(t, rec.Insights[i-1].Confidence, rec.Insights[i].Confidence)
	}
}

func TestRunWithoutPathFails(t *testing.T) {
	o := testOrchestrator(t, analysis.DefaultConfig())
	rec := o.Run(context.Background(), "")

	assert.Equal(t, analysis.StatusFailed, rec.Status)
	assert.Equal(t, "No file path provided", rec.Error)
	assert.Nil(t, rec.Dataset)
}

func TestRunMissingFileFails(t *testing.T) {
	o := testOrchestrator(t, analysis.DefaultConfig())
	rec := o.Run(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))

	assert.Equal(t, analysis.StatusFailed, rec.Status)
	assert.NotEmpty(t, rec.Error)
}

func TestRunInvalidShapeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	o := testOrchestrator(t, analysis.DefaultConfig())
	rec := o.Run(context.Background(), path)

	assert.Equal(t, analysis.StatusFailed, rec.Status)
	assert.Equal(t, "file needs at least 2 data rows", rec.Error)
}

func TestRunSamplesLargeDataset(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.SampleCeiling = 20

	o := testOrchestrator(t, cfg)
	rec := o.Run(context.Background(), sampleCSV(t, 60))

	assert.Equal(t, analysis.StatusCompleted, rec.Status)
	assert.Contains(t, rec.Warning, "Dataset sampled: Using 20 of 60 rows for faster processing")
	require.NotNil(t, rec.Dataset)
	assert.Equal(t, 20, rec.Dataset.Rows())
}

func TestRunSkipsChartsForLargeDataset(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.SampleCeiling = 0

	o := testOrchestrator(t, cfg)
	rec := o.Run(context.Background(), sampleCSV(t, 5200))

	assert.Equal(t, analysis.StatusCompleted, rec.Status)
	assert.Empty(t, rec.Error, "skipping charts must not set an error")
	assert.Empty(t, rec.Charts)
	assert.Contains(t, rec.Warning, "Visualizations skipped for large dataset (use sampling)")
}

func TestRunChartsDisabled(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.EnableCharts = false

	o := testOrchestrator(t, cfg)
	rec := o.Run(context.Background(), sampleCSV(t, 30))

	assert.Equal(t, analysis.StatusCompleted, rec.Status)
	assert.Empty(t, rec.Charts)
	assert.Empty(t, rec.Error)
}

func TestRunBelowChartRowMinimum(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.MinRowsForCharts = 100

	o := testOrchestrator(t, cfg)
	rec := o.Run(context.Background(), sampleCSV(t, 30))

	assert.Equal(t, analysis.StatusCompleted, rec.Status)
	assert.Empty(t, rec.Charts)
}

type failingStore struct{}

func (failingStore) Build(ctx context.Context, ds *table.Dataset) error {
	return errors.New("disk full")
}
func (failingStore) Schema(ctx context.Context) (string, error) { return "", nil }
func (failingStore) Query(ctx context.Context, sql string, maxRows int) ([]string, [][]any, error) {
	return nil, nil, nil
}
func (failingStore) Close() error { return nil }

func TestRunStoreFailureIsWarning(t *testing.T) {
	log := observability.NewLogger("pipeline", io.Discard)
	o := New(loader.New(), failingStore{}, nil, synthesis.New(nil, log), analysis.DefaultConfig(), log)

	rec := o.Run(context.Background(), sampleCSV(t, 30))

	assert.Equal(t, analysis.StatusCompleted, rec.Status)
	assert.Contains(t, rec.Warning, "DB creation failed: disk full")
	assert.Empty(t, rec.Error)
}

func TestRunDeterministicApartFromRunID(t *testing.T) {
	path := sampleCSV(t, 40)
	o := testOrchestrator(t, analysis.DefaultConfig())

	a := o.Run(context.Background(), path)
	b := o.Run(context.Background(), path)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, len(a.Insights), len(b.Insights))
	assert.Equal(t, len(a.Anomalies), len(b.Anomalies))
	assert.Equal(t, a.Charts, b.Charts)
	assert.Equal(t, fmt.Sprint(a.Profile.Overview), fmt.Sprint(b.Profile.Overview))
}
