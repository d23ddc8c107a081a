package synthesis

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscope/domain/analysis"
	apperrors "tabscope/internal/errors"
	"tabscope/internal/observability"
	"tabscope/ports"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Complete(ctx context.Context, prompt string, opts ports.GenerationOptions) (string, error) {
	return s.response, s.err
}

func sampleRecord() *analysis.Record {
	return &analysis.Record{
		RunID: "test-run",
		Profile: &analysis.DatasetProfile{
			Overview: analysis.Overview{TotalRows: 500, TotalColumns: 6},
			Quality:  analysis.QualityScore{Score: 87, MissingPercentage: 2.5},
			QualityIssues: []string{
				"Column 'email' has 12% missing values",
			},
		},
		Insights: []analysis.Finding{
			{Title: "Strong Correlation: price and revenue", Description: "High positive correlation (0.91)", Confidence: 0.91},
			{Title: "Skewed distribution in revenue", Description: "Mean differs from median", Confidence: 0.8},
		},
		Anomalies: []analysis.Finding{
			{Title: "IQR Outliers in revenue", Description: "Detected 3 values outside [10.00, 90.00]"},
		},
		Charts: []analysis.ChartPlan{
			{ChartType: "distribution", Column: "revenue"},
			{ChartType: "distribution", Column: "price"},
			{ChartType: "correlation_heatmap"},
		},
	}
}

func TestSummarizeWithoutLLMUsesFallback(t *testing.T) {
	rec := sampleRecord()
	New(nil, observability.NewLogger("synthesis", io.Discard)).Summarize(context.Background(), rec)

	assert.True(t, strings.HasPrefix(rec.Summary, "EXECUTIVE SUMMARY"))
	assert.Contains(t, rec.Summary, "Total Records: 500")
}

func TestSummarizeUsesLLMResponse(t *testing.T) {
	rec := sampleRecord()
	llm := &stubLLM{response: "The dataset looks healthy overall."}
	New(llm, observability.NewLogger("synthesis", io.Discard)).Summarize(context.Background(), rec)

	assert.Equal(t, "The dataset looks healthy overall.", rec.Summary)
}

func TestSummarizeQuotaPrefixesFallback(t *testing.T) {
	rec := sampleRecord()
	llm := &stubLLM{err: apperrors.QuotaExhausted(errors.New("payment required"))}
	New(llm, observability.NewLogger("synthesis", io.Discard)).Summarize(context.Background(), rec)

	require.True(t, strings.HasPrefix(rec.Summary,
		"LLM credits exhausted. Displaying automatic summary instead:\n\n"))
	assert.Contains(t, rec.Summary, "EXECUTIVE SUMMARY")
}

func TestSummarizeOtherErrorsFallBackSilently(t *testing.T) {
	rec := sampleRecord()
	llm := &stubLLM{err: errors.New("timeout")}
	New(llm, observability.NewLogger("synthesis", io.Discard)).Summarize(context.Background(), rec)

	assert.True(t, strings.HasPrefix(rec.Summary, "EXECUTIVE SUMMARY"))
	assert.NotContains(t, rec.Summary, "credits exhausted")
}

func TestBuildContextSections(t *testing.T) {
	ctx := BuildContext(sampleRecord())

	for _, want := range []string{
		"ANALYSIS SUMMARY CONTEXT",
		"DATA PROFILE:",
		"- Total Rows: 500",
		"DATA QUALITY SCORE: 87/100",
		"Data Quality Issues:",
		"KEY INSIGHTS:",
		"1. Strong Correlation: price and revenue",
		"Confidence: 91%",
		"DETECTED ANOMALIES:",
		"- IQR Outliers in revenue",
		"VISUALIZATIONS PLANNED: 3",
		"Types: distribution, correlation_heatmap",
	} {
		assert.Contains(t, ctx, want)
	}
}

func TestBuildContextNilRecord(t *testing.T) {
	ctx := BuildContext(nil)
	assert.True(t, strings.HasPrefix(ctx, "ANALYSIS SUMMARY CONTEXT"))
}

func TestFallbackSummaryTopFindings(t *testing.T) {
	summary := FallbackSummary(sampleRecord())

	assert.Contains(t, summary, "Key Findings:")
	assert.Contains(t, summary, "1. Strong Correlation: price and revenue")
	assert.Contains(t, summary, "Total anomalies detected: 1")
}

func TestFallbackSummaryEmptyRecord(t *testing.T) {
	summary := FallbackSummary(&analysis.Record{})
	assert.True(t, strings.HasPrefix(summary, "EXECUTIVE SUMMARY"))
	assert.NotContains(t, summary, "Key Findings:")
}
