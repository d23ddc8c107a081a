package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscope/domain/analysis"
)

func reportRecord() *analysis.Record {
	return &analysis.Record{
		RunID:   "run-123",
		Summary: "Everything looks reasonable.",
		Profile: &analysis.DatasetProfile{
			Overview:    analysis.Overview{TotalRows: 100, TotalColumns: 2},
			Quality:     analysis.QualityScore{Score: 93},
			ColumnOrder: []string{"sales", "region"},
			Columns: map[string]analysis.ColumnProfile{
				"sales":  {Name: "sales", Kind: "numeric", NullPercentage: 1.5, UniqueValues: 87},
				"region": {Name: "region", Kind: "categorical", UniqueValues: 4},
			},
			QualityIssues: []string{"Column 'sales' has outliers"},
		},
		Insights: []analysis.Finding{{
			Title:       "Strong Correlation: sales and quantity",
			Description: "High positive correlation (0.910)",
			Explanation: "They move together.",
			Action:      "Use one to predict the other",
			Confidence:  0.91,
			Metrics:     map[string]float64{"correlation": 0.91, "p_value": 0.0001},
		}},
		Anomalies: []analysis.Finding{{
			Title:       "IQR Outliers in sales",
			Description: "Detected 2 values outside [10.00, 90.00]",
			Severity:    analysis.SeverityHigh,
		}},
		Charts: []analysis.ChartPlan{{
			ChartType:   "distribution",
			Column:      "sales",
			Title:       "Distribution of sales",
			Description: "Histogram of sales values",
		}},
		Warning: "Dataset sampled: Using 100 of 200 rows for faster processing",
	}
}

func TestBuildMarkdownSections(t *testing.T) {
	md := BuildMarkdown(reportRecord())

	for _, want := range []string{
		"# Analysis Report",
		"Run: run-123",
		"> **Warnings**: Dataset sampled",
		"## Executive Summary",
		"Everything looks reasonable.",
		"## Dataset Profile",
		"- Data quality score: 93/100",
		"### Quality Issues",
		"| Column | Kind | Missing % | Unique |",
		"| sales | numeric | 1.5 | 87 |",
		"## Insights",
		"### Strong Correlation: sales and quantity",
		"(confidence 91%)",
		"**Suggested action**: Use one to predict the other",
		"_correlation=0.91, p_value=0.0001_",
		"## Anomalies",
		"(severity high)",
		"## Planned Charts",
		"- **Distribution of sales** (distribution): Histogram of sales values",
	} {
		assert.Contains(t, md, want)
	}
}

func TestBuildMarkdownOmitsEmptySections(t *testing.T) {
	md := BuildMarkdown(&analysis.Record{RunID: "empty"})

	assert.NotContains(t, md, "## Executive Summary")
	assert.NotContains(t, md, "## Insights")
	assert.NotContains(t, md, "## Anomalies")
	assert.NotContains(t, md, "## Planned Charts")
	assert.NotContains(t, md, "> **Errors")
}

func TestBuildMarkdownErrorBlockquote(t *testing.T) {
	md := BuildMarkdown(&analysis.Record{RunID: "r", Error: "Error in profile stage: boom"})
	assert.Contains(t, md, "> **Errors during analysis**: Error in profile stage: boom")
}

func TestToHTMLProducesCompletePage(t *testing.T) {
	out := string(ToHTML("# Title\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n"))

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
}

func TestWriteCreatesBothFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	mdPath, err := Write(reportRecord(), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "report_run-123.md"), mdPath)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# Analysis Report"))

	htmlBytes, err := os.ReadFile(filepath.Join(dir, "report_run-123.html"))
	require.NoError(t, err)
	assert.Contains(t, string(htmlBytes), "<html")
}
