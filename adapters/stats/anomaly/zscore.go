package anomaly

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const (
	zScoreThreshold = 3.0
	minNonNull      = 3
)

// ZScoreDetector flags values more than three standard deviations from the
// column mean.
type ZScoreDetector struct{}

// Name returns the detector name.
func (d *ZScoreDetector) Name() string { return "z_score_outlier" }

// Detect scans every numeric column with more than three non-null values.
func (d *ZScoreDetector) Detect(ds *table.Dataset) analysis.DetectorResult {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return skipped(d.Name(), "no numeric columns")
	}

	findings := []analysis.Finding{}
	for _, col := range numeric {
		values := col.FloatValues()
		if len(values) <= minNonNull {
			continue
		}
		mean, _ := stats.Mean(values)
		std, _ := stats.StandardDeviation(values)
		if std == 0 {
			continue
		}

		outliers := 0
		for _, v := range values {
			if math.Abs((v-mean)/std) > zScoreThreshold {
				outliers++
			}
		}
		if outliers == 0 {
			continue
		}

		pct := float64(outliers) / float64(len(values)) * 100
		findings = append(findings, analysis.Finding{
			Type:   "z_score_outlier",
			Column: col.Name,
			Title:  fmt.Sprintf("Z-Score Outliers in %s", col.Name),
			Description: fmt.Sprintf("Detected %d outliers (%.1f%% of non-null values) using Z-score method",
				outliers, pct),
			Explanation: fmt.Sprintf("In the '%s' column, %d values are extremely different from the average - they're more than 3 standard deviations away from the mean. These are the 'oddball' values.",
				col.Name, outliers),
			WhyItMatters: "Outliers can indicate errors, rare events, or important exceptions that need attention",
			Action: fmt.Sprintf("Review these %d unusual values - are they data entry errors, special cases, or legitimate extreme values?",
				outliers),
			Count:      outliers,
			Percentage: pct,
			Severity:   severityForShare(pct),
		})
	}
	return produced(d.Name(), findings)
}
