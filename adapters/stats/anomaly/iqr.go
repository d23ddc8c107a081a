package anomaly

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

// IQRDetector reports per-column outlier counts with the exact interquartile
// bounds [Q1 − 1.5·IQR, Q3 + 1.5·IQR].
type IQRDetector struct{}

// Name returns the detector name.
func (d *IQRDetector) Name() string { return "iqr_outlier" }

// Detect scans every numeric column with more than three non-null values.
func (d *IQRDetector) Detect(ds *table.Dataset) analysis.DetectorResult {
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
		q1, err1 := stats.Percentile(values, 25)
		q3, err2 := stats.Percentile(values, 75)
		if err1 != nil || err2 != nil {
			continue
		}
		iqr := q3 - q1
		if iqr <= 0 {
			continue
		}
		lower := q1 - 1.5*iqr
		upper := q3 + 1.5*iqr

		outliers := 0
		for _, v := range values {
			if v < lower || v > upper {
				outliers++
			}
		}
		if outliers == 0 {
			continue
		}

		pct := float64(outliers) / float64(ds.Rows()) * 100
		findings = append(findings, analysis.Finding{
			Type:   "iqr_outlier",
			Column: col.Name,
			Title:  fmt.Sprintf("IQR Outliers in %s", col.Name),
			Description: fmt.Sprintf("Detected %d values outside [%.2f, %.2f]",
				outliers, lower, upper),
			Explanation: fmt.Sprintf("In '%s', %d values fall outside the typical range. Based on where most of your data sits (between %.2f and %.2f), anything below %.2f or above %.2f is considered unusual.",
				col.Name, outliers, q1, q3, lower, upper),
			WhyItMatters: "These unusual values can skew your analysis and might represent special cases or errors",
			Action: fmt.Sprintf("Investigate these %d outliers - consider removing them or analyzing them separately",
				outliers),
			Count:      outliers,
			Percentage: pct,
			Severity:   severityForShare(pct),
			Metrics: map[string]float64{
				"lower_bound": lower,
				"upper_bound": upper,
			},
		})
	}
	return produced(d.Name(), findings)
}
