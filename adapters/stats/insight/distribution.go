package insight

import (
	"fmt"
	"math"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const skewnessThreshold = 1.0

// DistributionDetector reports numeric columns whose skewness magnitude
// exceeds 1.
type DistributionDetector struct{}

// Name returns the detector name.
func (d *DistributionDetector) Name() string { return "distribution" }

// Detect checks every numeric column for heavy skew.
func (d *DistributionDetector) Detect(ds *table.Dataset, _ *analysis.DatasetProfile) analysis.DetectorResult {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return skipped(d.Name(), "no numeric columns")
	}

	findings := []analysis.Finding{}
	for _, col := range numeric {
		values := col.FloatValues()
		if len(values) == 0 {
			continue
		}
		skew := skewness(values)
		if math.Abs(skew) <= skewnessThreshold {
			continue
		}
		direction := "right"
		if skew < 0 {
			direction = "left"
		}
		findings = append(findings, analysis.Finding{
			Type:         "distribution",
			Column:       col.Name,
			Title:        fmt.Sprintf("Skewed Distribution: %s", col.Name),
			Description:  fmt.Sprintf("Column '%s' shows %s skew (skewness: %.2f)", col.Name, direction, skew),
			Explanation:  explainSkewness(col.Name, skew),
			WhyItMatters: "Skewed data means most values are concentrated on one side, with outliers on the other",
			Action:       "Consider log transformation or removing outliers for better analysis",
			Confidence:   math.Min(math.Abs(skew)/3, 1.0),
			Metrics:      map[string]float64{"skewness": skew},
		})
	}
	return produced(d.Name(), findings)
}

func explainSkewness(col string, skew float64) string {
	if skew > 0 {
		return fmt.Sprintf("Most values in '%s' are concentrated on the lower end, with some unusually high values pulling the average up. This creates a 'long tail' toward higher values.", col)
	}
	return fmt.Sprintf("Most values in '%s' are concentrated on the higher end, with some unusually low values pulling the average down. This creates a 'long tail' toward lower values.", col)
}
