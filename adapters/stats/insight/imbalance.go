package insight

import (
	"fmt"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const imbalanceShareThreshold = 60.0

// ImbalanceDetector reports categorical columns where the most frequent
// value exceeds a 60% share of all rows.
type ImbalanceDetector struct{}

// Name returns the detector name.
func (d *ImbalanceDetector) Name() string { return "imbalance" }

// Detect checks every categorical column for a dominant value.
func (d *ImbalanceDetector) Detect(ds *table.Dataset, _ *analysis.DatasetProfile) analysis.DetectorResult {
	categorical := ds.CategoricalColumns()
	if len(categorical) == 0 {
		return skipped(d.Name(), "no categorical columns")
	}

	findings := []analysis.Finding{}
	for _, col := range categorical {
		topValue, topCount, distinct := dominantValue(col)
		if distinct < 2 {
			continue
		}
		share := float64(topCount) / float64(ds.Rows()) * 100
		if share <= imbalanceShareThreshold {
			continue
		}
		findings = append(findings, analysis.Finding{
			Type:        "imbalance",
			Column:      col.Name,
			Title:       fmt.Sprintf("Imbalanced Categories: %s", col.Name),
			Description: fmt.Sprintf("'%s' represents %.1f%% of %s", topValue, share, col.Name),
			Explanation: fmt.Sprintf("In the '%s' column, '%s' appears much more frequently than other values (%.1f%% of all records)",
				col.Name, topValue, share),
			WhyItMatters: "Imbalanced data can make it hard to see patterns in minority categories",
			Action:       "Consider grouping rare categories or using stratified sampling for balanced analysis",
			Confidence:   share / 100,
			Metrics:      map[string]float64{"top_share_percent": share},
		})
	}
	return produced(d.Name(), findings)
}

// dominantValue finds the most frequent non-null value. The first-seen value
// wins count ties so results are stable across runs.
func dominantValue(col *table.Column) (value string, count, distinct int) {
	counts := map[string]int{}
	var order []string
	for i, v := range col.Strings {
		if i < len(col.Nulls) && col.Nulls[i] {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}
	for _, v := range order {
		if counts[v] > count {
			value, count = v, counts[v]
		}
	}
	return value, count, len(counts)
}
