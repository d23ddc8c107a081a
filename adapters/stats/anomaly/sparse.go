package anomaly

import (
	"fmt"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

// sparseShareThreshold is the fraction of categories that may appear exactly
// once before the column is flagged.
const sparseShareThreshold = 0.20

// SparseCategoryDetector flags categorical columns where a large share of
// the distinct values occur only once.
type SparseCategoryDetector struct{}

// Name returns the detector name.
func (d *SparseCategoryDetector) Name() string { return "sparse_category" }

// Detect examines every categorical column's value counts.
func (d *SparseCategoryDetector) Detect(ds *table.Dataset) analysis.DetectorResult {
	categorical := ds.CategoricalColumns()
	if len(categorical) == 0 {
		return skipped(d.Name(), "no categorical columns")
	}

	findings := []analysis.Finding{}
	for _, col := range categorical {
		counts := col.ValueCounts()
		if len(counts) == 0 {
			continue
		}
		singles := 0
		for _, n := range counts {
			if n == 1 {
				singles++
			}
		}
		share := float64(singles) / float64(len(counts))
		if share <= sparseShareThreshold {
			continue
		}

		findings = append(findings, analysis.Finding{
			Type:   "sparse_category",
			Column: col.Name,
			Title:  fmt.Sprintf("Sparse Categories in %s", col.Name),
			Description: fmt.Sprintf("%d of %d categories appear only once (%.1f%%)",
				singles, len(counts), share*100),
			Explanation: fmt.Sprintf("The '%s' column has %d categories that each appear only one time. With %d distinct categories total, many of them are one-offs rather than recurring groups.",
				col.Name, singles, len(counts)),
			WhyItMatters: "Rare categories add noise to grouped analysis and can indicate typos or inconsistent labeling",
			Action:       "Consider merging rare categories into an 'Other' bucket or normalizing the labels",
			Count:        singles,
			Percentage:   share * 100,
			Severity:     analysis.SeverityLow,
		})
	}
	return produced(d.Name(), findings)
}
