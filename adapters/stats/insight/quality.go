package insight

import (
	"fmt"
	"math"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const missingShareThreshold = 10.0

// MissingDataDetector reports columns with more than 10% missing values.
type MissingDataDetector struct{}

// Name returns the detector name.
func (d *MissingDataDetector) Name() string { return "missing_data" }

// Detect scans null counts per column.
func (d *MissingDataDetector) Detect(ds *table.Dataset, _ *analysis.DatasetProfile) analysis.DetectorResult {
	findings := []analysis.Finding{}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		nulls := col.NullCount()
		if nulls == 0 {
			continue
		}
		missingPct := float64(nulls) / float64(ds.Rows()) * 100
		if missingPct <= missingShareThreshold {
			continue
		}
		findings = append(findings, analysis.Finding{
			Type:        "missing_data",
			Column:      col.Name,
			Title:       fmt.Sprintf("Significant Missing Data: %s", col.Name),
			Description: fmt.Sprintf("Column '%s' has %.1f%% missing values", col.Name, missingPct),
			Explanation: fmt.Sprintf("Out of %d total records, %d are missing in '%s'", ds.Rows(), nulls, col.Name),
			WhyItMatters: "Missing data can lead to incomplete analysis and biased results",
			Action:       "Decide whether to fill missing values (mean/median), remove rows, or exclude this column",
			Confidence:   math.Min(missingPct/50, 1.0),
			Count:        nulls,
			Percentage:   missingPct,
		})
	}
	return produced(d.Name(), findings)
}

// DuplicateDetector reports any exact duplicate rows.
type DuplicateDetector struct{}

// Name returns the detector name.
func (d *DuplicateDetector) Name() string { return "duplicates" }

// Detect counts duplicated rows.
func (d *DuplicateDetector) Detect(ds *table.Dataset, _ *analysis.DatasetProfile) analysis.DetectorResult {
	dups := ds.DuplicateRowCount()
	if dups == 0 {
		return produced(d.Name(), nil)
	}
	dupPct := float64(dups) / float64(ds.Rows()) * 100
	return produced(d.Name(), []analysis.Finding{{
		Type:         "duplicates",
		Title:        "Duplicate Records Detected",
		Description:  fmt.Sprintf("Found %d duplicate rows (%.1f%% of dataset)", dups, dupPct),
		Explanation:  fmt.Sprintf("%d rows are exact copies of other rows in your dataset", dups),
		WhyItMatters: "Duplicates can skew statistics and create false patterns",
		Action:       "Remove duplicates if they're errors, or investigate if they're legitimate repeated events",
		Confidence:   math.Min(dupPct/50, 1.0),
		Count:        dups,
		Percentage:   dupPct,
	}})
}
