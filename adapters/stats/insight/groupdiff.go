package insight

import (
	"fmt"
	"math"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const (
	minGroupSize      = 3
	maxNumericTargets = 5
)

// GroupComparisonDetector runs an independent two-sample t-test for every
// two-valued categorical column against the first five numeric columns,
// reporting significant mean differences.
type GroupComparisonDetector struct{}

// Name returns the detector name.
func (d *GroupComparisonDetector) Name() string { return "group_comparison" }

// Detect compares group means across binary categorical splits.
func (d *GroupComparisonDetector) Detect(ds *table.Dataset, _ *analysis.DatasetProfile) analysis.DetectorResult {
	categorical := ds.CategoricalColumns()
	numeric := ds.NumericColumns()
	if len(categorical) == 0 || len(numeric) == 0 {
		return skipped(d.Name(), "needs categorical and numeric columns")
	}
	if len(numeric) > maxNumericTargets {
		numeric = numeric[:maxNumericTargets]
	}

	findings := []analysis.Finding{}
	for _, catCol := range categorical {
		catA, catB, ok := binaryCategories(catCol)
		if !ok {
			continue
		}
		for _, numCol := range numeric {
			groupA := groupValues(catCol, numCol, catA)
			groupB := groupValues(catCol, numCol, catB)
			if len(groupA) < minGroupSize || len(groupB) < minGroupSize {
				continue
			}

			tStat, p := tTestPooled(groupA, groupB)
			if p >= alpha {
				continue
			}

			meanA, _ := meanVar(groupA)
			meanB, _ := meanVar(groupB)
			diffPct := 0.0
			if meanA != 0 {
				diffPct = math.Abs((meanA - meanB) / meanA * 100)
			}
			sig := true

			findings = append(findings, analysis.Finding{
				Type:  "group_comparison",
				Title: fmt.Sprintf("Significant Difference: %s by %s", numCol.Name, catCol.Name),
				Description: fmt.Sprintf("'%s' (mean: %.2f) vs '%s' (mean: %.2f). t-test: p-value = %.4f",
					catA, meanA, catB, meanB, p),
				Explanation: fmt.Sprintf("The average %s is significantly different between '%s' and '%s' groups (%.1f%% difference)",
					numCol.Name, catA, catB, diffPct),
				WhyItMatters: fmt.Sprintf("The %s category has a measurable impact on %s values", catCol.Name, numCol.Name),
				Action: fmt.Sprintf("Investigate why %s affects %s, or use %s to segment your analysis",
					catCol.Name, numCol.Name, catCol.Name),
				Confidence: math.Min(1-p, 0.95),
				Metrics: map[string]float64{
					"t_statistic":        tStat,
					"p_value":            p,
					"group1_mean":        meanA,
					"group2_mean":        meanB,
					"difference_percent": diffPct,
				},
				Significant: &sig,
			})
		}
	}
	return produced(d.Name(), findings)
}

// binaryCategories returns the two distinct non-null values of a column in
// first-appearance order, or ok=false when the column is not binary.
func binaryCategories(col *table.Column) (a, b string, ok bool) {
	seen := map[string]bool{}
	var order []string
	for i, v := range col.Strings {
		if i < len(col.Nulls) && col.Nulls[i] {
			continue
		}
		if !seen[v] {
			seen[v] = true
			order = append(order, v)
			if len(order) > 2 {
				return "", "", false
			}
		}
	}
	if len(order) != 2 {
		return "", "", false
	}
	return order[0], order[1], true
}

// groupValues collects numeric values at rows where the categorical column
// equals the given category and both cells are non-null.
func groupValues(catCol, numCol *table.Column, category string) []float64 {
	var out []float64
	n := catCol.Len()
	if numCol.Len() < n {
		n = numCol.Len()
	}
	for r := 0; r < n; r++ {
		if catCol.Nulls[r] || numCol.Nulls[r] {
			continue
		}
		if catCol.Strings[r] != category || math.IsNaN(numCol.Numbers[r]) {
			continue
		}
		out = append(out, numCol.Numbers[r])
	}
	return out
}
