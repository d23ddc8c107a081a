package insight

import (
	"fmt"
	"math"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const (
	minAxisCategories = 2
	maxAxisCategories = 20
)

// AssociationDetector runs chi-square independence tests over categorical
// column pairs whose contingency table has 2-20 categories on each axis,
// reporting significant pairs with Cramér's V as effect size.
type AssociationDetector struct{}

// Name returns the detector name.
func (d *AssociationDetector) Name() string { return "categorical_relationship" }

// Detect tests every eligible categorical pair for independence.
func (d *AssociationDetector) Detect(ds *table.Dataset, _ *analysis.DatasetProfile) analysis.DetectorResult {
	categorical := ds.CategoricalColumns()
	if len(categorical) < 2 {
		return skipped(d.Name(), "fewer than two categorical columns")
	}

	findings := []analysis.Finding{}
	for i := 0; i < len(categorical); i++ {
		for j := i + 1; j < len(categorical); j++ {
			col1, col2 := categorical[i], categorical[j]
			tbl, rowCats, colCats := contingencyTable(col1, col2)
			if len(rowCats) < minAxisCategories || len(rowCats) > maxAxisCategories ||
				len(colCats) < minAxisCategories || len(colCats) > maxAxisCategories {
				continue
			}

			chi2, n, ok := chiSquareStatistic(tbl)
			if !ok {
				continue
			}
			df := (len(rowCats) - 1) * (len(colCats) - 1)
			p := chiSquarePValue(chi2, df)
			if p >= alpha {
				continue
			}

			minDim := math.Min(float64(len(rowCats)), float64(len(colCats)))
			cramersV := math.Sqrt(chi2 / (float64(n) * (minDim - 1)))
			sig := true

			findings = append(findings, analysis.Finding{
				Type:  "categorical_relationship",
				Title: fmt.Sprintf("Categorical Relationship: %s and %s", col1.Name, col2.Name),
				Description: fmt.Sprintf("Significant association detected (chi2 = %.2f, p-value: %.4f, Cramer's V: %.3f)",
					chi2, p, cramersV),
				Explanation: fmt.Sprintf("The categories in '%s' and '%s' are not independent - knowing one helps predict the other",
					col1.Name, col2.Name),
				WhyItMatters: "These variables influence each other, which can reveal important business relationships",
				Action:       "Explore cross-tabulations and conditional probabilities between these categories",
				Confidence:   math.Min(cramersV, 1.0),
				Metrics: map[string]float64{
					"chi2_statistic": chi2,
					"p_value":        p,
					"cramers_v":      cramersV,
				},
				Significant: &sig,
			})
		}
	}
	return produced(d.Name(), findings)
}

// contingencyTable builds the cross tabulation over rows where both columns
// are non-null. Category order follows first appearance.
func contingencyTable(a, b *table.Column) ([][]int, []string, []string) {
	rowIdx := map[string]int{}
	colIdx := map[string]int{}
	var rowCats, colCats []string
	type cell struct{ r, c int }
	counts := map[cell]int{}

	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for r := 0; r < n; r++ {
		if a.Nulls[r] || b.Nulls[r] {
			continue
		}
		av, bv := a.Strings[r], b.Strings[r]
		ri, ok := rowIdx[av]
		if !ok {
			ri = len(rowCats)
			rowIdx[av] = ri
			rowCats = append(rowCats, av)
		}
		ci, ok := colIdx[bv]
		if !ok {
			ci = len(colCats)
			colIdx[bv] = ci
			colCats = append(colCats, bv)
		}
		counts[cell{ri, ci}]++
	}

	tbl := make([][]int, len(rowCats))
	for i := range tbl {
		tbl[i] = make([]int, len(colCats))
	}
	for c, v := range counts {
		tbl[c.r][c.c] = v
	}
	return tbl, rowCats, colCats
}

// chiSquareStatistic computes the chi-square statistic for a contingency
// table. Returns ok=false when the table is degenerate.
func chiSquareStatistic(tbl [][]int) (chi2 float64, total int, ok bool) {
	rows := len(tbl)
	if rows == 0 {
		return 0, 0, false
	}
	cols := len(tbl[0])

	rowTotals := make([]int, rows)
	colTotals := make([]int, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += tbl[i][j]
			colTotals[j] += tbl[i][j]
			total += tbl[i][j]
		}
	}
	if total == 0 {
		return 0, 0, false
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := float64(rowTotals[i]*colTotals[j]) / float64(total)
			if expected > 0 {
				observed := float64(tbl[i][j])
				chi2 += (observed - expected) * (observed - expected) / expected
			}
		}
	}
	return chi2, total, true
}
