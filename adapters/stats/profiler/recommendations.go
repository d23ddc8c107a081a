package profiler

import (
	"fmt"
	"sort"

	"tabscope/domain/analysis"
)

// recommend scores columns for visualization and grouping and flags columns
// needing cleanup. Scoring is additive with fixed point values; identifier
// and constant columns are excluded categorically.
func (e *Engine) recommend(profile *analysis.DatasetProfile) analysis.Recommendations {
	recs := analysis.Recommendations{
		BestForVisualization: []analysis.ColumnRecommendation{},
		BestForGrouping:      []analysis.ColumnRecommendation{},
		ColumnsToClean:       []analysis.CleanupEntry{},
	}

	idCols := toSet(profile.Summary.IDColumns)
	constCols := toSet(profile.Summary.ConstantColumns)
	dateCols := toSet(profile.Summary.DateColumns)

	for _, name := range profile.ColumnOrder {
		info := profile.Columns[name]
		isID := idCols[name]
		isConstant := constCols[name]

		if info.Numeric {
			hasVariance := info.StdDev != nil && *info.StdDev > 0
			lowMissing := info.NullPercentage < 30

			score := 0
			reasons := []string{}
			if hasVariance && !isID && !isConstant {
				score += 3
				reasons = append(reasons, "good variance")
			}
			if lowMissing {
				score += 2
				reasons = append(reasons, "low missing values")
			}
			if float64(info.OutlierCount) < float64(info.NonNullCount)*0.1 {
				score++
				reasons = append(reasons, "few outliers")
			}
			if score >= 4 && !isID {
				recs.BestForVisualization = append(recs.BestForVisualization, analysis.ColumnRecommendation{
					Column:  name,
					Score:   score,
					Reasons: reasons,
					Type:    "numeric",
				})
			}
		}

		if !info.Numeric && !dateCols[name] {
			unique := info.UniqueValues
			idealCardinality := unique >= 2 && unique <= 20
			acceptableCardinality := unique >= 2 && unique <= 50
			lowMissing := info.NullPercentage < 20

			if (idealCardinality || acceptableCardinality) && !isID && !isConstant {
				score := 0
				reasons := []string{}
				if idealCardinality {
					score += 3
					reasons = append(reasons, fmt.Sprintf("ideal cardinality (%d categories)", unique))
				} else {
					score += 2
					reasons = append(reasons, fmt.Sprintf("acceptable cardinality (%d categories)", unique))
				}
				if lowMissing {
					score += 2
					reasons = append(reasons, "low missing values")
				}
				if score >= 3 {
					recs.BestForGrouping = append(recs.BestForGrouping, analysis.ColumnRecommendation{
						Column:  name,
						Score:   score,
						Reasons: reasons,
						Type:    "categorical",
					})
				}
			}
		}

		if dateCols[name] {
			recs.BestForGrouping = append(recs.BestForGrouping, analysis.ColumnRecommendation{
				Column:  name,
				Score:   5,
				Reasons: []string{"time-based grouping", "trend analysis"},
				Type:    "date",
			})
		}

		// Cleanup severity accumulates over missingness, constant values,
		// outlier share and identifier exclusion.
		issues := []string{}
		severity := 0
		if info.NullPercentage > 50 {
			issues = append(issues, fmt.Sprintf("%.1f%% missing values", info.NullPercentage))
			severity += 3
		} else if info.NullPercentage > 20 {
			issues = append(issues, fmt.Sprintf("%.1f%% missing values", info.NullPercentage))
			severity += 2
		}
		if isConstant {
			issues = append(issues, "constant value (no variance)")
			severity += 3
		}
		if info.Numeric && info.NonNullCount > 0 {
			outlierPct := float64(info.OutlierCount) / float64(info.NonNullCount) * 100
			if outlierPct > 20 {
				issues = append(issues, fmt.Sprintf("%.1f%% outliers", outlierPct))
				severity += 2
			} else if outlierPct > 10 {
				issues = append(issues, fmt.Sprintf("%.1f%% outliers", outlierPct))
				severity++
			}
		}
		if isID && !isConstant {
			issues = append(issues, "ID column (exclude from analysis)")
			severity++
		}
		if len(issues) > 0 {
			recs.ColumnsToClean = append(recs.ColumnsToClean, analysis.CleanupEntry{
				Column:   name,
				Severity: severity,
				Issues:   issues,
			})
		}
	}

	sort.SliceStable(recs.BestForVisualization, func(i, j int) bool {
		return recs.BestForVisualization[i].Score > recs.BestForVisualization[j].Score
	})
	sort.SliceStable(recs.BestForGrouping, func(i, j int) bool {
		return recs.BestForGrouping[i].Score > recs.BestForGrouping[j].Score
	})
	sort.SliceStable(recs.ColumnsToClean, func(i, j int) bool {
		return recs.ColumnsToClean[i].Severity > recs.ColumnsToClean[j].Severity
	})

	return recs
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
