package profiler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

// Keyword lists driving special-column detection.
var (
	idKeywords     = []string{"id", "key", "index", "code", "number", "num", "serial"}
	targetKeywords = []string{
		"target", "label", "outcome", "result", "class", "prediction",
		"response", "dependent", "y", "output", "status", "success",
		"failure", "churn", "converted",
	}
	descriptiveStoplist = map[string]bool{"name": true, "description": true, "notes": true}
)

const (
	dateSampleLimit    = 100
	dateParseThreshold = 0.7
	lowCardinalityMax  = 10
)

// Engine computes the dataset profile: per-column statistics, special
// column detection, usage recommendations and the data quality score.
type Engine struct{}

// New creates a profiling engine.
func New() *Engine {
	return &Engine{}
}

// Profile analyzes every column of the dataset. Computed once per run.
func (e *Engine) Profile(ds *table.Dataset) (*analysis.DatasetProfile, error) {
	if ds == nil || ds.Rows() == 0 {
		return nil, fmt.Errorf("no dataset to profile")
	}

	profile := &analysis.DatasetProfile{
		Overview: analysis.Overview{
			TotalRows:    ds.Rows(),
			TotalColumns: ds.Cols(),
		},
		Columns:     make(map[string]analysis.ColumnProfile, ds.Cols()),
		ColumnOrder: ds.ColumnNames(),
	}

	for i := range ds.Columns {
		col := &ds.Columns[i]
		profile.Columns[col.Name] = e.profileColumn(col, ds.Rows())
	}

	e.detectColumnRoles(ds, profile)
	profile.Recommendations = e.recommend(profile)
	e.scoreQuality(ds, profile)

	return profile, nil
}

func (e *Engine) profileColumn(col *table.Column, totalRows int) analysis.ColumnProfile {
	nonNull := col.NonNullCount()
	nullCount := col.Len() - nonNull

	cp := analysis.ColumnProfile{
		Name:           col.Name,
		Kind:           string(col.Kind),
		Numeric:        col.Kind == table.KindNumeric,
		NonNullCount:   nonNull,
		NullCount:      nullCount,
		NullPercentage: round2(float64(nullCount) / float64(totalRows) * 100),
	}

	if col.Kind == table.KindNumeric {
		values := col.FloatValues()
		if len(values) > 0 {
			cp.Mean = computed(stats.Mean(values))
			cp.Median = computed(stats.Median(values))
			cp.StdDev = computed(stats.StandardDeviationSample(values))
			cp.Min = computed(stats.Min(values))
			cp.Max = computed(stats.Max(values))
			cp.Q1 = computed(stats.Percentile(values, 25))
			cp.Q3 = computed(stats.Percentile(values, 75))
			if cp.Q1 != nil && cp.Q3 != nil {
				cp.OutlierCount = CountIQROutliers(values, *cp.Q1, *cp.Q3)
			}
		}
		return cp
	}

	cp.UniqueValues = col.UniqueCount()
	cp.TopValues = topValues(col.ValueCounts(), 5)
	return cp
}

// CountIQROutliers counts values strictly outside
// [Q1 − 1.5·IQR, Q3 + 1.5·IQR].
func CountIQROutliers(values []float64, q1, q3 float64) int {
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	count := 0
	for _, v := range values {
		if v < lower || v > upper {
			count++
		}
	}
	return count
}

// detectColumnRoles populates the summary: numeric/categorical buckets,
// date, id, constant columns and target suggestions.
func (e *Engine) detectColumnRoles(ds *table.Dataset, profile *analysis.DatasetProfile) {
	summary := &profile.Summary
	summary.NumericColumns = []string{}
	summary.CategoricalColumns = []string{}
	summary.DateColumns = []string{}
	summary.IDColumns = []string{}
	summary.ConstantColumns = []string{}
	summary.TargetSuggestions = []analysis.TargetSuggestion{}

	for i := range ds.Columns {
		col := &ds.Columns[i]
		lower := strings.ToLower(col.Name)
		unique := col.UniqueCount()
		ratio := 0.0
		if ds.Rows() > 0 {
			ratio = float64(unique) / float64(ds.Rows())
		}

		if col.Kind == table.KindNumeric {
			summary.NumericColumns = append(summary.NumericColumns, col.Name)
		} else {
			summary.CategoricalColumns = append(summary.CategoricalColumns, col.Name)
		}

		// Date columns take priority: a column that reads as dates is not
		// also tagged as id, constant or target.
		if col.Kind == table.KindCategorical &&
			col.DateParseRatio(dateSampleLimit) > dateParseThreshold {
			summary.DateColumns = append(summary.DateColumns, col.Name)
			continue
		}

		hasIDKeyword := containsAnyKeyword(lower, idKeywords)
		isID := (ratio > 0.95 && unique > 10) || (hasIDKeyword && ratio > 0.8)
		if isID {
			summary.IDColumns = append(summary.IDColumns, col.Name)
		}

		if unique == 1 {
			summary.ConstantColumns = append(summary.ConstantColumns, col.Name)
		}

		hasTargetKeyword := false
		for _, kw := range targetKeywords {
			if lower == kw || strings.HasSuffix(lower, "_"+kw) {
				hasTargetKeyword = true
				break
			}
		}
		isBinary := unique == 2
		isLowCardinality := unique <= lowCardinalityMax && col.Kind == table.KindCategorical

		switch {
		case hasTargetKeyword:
			summary.TargetSuggestions = append(summary.TargetSuggestions, analysis.TargetSuggestion{
				Column:     col.Name,
				Reason:     "Name suggests target variable",
				Confidence: "high",
			})
		case isBinary && !hasIDKeyword:
			summary.TargetSuggestions = append(summary.TargetSuggestions, analysis.TargetSuggestion{
				Column:     col.Name,
				Reason:     fmt.Sprintf("Binary column (%d values)", unique),
				Confidence: "medium",
			})
		case isLowCardinality && !hasIDKeyword && !descriptiveStoplist[lower]:
			summary.TargetSuggestions = append(summary.TargetSuggestions, analysis.TargetSuggestion{
				Column:     col.Name,
				Reason:     fmt.Sprintf("Low cardinality categorical (%d categories)", unique),
				Confidence: "low",
			})
		}
	}
}

// scoreQuality computes the data quality score and issue list from the
// freshly built column profiles. Never incremental.
func (e *Engine) scoreQuality(ds *table.Dataset, profile *analysis.DatasetProfile) {
	totalCells := ds.Rows() * ds.Cols()
	missingCells := 0
	for _, cp := range profile.Columns {
		missingCells += cp.NullCount
	}
	missingPct := 0.0
	if totalCells > 0 {
		missingPct = float64(missingCells) / float64(totalCells) * 100
	}

	dupCount := ds.DuplicateRowCount()
	dupPct := 0.0
	if ds.Rows() > 0 {
		dupPct = float64(dupCount) / float64(ds.Rows()) * 100
	}

	totalNumericValues := 0
	totalOutliers := 0
	for _, cp := range profile.Columns {
		if cp.Numeric {
			totalNumericValues += cp.NonNullCount
			totalOutliers += cp.OutlierCount
		}
	}
	outlierPct := 0.0
	if totalNumericValues > 0 {
		outlierPct = float64(totalOutliers) / float64(totalNumericValues) * 100
	}

	score := math.Max(0, 100-(missingPct+dupPct+outlierPct))

	profile.Quality = analysis.QualityScore{
		Score:               round1(score),
		MissingPercentage:   round2(missingPct),
		DuplicatePercentage: round2(dupPct),
		OutlierPercentage:   round2(outlierPct),
		TotalMissing:        missingCells,
		TotalDuplicates:     dupCount,
		TotalOutliers:       totalOutliers,
	}

	issues := []string{}
	for _, name := range profile.ColumnOrder {
		cp := profile.Columns[name]
		if cp.NullPercentage > 50 {
			issues = append(issues, fmt.Sprintf("Column '%s' has %.2f%% missing values", name, cp.NullPercentage))
		}
	}
	if dupCount > 0 {
		issues = append(issues, fmt.Sprintf("Found %d duplicate rows (%.1f%%)", dupCount, dupPct))
	}
	if totalOutliers > 0 {
		issues = append(issues, fmt.Sprintf("Found %d outliers across numeric columns (%.1f%%)", totalOutliers, outlierPct))
	}
	profile.QualityIssues = issues
}

func topValues(counts map[string]int, n int) map[string]int {
	type pair struct {
		value string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].value < pairs[j].value
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		out[p.value] = p.count
	}
	return out
}

func containsAnyKeyword(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// computed lifts a montanaflynn/stats result into an optional field,
// dropping the error for empty input.
func computed(v float64, err error) *float64 {
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
