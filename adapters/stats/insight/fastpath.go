package insight

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const (
	fastPathMaxFindings = 10
	fastSkewColumns     = 5
	fastSkewRatio       = 0.3
)

// fastInsights is the reduced detector set for large datasets: pairwise
// correlation plus a mean-versus-median skew check over the first numeric
// columns. It deliberately drops the association, imbalance and group
// comparison detectors to bound latency.
func fastInsights(ds *table.Dataset) ([]analysis.Finding, []analysis.DetectorResult) {
	findings := []analysis.Finding{}
	numeric := ds.NumericColumns()

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			x, y := alignedPair(numeric[i], numeric[j])
			if len(x) < 2 {
				continue
			}
			r := pearsonR(x, y)
			if math.Abs(r) <= correlationThreshold {
				continue
			}
			tendency := "increase"
			if r < 0 {
				tendency = "decrease"
			}
			findings = append(findings, analysis.Finding{
				Type:        "correlation",
				Title:       fmt.Sprintf("Strong correlation: %s and %s", numeric[i].Name, numeric[j].Name),
				Description: fmt.Sprintf("Correlation coefficient: %.3f", r),
				Explanation: explainCorrelation(numeric[i].Name, numeric[j].Name, r),
				WhyItMatters: fmt.Sprintf("When one value increases, the other tends to %s proportionally",
					tendency),
				Action:     "Consider using one to predict the other, or investigate the relationship further",
				Confidence: math.Min(math.Abs(r), 0.95),
				Metrics:    map[string]float64{"correlation": r},
			})
		}
	}

	limit := len(numeric)
	if limit > fastSkewColumns {
		limit = fastSkewColumns
	}
	for _, col := range numeric[:limit] {
		values := col.FloatValues()
		if len(values) == 0 {
			continue
		}
		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		if math.Abs(mean-median)/(median+0.0001) <= fastSkewRatio {
			continue
		}
		side := "lower"
		extreme := "unusually high"
		if mean < median {
			side = "higher"
			extreme = "unusually low"
		}
		findings = append(findings, analysis.Finding{
			Type:        "distribution",
			Column:      col.Name,
			Title:       fmt.Sprintf("Skewed distribution in %s", col.Name),
			Description: fmt.Sprintf("Mean (%.2f) differs significantly from median (%.2f)", mean, median),
			Explanation: fmt.Sprintf("Most values in '%s' are concentrated on the %s end, with some %s values affecting the average.",
				col.Name, side, extreme),
			WhyItMatters: "Skewed data means outliers or extreme values are present",
			Action:       "Review the extreme values - are they errors or legitimate data points?",
			Confidence:   0.8,
			Metrics:      map[string]float64{"mean": mean, "median": median},
		})
	}

	if len(findings) > fastPathMaxFindings {
		findings = findings[:fastPathMaxFindings]
	}
	return findings, []analysis.DetectorResult{
		{Detector: "fast_path", Outcome: analysis.OutcomeProduced, Findings: findings},
	}
}
