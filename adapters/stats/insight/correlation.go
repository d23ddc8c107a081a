package insight

import (
	"fmt"
	"math"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const (
	correlationThreshold = 0.70
	alpha                = 0.05
)

// CorrelationDetector reports numeric column pairs with |r| > 0.70,
// annotated with a two-sided significance test over the aligned non-null
// intersection of the pair.
type CorrelationDetector struct{}

// Name returns the detector name.
func (d *CorrelationDetector) Name() string { return "correlation" }

// Detect runs pairwise Pearson correlation over numeric columns.
func (d *CorrelationDetector) Detect(ds *table.Dataset, _ *analysis.DatasetProfile) analysis.DetectorResult {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return skipped(d.Name(), "fewer than two numeric columns")
	}

	findings := []analysis.Finding{}
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

			var significanceText string
			var pValue *float64
			var significant *bool
			if len(x) > 2 {
				p := pearsonPValue(r, len(x))
				sig := p < alpha
				pValue, significant = &p, &sig
				word := "not significant"
				if sig {
					word = "significant"
				}
				significanceText = fmt.Sprintf("p-value: %.4f (%s)", p, word)
			} else {
				significanceText = "insufficient data"
			}

			direction := "positive"
			tendency := "increase"
			if r < 0 {
				direction = "negative"
				tendency = "decrease"
			}

			f := analysis.Finding{
				Type:        "correlation",
				Title:       fmt.Sprintf("Strong Correlation: %s and %s", numeric[i].Name, numeric[j].Name),
				Description: fmt.Sprintf("High %s correlation (%.3f). %s", direction, r, significanceText),
				Explanation: explainCorrelation(numeric[i].Name, numeric[j].Name, r),
				WhyItMatters: fmt.Sprintf("When one value increases, the other tends to %s proportionally",
					tendency),
				Action:      "Consider using one to predict the other, or investigate the underlying relationship",
				Confidence:  math.Abs(r),
				Metrics:     map[string]float64{"correlation": r},
				Significant: significant,
			}
			if pValue != nil {
				f.Metrics["p_value"] = *pValue
			}
			findings = append(findings, f)
		}
	}
	return produced(d.Name(), findings)
}

// alignedPair returns the values at rows where both columns are non-null.
func alignedPair(a, b *table.Column) (x, y []float64) {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for r := 0; r < n; r++ {
		if a.Nulls[r] || b.Nulls[r] {
			continue
		}
		if math.IsNaN(a.Numbers[r]) || math.IsNaN(b.Numbers[r]) {
			continue
		}
		x = append(x, a.Numbers[r])
		y = append(y, b.Numbers[r])
	}
	return x, y
}

func explainCorrelation(col1, col2 string, r float64) string {
	if r > 0 {
		return fmt.Sprintf("When '%s' increases, '%s' tends to increase as well. This suggests they move together in the same direction.", col1, col2)
	}
	return fmt.Sprintf("When '%s' increases, '%s' tends to decrease. This suggests they move in opposite directions.", col1, col2)
}
