package insight

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

func numericColumn(name string, values []float64) table.Column {
	return table.Column{Name: name, Kind: table.KindNumeric, Numbers: values, Nulls: make([]bool, len(values))}
}

func categoricalColumn(name string, values []string) table.Column {
	return table.Column{Name: name, Kind: table.KindCategorical, Strings: values, Nulls: make([]bool, len(values))}
}

func linearDataset(n int) *table.Dataset {
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = 2*float64(i) + 1
	}
	return table.New([]table.Column{numericColumn("x", x), numericColumn("y", y)})
}

func TestCorrelationDetectorFindsLinearRelationship(t *testing.T) {
	res := (&CorrelationDetector{}).Detect(linearDataset(20), nil)
	require.Equal(t, analysis.OutcomeProduced, res.Outcome)
	require.Len(t, res.Findings, 1)

	f := res.Findings[0]
	assert.Equal(t, "correlation", f.Type)
	assert.InDelta(t, 1.0, f.Metrics["correlation"], 1e-9)
	require.NotNil(t, f.Significant)
	assert.True(t, *f.Significant, "perfect correlation over 20 points must be significant")
}

func TestCorrelationDetectorSkipsWithOneNumericColumn(t *testing.T) {
	ds := table.New([]table.Column{numericColumn("only", []float64{1, 2, 3})})
	res := (&CorrelationDetector{}).Detect(ds, nil)
	assert.Equal(t, analysis.OutcomeSkipped, res.Outcome)
}

func TestGenerateSortsByConfidenceDescending(t *testing.T) {
	values := make([]float64, 40)
	pair := make([]float64, 40)
	group := make([]string, 40)
	for i := range values {
		values[i] = float64(i % 7)
		pair[i] = values[i] * 3
		if i%2 == 0 {
			group[i] = "a"
		} else {
			group[i] = "b"
		}
	}
	ds := table.New([]table.Column{
		numericColumn("v", values),
		numericColumn("w", pair),
		categoricalColumn("g", group),
	})

	findings, results := New(5000).Generate(ds, nil)
	require.NotEmpty(t, results)
	for i := 1; i < len(findings); i++ {
		assert.GreaterOrEqual(t, findings[i-1].Confidence, findings[i].Confidence,
			"insights must be sorted by confidence descending")
	}
}

func TestGenerateFastPathOverRowLimit(t *testing.T) {
	ds := linearDataset(200)

	findings, results := New(100).Generate(ds, nil)
	require.Len(t, results, 1)
	assert.Equal(t, "fast_path", results[0].Detector)
	assert.LessOrEqual(t, len(findings), fastPathMaxFindings)

	// The fast path still reports the strong correlation.
	found := false
	for _, f := range findings {
		if f.Type == "correlation" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGroupComparisonDetector(t *testing.T) {
	group := make([]string, 20)
	value := make([]float64, 20)
	for i := range group {
		if i < 10 {
			group[i] = "control"
			value[i] = float64(10 + i%3)
		} else {
			group[i] = "treated"
			value[i] = float64(50 + i%3)
		}
	}
	ds := table.New([]table.Column{
		categoricalColumn("arm", group),
		numericColumn("score", value),
	})

	res := (&GroupComparisonDetector{}).Detect(ds, nil)
	require.Equal(t, analysis.OutcomeProduced, res.Outcome)
	require.NotEmpty(t, res.Findings)

	f := res.Findings[0]
	assert.Equal(t, "group_comparison", f.Type)
	require.NotNil(t, f.Significant)
	assert.True(t, *f.Significant, "a 40-point gap over 10+10 samples must be significant")
}

func TestMissingDataDetectorThreshold(t *testing.T) {
	nulls := make([]bool, 10)
	nulls[0], nulls[1] = true, true // 20% missing
	ds := table.New([]table.Column{
		{Name: "gappy", Kind: table.KindNumeric, Numbers: make([]float64, 10), Nulls: nulls},
		numericColumn("full", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}),
	})

	res := (&MissingDataDetector{}).Detect(ds, nil)
	require.Equal(t, analysis.OutcomeProduced, res.Outcome)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "gappy", res.Findings[0].Column)
	assert.InDelta(t, 0.4, res.Findings[0].Confidence, 1e-9, "confidence is pct/50 capped at 1")
}

func TestSkewnessMatchesKnownValue(t *testing.T) {
	// Symmetric data has zero skew.
	sym := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 0, skewness(sym), 1e-9)

	// A heavy right tail yields positive skew.
	right := []float64{1, 1, 1, 2, 2, 3, 10}
	assert.Greater(t, skewness(right), 1.0)
}

func TestPearsonPValueBounds(t *testing.T) {
	p := pearsonPValue(0.99, 30)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 0.001)

	weak := pearsonPValue(0.05, 10)
	assert.Greater(t, weak, 0.05)
	assert.False(t, math.IsNaN(weak))
}
