package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscope/domain/table"
)

func numericColumn(name string, values []float64) table.Column {
	return table.Column{Name: name, Kind: table.KindNumeric, Numbers: values, Nulls: make([]bool, len(values))}
}

func categoricalColumn(name string, values []string) table.Column {
	return table.Column{Name: name, Kind: table.KindCategorical, Strings: values, Nulls: make([]bool, len(values))}
}

func TestProfileNumericColumn(t *testing.T) {
	ds := table.New([]table.Column{
		numericColumn("amount", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}),
	})

	profile, err := New().Profile(ds)
	require.NoError(t, err)

	cp := profile.Columns["amount"]
	require.NotNil(t, cp.Mean)
	assert.InDelta(t, 5.5, *cp.Mean, 1e-9)
	require.NotNil(t, cp.Min)
	assert.Equal(t, 1.0, *cp.Min)
	require.NotNil(t, cp.Max)
	assert.Equal(t, 10.0, *cp.Max)
	assert.Equal(t, 0, cp.OutlierCount)
}

func TestCountIQROutliersBounds(t *testing.T) {
	values := []float64{1, 2, 3, 4, 1000}
	// Q1=1.5 and Q3=3.5 for this distribution, so bounds are [-1.5, 6.5].
	got := CountIQROutliers(values, 1.5, 3.5)
	assert.Equal(t, 1, got)

	// Values exactly on a bound are not outliers.
	assert.Equal(t, 0, CountIQROutliers([]float64{-1.5, 0, 6.5}, 1.5, 3.5))
}

func TestQualityScoreClampedAndPenalized(t *testing.T) {
	clean := table.New([]table.Column{
		numericColumn("a", []float64{1, 2, 3, 4, 5, 6}),
		categoricalColumn("b", []string{"x", "y", "z", "w", "v", "u"}),
	})
	cleanProfile, err := New().Profile(clean)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cleanProfile.Quality.Score)

	dirty := table.New([]table.Column{
		{Name: "a", Kind: table.KindNumeric, Numbers: []float64{1, 2, 0, 0, 5, 6}, Nulls: []bool{false, false, true, true, false, false}},
		categoricalColumn("b", []string{"x", "x", "x", "x", "x", "x"}),
	})
	dirtyProfile, err := New().Profile(dirty)
	require.NoError(t, err)

	assert.Less(t, dirtyProfile.Quality.Score, cleanProfile.Quality.Score,
		"missing values must lower the score")
	assert.GreaterOrEqual(t, dirtyProfile.Quality.Score, 0.0)
	assert.LessOrEqual(t, dirtyProfile.Quality.Score, 100.0)
}

func TestDetectColumnRoles(t *testing.T) {
	ds := table.New([]table.Column{
		numericColumn("user_id", []float64{1, 2, 3, 4, 5}),
		numericColumn("revenue", []float64{10, 20, 30, 40, 50}),
		categoricalColumn("created_date", []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}),
		categoricalColumn("constant", []string{"same", "same", "same", "same", "same"}),
	})

	profile, err := New().Profile(ds)
	require.NoError(t, err)

	assert.Contains(t, profile.Summary.IDColumns, "user_id")
	assert.Contains(t, profile.Summary.DateColumns, "created_date")
	assert.Contains(t, profile.Summary.ConstantColumns, "constant")
	assert.Contains(t, profile.Summary.NumericColumns, "revenue")
}

func TestProfileEmptyDataset(t *testing.T) {
	_, err := New().Profile(nil)
	assert.Error(t, err)
}

func TestRecommendationsSorted(t *testing.T) {
	ds := table.New([]table.Column{
		numericColumn("revenue", []float64{10, 20, 30, 40, 50, 60}),
		categoricalColumn("region", []string{"n", "s", "n", "s", "e", "w"}),
		categoricalColumn("note", []string{"a", "b", "c", "d", "e", "f"}),
	})

	profile, err := New().Profile(ds)
	require.NoError(t, err)

	viz := profile.Recommendations.BestForVisualization
	for i := 1; i < len(viz); i++ {
		assert.GreaterOrEqual(t, viz[i-1].Score, viz[i].Score,
			"visualization recommendations must be sorted by score descending")
	}
}
