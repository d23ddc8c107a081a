package anomaly

import (
	"fmt"
	"math"
	"sort"
	"time"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const (
	temporalSampleLimit = 100
	temporalMinPeriods  = 3
	temporalSpikeSigma  = 3.0
)

// TemporalDetector sums each numeric column per calendar date and flags
// day-over-day changes larger than three standard deviations above the mean
// absolute change.
type TemporalDetector struct{}

// Name returns the detector name.
func (d *TemporalDetector) Name() string { return "temporal_spike" }

// Detect pairs every date-like column with every numeric column.
func (d *TemporalDetector) Detect(ds *table.Dataset) analysis.DetectorResult {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return skipped(d.Name(), "no numeric columns")
	}

	dateCols := []*table.Column{}
	for _, col := range ds.CategoricalColumns() {
		if col.DateParseRatio(temporalSampleLimit) > 0 {
			dateCols = append(dateCols, col)
		}
	}
	if len(dateCols) == 0 {
		return skipped(d.Name(), "no date-like columns")
	}

	findings := []analysis.Finding{}
	for _, dateCol := range dateCols {
		dates, valid := dateCol.ParsedDates()
		for _, numCol := range numeric {
			if f, ok := scanSeries(dateCol.Name, dates, valid, numCol); ok {
				findings = append(findings, f)
			}
		}
	}
	return produced(d.Name(), findings)
}

// scanSeries aggregates numCol by calendar date and looks for spikes in the
// day-over-day differences of the daily sums.
func scanSeries(dateName string, dates []time.Time, valid []bool, numCol *table.Column) (analysis.Finding, bool) {
	sums := map[string]float64{}
	for i, v := range numCol.Numbers {
		if i >= len(valid) || !valid[i] {
			continue
		}
		if i < len(numCol.Nulls) && numCol.Nulls[i] {
			continue
		}
		sums[dates[i].Format("2006-01-02")] += v
	}
	if len(sums) <= temporalMinPeriods {
		return analysis.Finding{}, false
	}

	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	diffs := make([]float64, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		diffs = append(diffs, math.Abs(sums[days[i]]-sums[days[i-1]]))
	}

	mean, std := meanStd(diffs)
	if std == 0 {
		return analysis.Finding{}, false
	}
	threshold := mean + temporalSpikeSigma*std

	spikes := 0
	for _, d := range diffs {
		if d > threshold {
			spikes++
		}
	}
	if spikes == 0 {
		return analysis.Finding{}, false
	}

	return analysis.Finding{
		Type:   "temporal_spike",
		Column: numCol.Name,
		Title:  fmt.Sprintf("Temporal Spikes in %s", numCol.Name),
		Description: fmt.Sprintf("Detected %d sudden day-over-day changes in %s when tracked by %s",
			spikes, numCol.Name, dateName),
		Explanation: fmt.Sprintf("When '%s' is summed per day using '%s', %d day-to-day jumps stand far outside the usual change pattern.",
			numCol.Name, dateName, spikes),
		WhyItMatters: "Sudden spikes can signal one-off events, reporting gaps, or data loading problems",
		Action:       "Check what happened on the spike dates before drawing trend conclusions",
		Count:        spikes,
		Percentage:   float64(spikes) / float64(len(diffs)) * 100,
		Severity:     analysis.SeverityMedium,
	}, true
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
