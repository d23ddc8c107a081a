// Package viz plans which charts a dataset deserves. Plans are rendered by
// whatever frontend consumes the analysis record.
package viz

import (
	"fmt"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

const (
	maxDistributionCharts = 3
	maxCategoryCharts     = 2

	dateSampleLimit    = 100
	dateParseThreshold = 0.6
)

// Planner derives chart plans from dataset shape.
type Planner struct{}

// NewPlanner creates a chart planner.
func NewPlanner() *Planner { return &Planner{} }

// Plan produces the chart list: distributions for the first numeric columns,
// a correlation heatmap when two or more exist, bar charts for the leading
// categorical columns, a scatter for the first numeric pair and a time series
// when a date-like column is present.
func (p *Planner) Plan(ds *table.Dataset) []analysis.ChartPlan {
	plans := []analysis.ChartPlan{}
	if ds == nil || ds.Rows() == 0 {
		return plans
	}

	numeric := ds.NumericColumns()
	categorical := ds.CategoricalColumns()

	for i, col := range numeric {
		if i >= maxDistributionCharts {
			break
		}
		plans = append(plans, analysis.ChartPlan{
			ChartType:   "distribution",
			Column:      col.Name,
			Title:       fmt.Sprintf("Statistical Distribution: %s", col.Name),
			Description: fmt.Sprintf("Histogram and box plot for %s", col.Name),
		})
	}

	if len(numeric) > 1 {
		plans = append(plans, analysis.ChartPlan{
			ChartType:   "heatmap",
			Column:      "all_numeric",
			Title:       "Correlation Matrix",
			Description: "Pairwise correlation heatmap across numeric columns",
		})
	}

	for i, col := range categorical {
		if i >= maxCategoryCharts {
			break
		}
		plans = append(plans, analysis.ChartPlan{
			ChartType:   "bar",
			Column:      col.Name,
			Title:       fmt.Sprintf("Top Categories in %s", col.Name),
			Description: fmt.Sprintf("Value counts for the most common %s values", col.Name),
		})
	}

	if len(numeric) >= 2 {
		plans = append(plans, analysis.ChartPlan{
			ChartType:   "scatter",
			Column:      fmt.Sprintf("%s vs %s", numeric[0].Name, numeric[1].Name),
			Title:       fmt.Sprintf("%s vs %s", numeric[0].Name, numeric[1].Name),
			Description: fmt.Sprintf("Scatter plot of %s against %s", numeric[0].Name, numeric[1].Name),
		})
	}

	if dateCol := firstDateColumn(ds); dateCol != nil && len(numeric) > 0 {
		plans = append(plans, analysis.ChartPlan{
			ChartType:   "timeseries",
			Column:      numeric[0].Name,
			Title:       fmt.Sprintf("%s over %s", numeric[0].Name, dateCol.Name),
			Description: fmt.Sprintf("Daily totals of %s tracked by %s", numeric[0].Name, dateCol.Name),
		})
	}

	return plans
}

func firstDateColumn(ds *table.Dataset) *table.Column {
	for _, col := range ds.CategoricalColumns() {
		if col.DateParseRatio(dateSampleLimit) >= dateParseThreshold {
			return col
		}
	}
	return nil
}
