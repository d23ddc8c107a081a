package question

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"tabscope/domain/table"
)

// detector answers one question shape straight from the in-memory dataset.
type detector struct {
	name   string
	answer func(q string, ds *table.Dataset) string
}

// directDetectors is the fixed evaluation order for in-memory answering.
func directDetectors() []detector {
	return []detector{
		{name: "weekday", answer: answerWeekday},
		{name: "max", answer: answerAggregate("Maximum", statMax, "maximum", "max", "highest", "largest")},
		{name: "min", answer: answerAggregate("Minimum", statMin, "minimum", "min", "lowest", "smallest")},
		{name: "average", answer: answerAggregate("Average", statMean, "average", "mean", "avg")},
		{name: "count", answer: answerCount},
		{name: "filter", answer: answerFilter},
		{name: "distinct", answer: answerDistinct},
		{name: "column", answer: answerColumn},
	}
}

// DirectAnswer computes an answer from the dataset without SQL or an LLM.
// Empty string means no detector matched.
func DirectAnswer(questionText string, ds *table.Dataset) string {
	if ds == nil || ds.Rows() == 0 {
		return ""
	}
	q := strings.ToLower(questionText)
	for _, d := range directDetectors() {
		if answer := d.answer(q, ds); answer != "" {
			return answer
		}
	}
	return ""
}

func answerWeekday(q string, ds *table.Dataset) string {
	day := mentionedWeekday(q)
	if day == "" {
		return ""
	}
	var dateCol *table.Column
	for _, col := range ds.CategoricalColumns() {
		lower := strings.ToLower(col.Name)
		if strings.Contains(lower, "date") || strings.Contains(lower, "time") || strings.Contains(lower, "day") {
			dateCol = col
			break
		}
	}
	if dateCol == nil {
		return ""
	}

	dates, valid := dateCol.ParsedDates()
	matched := []int{}
	for i := range dates {
		if valid[i] && strings.ToLower(dates[i].Weekday().String()) == day {
			matched = append(matched, i)
		}
	}

	title := strings.ToUpper(day[:1]) + day[1:]
	if strings.Contains(q, "condition") {
		for _, col := range ds.CategoricalColumns() {
			if !strings.Contains(strings.ToLower(col.Name), "condition") {
				continue
			}
			seen := map[string]bool{}
			values := []string{}
			for _, i := range matched {
				if i < len(col.Nulls) && col.Nulls[i] {
					continue
				}
				v := col.Strings[i]
				if !seen[v] {
					seen[v] = true
					values = append(values, v)
				}
				if len(values) == 5 {
					break
				}
			}
			return fmt.Sprintf("**Condition on %s**: %s", title, strings.Join(values, ", "))
		}
	}
	return fmt.Sprintf("**Rows on %s**: %d", title, len(matched))
}

func answerAggregate(label string, agg func([]float64) (float64, bool), keywords ...string) func(string, *table.Dataset) string {
	return func(q string, ds *table.Dataset) string {
		if !containsAny(q, keywords...) {
			return ""
		}
		numeric := ds.NumericColumns()
		if len(numeric) == 0 {
			return ""
		}
		for _, col := range numeric {
			if !strings.Contains(q, strings.ToLower(col.Name)) {
				continue
			}
			v, ok := agg(col.FloatValues())
			if !ok {
				return ""
			}
			return fmt.Sprintf("**%s %s**: %s", label, col.Name, table.FormatFloat(v))
		}
		var b strings.Builder
		fmt.Fprintf(&b, "**%s Values**:\n", label)
		for i, col := range numeric {
			if i >= 3 {
				break
			}
			if v, ok := agg(col.FloatValues()); ok {
				fmt.Fprintf(&b, "- %s: %s\n", col.Name, table.FormatFloat(v))
			}
		}
		return b.String()
	}
}

func answerCount(q string, ds *table.Dataset) string {
	if !containsAny(q, "count", "how many", "total records", "total rows") {
		return ""
	}
	return fmt.Sprintf("**Total Records**: %d\n\nYour dataset contains %d rows of data.", ds.Rows(), ds.Rows())
}

var questionNumber = regexp.MustCompile(`\d+(\.\d+)?`)

func answerFilter(q string, ds *table.Dataset) string {
	if !containsAny(q, "where", "filter", "show me") {
		return ""
	}
	col := mentionedColumn(q, ds)
	if col == nil {
		return ""
	}
	if col.Kind == table.KindNumeric {
		if raw := questionNumber.FindString(q); raw != "" {
			threshold, _ := strconv.ParseFloat(raw, 64)
			matched := 0
			for _, v := range col.FloatValues() {
				if v > threshold {
					matched++
				}
			}
			return fmt.Sprintf("**Filtered Results**: found %d records where %s > %s",
				matched, col.Name, table.FormatFloat(threshold))
		}
	}
	return fmt.Sprintf("**Column '%s' Data**: %d records, %d unique values",
		col.Name, ds.Rows(), col.UniqueCount())
}

func answerDistinct(q string, ds *table.Dataset) string {
	if !containsAny(q, "unique", "distinct", "different", "categories", "types") {
		return ""
	}
	col := mentionedColumn(q, ds)
	if col == nil {
		names := ds.ColumnNames()
		if len(names) > 5 {
			names = names[:5]
		}
		return fmt.Sprintf("**Dataset Overview**: %d columns, %d rows. Columns: %s",
			ds.Cols(), ds.Rows(), strings.Join(names, ", "))
	}
	samples := sampleValues(col, 10)
	return fmt.Sprintf("**Unique values in '%s'**: %d distinct. Samples: %s",
		col.Name, col.UniqueCount(), strings.Join(samples, ", "))
}

func answerColumn(q string, ds *table.Dataset) string {
	col := mentionedColumn(q, ds)
	if col == nil {
		return ""
	}
	if col.Kind == table.KindNumeric {
		values := col.FloatValues()
		maxV, ok1 := statMax(values)
		minV, ok2 := statMin(values)
		meanV, ok3 := statMean(values)
		if !ok1 || !ok2 || !ok3 {
			return ""
		}
		return fmt.Sprintf("**%s Statistics**:\n- Max: %s\n- Min: %s\n- Mean: %.2f\n- Count: %d",
			col.Name, table.FormatFloat(maxV), table.FormatFloat(minV), meanV, col.Len())
	}
	samples := sampleValues(col, 3)
	return fmt.Sprintf("**%s Information**:\n- Unique values: %d\n- Total records: %d\n- Samples: %s",
		col.Name, col.UniqueCount(), col.Len(), strings.Join(samples, ", "))
}

func mentionedColumn(q string, ds *table.Dataset) *table.Column {
	for i := range ds.Columns {
		if strings.Contains(q, strings.ToLower(ds.Columns[i].Name)) {
			return &ds.Columns[i]
		}
	}
	return nil
}

func sampleValues(col *table.Column, limit int) []string {
	seen := map[string]bool{}
	out := []string{}
	for i := 0; i < col.Len() && len(out) < limit; i++ {
		if i < len(col.Nulls) && col.Nulls[i] {
			continue
		}
		v := col.CellString(i)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func statMax(values []float64) (float64, bool) {
	v, err := stats.Max(values)
	return v, err == nil
}

func statMin(values []float64) (float64, bool) {
	v, err := stats.Min(values)
	return v, err == nil
}

func statMean(values []float64) (float64, bool) {
	v, err := stats.Mean(values)
	return v, err == nil
}
