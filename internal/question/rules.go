// Package question answers follow-up questions about an analyzed dataset.
// Resolution walks a fixed ladder: LLM-generated SQL, rule-based SQL,
// direct in-memory computation, LLM context answer, heuristic context
// extraction. An empty string always means "no answer, try the next rung".
package question

import (
	"fmt"
	"strings"
)

// Schema is the queryable column layout of the dataset table, including
// derived date columns.
type Schema struct {
	Table       string
	Columns     []string
	Numeric     []string
	Categorical []string
}

// Rule pairs a question predicate with a SQL builder. Rules are evaluated
// in declaration order; the first match wins.
type Rule struct {
	Name  string
	Match func(q string, s Schema) bool
	Build func(q string, s Schema) string
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// strftime('%w') numbering, Sunday is 0.
var weekdayNumbers = map[string]string{
	"sunday": "0", "monday": "1", "tuesday": "2", "wednesday": "3",
	"thursday": "4", "friday": "5", "saturday": "6",
}

// SynthesisRules returns the ordered rule set for SQL generation without an
// LLM.
func SynthesisRules() []Rule {
	return []Rule{
		{Name: "wins_superlative", Match: matchWins, Build: buildWins},
		{Name: "aqi_superlative", Match: matchAQI, Build: buildAQI},
		{Name: "weekday_filter", Match: matchWeekday, Build: buildWeekday},
		{Name: "max_aggregate", Match: matchAny("max", "maximum", "highest"), Build: buildAggregate("MAX", "max")},
		{Name: "min_aggregate", Match: matchAny("min", "minimum", "lowest"), Build: buildAggregate("MIN", "min")},
		{Name: "avg_aggregate", Match: matchAny("average", "mean", "avg"), Build: buildAggregate("AVG", "avg")},
		{Name: "row_count", Match: matchAny("count", "how many", "total rows", "total records"), Build: buildCount},
		{Name: "top_categorical", Match: matchAny("most", "top", "highest", "best", "popular", "common"), Build: buildTopCategorical},
		{Name: "column_lookup", Match: matchColumnMention, Build: buildColumnLookup},
	}
}

// SynthesizeSQL runs the rules in order and returns the first produced
// query, or empty when no rule applies.
func SynthesizeSQL(questionText string, s Schema) string {
	q := strings.ToLower(questionText)
	for _, rule := range SynthesisRules() {
		if !rule.Match(q, s) {
			continue
		}
		if sql := rule.Build(q, s); sql != "" {
			return sql
		}
	}
	return ""
}

func matchAny(keywords ...string) func(string, Schema) bool {
	return func(q string, _ Schema) bool {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				return true
			}
		}
		return false
	}
}

func matchWins(q string, _ Schema) bool {
	return strings.Contains(q, "wins") && containsAny(q, "most", "highest", "max", "maximum", "top")
}

func buildWins(q string, s Schema) string {
	winsCol := firstContaining(s.Columns, "win")
	if winsCol == "" {
		return ""
	}
	nameCol := firstContainingAny(s.Columns, "team", "player", "name", "club")
	if nameCol != "" {
		return fmt.Sprintf(`SELECT %q AS name, %q AS wins FROM %s ORDER BY %q DESC LIMIT 1`,
			nameCol, winsCol, s.Table, winsCol)
	}
	return fmt.Sprintf(`SELECT %q AS wins FROM %s ORDER BY %q DESC LIMIT 1`, winsCol, s.Table, winsCol)
}

func matchAQI(q string, _ Schema) bool {
	return strings.Contains(q, "aqi") && containsAny(q, "worst", "highest", "max", "maximum")
}

func buildAQI(q string, s Schema) string {
	aqiCol := firstContaining(s.Columns, "aqi")
	if aqiCol == "" {
		return ""
	}
	selects := []string{}
	if dateCol := firstDateNamed(s.Columns); dateCol != "" {
		selects = append(selects, fmt.Sprintf("%q AS day", dateCol))
	}
	if tempCol := firstContainingAny(s.Columns, "temp", "temperature"); tempCol != "" {
		selects = append(selects, fmt.Sprintf("%q AS temperature", tempCol))
	}
	selects = append(selects, fmt.Sprintf("%q AS aqi", aqiCol))
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %q DESC LIMIT 1",
		strings.Join(selects, ", "), s.Table, aqiCol)
}

func matchWeekday(q string, _ Schema) bool {
	return mentionedWeekday(q) != ""
}

func buildWeekday(q string, s Schema) string {
	day := mentionedWeekday(q)
	if day == "" {
		return ""
	}
	for _, col := range s.Columns {
		if strings.HasSuffix(strings.ToLower(col), "_day_name") {
			return fmt.Sprintf(`SELECT * FROM %s WHERE LOWER(%q) = '%s'`, s.Table, col, day)
		}
	}
	for _, col := range s.Columns {
		lower := strings.ToLower(col)
		if strings.HasSuffix(lower, "_date") || strings.Contains(lower, "date") {
			return fmt.Sprintf(`SELECT * FROM %s WHERE strftime('%%w', %q) = '%s'`,
				s.Table, col, weekdayNumbers[day])
		}
	}
	return ""
}

// buildAggregate matches the question against numeric column names: every
// word of the column appearing in the question, or the separator-stripped
// column name appearing as a substring.
func buildAggregate(fn, prefix string) func(string, Schema) string {
	return func(q string, s Schema) string {
		qWords := toSet(splitWords(q))
		qNorm := normalize(q)
		for _, col := range s.Numeric {
			if allIn(splitWords(col), qWords) || strings.Contains(qNorm, normalize(col)) {
				return fmt.Sprintf("SELECT %s(%q) AS %s_%s FROM %s", fn, col, prefix, col, s.Table)
			}
		}
		for _, col := range s.Numeric {
			if strings.Contains(q, strings.ToLower(col)) {
				return fmt.Sprintf("SELECT %s(%q) AS %s_%s FROM %s", fn, col, prefix, col, s.Table)
			}
		}
		if len(s.Numeric) == 0 {
			return ""
		}
		parts := []string{}
		for i, col := range s.Numeric {
			if i >= 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s(%q) AS %s_%s", fn, col, prefix, col))
		}
		return fmt.Sprintf("SELECT %s FROM %s", strings.Join(parts, ", "), s.Table)
	}
}

func buildCount(q string, s Schema) string {
	return fmt.Sprintf("SELECT COUNT(*) AS total_rows FROM %s", s.Table)
}

func buildTopCategorical(q string, s Schema) string {
	qWords := toSet(splitWords(q))
	qNorm := normalize(q)
	for _, col := range s.Categorical {
		if anyIn(splitWords(col), qWords) || strings.Contains(qNorm, normalize(col)) {
			return fmt.Sprintf("SELECT %q, COUNT(*) AS count FROM %s GROUP BY %q ORDER BY count DESC LIMIT 1",
				col, s.Table, col)
		}
	}
	return ""
}

func matchColumnMention(q string, s Schema) bool {
	for _, col := range s.Columns {
		if strings.Contains(q, strings.ToLower(col)) {
			return true
		}
	}
	return false
}

func buildColumnLookup(q string, s Schema) string {
	for _, col := range s.Columns {
		if strings.Contains(q, strings.ToLower(col)) {
			return fmt.Sprintf("SELECT %q FROM %s", col, s.Table)
		}
	}
	return ""
}

func mentionedWeekday(q string) string {
	for _, day := range weekdays {
		if strings.Contains(q, day) {
			return day
		}
	}
	return ""
}

func containsAny(q string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func firstContaining(cols []string, sub string) string {
	for _, c := range cols {
		if strings.Contains(strings.ToLower(c), sub) {
			return c
		}
	}
	return ""
}

func firstContainingAny(cols []string, subs ...string) string {
	for _, c := range cols {
		lower := strings.ToLower(c)
		for _, sub := range subs {
			if strings.Contains(lower, sub) {
				return c
			}
		}
	}
	return ""
}

func firstDateNamed(cols []string) string {
	for _, c := range cols {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "date") || lower == "day" {
			return c
		}
	}
	return ""
}

func splitWords(s string) []string {
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(s))
	return strings.Fields(replaced)
}

func normalize(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(s))
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func allIn(words []string, set map[string]bool) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !set[w] {
			return false
		}
	}
	return true
}

func anyIn(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}
