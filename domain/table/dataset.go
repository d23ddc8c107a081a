package table

import (
	"math"
	"math/rand"
	"strings"
	"time"
)

// ColumnKind is the storage kind of a column.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// Column is a single named column stored column-major. Numeric columns keep
// parsed values in Numbers (NaN at null positions); categorical columns keep
// raw strings in Strings. Nulls marks missing cells for both kinds.
type Column struct {
	Name    string
	Kind    ColumnKind
	Numbers []float64
	Strings []string
	Nulls   []bool
}

// Dataset is an immutable in-memory table. Pipeline stages read it; the only
// mutation point is the one-time Sample call before any stage runs.
type Dataset struct {
	Columns []Column
	rows    int
}

// New builds a dataset from columns. All columns must have equal length.
func New(cols []Column) *Dataset {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	return &Dataset{Columns: cols, rows: rows}
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Numbers)
	}
	return len(c.Strings)
}

// NonNullCount returns the count of non-missing cells.
func (c *Column) NonNullCount() int {
	n := 0
	for _, isNull := range c.Nulls {
		if !isNull {
			n++
		}
	}
	return n
}

// NullCount returns the count of missing cells.
func (c *Column) NullCount() int {
	return c.Len() - c.NonNullCount()
}

// FloatValues returns the non-null numeric values in row order.
func (c *Column) FloatValues() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for i, v := range c.Numbers {
		if i < len(c.Nulls) && c.Nulls[i] {
			continue
		}
		if math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// StringValues returns the non-null string values in row order.
func (c *Column) StringValues() []string {
	out := make([]string, 0, len(c.Strings))
	for i, v := range c.Strings {
		if i < len(c.Nulls) && c.Nulls[i] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// CellString renders cell i as a string regardless of kind. Null cells
// render as the empty string.
func (c *Column) CellString(i int) string {
	if i < len(c.Nulls) && c.Nulls[i] {
		return ""
	}
	if c.Kind == KindNumeric {
		return formatFloat(c.Numbers[i])
	}
	return c.Strings[i]
}

// ValueCounts tallies non-null string values. Only meaningful for
// categorical columns.
func (c *Column) ValueCounts() map[string]int {
	counts := make(map[string]int)
	for i, v := range c.Strings {
		if i < len(c.Nulls) && c.Nulls[i] {
			continue
		}
		counts[v]++
	}
	return counts
}

// UniqueCount returns the number of distinct non-null values.
func (c *Column) UniqueCount() int {
	if c.Kind == KindNumeric {
		seen := make(map[float64]struct{})
		for i, v := range c.Numbers {
			if i < len(c.Nulls) && c.Nulls[i] {
				continue
			}
			seen[v] = struct{}{}
		}
		return len(seen)
	}
	return len(c.ValueCounts())
}

// Rows returns the row count.
func (ds *Dataset) Rows() int { return ds.rows }

// Cols returns the column count.
func (ds *Dataset) Cols() int { return len(ds.Columns) }

// ColumnNames returns column names in declaration order.
func (ds *Dataset) ColumnNames() []string {
	names := make([]string, len(ds.Columns))
	for i := range ds.Columns {
		names[i] = ds.Columns[i].Name
	}
	return names
}

// Column looks a column up by name. Returns nil when absent.
func (ds *Dataset) Column(name string) *Column {
	for i := range ds.Columns {
		if ds.Columns[i].Name == name {
			return &ds.Columns[i]
		}
	}
	return nil
}

// NumericColumns returns columns stored as numeric, in declaration order.
func (ds *Dataset) NumericColumns() []*Column {
	var out []*Column
	for i := range ds.Columns {
		if ds.Columns[i].Kind == KindNumeric {
			out = append(out, &ds.Columns[i])
		}
	}
	return out
}

// CategoricalColumns returns columns stored as strings, in declaration order.
func (ds *Dataset) CategoricalColumns() []*Column {
	var out []*Column
	for i := range ds.Columns {
		if ds.Columns[i].Kind == KindCategorical {
			out = append(out, &ds.Columns[i])
		}
	}
	return out
}

// DuplicateRowCount counts rows that are exact copies of an earlier row.
func (ds *Dataset) DuplicateRowCount() int {
	seen := make(map[string]struct{}, ds.rows)
	dups := 0
	var sb strings.Builder
	for r := 0; r < ds.rows; r++ {
		sb.Reset()
		for c := range ds.Columns {
			sb.WriteString(ds.Columns[c].CellString(r))
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

// Sample returns a dataset reduced to n rows chosen with the given seed.
// Selected rows keep their original relative order so repeated runs are
// byte-identical. Datasets at or under n are returned unchanged.
func (ds *Dataset) Sample(n int, seed int64) *Dataset {
	if ds.rows <= n {
		return ds
	}
	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(ds.rows)[:n]
	// Restore row order after the draw.
	sortInts(idx)

	cols := make([]Column, len(ds.Columns))
	for c := range ds.Columns {
		src := &ds.Columns[c]
		dst := Column{Name: src.Name, Kind: src.Kind, Nulls: make([]bool, n)}
		if src.Kind == KindNumeric {
			dst.Numbers = make([]float64, n)
		} else {
			dst.Strings = make([]string, n)
		}
		for i, r := range idx {
			dst.Nulls[i] = src.Nulls[r]
			if src.Kind == KindNumeric {
				dst.Numbers[i] = src.Numbers[r]
			} else {
				dst.Strings[i] = src.Strings[r]
			}
		}
		cols[c] = dst
	}
	return New(cols)
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// dateLayouts covers the formats the loaders and detectors accept.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// ParseDate attempts to parse s with the known layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateParseRatio reports the share of sampled non-null values that parse as
// dates. At most sampleLimit values are inspected.
func (c *Column) DateParseRatio(sampleLimit int) float64 {
	if c.Kind != KindCategorical {
		return 0
	}
	sampled, parsed := 0, 0
	for i, v := range c.Strings {
		if i < len(c.Nulls) && c.Nulls[i] {
			continue
		}
		if sampled >= sampleLimit {
			break
		}
		sampled++
		if _, ok := ParseDate(v); ok {
			parsed++
		}
	}
	if sampled == 0 {
		return 0
	}
	return float64(parsed) / float64(sampled)
}

// ParsedDates returns per-row parsed dates and a validity mask.
func (c *Column) ParsedDates() ([]time.Time, []bool) {
	n := c.Len()
	dates := make([]time.Time, n)
	ok := make([]bool, n)
	for i := 0; i < n; i++ {
		if i < len(c.Nulls) && c.Nulls[i] {
			continue
		}
		var raw string
		if c.Kind == KindNumeric {
			continue
		}
		raw = c.Strings[i]
		if t, valid := ParseDate(raw); valid {
			dates[i] = t
			ok[i] = true
		}
	}
	return dates, ok
}
