// Package sqlite materializes a dataset into an embedded SQLite database so
// questions can be answered with plain SQL.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	apperrors "tabscope/internal/errors"

	"tabscope/domain/table"
)

const (
	// TableName is the single table every dataset is loaded into.
	TableName = "dataset"

	dateSampleLimit    = 100
	dateParseThreshold = 0.6
	dateHintThreshold  = 0.2
)

var dateNameHints = []string{"date", "time", "day"}

// Store implements ports.QueryStore on top of an embedded SQLite database.
type Store struct {
	db      *sqlx.DB
	rowCap  int
	columns []columnSpec
}

type columnSpec struct {
	source  string
	name    string
	sqlType string
	derived derivedKind
}

type derivedKind int

const (
	derivedNone derivedKind = iota
	derivedDate
	derivedDayName
	derivedDayOfWeek
)

// New opens a store at path; ":memory:" keeps the database in process memory.
func New(path string, rowCap int) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.Wrap(err, "open sqlite database")
	}
	if rowCap <= 0 {
		rowCap = 100
	}
	return &Store{db: db, rowCap: rowCap}, nil
}

// Build creates the dataset table and loads every row. Date-like text columns
// additionally get derived <col>_date, <col>_day_name and <col>_day_of_week
// columns so weekday questions become simple WHERE clauses.
func (s *Store) Build(ctx context.Context, ds *table.Dataset) error {
	if ds == nil || ds.Cols() == 0 {
		return apperrors.ValidationError("cannot build store from empty dataset")
	}

	s.columns = planColumns(ds)

	defs := make([]string, 0, len(s.columns))
	for _, c := range s.columns {
		defs = append(defs, fmt.Sprintf("%q %s", c.name, c.sqlType))
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", TableName)); err != nil {
		return apperrors.Wrap(err, "reset dataset table")
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return apperrors.Wrap(err, "create dataset table")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "begin insert transaction")
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.columns)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", TableName, placeholders)
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return apperrors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for row := 0; row < ds.Rows(); row++ {
		args := make([]any, 0, len(s.columns))
		for _, c := range s.columns {
			args = append(args, cellValue(ds, c, row))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperrors.Wrapf(err, "insert row %d", row)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, "commit dataset load")
	}
	return nil
}

// Schema describes the dataset table as "name (TYPE)" lines for prompting.
func (s *Store) Schema(ctx context.Context) (string, error) {
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", TableName))
	if err != nil {
		return "", apperrors.Wrap(err, "read table schema")
	}
	defer rows.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", TableName)
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt any
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return "", apperrors.Wrap(err, "scan schema row")
		}
		fmt.Fprintf(&b, "  %s (%s)\n", name, colType)
	}
	return b.String(), rows.Err()
}

// Query runs a sanitized read-only statement and returns column names plus
// row values. maxRows of zero falls back to the configured cap.
func (s *Store) Query(ctx context.Context, query string, maxRows int) ([]string, [][]any, error) {
	if maxRows <= 0 {
		maxRows = s.rowCap
	}
	safe, err := SanitizeQuery(query, maxRows)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryxContext(ctx, safe)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "execute query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "read result columns")
	}

	out := [][]any{}
	for rows.Next() && len(out) < maxRows {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "scan result row")
		}
		out = append(out, vals)
	}
	return cols, out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// planColumns maps dataset columns to table columns, appending derived date
// columns after any date-like source column.
func planColumns(ds *table.Dataset) []columnSpec {
	specs := []columnSpec{}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		name := SanitizeColumnName(col.Name)
		if col.Kind == table.KindNumeric {
			specs = append(specs, columnSpec{source: col.Name, name: name, sqlType: "REAL"})
			continue
		}
		specs = append(specs, columnSpec{source: col.Name, name: name, sqlType: "TEXT"})
		if isDateLike(col) {
			specs = append(specs,
				columnSpec{source: col.Name, name: name + "_date", sqlType: "TEXT", derived: derivedDate},
				columnSpec{source: col.Name, name: name + "_day_name", sqlType: "TEXT", derived: derivedDayName},
				columnSpec{source: col.Name, name: name + "_day_of_week", sqlType: "INTEGER", derived: derivedDayOfWeek},
			)
		}
	}
	return specs
}

func isDateLike(col *table.Column) bool {
	ratio := col.DateParseRatio(dateSampleLimit)
	if ratio >= dateParseThreshold {
		return true
	}
	lower := strings.ToLower(col.Name)
	for _, hint := range dateNameHints {
		if strings.Contains(lower, hint) && ratio >= dateHintThreshold {
			return true
		}
	}
	return false
}

func cellValue(ds *table.Dataset, spec columnSpec, row int) any {
	col := ds.Column(spec.source)
	if col == nil {
		return nil
	}
	if row < len(col.Nulls) && col.Nulls[row] {
		return nil
	}

	switch spec.derived {
	case derivedNone:
		if col.Kind == table.KindNumeric {
			return col.Numbers[row]
		}
		return col.Strings[row]
	default:
		t, ok := table.ParseDate(col.Strings[row])
		if !ok {
			return nil
		}
		switch spec.derived {
		case derivedDate:
			return t.Format("2006-01-02")
		case derivedDayName:
			return t.Weekday().String()
		case derivedDayOfWeek:
			// Monday is 0, Sunday is 6.
			return (int(t.Weekday()) + 6) % 7
		}
	}
	return nil
}

// TableColumns reports the table's column names in definition order, split
// into numeric and plain-text groups. Derived date columns appear in the
// full list only.
func TableColumns(ds *table.Dataset) (all, numeric, categorical []string) {
	for _, spec := range planColumns(ds) {
		all = append(all, spec.name)
		if spec.derived != derivedNone {
			continue
		}
		if spec.sqlType == "REAL" {
			numeric = append(numeric, spec.name)
		} else {
			categorical = append(categorical, spec.name)
		}
	}
	return all, numeric, categorical
}
