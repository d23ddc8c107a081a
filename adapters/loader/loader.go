// Package loader reads CSV, Excel and JSON files into datasets with
// numeric/categorical type inference.
package loader

import (
	"path/filepath"
	"strconv"
	"strings"

	apperrors "tabscope/internal/errors"

	"tabscope/domain/table"
	"tabscope/ports"
)

const minDataRows = 2

var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
	"nan":  true,
}

// FileLoader dispatches on file extension.
type FileLoader struct{}

// New creates a loader supporting .csv, .xlsx, .xls and .json files.
func New() *FileLoader { return &FileLoader{} }

// Load reads the file at path into a dataset and validates its shape.
func (l *FileLoader) Load(path string) (*table.Dataset, ports.Validation, error) {
	var (
		headers []string
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		headers, records, err = readCSV(path)
	case ".xlsx", ".xls":
		headers, records, err = readExcel(path)
	case ".json":
		headers, records, err = readJSON(path)
	default:
		return nil, ports.Validation{}, apperrors.InvalidInput("unsupported file type: " + filepath.Ext(path))
	}
	if err != nil {
		return nil, ports.Validation{}, err
	}

	ds := buildDataset(headers, records)
	if v := validate(ds); !v.Valid {
		return ds, v, nil
	}
	return ds, ports.Validation{Valid: true}, nil
}

func validate(ds *table.Dataset) ports.Validation {
	if ds.Cols() == 0 {
		return ports.Validation{Reason: "file has no columns"}
	}
	if ds.Rows() < minDataRows {
		return ports.Validation{Reason: "file needs at least 2 data rows"}
	}
	return ports.Validation{Valid: true}
}

// buildDataset infers each column as numeric when every non-null cell parses
// as a float, otherwise categorical.
func buildDataset(headers []string, records [][]string) *table.Dataset {
	cols := make([]table.Column, len(headers))
	for c, name := range headers {
		raw := make([]string, len(records))
		nulls := make([]bool, len(records))
		numeric := true
		seen := false
		for r, rec := range records {
			cell := ""
			if c < len(rec) {
				cell = strings.TrimSpace(rec[c])
			}
			raw[r] = cell
			if isNull(cell) {
				nulls[r] = true
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err != nil {
				numeric = false
			}
		}

		if numeric && seen {
			nums := make([]float64, len(records))
			for r, cell := range raw {
				if nulls[r] {
					continue
				}
				nums[r], _ = strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
			}
			cols[c] = table.Column{Name: name, Kind: table.KindNumeric, Numbers: nums, Nulls: nulls}
			continue
		}
		cols[c] = table.Column{Name: name, Kind: table.KindCategorical, Strings: raw, Nulls: nulls}
	}
	return table.New(cols)
}

func isNull(cell string) bool {
	return nullTokens[strings.ToLower(cell)]
}
