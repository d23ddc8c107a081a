package loader

import (
	"encoding/csv"
	"os"

	apperrors "tabscope/internal/errors"
)

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "open CSV file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "parse CSV file")
	}
	if len(rows) == 0 {
		return nil, nil, apperrors.InvalidInput("CSV file is empty")
	}
	return rows[0], rows[1:], nil
}
