package loader

import (
	"github.com/xuri/excelize/v2"

	apperrors "tabscope/internal/errors"
)

func readExcel(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperrors.InvalidInput("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "read Excel sheet")
	}
	if len(rows) == 0 {
		return nil, nil, apperrors.InvalidInput("Excel sheet is empty")
	}
	return rows[0], rows[1:], nil
}
