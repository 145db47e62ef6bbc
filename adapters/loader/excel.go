package loader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"datahealth/domain/table"
	"datahealth/internal/errors"
)

// readExcel reads the first sheet of a workbook. Cells arrive as their
// formatted text and go through the same inference as CSV.
func readExcel(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to open Excel file: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err))
	}
	return fromRows(rows)
}
