// =============================================================================
// Order Tally - XLSX Parser
// =============================================================================
//
// This module reads order and shipping exports that were saved as Excel
// workbooks. The first non-empty row of the sheet is the header row; every
// following non-blank row becomes a Record, exactly like the CSV reader.
//
// SHEET SELECTION:
//   - An explicit sheet name is used as given (missing sheet = error)
//   - Otherwise the first sheet of the workbook is read
//
// =============================================================================

package xlsxparser

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-tally/internal/csvparser"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// Parse reads one sheet of an XLSX file into a Table.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - sheet: The sheet to read. Empty means the first sheet.
//
// RETURNS:
//   - A pointer to the Table.
//   - An error if the workbook or sheet cannot be read.
func Parse(filePath, sheet string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open workbook %s", filePath)
	}
	defer f.Close()

	table, err := ParseFile(f, sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse %s", filePath)
	}
	table.SourceFile = filePath
	return table, nil
}

// ParseFile reads one sheet of an already open workbook.
func ParseFile(f *excelize.File, sheet string) (*types.Table, error) {
	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read rows of sheet %q", sheetName)
	}

	// Skip leading blank rows to find the header row.
	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, eris.Errorf("sheet %q is empty", sheetName)
	}

	headers := csvparser.CleanHeaders(rows[headerIndex])
	table := &types.Table{
		Headers: headers,
		Rows:    make([]types.Record, 0, len(rows)-headerIndex-1),
	}

	for _, row := range rows[headerIndex+1:] {
		if isRowEmpty(row) {
			continue
		}

		// GetRows trims trailing empty cells, so short rows are normal.
		record := make(types.Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = strings.TrimSpace(row[i])
			} else {
				record[header] = ""
			}
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// resolveSheet returns the sheet to read.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", eris.New("workbook has no sheets")
		}
		return name, nil
	}

	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return "", eris.Wrapf(err, "invalid sheet name %q", sheet)
	}
	if index < 0 {
		return "", eris.Errorf("sheet %q not found (have %s)", sheet, strings.Join(f.GetSheetList(), ", "))
	}
	return sheet, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
