// =============================================================================
// Order Tally - CSV Parser Module
// =============================================================================
//
// This module reads storefront CSV exports into a fully materialized
// types.Table. It handles:
//   - Configurable delimiters (comma, semicolon, tab, pipe)
//   - A UTF-8 byte order mark on the first header
//   - Multi-line headers merged column by column
//   - Custom data start rows
//   - Ragged rows and lazily quoted fields
//
// Rows are never streamed: the importer always works on the whole table, so a
// read error fails the import before any row is processed.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ginjaninja78/order-tally/internal/config"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// utf8BOM is stripped from the first header cell. Spreadsheet tools add it
// when saving "CSV UTF-8".
const utf8BOM = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings from the configuration.
//
// RETURNS:
//   - A pointer to the Table containing the parsed rows.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open %s", filePath)
	}
	defer file.Close()

	table, err := ParseReader(bufio.NewReader(file), settings, filePath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse %s", filePath)
	}
	return table, nil
}

// ParseReader parses CSV content from r.
//
// PARAMETERS:
//   - r: The CSV content.
//   - settings: The CSV parsing settings.
//   - sourceName: Recorded as Table.SourceFile.
//
// PARSING PROCESS:
//   1. Configure the CSV reader with the delimiter and lenient quoting
//   2. Read every row
//   3. Merge the header rows and clean the resulting names
//   4. Convert each non-blank data row to a Record
func ParseReader(r io.Reader, settings config.CSVSettings, sourceName string) (*types.Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "failed to read CSV")
	}

	if len(allRows) == 0 {
		return nil, eris.New("CSV file is empty")
	}

	// Strip the BOM before the headers are cleaned.
	if len(allRows[0]) > 0 {
		allRows[0][0] = strings.TrimPrefix(allRows[0][0], utf8BOM)
	}

	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, eris.Wrap(err, "failed to extract headers")
	}

	return &types.Table{
		SourceFile: sourceName,
		Headers:    headers,
		Rows:       extractRows(allRows, headers, settings),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = settings.DelimiterRune()

	// Allow a variable number of fields per row. Storefront exports drop
	// trailing empty columns on continuation rows.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

// extractHeaders extracts and merges headers from the CSV.
//
// MULTI-LINE HEADER HANDLING:
//   Non-empty cells of each header row are joined with a space per column.
//
//   Example:
//   Row 1: "Lineitem", "",      "Shipping"
//   Row 2: "name",     "Total", "charge"
//   Result: "Lineitem name", "Total", "Shipping charge"
func extractHeaders(allRows [][]string, settings config.CSVSettings) ([]string, error) {
	headerRows := settings.HeaderRows
	if headerRows <= 0 {
		headerRows = 1
	}

	if len(allRows) < headerRows {
		return nil, eris.Errorf("file has %d rows, fewer than header_rows (%d)", len(allRows), headerRows)
	}

	if headerRows == 1 {
		return CleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < headerRows; i++ {
		if len(allRows[i]) > maxCols {
			maxCols = len(allRows[i])
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < headerRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return CleanHeaders(headers), nil
}

// CleanHeaders trims header names and names empty headers "Column_N"
// (1-based). A repeated header gets a "_N" suffix so no column is shadowed.
func CleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		seen[header]++
		if n := seen[header]; n > 1 {
			header = fmt.Sprintf("%s_%d", header, n)
		}

		cleaned[i] = header
	}

	return cleaned
}

// extractRows converts data rows to Records. Blank rows are skipped; missing
// trailing cells become "".
func extractRows(allRows [][]string, headers []string, settings config.CSVSettings) []types.Record {
	startIndex := settings.DataStartRow - 1
	if startIndex < 0 {
		startIndex = settings.HeaderRows
	}
	if startIndex >= len(allRows) {
		return []types.Record{}
	}

	rows := make([]types.Record, 0, len(allRows)-startIndex)
	for _, row := range allRows[startIndex:] {
		if isRowEmpty(row) {
			continue
		}

		record := make(types.Record, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				record[header] = strings.TrimSpace(row[colIndex])
			} else {
				record[header] = ""
			}
		}
		rows = append(rows, record)
	}

	return rows
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

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// UniqueValues returns the distinct non-empty values of a column in first-seen
// order.
func UniqueValues(table *types.Table, header string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, row := range table.Rows {
		value := row.Get(header)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		unique = append(unique, value)
	}

	return unique
}
