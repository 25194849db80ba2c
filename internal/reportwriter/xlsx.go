package reportwriter

import (
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-tally/internal/earnings"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// Sheet names of the XLSX report.
const (
	SheetPivot  = "Pivot"
	SheetColors = "Colors"
	SheetOrders = "Orders"
)

// WritePivotXLSX writes a workbook with the product pivot (plus a Total
// row), the color family pivot and, when summary is not nil, the earnings
// ledger.
//
// PARAMETERS:
//   - path: The output file.
//   - data: The aggregate to render.
//   - summary: Optional earnings summary for the Orders sheet.
func WritePivotXLSX(path string, data *types.AggregatedData, summary *earnings.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPivot); err != nil {
		return eris.Wrap(err, "failed to name pivot sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return eris.Wrap(err, "failed to create header style")
	}

	// Pivot sheet.
	rows := [][]interface{}{toRow(PivotHeader())}
	for _, key := range data.Products.SortedKeys() {
		counts, _ := data.Products.Row(key)
		rows = append(rows, countsCells(key, counts))
	}
	rows = append(rows, countsCells("Total", data.Totals))
	if err := writeSheet(f, SheetPivot, rows, bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetPivot, cell(1, len(rows)), cell(len(rows[0]), len(rows)), bold); err != nil {
		return eris.Wrap(err, "failed to style total row")
	}

	// Colors sheet.
	colorHeader := PivotHeader()
	colorHeader[0] = "Color Family"
	rows = [][]interface{}{toRow(colorHeader)}
	for _, family := range data.ColorTotals.SortedKeys() {
		counts, _ := data.ColorTotals.Row(family)
		rows = append(rows, countsCells(family, counts))
	}
	if _, err := f.NewSheet(SheetColors); err != nil {
		return eris.Wrap(err, "failed to add colors sheet")
	}
	if err := writeSheet(f, SheetColors, rows, bold); err != nil {
		return err
	}

	// Orders sheet.
	if summary != nil {
		rows = [][]interface{}{toRow(earningsHeader)}
		for _, r := range summary.Rows {
			rows = append(rows, []interface{}{
				r.Order.Name,
				orderDate(r.Order),
				r.Order.Total.InexactFloat64(),
				r.Order.Subtotal.InexactFloat64(),
				r.Order.ShippingCost.InexactFloat64(),
				r.Fee.InexactFloat64(),
				r.NetAfterFees.InexactFloat64(),
			})
		}
		rows = append(rows, []interface{}{})
		for _, line := range summaryLines(summary) {
			rows = append(rows, []interface{}{line[0], line[1]})
		}
		if _, err := f.NewSheet(SheetOrders); err != nil {
			return eris.Wrap(err, "failed to add orders sheet")
		}
		if err := writeSheet(f, SheetOrders, rows, bold); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}

// writeSheet writes rows from A1 and styles the first row.
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i := range rows {
		if err := f.SetSheetRow(sheet, cell(1, i+1), &rows[i]); err != nil {
			return eris.Wrapf(err, "failed to write %s row %d", sheet, i+1)
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		if err := f.SetCellStyle(sheet, cell(1, 1), cell(len(rows[0]), 1), headerStyle); err != nil {
			return eris.Wrapf(err, "failed to style %s header", sheet)
		}
		if err := f.SetColWidth(sheet, "A", "A", 36); err != nil {
			return eris.Wrapf(err, "failed to size %s columns", sheet)
		}
	}
	return nil
}

// cell returns the A1-style name of a 1-based column/row pair.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func countsCells(label string, counts types.SizeCounts) []interface{} {
	row := make([]interface{}, 0, len(types.CanonicalSizes)+2)
	row = append(row, label)
	for _, size := range types.CanonicalSizes {
		row = append(row, counts[size])
	}
	return append(row, counts.Total())
}
