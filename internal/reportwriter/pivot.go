// =============================================================================
// Order Tally - Report Writers
// =============================================================================
//
// This module renders AggregatedData and earnings summaries for people and
// for other tools. It is a consumer of the core: nothing here changes the
// data it is given.
//
// OUTPUTS:
//   - Pivot CSV (export contract, optionally with checklist progress)
//   - Pivot / earnings text tables for the terminal
//   - XLSX workbook with Pivot, Colors and Orders sheets
//   - Earnings CSV
//   - JSON handoff of any value
//
// PIVOT CSV CONTRACT:
//   Header: Product / Color, XS, SMALL, MEDIUM, LARGE, XL, 2XL, 3XL, Total
//   One row per product row key, in sorted order. In progress mode a cell is
//   "DONE (n)" when fully checked, "k / n" when partially checked, otherwise
//   the bare count.
//
// =============================================================================

package reportwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"

	"github.com/ginjaninja78/order-tally/internal/progress"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// Mode selects how pivot cells are rendered.
type Mode int

const (
	// ModeCount renders bare counts.
	ModeCount Mode = iota

	// ModeProgress renders counts against the fulfillment checklist.
	ModeProgress
)

// ProductHeader is the first column header of the pivot export.
const ProductHeader = "Product / Color"

// PivotHeader returns the pivot export header row.
func PivotHeader() []string {
	header := make([]string, 0, len(types.CanonicalSizes)+2)
	header = append(header, ProductHeader)
	header = append(header, types.CanonicalSizes...)
	return append(header, "Total")
}

// FormatCell renders one pivot cell.
//
// PARAMETERS:
//   - count: The aggregated quantity for the cell.
//   - checked: The checklist count for the cell.
//   - mode: ModeCount or ModeProgress.
func FormatCell(count, checked int, mode Mode) string {
	if mode == ModeProgress {
		switch {
		case count > 0 && checked >= count:
			return fmt.Sprintf("DONE (%d)", count)
		case checked > 0 && checked < count:
			return fmt.Sprintf("%d / %d", checked, count)
		}
	}
	return strconv.Itoa(count)
}

// pivotRows builds the rendered rows shared by the CSV and table writers.
func pivotRows(data *types.AggregatedData, checked map[string]int, mode Mode) [][]string {
	keys := data.Products.SortedKeys()
	rows := make([][]string, 0, len(keys))

	for _, key := range keys {
		counts, _ := data.Products.Row(key)

		row := make([]string, 0, len(types.CanonicalSizes)+2)
		row = append(row, key)
		for _, size := range types.CanonicalSizes {
			row = append(row, FormatCell(counts[size], checked[progress.Key(key, size)], mode))
		}
		row = append(row, strconv.Itoa(counts.Total()))

		rows = append(rows, row)
	}

	return rows
}

// WritePivotCSV writes the product pivot in the export format.
//
// PARAMETERS:
//   - w: The destination.
//   - data: The aggregate to render.
//   - checked: Checklist counts keyed by progress.Key (may be nil).
//   - mode: ModeCount or ModeProgress.
func WritePivotCSV(w io.Writer, data *types.AggregatedData, checked map[string]int, mode Mode) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(PivotHeader()); err != nil {
		return eris.Wrap(err, "failed to write pivot header")
	}
	if err := writer.WriteAll(pivotRows(data, checked, mode)); err != nil {
		return eris.Wrap(err, "failed to write pivot rows")
	}
	return nil
}

// WritePivotTable writes the product pivot, a totals row and the color
// family pivot as aligned text. It refuses to render a TOTAL row that
// disagrees with the product rows above it.
func WritePivotTable(w io.Writer, data *types.AggregatedData, checked map[string]int, mode Mode) error {
	if err := checkTotals(data); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	writeTabRow(tw, PivotHeader())
	for _, row := range pivotRows(data, checked, mode) {
		writeTabRow(tw, row)
	}
	writeTabRow(tw, countsRow("TOTAL", data.Totals))

	fmt.Fprintln(tw)

	colorHeader := PivotHeader()
	colorHeader[0] = "Color Family"
	writeTabRow(tw, colorHeader)
	for _, family := range data.ColorTotals.SortedKeys() {
		counts, _ := data.ColorTotals.Row(family)
		writeTabRow(tw, countsRow(family, counts))
	}

	fmt.Fprintf(tw, "\nGrand total:\t%d\n", data.GrandTotal)

	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "failed to write pivot table")
	}
	return nil
}

// checkTotals compares data.Totals with the column sums of data.Products.
func checkTotals(data *types.AggregatedData) error {
	sums := data.Products.ColumnTotals()
	for _, size := range types.CanonicalSizes {
		if sums[size] != data.Totals[size] {
			return eris.Errorf("totals for %s are %d but product rows sum to %d", size, data.Totals[size], sums[size])
		}
	}
	return nil
}

// countsRow renders a label followed by bare counts and a total.
func countsRow(label string, counts types.SizeCounts) []string {
	row := make([]string, 0, len(types.CanonicalSizes)+2)
	row = append(row, label)
	for _, size := range types.CanonicalSizes {
		row = append(row, strconv.Itoa(counts[size]))
	}
	return append(row, strconv.Itoa(counts.Total()))
}

func writeTabRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, cell)
	}
	io.WriteString(w, "\n")
}
