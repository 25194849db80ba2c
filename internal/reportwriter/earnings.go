package reportwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-tally/internal/earnings"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// earningsHeader is the ledger header shared by the CSV and table writers.
var earningsHeader = []string{"Order", "Date", "Total", "Subtotal", "Shipping", "Fee", "Net After Fees"}

// money renders an amount with two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// orderDate renders the parsed date, falling back to the raw export text.
func orderDate(o types.Order) string {
	if o.Date.IsZero() {
		return o.RawDate
	}
	return o.Date.Format("2006-01-02")
}

func ledgerRow(row earnings.OrderEarnings) []string {
	return []string{
		row.Order.Name,
		orderDate(row.Order),
		money(row.Order.Total),
		money(row.Order.Subtotal),
		money(row.Order.ShippingCost),
		money(row.Fee),
		money(row.NetAfterFees),
	}
}

// summaryLines are the batch figures in display order.
func summaryLines(s *earnings.Summary) [][2]string {
	return [][2]string{
		{"Orders", fmt.Sprintf("%d", len(s.Rows))},
		{"Total Subtotal", money(s.TotalSubtotal)},
		{"Total Fees", money(s.TotalFees)},
		{"Shipping (batch)", money(s.Costs.Shipping)},
		{"Blanks (batch)", money(s.Costs.Blanks)},
		{"Shipping (per-order lookup)", money(s.LookupShipping)},
		{"Net Profit", money(s.NetProfit)},
	}
}

// WriteEarningsCSV writes the ledger rows, a blank line and the batch summary.
func WriteEarningsCSV(w io.Writer, s *earnings.Summary) error {
	writer := csv.NewWriter(w)

	rows := [][]string{earningsHeader}
	for _, row := range s.Rows {
		rows = append(rows, ledgerRow(row))
	}
	rows = append(rows, []string{})
	for _, line := range summaryLines(s) {
		rows = append(rows, []string{line[0], line[1]})
	}

	if err := writer.WriteAll(rows); err != nil {
		return eris.Wrap(err, "failed to write earnings CSV")
	}
	return nil
}

// WriteEarningsTable writes the ledger and summary as aligned text.
func WriteEarningsTable(w io.Writer, s *earnings.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	writeTabRow(tw, earningsHeader)
	for _, row := range s.Rows {
		writeTabRow(tw, ledgerRow(row))
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "failed to write earnings table")
	}

	fmt.Fprintf(w, "\nFee schedule: %s%% + %s per order\n", s.Schedule.Percent.String(), money(s.Schedule.Fixed))

	sw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range summaryLines(s) {
		fmt.Fprintf(sw, "%s:\t%s\n", line[0], line[1])
	}
	if err := sw.Flush(); err != nil {
		return eris.Wrap(err, "failed to write earnings summary")
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "failed to write JSON")
	}
	return nil
}
