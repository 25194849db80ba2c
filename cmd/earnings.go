// =============================================================================
// Order Tally - Earnings Command
// =============================================================================
//
// This file defines the 'earnings' command. It prints the per-order ledger
// (total, fee, net after fees) and the batch net profit.
//
// COMMAND USAGE:
//   tally earnings --orders FILE [flags]
//
// FLAGS:
//   --orders         : Orders export (.csv, .xlsx, .xlsm)
//   --shipping       : Carrier export with per-order shipping costs
//   --percent        : Fee percentage (default fees.percent)
//   --fixed          : Fixed fee per order (default fees.fixed)
//   --shipping-cost  : Batch shipping total (default costs.shipping, then the
//                      sum of the shipping file)
//   --blanks         : Batch cost of blanks (default costs.blanks)
//   --sort, --desc   : Ledger ordering (name, date, total, subtotal, fee, net)
//   --out            : Output path; the extension picks CSV, JSON or XLSX
//
// NET PROFIT:
//   sum(subtotal) - shipping - sum(fee) - blanks
//
// =============================================================================

package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-tally/internal/converter"
	"github.com/ginjaninja78/order-tally/internal/earnings"
	"github.com/ginjaninja78/order-tally/internal/reportwriter"
	"github.com/ginjaninja78/order-tally/internal/shipping"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	earningsOrders       string
	earningsShipping     string
	earningsPercent      string
	earningsFixed        string
	earningsShippingCost string
	earningsBlanks       string
	earningsSort         string
	earningsDesc         bool
	earningsOut          string
)

// =============================================================================
// EARNINGS COMMAND DEFINITION
// =============================================================================

var earningsCmd = &cobra.Command{
	Use:   "earnings",
	Short: "Per-order earnings and batch net profit",
	Long: `The earnings command imports an orders export and computes, for every
order, the payment fee (total x percent / 100 + fixed) and the subtotal left
after that fee. The batch summary subtracts shipping, fees and blanks from the
summed subtotals.

Monetary inputs are lenient: a value that cannot be read as a number counts
as 0.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runEarnings(cmd)
	},
}

func init() {
	rootCmd.AddCommand(earningsCmd)

	f := earningsCmd.Flags()
	f.StringVar(&earningsOrders, "orders", "", "Orders export to import (.csv, .xlsx)")
	f.StringVar(&earningsShipping, "shipping", "", "Carrier export with per-order shipping costs")
	f.StringVar(&earningsPercent, "percent", "", "Fee percentage (default from config)")
	f.StringVar(&earningsFixed, "fixed", "", "Fixed fee per order (default from config)")
	f.StringVar(&earningsShippingCost, "shipping-cost", "", "Batch shipping total")
	f.StringVar(&earningsBlanks, "blanks", "", "Batch cost of blanks")
	f.StringVar(&earningsSort, "sort", "", "Sort ledger by: "+strings.Join(earnings.SortKeys, ", "))
	f.BoolVar(&earningsDesc, "desc", false, "Sort descending")
	f.StringVar(&earningsOut, "out", "", "Output path (.csv, .json or .xlsx); table on stdout when empty")

	earningsCmd.MarkFlagRequired("orders")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runEarnings(cmd *cobra.Command) error {
	if err := requireInput("orders", earningsOrders); err != nil {
		return err
	}
	if earningsShipping != "" {
		if err := requireInput("shipping", earningsShipping); err != nil {
			return err
		}
	}

	conv, err := converter.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := conv.ImportFile(earningsOrders)
	if err != nil {
		return err
	}

	var lookup shipping.Lookup
	if earningsShipping != "" {
		lookup, _, err = conv.ShippingLookup(earningsShipping)
		if err != nil {
			return err
		}
	}

	schedule := earnings.NewFeeSchedule(
		firstNonEmpty(earningsPercent, cfg.Fees.Percent),
		firstNonEmpty(earningsFixed, cfg.Fees.Fixed),
	)

	batchShipping := firstNonEmpty(earningsShippingCost, cfg.Costs.Shipping)
	if batchShipping == "" && lookup != nil {
		batchShipping = lookup.Total().String()
		logger.Info("Using shipping file total %s as batch shipping", batchShipping)
	}
	costs := earnings.NewBatchCosts(batchShipping, firstNonEmpty(earningsBlanks, cfg.Costs.Blanks))

	summary := earnings.Calculate(result.Data.Orders, schedule, costs, lookup)

	if earningsSort != "" {
		if err := earnings.SortRows(summary.Rows, earningsSort, earningsDesc); err != nil {
			return err
		}
	}

	// =========================================================================
	// RENDER
	// =========================================================================

	switch strings.ToLower(filepath.Ext(earningsOut)) {
	case ".xlsx":
		if err := reportwriter.WritePivotXLSX(earningsOut, result.Data, summary); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", earningsOut)

	default:
		out, err := openOutput(cmd, earningsOut)
		if err != nil {
			return err
		}
		switch strings.ToLower(filepath.Ext(earningsOut)) {
		case ".csv":
			err = reportwriter.WriteEarningsCSV(out, summary)
		case ".json":
			err = reportwriter.WriteJSON(out, summary)
		default:
			err = reportwriter.WriteEarningsTable(out, summary)
		}
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}

	_, err = archiveInput(newFileManager(), earningsOrders)
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
