// =============================================================================
// Order Tally - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It inspects an orders export
// (and optionally a shipping export) and reports what an import would skip,
// without producing any report.
//
// COMMAND USAGE:
//   tally validate --orders FILE [--shipping FILE] [--log PATH]
//
// EXIT STATUS:
//   Non-zero when a required orders column is missing. Row-level findings and
//   shipping problems are warnings only.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-tally/internal/converter"
	"github.com/ginjaninja78/order-tally/internal/validation"
)

var (
	validateOrders   string
	validateShipping string
	validateLog      string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report problems in an orders export",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if err := requireInput("orders", validateOrders); err != nil {
			return err
		}

		table, err := converter.LoadTable(validateOrders, cfg)
		if err != nil {
			return err
		}
		result := validation.ValidateOrders(table, cfg.Columns)
		report(cmd, "Orders", result)

		if validateLog != "" {
			if err := validation.WriteErrorLog(result, validateLog); err != nil {
				return err
			}
			logger.Info("Validation log written to %s", validateLog)
		}

		if validateShipping != "" {
			shipTable, err := converter.LoadShippingTable(validateShipping, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			report(cmd, "Shipping", validation.ValidateShipping(shipTable))
		}

		if !result.IsValid {
			return eris.Errorf("%s: %d error(s)", validateOrders, result.ErrorCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateOrders, "orders", "", "Orders export to validate")
	validateCmd.Flags().StringVar(&validateShipping, "shipping", "", "Shipping export to validate")
	validateCmd.Flags().StringVar(&validateLog, "log", "", "Also write the orders findings to this file")
	validateCmd.MarkFlagRequired("orders")
}

func report(cmd *cobra.Command, label string, result *validation.ValidationResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s (%d rows, %d errors, %d warnings)\n",
		label, result.SourceFile, result.RowsValidated, result.ErrorCount, result.WarningCount)
	fmt.Fprintln(out, validation.FormatErrors(result.Errors))
}
