// =============================================================================
// Order Tally - Pivot Command
// =============================================================================
//
// This file defines the 'pivot' command, the main command of the tool. It
// imports an orders export and emits the production views.
//
// COMMAND USAGE:
//   tally pivot --orders FILE [flags]
//
// FLAGS:
//   --orders    : Orders export (.csv, .xlsx, .xlsm)
//   --format    : table (default), csv, xlsx or json
//   --progress  : Render cells against the fulfillment checklist
//   --out       : Output path; stdout when empty (xlsx gets a generated name)
//   --summary   : Write an import summary log to the output directory
//
// PROCESSING PIPELINE:
//   1. Load the export (CSV or XLSX)
//   2. Apply transformation rules
//   3. Parse line items and orders in one pass
//   4. Aggregate
//   5. Render in the requested format
//   6. Archive the input (when archive_inputs is enabled)
//
// =============================================================================

package cmd

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-tally/internal/converter"
	"github.com/ginjaninja78/order-tally/internal/earnings"
	"github.com/ginjaninja78/order-tally/internal/progress"
	"github.com/ginjaninja78/order-tally/internal/reportwriter"
	"github.com/ginjaninja78/order-tally/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	pivotOrders   string
	pivotFormat   string
	pivotProgress bool
	pivotOut      string
	pivotSummary  bool
)

// pivotFormats lists the accepted --format values.
var pivotFormats = []string{"table", "csv", "xlsx", "json"}

// =============================================================================
// PIVOT COMMAND DEFINITION
// =============================================================================

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Count products by color and size",
	Long: `The pivot command imports an orders export and produces the product / color
by size pivot, the color family pivot, and the per-size totals.

Rows whose quantity is not a positive integer or whose product name is empty
are skipped. Items whose size cannot be mapped to XS..3XL are listed with the
parsed items but are not counted.

With --progress, each cell is compared with the fulfillment checklist:
"DONE (n)" when every unit is checked off, "k / n" when some are.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runPivot(cmd)
	},
}

func init() {
	rootCmd.AddCommand(pivotCmd)

	pivotCmd.Flags().StringVar(&pivotOrders, "orders", "", "Orders export to import (.csv, .xlsx)")
	pivotCmd.Flags().StringVar(&pivotFormat, "format", "table", "Output format: "+strings.Join(pivotFormats, ", "))
	pivotCmd.Flags().BoolVar(&pivotProgress, "progress", false, "Render cells against the fulfillment checklist")
	pivotCmd.Flags().StringVar(&pivotOut, "out", "", "Output path (stdout when empty)")
	pivotCmd.Flags().BoolVar(&pivotSummary, "summary", false, "Write an import summary log to the output directory")

	pivotCmd.MarkFlagRequired("orders")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runPivot(cmd *cobra.Command) error {
	startTime := time.Now()

	format := strings.ToLower(strings.TrimSpace(pivotFormat))
	if !contains(pivotFormats, format) {
		return eris.Errorf("unknown format %q (want one of %s)", pivotFormat, strings.Join(pivotFormats, ", "))
	}

	if err := requireInput("orders", pivotOrders); err != nil {
		return err
	}

	conv, err := converter.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := conv.ImportFile(pivotOrders)
	if err != nil {
		return err
	}

	// =========================================================================
	// CHECKLIST
	// =========================================================================

	mode := reportwriter.ModeCount
	var checked map[string]int
	if pivotProgress {
		checked, err = loadChecklist()
		if err != nil {
			return err
		}
		mode = reportwriter.ModeProgress
	}

	// =========================================================================
	// RENDER
	// =========================================================================

	fm := newFileManager()
	outPath := pivotOut

	switch format {
	case "xlsx":
		if outPath == "" {
			if err := fm.EnsureDirectories(); err != nil {
				return err
			}
			outPath = fm.OutputPath(utils.GenerateOutputFileName(cfg.OutputNameFormat, ".xlsx", map[string]string{
				"kind":     "pivot",
				"original": utils.BaseName(pivotOrders),
			}))
		}
		summary := earnings.Calculate(
			result.Data.Orders,
			earnings.NewFeeSchedule(cfg.Fees.Percent, cfg.Fees.Fixed),
			earnings.NewBatchCosts(cfg.Costs.Shipping, cfg.Costs.Blanks),
			nil,
		)
		if err := reportwriter.WritePivotXLSX(outPath, result.Data, summary); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", outPath)

	default:
		out, err := openOutput(cmd, outPath)
		if err != nil {
			return err
		}
		switch format {
		case "csv":
			err = reportwriter.WritePivotCSV(out, result.Data, checked, mode)
		case "json":
			err = reportwriter.WriteJSON(out, result.Data)
		default:
			err = reportwriter.WritePivotTable(out, result.Data, checked, mode)
		}
		if cerr := out.Close(); err == nil && cerr != nil {
			err = eris.Wrapf(cerr, "failed to close %s", outPath)
		}
		if err != nil {
			return err
		}
	}

	// =========================================================================
	// ARCHIVE AND SUMMARY
	// =========================================================================

	archived, err := archiveInput(fm, pivotOrders)
	if err != nil {
		return err
	}

	if pivotSummary {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		path, err := utils.WriteSummaryLog(utils.ImportSummary{
			Command:     "pivot",
			StartTime:   startTime,
			EndTime:     time.Now(),
			InputFile:   pivotOrders,
			OutputFile:  outPath,
			ArchivePath: archived,
			Rows:        result.Stats.Rows,
			LineItems:   result.Stats.Items,
			Dropped:     result.Stats.Dropped,
			Uncounted:   result.Stats.Uncounted,
			Orders:      result.Stats.Orders,
			GrandTotal:  result.Data.GrandTotal,
		}, cfg.OutputDir)
		if err != nil {
			return err
		}
		logger.Info("Summary written to %s", path)
	}

	return nil
}

// loadChecklist reads every checklist count from the progress database.
func loadChecklist() (map[string]int, error) {
	store, err := progress.OpenSQLite(cfg.ProgressDB)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.All()
}

// archiveInput copies the input to the archive when archive_inputs is on.
func archiveInput(fm *utils.FileManager, path string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return "", nil
	}
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}
	archived, err := fm.ArchiveInputFile(path)
	if err != nil {
		return "", err
	}
	logger.Info("Archived %s to %s", path, archived)
	return archived, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
