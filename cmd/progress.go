// =============================================================================
// Order Tally - Progress Command
// =============================================================================
//
// This file defines the 'progress' command group, which reads and writes the
// fulfillment checklist kept in the progress database (progress_db).
//
// COMMAND USAGE:
//   tally progress mark  --orders FILE --row KEY --size SIZE
//   tally progress set   --row KEY --size SIZE --count N
//   tally progress list
//   tally progress reset
//
// CHECKLIST KEYS:
//   "{Product} - {Color}_{SIZE}", e.g. "Classic Tee - Navy_LARGE". Keys left
//   over from earlier exports are kept; they simply match no pivot cell.
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-tally/internal/converter"
	"github.com/ginjaninja78/order-tally/internal/normalize"
	"github.com/ginjaninja78/order-tally/internal/progress"
)

var (
	progressOrders string
	progressRow    string
	progressSize   string
	progressCount  int
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Read and update the fulfillment checklist",
}

var progressMarkCmd = &cobra.Command{
	Use:   "mark",
	Short: "Check off one more unit of a pivot cell",
	Long: `Mark advances a cell's checklist count by one. Once the count passes the
cell's quantity in the current export it wraps back to 0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := cellSize()
		if err != nil {
			return err
		}

		conv, err := converter.New(cfg, logger)
		if err != nil {
			return err
		}
		result, err := conv.ImportFile(progressOrders)
		if err != nil {
			return err
		}

		target := result.Data.Products.Count(progressRow, size)
		if target == 0 {
			return eris.Errorf("%q has no %s units in %s", progressRow, size, progressOrders)
		}

		return withStore(func(store progress.Store) error {
			n, err := store.Advance(progress.Key(progressRow, size), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d / %d\n", progressRow, size, n, target)
			return nil
		})
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a cell's checklist count",
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := cellSize()
		if err != nil {
			return err
		}
		return withStore(func(store progress.Store) error {
			return store.Set(progress.Key(progressRow, size), progressCount)
		})
	},
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every checklist count",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store progress.Store) error {
			counts, err := store.All()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Key\tChecked")
			for _, key := range progress.SortedKeys(counts) {
				fmt.Fprintf(tw, "%s\t%d\n", key, counts[key])
			}
			return tw.Flush()
		})
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the checklist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store progress.Store) error {
			if err := store.Reset(); err != nil {
				return err
			}
			logger.Info("Checklist cleared (%s)", cfg.ProgressDB)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(progressMarkCmd, progressSetCmd, progressListCmd, progressResetCmd)

	for _, c := range []*cobra.Command{progressMarkCmd, progressSetCmd} {
		c.Flags().StringVar(&progressRow, "row", "", `Pivot row key, e.g. "Classic Tee - Navy"`)
		c.Flags().StringVar(&progressSize, "size", "", "Size (any spelling the importer accepts, e.g. L, Large, XXL)")
		c.MarkFlagRequired("row")
		c.MarkFlagRequired("size")
	}

	progressMarkCmd.Flags().StringVar(&progressOrders, "orders", "", "Orders export the cell belongs to")
	progressMarkCmd.MarkFlagRequired("orders")

	progressSetCmd.Flags().IntVar(&progressCount, "count", 0, "Checked count")
}

// cellSize normalizes the --size flag to a canonical size.
func cellSize() (string, error) {
	size, ok := normalize.NormalizeSize(progressSize)
	if !ok {
		return "", eris.Errorf("unrecognized size %q", progressSize)
	}
	return size, nil
}

// withStore opens the progress database for the duration of fn.
func withStore(fn func(progress.Store) error) error {
	store, err := progress.OpenSQLite(cfg.ProgressDB)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}
