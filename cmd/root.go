// =============================================================================
// Order Tally - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// (pivot, earnings, progress, validate, version) is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tally)
//   ├── pivotCmd    (tally pivot)
//   ├── earningsCmd (tally earnings)
//   ├── progressCmd (tally progress mark|set|list|reset)
//   ├── validateCmd (tally validate)
//   └── versionCmd  (tally version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file (a missing file means defaults)
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-tally/internal/config"
	"github.com/ginjaninja78/order-tally/internal/logging"
	"github.com/ginjaninja78/order-tally/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// cfg is the loaded configuration, available to every subcommand.
var cfg *config.Config

// logger is the application logger, available to every subcommand.
var logger = logging.Discard()

// logFile is the open log_file, if any.
var logFile *os.File

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Order Tally - Production counts and earnings from store order exports",
	Long: `Order Tally turns an e-commerce order export into the numbers a small
print shop needs: how many of each product, color and size to produce, and
what the batch earned after fees, shipping and blanks.

Key Features:
  - Product / color x size pivot and color family pivot
  - Fulfillment checklist stored in a local SQLite file
  - Per-order earnings with a configurable fee schedule
  - Shipping costs matched from a carrier export
  - CSV and XLSX inputs; table, CSV, XLSX and JSON outputs

Example Usage:
  tally pivot --orders orders_export.csv
  tally pivot --orders orders_export.csv --progress --format csv --out pivot.csv
  tally earnings --orders orders_export.csv --shipping labels.csv --blanks 84.50
  tally progress mark --orders orders_export.csv --row "Classic Tee - Navy" --size L
  tally validate --orders orders_export.csv`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initRuntime()
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != nil {
			return logFile.Close()
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initRuntime loads the configuration and builds the logger.
func initRuntime() error {
	loaded, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return eris.Wrap(err, "failed to load config")
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return eris.Wrapf(err, "failed to open log file %s", cfg.LogFile)
		}
		logFile = f
		out = f
	}

	logger = logging.New(level, out)
	logger.Debug("Using config %s (output_dir=%s, progress_db=%s)", cfgFile, cfg.OutputDir, cfg.ProgressDB)
	return nil
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

// newFileManager builds the file manager from the loaded config.
func newFileManager() *utils.FileManager {
	return utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir, cfg.ArchiveInputs, cfg.ArchiveDateSubdirs)
}

// requireInput fails early, before any parsing, when an input path is missing.
func requireInput(flag, path string) error {
	if !utils.FileExists(path) {
		return eris.Errorf("--%s %s: file not found", flag, path)
	}
	return nil
}

// nopCloser adapts stdout for openOutput.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns the command's stdout for an empty path, otherwise a
// newly created file.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to create output file %s", path)
	}
	return f, nil
}
