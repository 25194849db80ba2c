// =============================================================================
// Order Tally - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration from
// a single YAML file.
//
// CONFIGURATION FILE (config.yaml):
//   - Directories and the progress database location
//   - Logging settings
//   - Fee schedule and batch cost defaults
//   - Orders-file column names
//   - CSV / XLSX reader settings
//   - Field transformation rules applied before parsing
//
// LOADING:
//   Load reads the file, applies defaults and validates the result. A missing
//   file is only tolerated by LoadOrDefault, which the CLI uses for its default
//   config path.
//
// =============================================================================

package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where generated reports are written when no explicit
	// output path is given.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir is where imported source files are copied after a
	// successful run (only when ArchiveInputs is true).
	// Default: "./archive"
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveInputs enables copying imported source files to ArchiveDir.
	// Default: false
	ArchiveInputs bool `yaml:"archive_inputs"`

	// ArchiveDateSubdirs files archived inputs under YYYY/MM/DD.
	// Default: false
	ArchiveDateSubdirs bool `yaml:"archive_date_subdirs"`

	// ProgressDB is the SQLite file backing the fulfillment checklist.
	// Default: "./tally.db"
	ProgressDB string `yaml:"progress_db"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile is an optional log file path. Empty means stderr.
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat defines the format for generated report names.
	// Placeholders:
	//   {kind}      - Report kind ("pivot", "earnings")
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//
	// CUSTOMIZATION: Define your desired format here. The extension is added
	// from the chosen output format.
	// Default: "{kind}_{timestamp}_{uuid}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// EARNINGS SETTINGS
	// =========================================================================

	// Fees is the payment processor fee schedule.
	Fees FeeSettings `yaml:"fees"`

	// Costs are the batch-level costs subtracted from the profit figure.
	Costs CostSettings `yaml:"costs"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Columns names the orders-file fields the importer reads.
	Columns ColumnSettings `yaml:"columns"`

	// CSVSettings contains settings for parsing CSV inputs.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSheet is the sheet read from .xlsx inputs. Empty means the first
	// sheet of the workbook.
	XLSXSheet string `yaml:"xlsx_sheet"`

	// ShippingCSVSettings parses the shipping export, which comes from a
	// different system than the orders export and has its own layout.
	ShippingCSVSettings CSVSettings `yaml:"shipping_csv_settings"`

	// ShippingXLSXSheet is the sheet read from .xlsx shipping exports.
	ShippingXLSXSheet string `yaml:"shipping_xlsx_sheet"`

	// TransformationRules are field-level rewrites applied to every raw
	// record before it is parsed.
	//
	// CUSTOMIZATION: Use these to clean up storefront quirks (e.g. a
	// "Lineitem name" that uses " | " instead of " - ").
	TransformationRules []TransformationRule `yaml:"transformation_rules"`
}

// =============================================================================
// EARNINGS STRUCTURES
// =============================================================================

// FeeSettings is the processor fee: Percent of the order total plus Fixed per
// order. Values are strings so a blank or malformed entry degrades to zero
// instead of failing the load.
type FeeSettings struct {
	// Default: "2.9"
	Percent string `yaml:"percent"`

	// Default: "0.30"
	Fixed string `yaml:"fixed"`
}

// CostSettings are batch totals, not per-order costs.
type CostSettings struct {
	Shipping string `yaml:"shipping"`
	Blanks   string `yaml:"blanks"`
}

// =============================================================================
// COLUMN SETTINGS STRUCTURE
// =============================================================================

// ColumnSettings maps the importer's logical fields to orders-file headers.
//
// CUSTOMIZATION: Only change these if your storefront renames its export
// columns.
type ColumnSettings struct {
	// Default: "Lineitem quantity"
	Quantity string `yaml:"quantity"`

	// Default: "Lineitem name"
	LineItemName string `yaml:"lineitem_name"`

	// Default: "Name"
	OrderName string `yaml:"order_name"`

	// Default: "Created at"
	CreatedAt string `yaml:"created_at"`

	// Default: "Total"
	Total string `yaml:"total"`

	// Default: "Subtotal"
	Subtotal string `yaml:"subtotal"`
}

// Required returns the column names every orders file must declare.
func (c ColumnSettings) Required() []string {
	return []string{c.Quantity, c.LineItemName, c.OrderName, c.CreatedAt, c.Total, c.Subtotal}
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), ";" (semicolon), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows in the CSV file. Multiple
	// header rows are merged column by column with a space.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DataStartRow is the row number where the actual data begins.
	// Row numbering starts at 1.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a specific field.
type TransformationRule struct {
	// Field is the name of the field to transform.
	// This should match the column header in the input file.
	Field string `yaml:"field"`

	// Actions is a list of transformations to apply to this field.
	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is the type of transformation to apply.
	// Supported types:
	//   - "trim"                 : Remove leading and trailing whitespace
	//   - "uppercase"            : Convert to uppercase
	//   - "lowercase"            : Convert to lowercase
	//   - "prepend_string"       : Add Value to the beginning
	//   - "append_string"        : Add Value to the end
	//   - "replace"              : Replace Find with Value
	//   - "regex_replace"        : Replace regular expression Find with Value
	//   - "lookup"               : Replace using LookupTable (unchanged if absent)
	//   - "lookup_with_default"  : Replace using LookupTable, else Value
	//   - "if_empty_use_default" : Use Value when the field is empty
	//   - "if_empty_use_field"   : Use the field named by Value when empty
	//   - "normalize_whitespace" : Collapse runs of whitespace to one space
	Type string `yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `yaml:"value"`

	// Find is used for "replace" and "regex_replace" transformations.
	Find string `yaml:"find,omitempty"`

	// LookupTable is used for the lookup transformations.
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// ActionTypes lists every supported TransformationAction.Type.
var ActionTypes = []string{
	"trim",
	"uppercase",
	"lowercase",
	"prepend_string",
	"append_string",
	"replace",
	"regex_replace",
	"lookup",
	"lookup_with_default",
	"if_empty_use_default",
	"if_empty_use_field",
	"normalize_whitespace",
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "config file %s", configPath)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load, except that a missing file yields the
// default configuration.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(configPath)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrap(err, "failed to parse config")
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, eris.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = "./archive"
	}
	if cfg.ProgressDB == "" {
		cfg.ProgressDB = "./tally.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "{kind}_{timestamp}_{uuid}"
	}

	// Fee schedule defaults.
	if cfg.Fees.Percent == "" {
		cfg.Fees.Percent = "2.9"
	}
	if cfg.Fees.Fixed == "" {
		cfg.Fees.Fixed = "0.30"
	}

	// Column defaults.
	if cfg.Columns.Quantity == "" {
		cfg.Columns.Quantity = "Lineitem quantity"
	}
	if cfg.Columns.LineItemName == "" {
		cfg.Columns.LineItemName = "Lineitem name"
	}
	if cfg.Columns.OrderName == "" {
		cfg.Columns.OrderName = "Name"
	}
	if cfg.Columns.CreatedAt == "" {
		cfg.Columns.CreatedAt = "Created at"
	}
	if cfg.Columns.Total == "" {
		cfg.Columns.Total = "Total"
	}
	if cfg.Columns.Subtotal == "" {
		cfg.Columns.Subtotal = "Subtotal"
	}

	// CSV settings defaults.
	applyCSVDefaults(&cfg.CSVSettings)
	applyCSVDefaults(&cfg.ShippingCSVSettings)
}

func applyCSVDefaults(s *CSVSettings) {
	if s.Delimiter == "" {
		s.Delimiter = ","
	}
	if s.HeaderRows == 0 {
		s.HeaderRows = 1
	}
	if s.DataStartRow == 0 {
		s.DataStartRow = s.HeaderRows + 1
	}
}

// validate checks values that defaults cannot repair.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return eris.Errorf("log_level %q must be one of debug, info, warn, error", cfg.LogLevel)
	}

	if err := validateCSV("csv_settings", cfg.CSVSettings); err != nil {
		return err
	}
	if err := validateCSV("shipping_csv_settings", cfg.ShippingCSVSettings); err != nil {
		return err
	}

	for i, rule := range cfg.TransformationRules {
		if rule.Field == "" {
			return eris.Errorf("transformation_rules[%d]: field is required", i)
		}
		for j, action := range rule.Actions {
			if err := validateAction(action); err != nil {
				return eris.Wrapf(err, "transformation_rules[%d] (%s) action %d", i, rule.Field, j)
			}
		}
	}

	return nil
}

func validateCSV(name string, s CSVSettings) error {
	if d := s.Delimiter; len([]rune(d)) != 1 && d != `\t` {
		return eris.Errorf("%s.delimiter %q must be a single character", name, d)
	}
	if s.HeaderRows < 0 {
		return eris.Errorf("%s.header_rows must not be negative", name)
	}
	if s.DataStartRow <= s.HeaderRows {
		return eris.Errorf("%s.data_start_row (%d) must come after the header rows (%d)",
			name, s.DataStartRow, s.HeaderRows)
	}
	return nil
}

// validateAction rejects unknown action types and bad regular expressions.
func validateAction(action TransformationAction) error {
	known := false
	for _, t := range ActionTypes {
		if action.Type == t {
			known = true
			break
		}
	}
	if !known {
		return eris.Errorf("unknown action type %q", action.Type)
	}

	if action.Type == "regex_replace" {
		if _, err := regexp.Compile(action.Find); err != nil {
			return eris.Wrapf(err, "invalid regex_replace pattern %q", action.Find)
		}
	}
	return nil
}

// DelimiterRune returns the configured delimiter as a rune. The two-character
// escape "\t" is accepted for tab.
func (s CSVSettings) DelimiterRune() rune {
	if s.Delimiter == `\t` {
		return '\t'
	}
	r := []rune(s.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}
