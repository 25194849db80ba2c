package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.OutputDir != "./output" || cfg.ProgressDB != "./tally.db" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected directory defaults: %+v", cfg)
	}
	if cfg.Fees.Percent != "2.9" || cfg.Fees.Fixed != "0.30" {
		t.Fatalf("unexpected fee defaults: %+v", cfg.Fees)
	}
	if cfg.Columns.Quantity != "Lineitem quantity" || cfg.Columns.LineItemName != "Lineitem name" {
		t.Fatalf("unexpected column defaults: %+v", cfg.Columns)
	}
	if cfg.CSVSettings.Delimiter != "," || cfg.CSVSettings.HeaderRows != 1 || cfg.CSVSettings.DataStartRow != 2 {
		t.Fatalf("unexpected csv defaults: %+v", cfg.CSVSettings)
	}
	if cfg.OutputNameFormat != "{kind}_{timestamp}_{uuid}" {
		t.Fatalf("unexpected name format %q", cfg.OutputNameFormat)
	}
	if len(cfg.Columns.Required()) != 6 {
		t.Fatalf("expected 6 required columns")
	}
}

func TestParseOverridesAndKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
output_dir: ./reports
fees:
  percent: "3.5"
costs:
  shipping: "42.10"
columns:
  order_name: "Order"
csv_settings:
  delimiter: ";"
  header_rows: 2
transformation_rules:
  - field: "Lineitem name"
    actions:
      - type: replace
        find: " | "
        value: " - "
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.OutputDir != "./reports" {
		t.Errorf("output_dir not applied: %q", cfg.OutputDir)
	}
	if cfg.Fees.Percent != "3.5" || cfg.Fees.Fixed != "0.30" {
		t.Errorf("fees not merged with defaults: %+v", cfg.Fees)
	}
	if cfg.Costs.Shipping != "42.10" || cfg.Costs.Blanks != "" {
		t.Errorf("unexpected costs: %+v", cfg.Costs)
	}
	if cfg.Columns.OrderName != "Order" || cfg.Columns.Total != "Total" {
		t.Errorf("columns not merged with defaults: %+v", cfg.Columns)
	}
	if cfg.CSVSettings.DelimiterRune() != ';' || cfg.CSVSettings.DataStartRow != 3 {
		t.Errorf("unexpected csv settings: %+v", cfg.CSVSettings)
	}
	if len(cfg.TransformationRules) != 1 || cfg.TransformationRules[0].Actions[0].Find != " | " {
		t.Errorf("transformation rules not loaded: %+v", cfg.TransformationRules)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "output_dir: [",
		"bad log level":   "log_level: loud",
		"bad delimiter":   "csv_settings:\n  delimiter: \"::\"",
		"data before hdr": "csv_settings:\n  header_rows: 2\n  data_start_row: 2",
		"unknown action":  "transformation_rules:\n  - field: Name\n    actions:\n      - type: explode",
		"missing field":   "transformation_rules:\n  - actions:\n      - type: trim",
		"bad regex":       "transformation_rules:\n  - field: Name\n    actions:\n      - type: regex_replace\n        find: \"([\"",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestShippingCSVSettingsIndependent(t *testing.T) {
	cfg, err := Parse([]byte(`
archive_date_subdirs: true
csv_settings:
  header_rows: 2
shipping_csv_settings:
  delimiter: "\t"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.CSVSettings.HeaderRows != 2 || cfg.CSVSettings.DataStartRow != 3 {
		t.Errorf("unexpected orders csv settings: %+v", cfg.CSVSettings)
	}
	ship := cfg.ShippingCSVSettings
	if ship.HeaderRows != 1 || ship.DataStartRow != 2 || ship.DelimiterRune() != '\t' {
		t.Errorf("shipping csv settings should default on their own: %+v", ship)
	}
	if !cfg.ArchiveDateSubdirs {
		t.Errorf("archive_date_subdirs not applied")
	}

	if _, err := Parse([]byte("shipping_csv_settings:\n  header_rows: 3\n  data_start_row: 2")); err == nil {
		t.Errorf("expected an error for shipping data_start_row before its header")
	}
}

func TestTabDelimiter(t *testing.T) {
	cfg, err := Parse([]byte("csv_settings:\n  delimiter: '\\t'\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CSVSettings.DelimiterRune() != '\t' {
		t.Fatalf("expected tab delimiter, got %q", cfg.CSVSettings.DelimiterRune())
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOrDefault(path)
	if err != nil || cfg.LogLevel != "debug" {
		t.Fatalf("expected loaded config, got %+v, %v", cfg, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("Load must fail on a missing file")
	}

	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadOrDefault(path)
	if err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
