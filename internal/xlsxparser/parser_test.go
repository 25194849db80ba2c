package xlsxparser

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves rows to sheet in a new workbook and returns its path.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("DeleteSheet: %v", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestParseRoundTrip(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"Name", "Lineitem quantity", "Lineitem name"},
		{"#1001", 2, "Classic Tee - Navy / Large"},
		{nil, nil, nil},
		{"#1002", "1", "Hoodie - Black / XL", "note"},
	})

	table, err := Parse(path, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantHeaders := []string{"Name", "Lineitem quantity", "Lineitem name"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Fatalf("headers = %q; want %q", table.Headers, wantHeaders)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(table.Rows), table.Rows)
	}
	if table.Rows[0].Get("Lineitem quantity") != "2" {
		t.Fatalf("numeric cell not read as text: %v", table.Rows[0])
	}
	if table.Rows[1].Get("Lineitem name") != "Hoodie - Black / XL" {
		t.Fatalf("unexpected row %v", table.Rows[1])
	}
	if table.SourceFile != path {
		t.Fatalf("unexpected source %q", table.SourceFile)
	}
}

func TestParseNamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Shipping", [][]interface{}{
		{},
		{"Order name", "Shipping charge"},
		{"1002", "$12.50"},
	})

	table, err := Parse(path, "Shipping")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(table.Headers) != 2 || table.Headers[0] != "Order name" {
		t.Fatalf("header row not found after blank row: %q", table.Headers)
	}
	if len(table.Rows) != 1 || table.Rows[0].Get("Shipping charge") != "$12.50" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}

	if _, err := Parse(path, "Orders"); err == nil {
		t.Fatalf("expected error for missing sheet")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "missing.xlsx"), ""); err == nil {
		t.Fatalf("expected error for missing workbook")
	}

	path := writeWorkbook(t, "Sheet1", nil)
	if _, err := Parse(path, ""); err == nil {
		t.Fatalf("expected error for empty sheet")
	}
}
