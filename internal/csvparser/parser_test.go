package csvparser

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ginjaninja78/order-tally/internal/config"
)

func defaultSettings() config.CSVSettings {
	return config.Default().CSVSettings
}

func TestParseReaderStripsBOMAndSkipsBlankRows(t *testing.T) {
	input := "\ufeffName,Lineitem quantity,Lineitem name\n" +
		"#1001,2,Classic Tee - Navy / Large\n" +
		",,\n" +
		"\n" +
		"#1002,1,Hoodie - Black / XL\n"

	table, err := ParseReader(strings.NewReader(input), defaultSettings(), "orders.csv")
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	wantHeaders := []string{"Name", "Lineitem quantity", "Lineitem name"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Fatalf("headers = %q; want %q", table.Headers, wantHeaders)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0].Get("Name") != "#1001" {
		t.Fatalf("BOM leaked into header: %v", table.Rows[0])
	}
	if table.SourceFile != "orders.csv" {
		t.Fatalf("unexpected source %q", table.SourceFile)
	}
}

func TestParseReaderRaggedRowsAndEmptyHeaders(t *testing.T) {
	input := "Name,,Total,Total\n" +
		"#1,x,10\n" +
		"#2,y,20,21,extra\n"

	table, err := ParseReader(strings.NewReader(input), defaultSettings(), "")
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	wantHeaders := []string{"Name", "Column_2", "Total", "Total_2"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Fatalf("headers = %q; want %q", table.Headers, wantHeaders)
	}
	if v, ok := table.Rows[0]["Total_2"]; !ok || v != "" {
		t.Fatalf("missing trailing cell should be empty, got %q (present=%v)", v, ok)
	}
	if table.Rows[1].Get("Total_2") != "21" || table.Rows[1].Get("Column_2") != "y" {
		t.Fatalf("unexpected row %v", table.Rows[1])
	}
}

func TestParseReaderMultiLineHeaders(t *testing.T) {
	settings := config.CSVSettings{Delimiter: ";", HeaderRows: 2, DataStartRow: 3}
	input := "Lineitem;;Shipping\n" +
		"name;Total;charge\n" +
		"Tee - Navy / L;10;2.50\n"

	table, err := ParseReader(strings.NewReader(input), settings, "")
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	wantHeaders := []string{"Lineitem name", "Total", "Shipping charge"}
	if !reflect.DeepEqual(table.Headers, wantHeaders) {
		t.Fatalf("headers = %q; want %q", table.Headers, wantHeaders)
	}
	if len(table.Rows) != 1 || table.Rows[0].Get("Shipping charge") != "2.50" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
}

func TestParseReaderLazyQuotes(t *testing.T) {
	input := "Lineitem name,Lineitem quantity\n" +
		"Tee \"Limited\" - Navy / L,1\n" +
		"\"Hoodie, Zip - Black / XL\",2\n"

	table, err := ParseReader(strings.NewReader(input), defaultSettings(), "")
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if got := table.Rows[1].Get("Lineitem name"); got != "Hoodie, Zip - Black / XL" {
		t.Fatalf("quoted field not preserved: %q", got)
	}
}

func TestParseEmptyAndMissing(t *testing.T) {
	if _, err := ParseReader(strings.NewReader(""), defaultSettings(), ""); err == nil {
		t.Fatalf("expected error for empty input")
	}

	if _, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), defaultSettings()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	if err := os.WriteFile(path, []byte("Name,Total\n"), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := Parse(path, defaultSettings())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(table.Rows) != 0 || table.SourceFile != path {
		t.Fatalf("unexpected table %+v", table)
	}
}

func TestUniqueValues(t *testing.T) {
	input := "Name,X\n#1,a\n#1,b\n,c\n#2,d\n"
	table, err := ParseReader(strings.NewReader(input), defaultSettings(), "")
	if err != nil {
		t.Fatal(err)
	}
	got := UniqueValues(table, "Name")
	if !reflect.DeepEqual(got, []string{"#1", "#2"}) {
		t.Fatalf("UniqueValues = %q", got)
	}
}
