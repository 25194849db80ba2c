package reportwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-tally/internal/aggregate"
	"github.com/ginjaninja78/order-tally/internal/earnings"
	"github.com/ginjaninja78/order-tally/internal/progress"
	"github.com/ginjaninja78/order-tally/internal/types"
)

func sampleData() *types.AggregatedData {
	items := []types.LineItem{
		{ID: "0-a", ProductName: "Tee", Color: "Navy", Size: "LARGE", Quantity: 2},
		{ID: "1-b", ProductName: "Hoodie", Color: "Black", Size: "XL", Quantity: 1},
		{ID: "2-c", ProductName: "Tee", Color: "Navy", Size: "SMALL", Quantity: 1},
		{ID: "3-d", ProductName: "Cap", Color: "Red", Size: types.OneSize, Quantity: 5},
	}
	orders := []types.Order{
		{Name: "#1001", RawDate: "sometime"},
	}
	return aggregate.Build(items, orders)
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read CSV: %v", err)
	}
	return rows
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		count, checked int
		mode           Mode
		want           string
	}{
		{3, 0, ModeCount, "3"},
		{3, 3, ModeCount, "3"},
		{3, 0, ModeProgress, "3"},
		{3, 1, ModeProgress, "1 / 3"},
		{3, 3, ModeProgress, "DONE (3)"},
		{3, 5, ModeProgress, "DONE (3)"},
		{0, 0, ModeProgress, "0"},
		{0, 2, ModeProgress, "0"},
	}

	for _, tt := range tests {
		if got := FormatCell(tt.count, tt.checked, tt.mode); got != tt.want {
			t.Errorf("FormatCell(%d, %d, %d) = %q; want %q", tt.count, tt.checked, tt.mode, got, tt.want)
		}
	}
}

func TestWritePivotCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePivotCSV(&buf, sampleData(), nil, ModeCount); err != nil {
		t.Fatalf("WritePivotCSV: %v", err)
	}

	rows := readCSV(t, buf.Bytes())
	wantHeader := "Product / Color,XS,SMALL,MEDIUM,LARGE,XL,2XL,3XL,Total"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Fatalf("header = %q; want %q", got, wantHeader)
	}

	// One Size items are not counted, so Cap never appears.
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d rows", len(rows))
	}
	if got := strings.Join(rows[1], ","); got != "Hoodie - Black,0,0,0,0,1,0,0,1" {
		t.Errorf("row 1 = %q", got)
	}
	if got := strings.Join(rows[2], ","); got != "Tee - Navy,0,1,0,2,0,0,0,3" {
		t.Errorf("row 2 = %q", got)
	}
}

func TestWritePivotCSVProgress(t *testing.T) {
	checked := map[string]int{
		progress.Key("Tee - Navy", "LARGE"):  1,
		progress.Key("Tee - Navy", "SMALL"):  1,
		progress.Key("Hoodie - Black", "XS"): 4,
	}

	var buf bytes.Buffer
	if err := WritePivotCSV(&buf, sampleData(), checked, ModeProgress); err != nil {
		t.Fatalf("WritePivotCSV: %v", err)
	}

	rows := readCSV(t, buf.Bytes())
	if got := strings.Join(rows[1], ","); got != "Hoodie - Black,0,0,0,0,1,0,0,1" {
		t.Errorf("row 1 = %q", got)
	}
	if got := strings.Join(rows[2], ","); got != "Tee - Navy,0,DONE (1),0,1 / 2,0,0,0,3" {
		t.Errorf("row 2 = %q", got)
	}
}

func TestWritePivotTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePivotTable(&buf, sampleData(), nil, ModeCount); err != nil {
		t.Fatalf("WritePivotTable: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Product / Color", "Tee - Navy", "TOTAL", "Color Family", "Grand total:"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWritePivotTableTotalsMismatch(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.AggregatedData)
		wantErr bool
	}{
		{name: "consistent", mutate: func(*types.AggregatedData) {}},
		{name: "inflated total", mutate: func(d *types.AggregatedData) { d.Totals["LARGE"]++ }, wantErr: true},
		{name: "missing total", mutate: func(d *types.AggregatedData) { d.Totals["XL"] = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := sampleData()
			tt.mutate(data)

			var buf bytes.Buffer
			err := WritePivotTable(&buf, data, nil, ModeCount)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for mismatched totals")
				}
				if buf.Len() != 0 {
					t.Fatalf("nothing should be written on error, got:\n%s", buf.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("WritePivotTable: %v", err)
			}
		})
	}
}

func sampleSummary() *earnings.Summary {
	data := sampleData()
	data.Orders[0].Total = decimal.RequireFromString("100")
	data.Orders[0].Subtotal = decimal.RequireFromString("90")
	return earnings.Calculate(
		data.Orders,
		earnings.NewFeeSchedule("2.9", "0.30"),
		earnings.NewBatchCosts("10", "20"),
		nil,
	)
}

func TestWriteEarningsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEarningsCSV(&buf, sampleSummary()); err != nil {
		t.Fatalf("WriteEarningsCSV: %v", err)
	}

	rows := readCSV(t, buf.Bytes())
	if got := strings.Join(rows[0], ","); got != "Order,Date,Total,Subtotal,Shipping,Fee,Net After Fees" {
		t.Fatalf("header = %q", got)
	}
	if got := strings.Join(rows[1], ","); got != "#1001,sometime,100.00,90.00,0.00,3.20,86.80" {
		t.Errorf("ledger row = %q", got)
	}

	last := rows[len(rows)-1]
	if last[0] != "Net Profit" || last[1] != "56.80" {
		t.Errorf("summary line = %v; want Net Profit 56.80", last)
	}
}

func TestWriteEarningsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEarningsTable(&buf, sampleSummary()); err != nil {
		t.Fatalf("WriteEarningsTable: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"#1001", "Fee schedule: 2.9% + 0.30 per order", "Net Profit:"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleData()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		GrandTotal int                       `json:"grandTotal"`
		Products   map[string]map[string]int `json:"products"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.GrandTotal != 4 {
		t.Errorf("grandTotal = %d; want 4", decoded.GrandTotal)
	}
	if decoded.Products["Tee - Navy"]["LARGE"] != 2 {
		t.Errorf("unexpected products %v", decoded.Products)
	}
}

func TestWritePivotXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.xlsx")
	if err := WritePivotXLSX(path, sampleData(), sampleSummary()); err != nil {
		t.Fatalf("WritePivotXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := strings.Join(f.GetSheetList(), ",")
	if sheets != "Pivot,Colors,Orders" {
		t.Fatalf("sheets = %q", sheets)
	}

	rows, err := f.GetRows(SheetPivot)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header, 2 products and a total row; got %d rows", len(rows))
	}
	total := rows[len(rows)-1]
	if total[0] != "Total" || total[len(total)-1] != "4" {
		t.Errorf("total row = %v", total)
	}
}

func TestWritePivotXLSXWithoutSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.xlsx")
	if err := WritePivotXLSX(path, sampleData(), nil); err != nil {
		t.Fatalf("WritePivotXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(SheetOrders); idx != -1 {
		t.Errorf("Orders sheet should be absent without a summary")
	}
}
