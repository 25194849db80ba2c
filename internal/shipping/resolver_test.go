package shipping

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-tally/internal/types"
)

func table(headers []string, rows ...[]string) *types.Table {
	t := &types.Table{Headers: headers}
	for _, r := range rows {
		rec := make(types.Record)
		for i, h := range headers {
			if i < len(r) {
				rec[h] = r[i]
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func TestBuildLookupPrependsHash(t *testing.T) {
	lookup, res := BuildLookup(table(
		[]string{"Order name", "Shipping charge"},
		[]string{"1002", "$12.50"},
	))
	if res.KeyColumn != "Order name" || res.ValueColumn != "Shipping charge" {
		t.Fatalf("unexpected resolution %+v", res)
	}
	got, ok := lookup["#1002"]
	if !ok || !got.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected #1002 -> 12.50, got %v (ok=%v)", got, ok)
	}
}

func TestBuildLookupLastRowWins(t *testing.T) {
	lookup, _ := BuildLookup(table(
		[]string{"Order ID", "Label cost"},
		[]string{"#1", "5.00"},
		[]string{"#1", "7.25"},
	))
	if !lookup.Cost("#1").Equal(decimal.RequireFromString("7.25")) {
		t.Fatalf("expected last row to win, got %s", lookup.Cost("#1"))
	}
}

func TestBuildLookupSkipsBadRows(t *testing.T) {
	lookup, _ := BuildLookup(table(
		[]string{"Order name", "Amount"},
		[]string{"", "4.00"},
		[]string{"#2", ""},
		[]string{"#3", "free"},
		[]string{"#4", "USD 3.10"},
	))
	if len(lookup) != 1 {
		t.Fatalf("expected only #4, got %v", lookup)
	}
	if !lookup.Cost("4").Equal(decimal.RequireFromString("3.10")) {
		t.Fatalf("Cost should normalize its key, got %s", lookup.Cost("4"))
	}
}

func TestBuildLookupUnresolvedColumnsIsEmpty(t *testing.T) {
	lookup, res := BuildLookup(table(
		[]string{"Tracking", "Carrier"},
		[]string{"1Z999", "UPS"},
	))
	if res.Resolved() || len(lookup) != 0 {
		t.Fatalf("expected empty lookup, got %v / %+v", lookup, res)
	}
	if !lookup.Cost("#1").IsZero() {
		t.Fatalf("missing order should cost zero")
	}

	partial, res := BuildLookup(table([]string{"Order name", "Carrier"}, []string{"#1", "UPS"}))
	if res.KeyColumn != "Order name" || res.ValueColumn != "" || len(partial) != 0 {
		t.Fatalf("expected partial resolution, got %+v", res)
	}

	empty, _ := BuildLookup(nil)
	if len(empty) != 0 {
		t.Fatalf("nil table should give empty lookup")
	}
}

func TestResolveColumnsDeclaredOrder(t *testing.T) {
	cases := []struct {
		headers   []string
		wantKey   string
		wantValue string
	}{
		{[]string{"Recipient Name", "Order ID", "Label Fee", "Shipping charge"}, "Recipient Name", "Label Fee"},
		{[]string{"Customer name", "Order ID", "Price"}, "Customer name", "Price"},
		{[]string{"Recipient Name", "Postage Amount", "Label Cost"}, "Recipient Name", "Postage Amount"},
		{[]string{"order_name", "Shipping Charge", "Cost"}, "order_name", "Shipping Charge"},
		{[]string{"OrderName", "Total Price"}, "OrderName", "Total Price"},
		{[]string{"Label name"}, "Label name", "Label name"},
		{[]string{"Tracking", "Weight"}, "", ""},
	}
	for _, tc := range cases {
		got := ResolveColumns(tc.headers)
		if got.KeyColumn != tc.wantKey || got.ValueColumn != tc.wantValue {
			t.Errorf("ResolveColumns(%v) = %+v; want key=%q value=%q", tc.headers, got, tc.wantKey, tc.wantValue)
		}
	}
}

func TestLookupTotal(t *testing.T) {
	lookup := Lookup{
		"#1": decimal.RequireFromString("1.10"),
		"#2": decimal.RequireFromString("2.20"),
	}
	if !lookup.Total().Equal(decimal.RequireFromString("3.30")) {
		t.Fatalf("unexpected total %s", lookup.Total())
	}
}

func TestNormalizeOrderKey(t *testing.T) {
	cases := map[string]string{"1002": "#1002", "#1002": "#1002", " 7 ": "#7", "": ""}
	for in, want := range cases {
		if got := NormalizeOrderKey(in); got != want {
			t.Errorf("NormalizeOrderKey(%q) = %q; want %q", in, got, want)
		}
	}
}
