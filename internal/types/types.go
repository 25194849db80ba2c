// =============================================================================
// Order Tally - Shared Types
// =============================================================================
//
// This package contains the domain types shared across modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (Table, Record)
//   - extract (LineItem, Order)
//   - aggregate (Pivot, SizeCounts, AggregatedData)
//   - earnings, reportwriter, converter
//
// OWNERSHIP:
//   Values handed out by the core (LineItem, Order, AggregatedData) are never
//   mutated after they are returned. A new import always builds new values.
//
// =============================================================================

package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW RECORDS
// =============================================================================

// Record is a single string-keyed input row.
// Keys are the (cleaned) column headers of the source file.
type Record map[string]string

// Get returns the trimmed value of a field, or "" when the field is absent.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Table is a fully materialized, ordered sequence of records read from one
// source file.
type Table struct {
	// SourceFile is the path the table was read from (empty for in-memory tables).
	SourceFile string

	// Headers contains the column headers in declared order.
	Headers []string

	// Rows contains the data rows in file order.
	Rows []Record
}

// HasColumn reports whether the table declares the given header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// =============================================================================
// LINE ITEMS AND ORDERS
// =============================================================================

// Sentinel values assigned by the line item parser when a name cannot be
// split into a usable color/size pair.
const (
	Unknown  = "Unknown"
	Standard = "Standard"
	OneSize  = "One Size"
)

// LineItem is one parsed product line.
type LineItem struct {
	// ID is a synthetic "{rowIndex}-{rawName}" key, used for display identity
	// only. It is not a business key.
	ID string `json:"id"`

	ProductName string `json:"productName"`
	Color       string `json:"color"`
	Size        string `json:"size"`

	// Quantity is always greater than zero.
	Quantity int `json:"quantity"`
}

// RowKey returns the pivot row key "{ProductName} - {Color}".
func (li LineItem) RowKey() string {
	return RowKey(li.ProductName, li.Color)
}

// RowKey builds the pivot row key for a product and color.
func RowKey(product, color string) string {
	return product + " - " + color
}

// Order is one deduplicated order header.
type Order struct {
	// ID is a deterministic identifier derived from Name.
	ID string `json:"id"`

	// Name is the order identifier as exported (e.g. "#1234"). Unique per batch.
	Name string `json:"name"`

	// Date is the parsed creation timestamp. It is the zero time when the raw
	// value did not match any known export layout.
	Date time.Time `json:"date"`

	// RawDate is the creation field exactly as exported.
	RawDate string `json:"rawDate"`

	Total        decimal.Decimal `json:"total"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`

	// NetEarnings starts equal to Total. Fee-adjusted figures live in the
	// earnings ledger, not on the order.
	NetEarnings decimal.Decimal `json:"netEarnings"`
}

// =============================================================================
// AGGREGATED DATA
// =============================================================================

// AggregatedData is the sole handoff from the core to the display layer.
//
// INVARIANTS:
//   - Every SizeCounts value holds all canonical sizes.
//   - Totals[s] == sum of Products[*][s] for every canonical size s.
//   - GrandTotal == sum of Totals.
type AggregatedData struct {
	// Products is keyed by "{ProductName} - {Color}".
	Products *Pivot `json:"products"`

	// ColorTotals is keyed by color family.
	ColorTotals *Pivot `json:"colorTotals"`

	Totals     SizeCounts `json:"totals"`
	GrandTotal int        `json:"grandTotal"`

	// Orders is carried through from the order extractor unchanged.
	Orders []Order `json:"orders"`
}
