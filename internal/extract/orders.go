package extract

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-tally/internal/money"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// orderNamespace seeds the deterministic order IDs. Re-importing the same
// export yields the same IDs.
var orderNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("order-tally/orders"))

// dateLayouts are the creation-date layouts seen in storefront exports, tried
// in order. No locale-specific layouts are attempted.
var dateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// OrderExtractor deduplicates order header rows into unique orders.
//
// A row creates an order only when its name is non-empty, no order with that
// name exists yet, and its date field is non-empty. Line item rows that repeat
// an order name without a date are continuation rows and are ignored. The
// first qualifying row for a name wins; later rows never overwrite it.
type OrderExtractor struct {
	seen   map[string]bool
	orders []types.Order
}

// NewOrderExtractor returns an empty extractor.
func NewOrderExtractor() *OrderExtractor {
	return &OrderExtractor{seen: make(map[string]bool)}
}

// Add offers one row to the extractor.
//
// PARAMETERS:
//   - name: The order identifier ("Name" column).
//   - createdAt: The creation date field.
//   - total, subtotal: Monetary header fields. Unparsable values become 0.
//
// RETURNS:
//   - true when the row created a new order.
func (e *OrderExtractor) Add(name, createdAt, total, subtotal string) bool {
	name = strings.TrimSpace(name)
	createdAt = strings.TrimSpace(createdAt)

	if name == "" || e.seen[name] || createdAt == "" {
		return false
	}

	totalAmount := money.ParseAmount(total)
	order := types.Order{
		ID:           OrderID(name),
		Name:         name,
		Date:         ParseOrderDate(createdAt),
		RawDate:      createdAt,
		Total:        totalAmount,
		Subtotal:     money.ParseAmount(subtotal),
		ShippingCost: decimal.Zero,
		NetEarnings:  totalAmount,
	}

	e.seen[name] = true
	e.orders = append(e.orders, order)
	return true
}

// Orders returns the extracted orders in first-seen order. The returned
// slice is a copy.
func (e *OrderExtractor) Orders() []types.Order {
	out := make([]types.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// Len returns the number of unique orders seen so far.
func (e *OrderExtractor) Len() int {
	return len(e.orders)
}

// OrderID returns the deterministic ID for an order name.
func OrderID(name string) string {
	return uuid.NewSHA1(orderNamespace, []byte(name)).String()
}

// ParseOrderDate parses a creation date against the known export layouts.
// It returns the zero time when no layout matches.
func ParseOrderDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
