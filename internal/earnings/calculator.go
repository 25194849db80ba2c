// =============================================================================
// Order Tally - Earnings Calculator
// =============================================================================
//
// Computes per-order payment processor fees and the batch profit figure.
//
// FORMULAS:
//   fee          = total * (percent / 100) + fixed
//   netAfterFees = subtotal - fee
//   netProfit    = totalSubtotal - shippingBatch - totalFees - blanksBatch
//
// Shipping and blank-goods costs are batch totals, not per order. Per-order
// shipping from a shipping export is merged onto the ledger rows for display
// and summed into LookupShipping, but the batch figure drives netProfit.
//
// =============================================================================

package earnings

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-tally/internal/money"
	"github.com/ginjaninja78/order-tally/internal/shipping"
	"github.com/ginjaninja78/order-tally/internal/types"
)

var hundred = decimal.NewFromInt(100)

// FeeSchedule is the payment processor's fee: a percentage of the order total
// plus a fixed amount per order.
type FeeSchedule struct {
	Percent decimal.Decimal `json:"percent"`
	Fixed   decimal.Decimal `json:"fixed"`
}

// NewFeeSchedule parses a fee schedule. Unparsable values become zero.
func NewFeeSchedule(percent, fixed string) FeeSchedule {
	return FeeSchedule{
		Percent: money.ParseAmount(percent),
		Fixed:   money.ParseAmount(fixed),
	}
}

// Fee returns the fee charged on an order total.
func (f FeeSchedule) Fee(total decimal.Decimal) decimal.Decimal {
	return total.Mul(f.Percent.Div(hundred)).Add(f.Fixed)
}

// BatchCosts are costs known only as totals for the whole batch.
type BatchCosts struct {
	Shipping decimal.Decimal `json:"shipping"`
	Blanks   decimal.Decimal `json:"blanks"`
}

// NewBatchCosts parses batch costs. Unparsable values become zero.
func NewBatchCosts(shippingCost, blanks string) BatchCosts {
	return BatchCosts{
		Shipping: money.ParseAmount(shippingCost),
		Blanks:   money.ParseAmount(blanks),
	}
}

// OrderEarnings is one ledger row.
type OrderEarnings struct {
	Order types.Order `json:"order"`

	// Fee is the processor fee for this order.
	Fee decimal.Decimal `json:"fee"`

	// NetAfterFees is subtotal minus fee. It is a sort key, not the
	// canonical net figure.
	NetAfterFees decimal.Decimal `json:"netAfterFees"`
}

// Summary is the full earnings ledger for a batch.
type Summary struct {
	Rows []OrderEarnings `json:"rows"`

	Schedule FeeSchedule `json:"schedule"`
	Costs    BatchCosts  `json:"costs"`

	TotalSubtotal decimal.Decimal `json:"totalSubtotal"`
	TotalFees     decimal.Decimal `json:"totalFees"`

	// LookupShipping is the sum of per-order shipping merged from the
	// shipping export. Informational only.
	LookupShipping decimal.Decimal `json:"lookupShipping"`

	NetProfit decimal.Decimal `json:"netProfit"`
}

// Calculate builds the earnings summary for a batch.
//
// PARAMETERS:
//   - orders: The deduplicated orders. They are copied, never modified.
//   - schedule: The processor fee schedule.
//   - costs: Batch-level shipping and blank-goods costs.
//   - lookup: Per-order shipping costs (may be nil).
//
// RETURNS:
//   - The summary with one row per order, in input order.
func Calculate(orders []types.Order, schedule FeeSchedule, costs BatchCosts, lookup shipping.Lookup) *Summary {
	summary := &Summary{
		Rows:           make([]OrderEarnings, 0, len(orders)),
		Schedule:       schedule,
		Costs:          costs,
		TotalSubtotal:  decimal.Zero,
		TotalFees:      decimal.Zero,
		LookupShipping: decimal.Zero,
	}

	for _, order := range orders {
		order.ShippingCost = lookup.Cost(order.Name)

		fee := schedule.Fee(order.Total)
		summary.Rows = append(summary.Rows, OrderEarnings{
			Order:        order,
			Fee:          fee,
			NetAfterFees: order.Subtotal.Sub(fee),
		})

		summary.TotalSubtotal = summary.TotalSubtotal.Add(order.Subtotal)
		summary.TotalFees = summary.TotalFees.Add(fee)
		summary.LookupShipping = summary.LookupShipping.Add(order.ShippingCost)
	}

	summary.NetProfit = summary.TotalSubtotal.
		Sub(costs.Shipping).
		Sub(summary.TotalFees).
		Sub(costs.Blanks)

	return summary
}

// =============================================================================
// SORTING
// =============================================================================

// SortKeys lists the keys SortRows accepts.
var SortKeys = []string{"name", "date", "total", "subtotal", "fee", "net"}

// SortRows orders ledger rows in place by key. The sort is stable, so rows
// with equal keys keep their input order.
//
// PARAMETERS:
//   - rows: The rows to sort.
//   - key: One of SortKeys (case-insensitive). "net" sorts by NetAfterFees.
//   - desc: Sort descending instead of ascending.
//
// RETURNS:
//   - An error for an unknown key; rows are left untouched in that case.
func SortRows(rows []OrderEarnings, key string, desc bool) error {
	var less func(a, b OrderEarnings) bool

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "name":
		less = func(a, b OrderEarnings) bool { return a.Order.Name < b.Order.Name }
	case "date":
		less = func(a, b OrderEarnings) bool { return a.Order.Date.Before(b.Order.Date) }
	case "total":
		less = func(a, b OrderEarnings) bool { return a.Order.Total.LessThan(b.Order.Total) }
	case "subtotal":
		less = func(a, b OrderEarnings) bool { return a.Order.Subtotal.LessThan(b.Order.Subtotal) }
	case "fee":
		less = func(a, b OrderEarnings) bool { return a.Fee.LessThan(b.Fee) }
	case "net":
		less = func(a, b OrderEarnings) bool { return a.NetAfterFees.LessThan(b.NetAfterFees) }
	default:
		return eris.Errorf("unknown sort key %q (want one of %s)", key, strings.Join(SortKeys, ", "))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
	return nil
}
