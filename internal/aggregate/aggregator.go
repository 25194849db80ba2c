// =============================================================================
// Order Tally - Aggregator
// =============================================================================
//
// Build folds parsed line items into the three pivots the display layer
// renders:
//   - Products: "{Product} - {Color}" x size
//   - ColorTotals: color family x size
//   - Totals / GrandTotal: size column sums
//
// Only items whose size is canonical are counted. Everything else stays
// visible as a raw LineItem but never reaches a pivot.
//
// =============================================================================

package aggregate

import (
	"github.com/ginjaninja78/order-tally/internal/normalize"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// Build aggregates items and carries orders through unchanged.
//
// PARAMETERS:
//   - items: Every LineItem produced for the batch, in row order.
//   - orders: The deduplicated orders for the batch.
//
// RETURNS:
//   - A new AggregatedData. The input slices are not retained; orders are
//     copied so later changes by the caller cannot leak into the result.
func Build(items []types.LineItem, orders []types.Order) *types.AggregatedData {
	data := &types.AggregatedData{
		Products:    types.NewPivot(),
		ColorTotals: types.NewPivot(),
		Totals:      types.NewSizeCounts(),
		Orders:      make([]types.Order, len(orders)),
	}
	copy(data.Orders, orders)

	for _, item := range items {
		if !Countable(item) {
			continue
		}

		data.Products.Add(item.RowKey(), item.Size, item.Quantity)
		data.ColorTotals.Add(normalize.ClassifyColor(item.Color), item.Size, item.Quantity)
		data.Totals[item.Size] += item.Quantity
		data.GrandTotal += item.Quantity
	}

	return data
}

// Countable reports whether an item contributes to the pivots.
func Countable(item types.LineItem) bool {
	return item.Quantity > 0 && types.IsCanonicalSize(item.Size)
}

// Uncounted returns the items Build excludes, in input order.
func Uncounted(items []types.LineItem) []types.LineItem {
	var out []types.LineItem
	for _, item := range items {
		if !Countable(item) {
			out = append(out, item)
		}
	}
	return out
}
