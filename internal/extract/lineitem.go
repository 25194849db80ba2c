// =============================================================================
// Order Tally - Line Item and Order Extraction
// =============================================================================
//
// This module turns raw order-export rows into domain values. Every row of an
// order export feeds both extractors in a single pass:
//   - ParseLineItem splits "Product - Color / Size" names into a LineItem
//   - OrderExtractor keeps the first dated header row for each order name
//
// ERROR HANDLING:
//   Nothing here returns an error. Malformed rows either drop out (no item)
//   or degrade to sentinel values ("Unknown", "Standard", "One Size") so one
//   odd row never fails the batch.
//
// =============================================================================

package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/order-tally/internal/normalize"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// nameSeparator splits the product name from its variant suffix.
const nameSeparator = " - "

// variantSeparator splits the variant suffix into color and size.
const variantSeparator = "/"

// ParseLineItem parses one line item row.
//
// PARAMETERS:
//   - rowIndex: The 0-based index of the row within the batch (used for the ID).
//   - name: The raw "Lineitem name" value, e.g. "Classic Tee - Navy / Large".
//   - quantity: The raw "Lineitem quantity" value.
//
// RETURNS:
//   - The parsed LineItem and true.
//   - false when the row is not an item row (empty name, or a quantity that is
//     not a positive integer). Such rows are dropped without error.
//
// PARSING RULES:
//   1. Fewer than two " - " segments: the whole name is the product,
//      color and size are "Unknown".
//   2. Otherwise the last segment is the variant suffix and the rest, rejoined
//      with " - ", is the product.
//   3. Suffix with exactly two "/" parts: whichever part normalizes is the
//      size and the other is the color. If both normalize the first part is
//      the size. If neither does, the whole suffix is the color and the size
//      is "Unknown".
//   4. Any other suffix shape is treated as a single token: if it normalizes
//      it is the size and the color is "Standard", otherwise it is the color
//      and the size is "One Size".
func ParseLineItem(rowIndex int, name, quantity string) (types.LineItem, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.LineItem{}, false
	}

	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || qty <= 0 {
		return types.LineItem{}, false
	}

	item := types.LineItem{
		ID:       fmt.Sprintf("%d-%s", rowIndex, name),
		Quantity: qty,
	}

	segments := strings.Split(name, nameSeparator)
	if len(segments) < 2 {
		item.ProductName = name
		item.Color = types.Unknown
		item.Size = types.Unknown
		return item, true
	}

	item.ProductName = strings.TrimSpace(strings.Join(segments[:len(segments)-1], nameSeparator))
	item.Color, item.Size = splitVariant(strings.TrimSpace(segments[len(segments)-1]))

	return item, true
}

// splitVariant resolves a variant suffix into (color, size).
func splitVariant(suffix string) (color, size string) {
	parts := strings.Split(suffix, variantSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 2 {
		if s, ok := normalize.NormalizeSize(parts[0]); ok {
			return parts[1], s
		}
		if s, ok := normalize.NormalizeSize(parts[1]); ok {
			return parts[0], s
		}
		return suffix, types.Unknown
	}

	// Single token, or more than two "/" parts. The latter never normalizes
	// because the token still contains "/".
	if s, ok := normalize.NormalizeSize(suffix); ok {
		return types.Standard, s
	}
	if suffix == "" {
		return types.Unknown, types.OneSize
	}
	return suffix, types.OneSize
}
