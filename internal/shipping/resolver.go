// =============================================================================
// Order Tally - Shipping Cost Resolver
// =============================================================================
//
// Shipping costs arrive in a second export whose layout depends on the label
// provider. Nothing about its columns is fixed, so the resolver infers:
//   - a key column holding the order name or id
//   - a value column holding the shipping charge
//
// Inference is one case-insensitive pattern per column: the first column in
// declared order that matches wins. Failing to find a column is a valid
// outcome: the lookup is simply empty.
//
// =============================================================================

package shipping

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-tally/internal/money"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// keyPattern identifies the order key column.
var keyPattern = regexp.MustCompile(`(?i)order\s*name|order\s*id|name`)

// valuePattern identifies the cost column.
var valuePattern = regexp.MustCompile(`(?i)shipping\s*charge|cost|amount|price|label`)

// =============================================================================
// COLUMN RESOLUTION
// =============================================================================

// Resolution records which columns were picked. An empty column name means
// no column matched.
type Resolution struct {
	KeyColumn   string
	ValueColumn string
}

// Resolved reports whether both columns were found.
func (r Resolution) Resolved() bool {
	return r.KeyColumn != "" && r.ValueColumn != ""
}

// ResolveColumns picks the key and value columns from a header list. Each
// side takes the first matching header in declared order, so one column may
// serve as both.
func ResolveColumns(headers []string) Resolution {
	return Resolution{
		KeyColumn:   firstMatch(headers, keyPattern),
		ValueColumn: firstMatch(headers, valuePattern),
	}
}

// firstMatch returns the first header matched by re, or "".
func firstMatch(headers []string, re *regexp.Regexp) string {
	for _, h := range headers {
		if re.MatchString(h) {
			return h
		}
	}
	return ""
}

// =============================================================================
// LOOKUP
// =============================================================================

// Lookup maps a normalized order name ("#1234") to its shipping cost.
type Lookup map[string]decimal.Decimal

// Cost returns the shipping cost for an order name, or zero when the order
// is not in the lookup.
func (l Lookup) Cost(orderName string) decimal.Decimal {
	if cost, ok := l[NormalizeOrderKey(orderName)]; ok {
		return cost
	}
	return decimal.Zero
}

// Total sums every cost in the lookup.
func (l Lookup) Total() decimal.Decimal {
	total := decimal.Zero
	for _, cost := range l {
		total = total.Add(cost)
	}
	return total
}

// BuildLookup builds the order -> cost lookup from a shipping table.
//
// PARAMETERS:
//   - table: The shipping export. Any column layout is accepted.
//
// RETURNS:
//   - The lookup (empty when the columns could not be resolved).
//   - The column resolution, so callers can report what was used.
//
// ROW HANDLING:
//   - Rows with an empty key or value are skipped.
//   - Keys gain a leading "#" when missing.
//   - Values are stripped to digits, '.' and '-' before parsing; rows whose
//     value still does not parse are skipped.
//   - A repeated key overwrites the earlier cost (last row wins).
func BuildLookup(table *types.Table) (Lookup, Resolution) {
	lookup := make(Lookup)
	if table == nil {
		return lookup, Resolution{}
	}

	res := ResolveColumns(table.Headers)
	if !res.Resolved() {
		return lookup, res
	}

	for _, row := range table.Rows {
		key := row.Get(res.KeyColumn)
		value := row.Get(res.ValueColumn)
		if key == "" || value == "" {
			continue
		}

		cost, ok := money.ParseLoose(value)
		if !ok {
			continue
		}

		lookup[NormalizeOrderKey(key)] = cost
	}

	return lookup, res
}

// NormalizeOrderKey trims a key and ensures it starts with "#".
func NormalizeOrderKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "#") {
		return key
	}
	return "#" + key
}
