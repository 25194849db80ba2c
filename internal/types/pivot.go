package types

import (
	"encoding/json"
	"sort"
)

// =============================================================================
// CANONICAL SIZES
// =============================================================================

// CanonicalSizes is the ordered size vocabulary. Pivot columns always follow
// this order.
var CanonicalSizes = []string{"XS", "SMALL", "MEDIUM", "LARGE", "XL", "2XL", "3XL"}

// IsCanonicalSize reports whether size is one of CanonicalSizes.
func IsCanonicalSize(size string) bool {
	for _, s := range CanonicalSizes {
		if s == size {
			return true
		}
	}
	return false
}

// =============================================================================
// SIZE COUNTS
// =============================================================================

// SizeCounts maps a canonical size to a count. Values created with
// NewSizeCounts always carry every canonical size, so a missing key never
// stands in for zero.
type SizeCounts map[string]int

// NewSizeCounts returns a SizeCounts with every canonical size set to zero.
func NewSizeCounts() SizeCounts {
	counts := make(SizeCounts, len(CanonicalSizes))
	for _, s := range CanonicalSizes {
		counts[s] = 0
	}
	return counts
}

// Total returns the sum over all sizes.
func (c SizeCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (c SizeCounts) Clone() SizeCounts {
	out := make(SizeCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// =============================================================================
// PIVOT
// =============================================================================

// Pivot is a two-level count table: outer key -> size -> count.
// Outer keys remember their first-insertion order; inner maps are always
// fully populated with the canonical sizes.
type Pivot struct {
	keys []string
	rows map[string]SizeCounts
}

// NewPivot returns an empty pivot.
func NewPivot() *Pivot {
	return &Pivot{rows: make(map[string]SizeCounts)}
}

// Add increments rows[key][size] by qty, creating the row on first use.
func (p *Pivot) Add(key, size string, qty int) {
	row, ok := p.rows[key]
	if !ok {
		row = NewSizeCounts()
		p.rows[key] = row
		p.keys = append(p.keys, key)
	}
	row[size] += qty
}

// Keys returns the outer keys in first-insertion order.
func (p *Pivot) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// SortedKeys returns the outer keys in lexical order.
func (p *Pivot) SortedKeys() []string {
	out := p.Keys()
	sort.Strings(out)
	return out
}

// Row returns a copy of the counts for key. ok is false when the key is absent;
// the returned counts are still fully populated with zeros in that case.
func (p *Pivot) Row(key string) (SizeCounts, bool) {
	row, ok := p.rows[key]
	if !ok {
		return NewSizeCounts(), false
	}
	return row.Clone(), true
}

// Count returns rows[key][size], or 0.
func (p *Pivot) Count(key, size string) int {
	return p.rows[key][size]
}

// Len returns the number of outer keys.
func (p *Pivot) Len() int {
	return len(p.keys)
}

// ColumnTotals sums every row per size.
func (p *Pivot) ColumnTotals() SizeCounts {
	totals := NewSizeCounts()
	for _, row := range p.rows {
		for size, n := range row {
			totals[size] += n
		}
	}
	return totals
}

// MarshalJSON encodes the pivot as an object of rowKey -> size -> count.
func (p *Pivot) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.rows)
}
