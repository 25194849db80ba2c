package normalize

import "strings"

// colorFamilies is checked in order; the first family contained in the
// lowercased color wins, so "Blue Storm" lands in storm.
var colorFamilies = []string{"black", "white", "brown", "storm", "blue"}

// ClassifyColor maps a free-text color to its color family. Colors that match
// no family are returned unchanged and act as their own family.
func ClassifyColor(color string) string {
	lower := strings.ToLower(color)
	for _, family := range colorFamilies {
		if strings.Contains(lower, family) {
			return family
		}
	}
	return color
}
