// =============================================================================
// Order Tally - Size and Color Normalization
// =============================================================================
//
// Free-text size and color tokens arrive in whatever spelling the storefront
// variant editor allowed. This package maps them onto:
//   - the seven canonical sizes (XS, SMALL, MEDIUM, LARGE, XL, 2XL, 3XL)
//   - a coarse color family used for the color x size pivot
//
// Both lookups are pure functions over fixed tables.
//
// =============================================================================

package normalize

import "strings"

// sizeSynonyms maps an uppercased token to its canonical size.
//
// CUSTOMIZATION: Adding a spelling here makes it count in every pivot. Keep
// the right-hand side within types.CanonicalSizes.
var sizeSynonyms = map[string]string{
	"XS":     "XS",
	"XSMALL": "XS",

	"S":     "SMALL",
	"SM":    "SMALL",
	"SMALL": "SMALL",

	"M":      "MEDIUM",
	"MD":     "MEDIUM",
	"MEDIUM": "MEDIUM",

	"L":     "LARGE",
	"LG":    "LARGE",
	"LARGE": "LARGE",

	"XL":     "XL",
	"XLARGE": "XL",

	"2XL": "2XL",
	"XXL": "2XL",
	"2X":  "2XL",

	"3XL":  "3XL",
	"XXXL": "3XL",
	"3X":   "3XL",
}

// NormalizeSize maps a free-text size token to its canonical size.
//
// PARAMETERS:
//   - token: The raw size text (e.g. "SM", "xxl", "Medium").
//
// RETURNS:
//   - The canonical size and true, or "" and false when the token is not a
//     known size spelling.
func NormalizeSize(token string) (string, bool) {
	canonical, ok := sizeSynonyms[strings.ToUpper(strings.TrimSpace(token))]
	return canonical, ok
}
