// =============================================================================
// Order Tally - Transformation Engine
// =============================================================================
//
// This module rewrites raw record fields before they reach the line item
// parser and order extractor. Typical uses:
//   - Mapping a storefront's variant separator onto " - " / " / "
//   - Translating size labels the synonym table does not know
//   - Filling an empty "Created at" from another column
//
// Rules run in configuration order; the actions of one rule run in sequence.
// A rule may read other fields of the same record (if_empty_use_field) and
// sees the values produced by earlier rules.
//
// =============================================================================

package converter

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ginjaninja78/order-tally/internal/config"
	"github.com/ginjaninja78/order-tally/internal/types"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies the configured field rules to records.
type Transformer struct {
	rules []config.TransformationRule

	// patterns caches compiled regex_replace patterns by source text.
	patterns map[string]*regexp.Regexp
}

// NewTransformer creates a Transformer, compiling every regex_replace pattern
// up front.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{
		rules:    rules,
		patterns: make(map[string]*regexp.Regexp),
	}

	for _, rule := range rules {
		for _, action := range rule.Actions {
			if action.Type != "regex_replace" {
				continue
			}
			if _, ok := t.patterns[action.Find]; ok {
				continue
			}
			re, err := regexp.Compile(action.Find)
			if err != nil {
				return nil, eris.Wrapf(err, "field %q: invalid pattern %q", rule.Field, action.Find)
			}
			t.patterns[action.Find] = re
		}
	}

	return t, nil
}

// Empty reports whether the transformer has no rules.
func (t *Transformer) Empty() bool {
	return len(t.rules) == 0
}

// TransformRecord returns a copy of record with every rule applied. The input
// record is not modified. Rules for fields the record lacks are skipped.
func (t *Transformer) TransformRecord(record types.Record) (types.Record, error) {
	out := make(types.Record, len(record))
	for k, v := range record {
		out[k] = v
	}

	for _, rule := range t.rules {
		value, ok := out[rule.Field]
		if !ok {
			continue
		}

		for _, action := range rule.Actions {
			var err error
			value, err = t.apply(value, action, out)
			if err != nil {
				return nil, eris.Wrapf(err, "field %q: transformation %q failed", rule.Field, action.Type)
			}
		}
		out[rule.Field] = value
	}

	return out, nil
}

// apply runs a single transformation action.
//
// SUPPORTED TRANSFORMATIONS:
//   See config.ActionTypes. Unknown types are rejected at config load, so
//   reaching the default case is an error.
func (t *Transformer) apply(value string, action config.TransformationAction, fields types.Record) (string, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "replace":
		// EXAMPLE:
		//   Input: "Classic Tee | Navy | L"
		//   Action: replace " | " with " - "
		//   Output: "Classic Tee - Navy - L"
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		re, ok := t.patterns[action.Find]
		if !ok {
			return "", eris.Errorf("pattern %q was not compiled", action.Find)
		}
		return re.ReplaceAllString(value, action.Value), nil

	case "normalize_whitespace":
		return strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " ")), nil

	// =========================================================================
	// LOOKUP TABLE REPLACEMENTS
	// =========================================================================

	case "lookup":
		// EXAMPLE:
		//   Input: "Youth L"
		//   Action: lookup with lookup_table {"Youth L": "M"}
		//   Output: "M"
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case "lookup_with_default":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return action.Value, nil

	// =========================================================================
	// EMPTY VALUE HANDLING
	// =========================================================================

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	case "if_empty_use_field":
		if strings.TrimSpace(value) == "" {
			if other, exists := fields[action.Value]; exists {
				return other, nil
			}
		}
		return value, nil

	default:
		return "", eris.Errorf("unknown transformation type %q", action.Type)
	}
}
