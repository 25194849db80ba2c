package converter

import (
	"testing"

	"github.com/ginjaninja78/order-tally/internal/config"
	"github.com/ginjaninja78/order-tally/internal/types"
)

func TestTransformRecordActions(t *testing.T) {
	cases := []struct {
		name   string
		action config.TransformationAction
		in     string
		want   string
	}{
		{"trim", config.TransformationAction{Type: "trim"}, "  a  ", "a"},
		{"uppercase", config.TransformationAction{Type: "uppercase"}, "xl", "XL"},
		{"lowercase", config.TransformationAction{Type: "lowercase"}, "NAVY", "navy"},
		{"prepend", config.TransformationAction{Type: "prepend_string", Value: "#"}, "1001", "#1001"},
		{"append", config.TransformationAction{Type: "append_string", Value: " / L"}, "Tee - Navy", "Tee - Navy / L"},
		{"replace", config.TransformationAction{Type: "replace", Find: "|", Value: "/"}, "Navy | L", "Navy / L"},
		{"replace empty find", config.TransformationAction{Type: "replace", Value: "x"}, "abc", "abc"},
		{"regex", config.TransformationAction{Type: "regex_replace", Find: `\s*\(.*\)$`, Value: ""}, "Tee (promo)", "Tee"},
		{"whitespace", config.TransformationAction{Type: "normalize_whitespace"}, " a   b\tc ", "a b c"},
		{"lookup hit", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"Youth L": "M"}}, "Youth L", "M"},
		{"lookup miss", config.TransformationAction{Type: "lookup", LookupTable: map[string]string{"Youth L": "M"}}, "L", "L"},
		{"lookup default", config.TransformationAction{Type: "lookup_with_default", Value: "?", LookupTable: map[string]string{}}, "L", "?"},
		{"empty default", config.TransformationAction{Type: "if_empty_use_default", Value: "0"}, " ", "0"},
		{"non-empty default", config.TransformationAction{Type: "if_empty_use_default", Value: "0"}, "3", "3"},
		{"empty field", config.TransformationAction{Type: "if_empty_use_field", Value: "Other"}, "", "fallback"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := NewTransformer([]config.TransformationRule{
				{Field: "F", Actions: []config.TransformationAction{tc.action}},
			})
			if err != nil {
				t.Fatalf("NewTransformer: %v", err)
			}
			out, err := tr.TransformRecord(types.Record{"F": tc.in, "Other": "fallback"})
			if err != nil {
				t.Fatalf("TransformRecord: %v", err)
			}
			if out["F"] != tc.want {
				t.Fatalf("got %q; want %q", out["F"], tc.want)
			}
		})
	}
}

func TestTransformRecordChainsAndSkipsMissingFields(t *testing.T) {
	tr, err := NewTransformer([]config.TransformationRule{
		{Field: "A", Actions: []config.TransformationAction{{Type: "trim"}, {Type: "uppercase"}}},
		{Field: "B", Actions: []config.TransformationAction{{Type: "if_empty_use_field", Value: "A"}}},
		{Field: "Missing", Actions: []config.TransformationAction{{Type: "append_string", Value: "x"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	in := types.Record{"A": " navy ", "B": ""}
	out, err := tr.TransformRecord(in)
	if err != nil {
		t.Fatal(err)
	}
	if out["A"] != "NAVY" || out["B"] != "NAVY" {
		t.Fatalf("unexpected output %v", out)
	}
	if _, ok := out["Missing"]; ok {
		t.Fatalf("rules must not create fields")
	}
	if in["A"] != " navy " {
		t.Fatalf("input record was modified")
	}
}

func TestTransformerErrors(t *testing.T) {
	if _, err := NewTransformer([]config.TransformationRule{
		{Field: "F", Actions: []config.TransformationAction{{Type: "regex_replace", Find: "(["}}},
	}); err == nil {
		t.Fatalf("expected error for bad pattern")
	}

	tr, err := NewTransformer([]config.TransformationRule{
		{Field: "F", Actions: []config.TransformationAction{{Type: "explode"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.TransformRecord(types.Record{"F": "x"}); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}
