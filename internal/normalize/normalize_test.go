package normalize

import "testing"

func TestNormalizeSizeKnownTokens(t *testing.T) {
	cases := map[string]string{
		"XS": "XS", "XSMALL": "XS",
		"S": "SMALL", "SMALL": "SMALL", "SM": "SMALL",
		"M": "MEDIUM", "MEDIUM": "MEDIUM", "MD": "MEDIUM",
		"L": "LARGE", "LARGE": "LARGE", "LG": "LARGE",
		"XL": "XL", "XLARGE": "XL",
		"2XL": "2XL", "XXL": "2XL", "2X": "2XL",
		"3XL": "3XL", "XXXL": "3XL", "3X": "3XL",
	}
	for token, want := range cases {
		got, ok := NormalizeSize(token)
		if !ok || got != want {
			t.Errorf("NormalizeSize(%q) = %q, %v; want %q", token, got, ok, want)
		}
	}
}

func TestNormalizeSizeIsCaseInsensitive(t *testing.T) {
	for _, token := range []string{"medium", "Large", "xxl", " sm "} {
		if _, ok := NormalizeSize(token); !ok {
			t.Errorf("expected %q to normalize", token)
		}
	}
}

func TestNormalizeSizeUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "Navy", "4XL", "MED", "X-LARGE", "One Size", "Large / Navy"} {
		if got, ok := NormalizeSize(token); ok {
			t.Errorf("NormalizeSize(%q) = %q; want no match", token, got)
		}
	}
}

func TestClassifyColor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Black", "black"},
		{"Heather Black", "black"},
		{"OFF WHITE", "white"},
		{"Chocolate brown", "brown"},
		{"Stormy Grey", "storm"},
		{"Navy Blue", "blue"},
		{"Black and Blue", "black"},
		{"Blue Storm", "storm"},
		{"Navy", "Navy"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ClassifyColor(tc.in); got != tc.want {
			t.Errorf("ClassifyColor(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
