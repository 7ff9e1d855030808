package fuzzy

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"rabat", "rabat", 100},
		{"kitten", "sitting", 100 * (1 - 5.0/13.0)},
		{"", "rabat", 0},
		{"abc", "xyz", 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); !near(got, tt.want) {
			t.Fatalf("Ratio(%q, %q) = %.2f, want %.2f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPartialRatio(t *testing.T) {
	if got := PartialRatio("casa", "casablanca"); got != 100 {
		t.Fatalf("PartialRatio substring = %.2f, want 100", got)
	}
	if got := PartialRatio("casablanca", "casa"); got != 100 {
		t.Fatalf("PartialRatio should be symmetric, got %.2f", got)
	}
	// one edit inside a window of the longer string
	got := PartialRatio("pyhton", "python developer")
	if got < 80 || got >= 100 {
		t.Fatalf("PartialRatio typo = %.2f, want [80,100)", got)
	}
}

func TestTokenRatios(t *testing.T) {
	if got := TokenSortRatio("science computer", "computer science"); got != 100 {
		t.Fatalf("TokenSortRatio = %.2f, want 100", got)
	}
	if got := TokenSetRatio("master en informatique 2018-2020", "master"); got != 100 {
		t.Fatalf("TokenSetRatio subset = %.2f, want 100", got)
	}
	if got := TokenSetRatio("licence en gestion", "master"); got >= 85 {
		t.Fatalf("TokenSetRatio unrelated = %.2f, want < 85", got)
	}
	if got := TokenSetRatio("", "master"); got != 0 {
		t.Fatalf("TokenSetRatio empty = %.2f, want 0", got)
	}
}

func TestWRatio(t *testing.T) {
	if got := WRatio("casa", "casablanca"); !near(got, 90) {
		t.Fatalf("WRatio(casa, casablanca) = %.2f, want 90", got)
	}
	if got := WRatio("marrakech", "marrakech"); got != 100 {
		t.Fatalf("WRatio identical = %.2f, want 100", got)
	}
	if got := WRatio("fes", "tanger"); got >= 88 {
		t.Fatalf("WRatio unrelated = %.2f, want < 88", got)
	}
}

func TestExtractOne(t *testing.T) {
	choices := []string{"go", "golang", "go"}
	m, ok := ExtractOne("go", choices, Ratio, 50)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Index != 0 || m.Score != 100 {
		t.Fatalf("ExtractOne = %+v, want first exact choice", m)
	}

	if _, ok := ExtractOne("rust", []string{"java", "php"}, Ratio, 85); ok {
		t.Fatal("expected no match below cutoff")
	}

	// equal scores keep list order
	m, _ = ExtractOne("ab", []string{"ax", "ay"}, Ratio, 0)
	if m.Choice != "ax" {
		t.Fatalf("tie choice = %q, want %q", m.Choice, "ax")
	}
}
