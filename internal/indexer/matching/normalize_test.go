package matching

import (
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "spaces",
			input:    "Project Hail Mary",
			expected: []string{"project", "hail", "mary"},
		},
		{
			name:     "camel case",
			input:    "ProjectHailMary",
			expected: []string{"project", "hail", "mary"},
		},
		{
			name:     "scene separators",
			input:    "Project.Hail.Mary_2021",
			expected: []string{"project", "hail", "mary", "2021"},
		},
		{
			name:     "dash and colon",
			input:    "Andy Weir - Project: Hail—Mary",
			expected: []string{"andy", "weir", "project", "hail", "mary"},
		},
		{
			name:     "apostrophes inside names",
			input:    "O'Brien's Tale",
			expected: []string{"o'brien's", "tale"},
		},
		{
			name:     "typographic apostrophe",
			input:    "Tim O’Brien",
			expected: []string{"tim", "o'brien"},
		},
		{
			name:     "quotes around a word",
			input:    "'Salem's Lot'",
			expected: []string{"salem's", "lot"},
		},
		{
			name:     "umlauts kept",
			input:    "Über Menschen",
			expected: []string{"über", "menschen"},
		},
		{
			name:     "decomposed input",
			input:    "Mu\u0308ller",
			expected: []string{"müller"},
		},
		{
			name:     "acronym is one word",
			input:    "HTML Book",
			expected: []string{"html", "book"},
		},
		{
			name:     "colon without space",
			input:    "Re:Zero",
			expected: []string{"re", "zero"},
		},
		{
			name:     "brackets",
			input:    "Title [M4B] (2020)",
			expected: []string{"title", "m4b", "2020"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if !reflect.DeepEqual(result.Words, tt.expected) {
				t.Errorf("Normalize(%q).Words = %q, want %q", tt.input, result.Words, tt.expected)
			}
			if want := strings.Join(tt.expected, " "); result.Joined != want {
				t.Errorf("Normalize(%q).Joined = %q, want %q", tt.input, result.Joined, want)
			}
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "-- : --", "[]"} {
		result := Normalize(input)
		if len(result.Tokens) != 0 || result.Joined != "" {
			t.Errorf("Normalize(%q) = %q, want no words", input, result.Words)
		}
	}
}

func TestNormalize_Offsets(t *testing.T) {
	result := Normalize("Andy Weir - Title")
	if len(result.Tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(result.Tokens))
	}
	tok := result.Tokens[2]
	if tok.Start != 12 || tok.End != 17 {
		t.Errorf("token %q at [%d,%d), want [12,17)", tok.Text, tok.Start, tok.End)
	}
	if got := result.Source[tok.Start:tok.End]; got != "Title" {
		t.Errorf("source slice = %q, want %q", got, "Title")
	}
}

func TestTokenMatches(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"müller", "mueller", true},
		{"müller", "muller", true},
		{"MÜLLER", "müller", true},
		{"über", "ueber", true},
		{"straße", "strasse", true},
		{"muller", "mueller", false},
		{"weir", "wier", false},
		{"café", "cafe", true},
		{"ender's", "enders", true},
		{"o'brien", "obrien", true},
		{"o’brien", "obrien", true},
		{"ender's", "ender", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			a, b := Words(tt.a), Words(tt.b)
			if len(a) != 1 || len(b) != 1 {
				t.Fatalf("expected single words, got %d and %d", len(a), len(b))
			}
			if got := a[0].Matches(b[0]); got != tt.expected {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
			if got := b[0].Matches(a[0]); got != tt.expected {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.b, tt.a, got, tt.expected)
			}
		})
	}
}

func TestPropertyNormalizeLowercase(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.StringMatching(`[a-zA-Z0-9 .\-_:'\[\]()]{0,60}`).Draw(t, "input")

		result := Normalize(input)
		if result.Joined != strings.ToLower(result.Joined) {
			t.Fatalf("not lowercase: %q from %q", result.Joined, input)
		}
		for _, w := range result.Words {
			if w == "" || strings.ContainsAny(w, " .-_:[]()") {
				t.Fatalf("bad word %q from %q", w, input)
			}
		}
	})
}

func TestPropertyNormalizeDeterministic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")

		first := Normalize(input)
		second := Normalize(input)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("non-deterministic for %q: %q vs %q", input, first.Words, second.Words)
		}
	})
}

func TestPropertyNormalizeOffsets(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")

		result := Normalize(input)
		prevEnd := 0
		for _, tok := range result.Tokens {
			if tok.Start < prevEnd || tok.End <= tok.Start || tok.End > len(result.Source) {
				t.Fatalf("bad offsets [%d,%d) after %d in %q", tok.Start, tok.End, prevEnd, result.Source)
			}
			prevEnd = tok.End
		}
	})
}

func TestSpellings(t *testing.T) {
	tests := []struct {
		input    string
		expected [][]string
	}{
		{"Cormac McCarthy", [][]string{{"cormac", "mc", "carthy"}, {"cormac", "mccarthy"}}},
		{"cormac mccarthy", [][]string{{"cormac", "mccarthy"}}},
		{"CORMAC MCCARTHY", [][]string{{"cormac", "mccarthy"}}},
		{"ProjectHailMary by AndyWeir", [][]string{
			{"project", "hail", "mary", "by", "andy", "weir"},
			{"projecthailmary", "by", "andyweir"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got [][]string
			for _, tokens := range spellings(Words(tt.input)) {
				got = append(got, wordsOf(tokens))
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("spellings(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMergeCamel_Offsets(t *testing.T) {
	n := Normalize("Cormac McCarthy - The Road")
	merged := mergeCamel(n.Tokens)
	if len(merged) != 4 {
		t.Fatalf("expected 4 tokens, got %v", wordsOf(merged))
	}
	if got := n.Source[merged[1].Start:merged[1].End]; got != "McCarthy" {
		t.Errorf("merged token spans %q, want %q", got, "McCarthy")
	}
}
