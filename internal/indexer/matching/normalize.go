// Package matching implements the title and author matching used to score
// indexer results against a requested book.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// germanTransliterator spells out umlauts the way they are typed without them.
var germanTransliterator = strings.NewReplacer(
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// Token is a single lowercase word with its byte offsets in Normalized.Source.
type Token struct {
	Text  string
	Start int
	End   int

	// alternate spellings used by Matches; equal to Text for plain ASCII words
	translit string
	plain    string
	bare     string // plain without apostrophes

	// camelNext is set when the following token was split from this one at a
	// CamelCase boundary rather than by a separator
	camelNext bool
}

// Matches reports whether two tokens spell the same word, allowing for
// umlaut transliteration ("müller" = "mueller"), stripped diacritics
// ("müller" = "muller") and dropped apostrophes ("ender's" = "enders").
func (t Token) Matches(o Token) bool {
	if t.Text == o.Text {
		return true
	}
	return t.translit == o.translit || t.plain == o.plain || t.bare == o.bare
}

// Normalized is the canonical word stream of a raw title or author string.
type Normalized struct {
	Source string // NFC form of the input; token offsets point into it
	Tokens []Token
	Words  []string
	Joined string // words joined by single spaces, for substring and similarity checks
}

// Normalize splits a raw string into lowercase words.
// Any rune that is not a letter, digit, or combining mark separates words, except
// apostrophes between two word runes ("O'Brien"). A lowercase to uppercase
// transition also starts a new word, so "ProjectHailMary" yields three words;
// matching also tries such runs joined back together (see spellings).
func Normalize(s string) Normalized {
	src := norm.NFC.String(s)
	n := Normalized{Source: src}

	lower := cases.Lower(language.Und)
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	type posRune struct {
		r   rune
		off int
	}
	rs := make([]posRune, 0, len(src))
	for i, r := range src {
		rs = append(rs, posRune{r: r, off: i})
	}

	start := -1
	var prev rune
	flush := func(end int) {
		if start < 0 {
			return
		}
		n.Tokens = append(n.Tokens, newToken(src[start:end], start, end, lower, strip))
		start = -1
	}

	for k, pr := range rs {
		r := pr.r
		if !isWordRune(r) {
			if isApostrophe(r) && start >= 0 && k+1 < len(rs) && isWordRune(rs[k+1].r) {
				prev = r
				continue
			}
			flush(pr.off)
			continue
		}
		if start >= 0 && isCamelBoundary(prev, r) {
			flush(pr.off)
			n.Tokens[len(n.Tokens)-1].camelNext = true
		}
		if start < 0 {
			start = pr.off
		}
		prev = r
	}
	flush(len(src))

	n.Words = make([]string, len(n.Tokens))
	for i, t := range n.Tokens {
		n.Words[i] = t.Text
	}
	n.Joined = strings.Join(n.Words, " ")
	return n
}

func newToken(raw string, start, end int, lower cases.Caser, strip transform.Transformer) Token {
	text := normalizeApostrophes(lower.String(raw))
	t := Token{Text: text, Start: start, End: end, translit: text, plain: text}
	if !isASCII(text) {
		t.translit = germanTransliterator.Replace(text)
		if plain, _, err := transform.String(strip, text); err == nil {
			t.plain = plain
		}
	}
	t.bare = strings.ReplaceAll(t.plain, "'", "")
	return t
}

// joinRun concatenates adjacent tokens into one spanning all of them.
func joinRun(run []Token) Token {
	var text, translit, plain, bare strings.Builder
	for _, t := range run {
		text.WriteString(t.Text)
		translit.WriteString(t.translit)
		plain.WriteString(t.plain)
		bare.WriteString(t.bare)
	}
	last := run[len(run)-1]
	return Token{
		Text:      text.String(),
		Start:     run[0].Start,
		End:       last.End,
		translit:  translit.String(),
		plain:     plain.String(),
		bare:      bare.String(),
		camelNext: last.camelNext,
	}
}

// mergeCamel joins every CamelCase run back into a single token, so the
// split form [mc carthy] of "McCarthy" becomes [mccarthy].
func mergeCamel(tokens []Token) []Token {
	if !hasCamelRun(tokens) {
		return tokens
	}
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		j := i
		for j+1 < len(tokens) && tokens[j].camelNext {
			j++
		}
		if j == i {
			out = append(out, tokens[i])
		} else {
			out = append(out, joinRun(tokens[i:j+1]))
		}
		i = j + 1
	}
	return out
}

func hasCamelRun(tokens []Token) bool {
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].camelNext {
			return true
		}
	}
	return false
}

// spellings returns the token sequence as split, followed by its CamelCase
// runs joined when it has any. Letter case decides where Normalize splits, so
// "McCarthy" and "MCCARTHY" only agree on the joined spelling.
func spellings(tokens []Token) [][]Token {
	if !hasCamelRun(tokens) {
		return [][]Token{tokens}
	}
	return [][]Token{tokens, mergeCamel(tokens)}
}

// Words returns the tokens of s, for callers that only need word comparisons.
func Words(s string) []Token {
	return Normalize(s).Tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

func isApostrophe(r rune) bool {
	switch r {
	case '\'', '‘', '’', 'ʼ', '`':
		return true
	}
	return false
}

func isCamelBoundary(prev, r rune) bool {
	return unicode.IsLower(prev) && unicode.IsUpper(r)
}

func normalizeApostrophes(s string) string {
	if isASCII(s) && !strings.ContainsRune(s, '`') {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isApostrophe(r) {
			return '\''
		}
		return r
	}, s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func containsToken(tokens []Token, t Token) bool {
	for _, c := range tokens {
		if c.Matches(t) {
			return true
		}
	}
	return false
}

func joinTokens(tokens []Token) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}
