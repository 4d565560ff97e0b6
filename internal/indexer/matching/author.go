package matching

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

const (
	// MaxAuthorScore is the author share of the match score.
	MaxAuthorScore = 15.0

	// minFuzzyLastNameRunes guards typo tolerance against short surnames.
	minFuzzyLastNameRunes = 5

	// minLastNameSimilarity is the Jaro-Winkler similarity accepted for a misspelled surname.
	minLastNameSimilarity = 0.92
)

var authorSplitRegex = regexp.MustCompile(`(?i)\s*(?:,|&|;|\band\b)\s*`)

// AuthorName is one author parsed from a request's author field.
type AuthorName struct {
	Raw    string
	Tokens []Token // initials collapsed: "J.N. Chaney" -> [jn chaney]
	words  []Token // tokens as written, used for structured title checks
}

// AuthorMatch is the result of matching the requested authors against a candidate.
type AuthorMatch struct {
	Matched int
	Total   int
	Score   float64
}

// ParseAuthors splits a request's author field into individual authors.
// Names are separated by commas, ampersands, semicolons, or the word "and".
// Contributor credits are dropped: a segment mentioning a role ("David French -
// translator") is removed, and a bare role segment ("Jay Rubin, translator")
// also removes the name it follows.
func ParseAuthors(author string) []AuthorName {
	segments := authorSplitRegex.Split(author, -1)
	authors := make([]AuthorName, 0, len(segments))
	lastKept := -1 // index in authors of the name kept from the previous segment

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		words := Words(seg)
		if len(words) == 0 {
			lastKept = -1
			continue
		}

		roles := 0
		var name []Token
		for _, w := range words {
			switch {
			case isRoleWord(w.Text):
				roles++
			case w.Text != "by":
				name = append(name, w)
				continue
			}
			if len(name) > 0 {
				name[len(name)-1].camelNext = false
			}
		}
		if roles == 0 && len(name) == 0 {
			continue
		}
		if roles > 0 {
			if len(name) == 0 && lastKept >= 0 {
				authors = append(authors[:lastKept], authors[lastKept+1:]...)
			}
			lastKept = -1
			continue
		}

		authors = append(authors, AuthorName{Raw: seg, Tokens: collapseInitials(name), words: name})
		lastKept = len(authors) - 1
	}
	return authors
}

// AuthorWords returns every word of the given authors, as written and with
// initials collapsed, for recognizing author names around a title.
func AuthorWords(authors []AuthorName) []Token {
	var out []Token
	for _, a := range authors {
		out = append(out, a.words...)
		out = append(out, a.Tokens...)
		if hasCamelRun(a.words) {
			out = append(out, mergeCamel(a.words)...)
		}
	}
	return out
}

// MatchAuthors awards MaxAuthorScore in proportion to the requested authors
// found in the candidate.
func MatchAuthors(candidate Normalized, authors []AuthorName) AuthorMatch {
	result := AuthorMatch{Total: len(authors)}
	if len(authors) == 0 {
		return result
	}

	candidates := spellings(collapseInitials(candidate.Tokens))
	for _, a := range authors {
		if authorFound(candidates, spellings(a.Tokens)) {
			result.Matched++
		}
	}
	result.Score = float64(result.Matched) / float64(result.Total) * MaxAuthorScore
	return result
}

// authorFound tries every spelling of the name against every spelling of the
// candidate, so "McCarthy", "Mccarthy" and "MCCARTHY" all find each other.
func authorFound(candidates, names [][]Token) bool {
	for _, c := range candidates {
		for _, n := range names {
			if authorPresent(c, n) {
				return true
			}
		}
	}
	return false
}

// authorPresent reports whether the first and last core parts of a name appear
// close together in the candidate, in either order. Middle names on either
// side are ignored, so "Andy J. Weir", "Andy Weir" and "Weir, Andy" all match.
func authorPresent(candidate []Token, name []Token) bool {
	if len(name) == 0 {
		return false
	}
	last := name[len(name)-1]
	if len(name) == 1 {
		for _, c := range candidate {
			if sameLastName(c, last) {
				return true
			}
		}
		return false
	}

	first := name[0]
	window := len(name) + 1
	for i, c := range candidate {
		if !sameFirstName(c, first) {
			continue
		}
		lo, hi := max(0, i-window), min(len(candidate)-1, i+window)
		for j := lo; j <= hi; j++ {
			if j != i && sameLastName(candidate[j], last) {
				return true
			}
		}
	}
	return false
}

// sameFirstName also accepts a single initial for a full first name.
func sameFirstName(c, name Token) bool {
	if c.Matches(name) {
		return true
	}
	if utf8.RuneCountInString(c.Text) == 1 || utf8.RuneCountInString(name.Text) == 1 {
		cr, _ := utf8.DecodeRuneInString(c.plain)
		nr, _ := utf8.DecodeRuneInString(name.plain)
		return cr == nr
	}
	return false
}

// sameLastName tolerates small misspellings of longer surnames.
func sameLastName(c, name Token) bool {
	if c.Matches(name) {
		return true
	}
	if utf8.RuneCountInString(name.plain) < minFuzzyLastNameRunes {
		return false
	}
	return edlib.JaroWinklerSimilarity(c.plain, name.plain) >= minLastNameSimilarity
}

// collapseInitials merges runs of single-letter tokens, so "J.N.", "J N" and
// "JN" all become the token "jn".
func collapseInitials(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		j := i
		for j < len(tokens) && isInitial(tokens[j]) {
			j++
		}
		if j-i < 2 {
			out = append(out, tokens[i])
			i++
			continue
		}
		out = append(out, joinRun(tokens[i:j]))
		i = j
	}
	return out
}

func isInitial(t Token) bool {
	r, size := utf8.DecodeRuneInString(t.Text)
	return size == len(t.Text) && isWordRune(r) && !('0' <= r && r <= '9')
}
