package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var optionalBlockRegex = regexp.MustCompile(`[\(\[\{]([^\(\)\[\]\{\}]*)[\)\]\}]`)

// TitleForm holds the ways a requested title may legitimately appear in a release name.
type TitleForm struct {
	Full     []Token  // the whole title, optional block text included
	Required []Token  // bracketed blocks removed
	Head     []Token  // part before ": " when the title has a subtitle, else nil
	Optional []string // bracketed blocks and the subtitle, as written
}

// ParseTitleForm extracts optional parts from a requested title.
// Content inside (), [] and {} is optional, as is a ": " subtitle whose head is
// at least two words long. Single-word heads such as "Dune: Messiah" stay whole,
// and "Re:Zero" is never split because the colon is not followed by a space.
func ParseTitleForm(title string) TitleForm {
	form := TitleForm{Full: Words(title)}

	for _, m := range optionalBlockRegex.FindAllStringSubmatch(title, -1) {
		if block := strings.TrimSpace(m[1]); block != "" {
			form.Optional = append(form.Optional, block)
		}
	}
	required := strings.TrimSpace(optionalBlockRegex.ReplaceAllString(title, " "))
	form.Required = Words(required)

	if idx := strings.Index(required, ": "); idx > 0 {
		head := Words(required[:idx])
		if len(head) >= 2 {
			form.Head = head
			if tail := strings.TrimSpace(required[idx+2:]); tail != "" {
				form.Optional = append(form.Optional, tail)
			}
		}
	}
	return form
}

// RequiredTokens returns the words a candidate must cover.
func (f TitleForm) RequiredTokens() []Token {
	if f.Head != nil {
		return f.Head
	}
	return f.Required
}

// variants lists the token sequences tried for a structured match, longest first.
func (f TitleForm) variants() [][]Token {
	out := make([][]Token, 0, 3)
	for _, v := range [][]Token{f.Full, f.Required, f.Head} {
		if len(v) == 0 {
			continue
		}
		dup := false
		for _, seen := range out {
			if sameSequence(seen, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

// FindStructured reports whether the title sequence appears in the candidate as a
// bounded segment: the text before it is empty, ends with a separator, or is the
// author; the text after it is empty, starts with a separator or bracket, or
// continues with "by", an author, a year, or a release tag.
//
// CamelCase runs on either side are tried both split and joined.
func FindStructured(candidate Normalized, title []Token, authorWords []Token) bool {
	for _, tokens := range spellings(candidate.Tokens) {
		for _, t := range spellings(title) {
			if findStructured(candidate.Source, tokens, t, authorWords) {
				return true
			}
		}
	}
	return false
}

func findStructured(source string, tokens, title, authorWords []Token) bool {
	n := len(title)
	if n == 0 || n > len(tokens) {
		return false
	}
	for i := 0; i+n <= len(tokens); i++ {
		if !sameSequence(tokens[i:i+n], title) {
			continue
		}
		prefix := source[:tokens[i].Start]
		suffix := source[tokens[i+n-1].End:]
		if validPrefix(prefix, tokens[:i], authorWords) &&
			validSuffix(suffix, tokens[i+n:], authorWords) {
			return true
		}
	}
	return false
}

func sameSequence(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Matches(b[i]) {
			return false
		}
	}
	return true
}

// isSoftSpace reports runes that separate words without marking a boundary.
// Scene-style names use dots and underscores in place of spaces.
func isSoftSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '.' || r == '_'
}

func validPrefix(prefix string, before []Token, authorWords []Token) bool {
	trimmed := strings.TrimRightFunc(prefix, isSoftSpace)
	if trimmed == "" {
		return true
	}

	last, _ := utf8.DecodeLastRuneInString(trimmed)
	switch last {
	case '—', '–', ':', '|', '/', ')', ']', '}':
		return true
	case '-':
		// "Author - Title" but not a hyphenated word like "Spider-Man"
		if len(trimmed) < len(prefix) {
			return true
		}
	}

	if len(before) == 0 {
		return false
	}
	for _, t := range before {
		if !isYear(t.Text) && !containsToken(authorWords, t) {
			return false
		}
	}
	return true
}

func validSuffix(suffix string, after []Token, authorWords []Token) bool {
	rest := strings.TrimLeftFunc(suffix, isSoftSpace)
	if rest == "" {
		return true
	}

	first, size := utf8.DecodeRuneInString(rest)
	if !isWordRune(first) {
		switch first {
		case '-':
			// "Title - Author" but not a hyphenated word like "The Stand-In"
			next, _ := utf8.DecodeRuneInString(rest[size:])
			return len(rest) == size || !isWordRune(next)
		case '–', '—', ':', ',', ';', '(', '[', '{', '|', '/', '"', '\'', '’', '”':
			return true
		}
		return false
	}

	// rest starts with the next token; either whitespace separated it from the
	// title or the normalizer split a CamelCase run there
	if len(after) == 0 {
		return false
	}
	next := after[0]
	return next.Text == "by" || isYear(next.Text) || isReleaseTag(next.Text) || containsToken(authorWords, next)
}
