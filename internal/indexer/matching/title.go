package matching

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

const (
	// MinCoverage is the fraction of required title words a candidate must contain.
	MinCoverage = 0.80

	// FullTitleScore is awarded when the title appears as a bounded segment.
	FullTitleScore = 45.0

	// FuzzyTitleScale scales bigram similarity when the title is present but unbounded.
	FuzzyTitleScale = 35.0
)

// TitleMatch is the result of matching a requested title against a candidate.
type TitleMatch struct {
	Score         float64
	Coverage      float64
	RequiredWords int
	Passed        bool // false when the coverage filter rejected the candidate
	Structured    bool
}

// RequiredWords returns the words of a title that must appear in a candidate:
// the required form without stop words.
func RequiredWords(form TitleForm) []Token {
	tokens := form.RequiredTokens()
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !IsStopWord(t.Text) {
			out = append(out, t)
		} else if len(out) > 0 {
			out[len(out)-1].camelNext = false
		}
	}
	return out
}

// MatchTitle scores how well a candidate carries the requested title.
//
// Coverage of required words below MinCoverage rejects the candidate outright.
// A structured match of the full, required, or head form earns FullTitleScore;
// anything else falls back to bigram similarity scaled by FuzzyTitleScale.
// A title made only of stop words has nothing to cover and is scored fuzzily.
func MatchTitle(candidate Normalized, form TitleForm, authorWords []Token) TitleMatch {
	if len(form.Full) == 0 {
		return TitleMatch{}
	}

	required := RequiredWords(form)
	result := TitleMatch{RequiredWords: len(required), Passed: true}

	if len(required) > 0 {
		result.Coverage, result.RequiredWords = titleCoverage(candidate.Tokens, required)
		if result.Coverage < MinCoverage {
			result.Passed = false
			return result
		}

		for _, v := range form.variants() {
			if FindStructured(candidate, v, authorWords) {
				result.Structured = true
				result.Score = FullTitleScore
				return result
			}
		}
	}

	title := form.Required
	if len(title) == 0 {
		title = form.Full
	}
	result.Score = fuzzyTitleScore(joinTokens(title), candidate.Joined)
	return result
}

// titleCoverage returns the best fraction of required words found in the
// candidate, and the word count it was measured on, over the split and joined
// spellings of CamelCase runs on both sides.
func titleCoverage(candidate, required []Token) (float64, int) {
	streams := spellings(candidate)
	best, words := -1.0, len(required)
	for _, req := range spellings(required) {
		found := 0
		for _, w := range req {
			for _, tokens := range streams {
				if coversWord(tokens, w) {
					found++
					break
				}
			}
		}
		if c := float64(found) / float64(len(req)); c > best {
			best, words = c, len(req)
		}
	}
	return best, words
}

// coversWord is containsToken that also accepts a possessive form, so
// "Housemaid's" covers "housemaid" even though it never matches structurally.
func coversWord(tokens []Token, w Token) bool {
	if containsToken(tokens, w) {
		return true
	}
	for _, t := range tokens {
		if strings.HasPrefix(t.Text, w.Text+"'") || strings.HasPrefix(t.plain, w.plain+"'") {
			return true
		}
	}
	return false
}

func fuzzyTitleScore(title, candidate string) float64 {
	if title == "" || candidate == "" {
		return 0
	}
	similarity := float64(edlib.SorensenDiceCoefficient(title, candidate, 2))
	if similarity < 0 {
		similarity = 0
	} else if similarity > 1 {
		similarity = 1
	}
	return similarity * FuzzyTitleScale
}
