package scoring

import (
	"sort"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

var (
	defaultScorer = NewDefaultScorer()
	ebookScorer   = NewScorer(EbookConfig())
)

// Rank scores and orders audiobook candidates with the default weights.
func Rank(candidates []types.Candidate, target types.Target, opts Options) []types.RankedResult {
	return defaultScorer.Rank(candidates, target, opts)
}

// RankEbooks ranks ebook archive results, which are exempt from the size floor.
func RankEbooks(candidates []types.Candidate, target types.Target, opts Options) []types.RankedResult {
	return ebookScorer.Rank(candidates, target, opts)
}

// ScoreBreakdown scores a single candidate with the default weights.
func ScoreBreakdown(candidate types.Candidate, target types.Target, requireAuthor bool) types.ScoreBreakdown {
	return defaultScorer.Breakdown(&candidate, &target, requireAuthor)
}

// FilterBySize drops candidates below the size floor.
func (s *Scorer) FilterBySize(candidates []types.Candidate) []types.Candidate {
	filtered := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Size < s.config.MinSizeBytes {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// Rank scores candidates against the target and returns them best first.
//
// Candidates below the size floor are dropped before scoring, as are candidates
// rejected for missing the required author. Everything else is returned, even
// with a zero match score, so a human can still pick it. Results are sorted by
// final score, ties going to the more recent release, and ranked from 1.
// The input slice is not modified.
func (s *Scorer) Rank(candidates []types.Candidate, target types.Target, opts Options) []types.RankedResult {
	req := newRequest(&target)
	requireAuthor := opts.RequiresAuthor()
	bonuses := s.newBonusCalculator(opts)

	results := make([]types.RankedResult, 0, len(candidates))
	for _, c := range s.FilterBySize(candidates) {
		breakdown := s.breakdown(&c, req, requireAuthor)
		if breakdown.AuthorRejected {
			continue
		}

		modifiers := bonuses.modifiers(&c, breakdown.TotalScore)
		bonusPoints := 0.0
		for _, m := range modifiers {
			bonusPoints += m.Points
		}

		results = append(results, types.RankedResult{
			Candidate:      c,
			Breakdown:      breakdown,
			BonusModifiers: modifiers,
			BonusPoints:    bonusPoints,
			Score:          breakdown.TotalScore,
			FinalScore:     breakdown.TotalScore + bonusPoints,
		})
	}

	SortResults(results)
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// SortResults sorts by final score descending, then publish date descending.
// Equal results keep their input order.
func SortResults(results []types.RankedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].Candidate.PublishDate.After(results[j].Candidate.PublishDate)
	})
}
