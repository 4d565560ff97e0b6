package scoring

import (
	"fmt"
	"math"

	"github.com/readmeabook/readmeabook/internal/indexer/matching"
	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// sizeTiers map MB per minute of audio to size points, best first.
var sizeTiers = []struct {
	minMBPerMinute float64
	points         float64
	note           string
}{
	{1.0, 15, ""},
	{0.5, 11, ""},
	{0.3, 7, "Low bitrate"},
	{0, 3, "Very low bitrate for duration"},
}

// Scorer calculates desirability scores for candidates.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	config ScoringConfig
}

// NewScorer creates a new scorer with the given config.
func NewScorer(config ScoringConfig) *Scorer {
	return &Scorer{config: config}
}

// NewDefaultScorer creates a scorer with default configuration.
func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultConfig())
}

// Config returns the scorer's weights.
func (s *Scorer) Config() ScoringConfig {
	return s.config
}

// request is a Target parsed once per ranking.
type request struct {
	form        matching.TitleForm
	authors     []matching.AuthorName
	authorWords []matching.Token
	duration    int
}

func newRequest(target *types.Target) *request {
	authors := matching.ParseAuthors(target.Author)
	return &request{
		form:        matching.ParseTitleForm(target.Title),
		authors:     authors,
		authorWords: matching.AuthorWords(authors),
		duration:    target.Duration(),
	}
}

// Breakdown scores a single candidate against the target.
func (s *Scorer) Breakdown(c *types.Candidate, target *types.Target, requireAuthor bool) types.ScoreBreakdown {
	return s.breakdown(c, newRequest(target), requireAuthor)
}

func (s *Scorer) breakdown(c *types.Candidate, req *request, requireAuthor bool) types.ScoreBreakdown {
	breakdown := types.ScoreBreakdown{Notes: []string{}}

	s.calculateMatchScore(c, req, requireAuthor, &breakdown)
	breakdown.FormatScore = s.calculateFormatScore(c, &breakdown)
	breakdown.SizeScore = s.calculateSizeScore(c, req.duration, &breakdown)
	breakdown.SeederScore = s.calculateSeederScore(c, &breakdown)

	breakdown.TotalScore = breakdown.MatchScore + breakdown.FormatScore +
		breakdown.SizeScore + breakdown.SeederScore
	return breakdown
}

// calculateMatchScore fills the 0-60 title and author component.
// Title coverage below the minimum zeroes the whole match; so does missing
// author evidence when the author is required.
func (s *Scorer) calculateMatchScore(c *types.Candidate, req *request, requireAuthor bool, breakdown *types.ScoreBreakdown) {
	if len(req.form.Full) == 0 {
		breakdown.Notes = append(breakdown.Notes, "No title to match")
		return
	}

	candidate := matching.Normalize(c.Title)
	title := matching.MatchTitle(candidate, req.form, req.authorWords)
	if !title.Passed {
		breakdown.Notes = append(breakdown.Notes,
			fmt.Sprintf("Title words missing (%.0f%% coverage)", title.Coverage*100))
		return
	}

	author := matching.MatchAuthors(candidate, req.authors)
	switch {
	case author.Total == 0:
		breakdown.Notes = append(breakdown.Notes, "No author to match")
	case author.Matched == 0 && requireAuthor:
		breakdown.AuthorRejected = true
		breakdown.Notes = append(breakdown.Notes, "Author not found (required)")
		return
	case author.Matched == 0:
		breakdown.Notes = append(breakdown.Notes, "Author not found")
	case author.Matched < author.Total:
		breakdown.Notes = append(breakdown.Notes,
			fmt.Sprintf("Partial author match (%d/%d)", author.Matched, author.Total))
	}

	switch {
	case title.RequiredWords == 0:
		breakdown.Notes = append(breakdown.Notes, "Title has only common words, fuzzy match")
	case !title.Structured:
		breakdown.Notes = append(breakdown.Notes, "Title not clearly delimited, fuzzy match")
	}

	breakdown.TitleScore = title.Score
	breakdown.AuthorScore = author.Score
	breakdown.MatchScore = title.Score + author.Score
}

// calculateSizeScore returns 0-15 based on MB per minute of audio.
// Unknown duration and ebooks get a neutral score rather than a penalty.
func (s *Scorer) calculateSizeScore(c *types.Candidate, duration int, breakdown *types.ScoreBreakdown) float64 {
	if c.IsEbook() || duration <= 0 {
		return s.config.NeutralSizePoints
	}

	mbPerMinute := float64(c.Size) / bytesPerMB / float64(duration)
	for _, tier := range sizeTiers {
		if mbPerMinute >= tier.minMBPerMinute {
			if tier.note != "" {
				breakdown.Notes = append(breakdown.Notes, tier.note)
			}
			return math.Min(tier.points, s.config.MaxSizePoints)
		}
	}
	return 0
}

// calculateSeederScore returns 0-15 based on availability.
// Nil seeders means the protocol has no seeding concept (usenet, direct
// downloads) and scores the maximum.
func (s *Scorer) calculateSeederScore(c *types.Candidate, breakdown *types.ScoreBreakdown) float64 {
	if c.Seeders == nil {
		return s.config.MaxSeederPoints
	}

	seeders := *c.Seeders
	low := s.config.LowSeederThreshold
	excellent := s.config.ExcellentSeederThreshold
	lowPoints := s.config.LowSeederPoints

	switch {
	case seeders <= 0:
		breakdown.Notes = append(breakdown.Notes, "No seeders")
		return 0
	case seeders < low:
		breakdown.Notes = append(breakdown.Notes, "Low seeders")
		return lowPoints * float64(seeders) / float64(low)
	case seeders >= excellent:
		breakdown.Notes = append(breakdown.Notes, "Excellent availability")
		return s.config.MaxSeederPoints
	default:
		span := float64(excellent - low)
		return lowPoints + (s.config.MaxSeederPoints-lowPoints)*float64(seeders-low)/span
	}
}
