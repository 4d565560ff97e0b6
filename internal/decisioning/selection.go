package decisioning

import (
	"github.com/rs/zerolog"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// DefaultMinScore is the lowest final score an unattended search will grab.
const DefaultMinScore = 50.0

// SelectionConfig controls automatic selection.
type SelectionConfig struct {
	MinScore   float64 `json:"minScore" validate:"gte=0"`
	MinSeeders int     `json:"minSeeders" validate:"gte=0"` // torrents only; 0 accepts any
}

// DefaultSelectionConfig returns the selection thresholds used when none are configured.
func DefaultSelectionConfig() SelectionConfig {
	return SelectionConfig{MinScore: DefaultMinScore}
}

// SelectBestCandidate picks the best acceptable candidate from a ranked list.
// Results MUST be in rank order (highest final score first).
// Returns nil if no acceptable candidate is found.
func SelectBestCandidate(results []types.RankedResult, cfg SelectionConfig, logger zerolog.Logger) *types.RankedResult {
	for i := range results {
		result := &results[i]

		if result.FinalScore < cfg.MinScore {
			// Sorted by final score, so nothing after this qualifies either
			logger.Info().
				Str("candidate", result.Candidate.Title).
				Float64("finalScore", result.FinalScore).
				Float64("minScore", cfg.MinScore).
				Int("remaining", len(results)-i).
				Msg("No candidate reached the minimum score")
			return nil
		}

		if result.Breakdown.AuthorRejected {
			logger.Debug().
				Str("candidate", result.Candidate.Title).
				Msg("Rejected - author not found")
			continue
		}

		if result.Breakdown.MatchScore <= 0 {
			logger.Debug().
				Str("candidate", result.Candidate.Title).
				Strs("notes", result.Breakdown.Notes).
				Msg("Rejected - title does not match")
			continue
		}

		if cfg.MinSeeders > 0 && result.Candidate.Seeders != nil && *result.Candidate.Seeders < cfg.MinSeeders {
			logger.Debug().
				Str("candidate", result.Candidate.Title).
				Int("seeders", *result.Candidate.Seeders).
				Int("minSeeders", cfg.MinSeeders).
				Msg("Rejected - not enough seeders")
			continue
		}

		return result
	}

	return nil
}
