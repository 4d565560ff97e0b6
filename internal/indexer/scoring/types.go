// Package scoring provides desirability scoring and ranking for indexer search results.
package scoring

import (
	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

const bytesPerMB = 1024 * 1024

// ScoringConfig holds configurable weights for the scoring algorithm.
type ScoringConfig struct {
	// Candidates smaller than this are samples or garbage and are dropped before scoring.
	MinSizeBytes int64 // default: 20 MB

	// Size weights
	MaxSizePoints     float64 // default: 15
	NeutralSizePoints float64 // default: 7.5 (duration unknown or ebook)

	// Health weights (torrents)
	MaxSeederPoints          float64 // default: 15
	LowSeederPoints          float64 // default: 8 (score at LowSeederThreshold)
	LowSeederThreshold       int     // default: 5 (fewer seeders earn a "Low seeders" note)
	ExcellentSeederThreshold int     // default: 25

	// Indexer priority
	PriorityBonusCeiling    float64 // default: 0.25 (top priority adds 25% of the base score)
	DefaultPriorityFraction float64 // default: 0.5 (unconfigured indexers)
}

// DefaultConfig returns sensible default scoring weights.
func DefaultConfig() ScoringConfig {
	return ScoringConfig{
		MinSizeBytes: 20 * bytesPerMB,

		// Size weights
		MaxSizePoints:     15,
		NeutralSizePoints: 7.5,

		// Health weights (torrents)
		MaxSeederPoints:          15,
		LowSeederPoints:          8,
		LowSeederThreshold:       5,
		ExcellentSeederThreshold: 25,

		// Indexer priority
		PriorityBonusCeiling:    0.25,
		DefaultPriorityFraction: 0.5,
	}
}

// EbookConfig returns weights for ranking ebook archive results, which are far
// below the audiobook size floor.
func EbookConfig() ScoringConfig {
	cfg := DefaultConfig()
	cfg.MinSizeBytes = 0
	return cfg
}

// Options carries the caller's per-invocation ranking policy.
type Options struct {
	// IndexerPriorities maps indexer ID to priority weight; higher is better.
	IndexerPriorities map[int64]int

	// FlagConfigs are percentage modifiers for indexer flags such as "Freeleech".
	FlagConfigs []types.FlagConfig

	// RequireAuthor rejects candidates without evidence of the requested author.
	// Nil means true: unattended selection must be strict.
	RequireAuthor *bool
}

// RequiresAuthor resolves RequireAuthor, defaulting to true.
func (o Options) RequiresAuthor() bool {
	if o.RequireAuthor == nil {
		return true
	}
	return *o.RequireAuthor
}

// Bool returns a pointer to v, for building Options literals.
func Bool(v bool) *bool {
	return &v
}
