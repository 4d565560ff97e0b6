package search

import (
	"context"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// RankingService defines the ranking operations used by handlers.
type RankingService interface {
	Rank(ctx context.Context, req RankRequest) (*RankResult, error)
	Select(ctx context.Context, req RankRequest) (*SelectResult, error)
	Score(ctx context.Context, candidate types.Candidate, target types.Target, requireAuthor bool) (types.ScoreBreakdown, error)
}
