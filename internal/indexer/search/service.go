// Package search ranks the candidate lists gathered from indexers for a requested book.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/readmeabook/readmeabook/internal/decisioning"
	"github.com/readmeabook/readmeabook/internal/indexer/scoring"
	"github.com/readmeabook/readmeabook/internal/indexer/types"
	"github.com/readmeabook/readmeabook/internal/logger"
)

var (
	// ErrInvalidRequest wraps validation failures of a ranking request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSelectionInProgress is returned when an automatic selection for the same
	// book is already running.
	ErrSelectionInProgress = errors.New("selection already in progress")
)

// Policy is the admin-configured ranking policy applied to every search.
type Policy struct {
	Options   scoring.Options
	Selection decisioning.SelectionConfig

	// Scoring weights; the zero value means scoring.DefaultConfig().
	Scoring scoring.ScoringConfig
}

// Service ranks candidates and selects releases for requested books.
type Service struct {
	policy   Policy
	scorer   *scoring.Scorer
	ebooks   *scoring.Scorer
	grabLock *decisioning.GrabLock
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewService creates a new search service.
func NewService(policy Policy, log zerolog.Logger) *Service {
	if policy.Scoring == (scoring.ScoringConfig{}) {
		policy.Scoring = scoring.DefaultConfig()
	}
	ebookConfig := policy.Scoring
	ebookConfig.MinSizeBytes = 0

	return &Service{
		policy:   policy,
		scorer:   scoring.NewScorer(policy.Scoring),
		ebooks:   scoring.NewScorer(ebookConfig),
		grabLock: decisioning.NewGrabLock(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.Component(log, "search"),
	}
}

// Policy returns the service's ranking policy.
func (s *Service) Policy() Policy {
	return s.policy
}

// RankRequest asks for one book's candidates to be ranked.
type RankRequest struct {
	Item    decisioning.SearchableItem
	Results []types.IndexerResult

	// Per-call overrides of the policy; nil keeps the configured value.
	IndexerPriorities map[int64]int
	FlagConfigs       []types.FlagConfig
}

// RankResult contains ranked candidates and how they were obtained.
type RankResult struct {
	RunID         string                 `json:"runId"`
	Mode          decisioning.SearchMode `json:"mode"`
	Results       []types.RankedResult   `json:"results"`
	TotalRaw      int                    `json:"totalRaw"`
	TotalUnique   int                    `json:"totalUnique"`
	TotalRanked   int                    `json:"total"`
	IndexersUsed  int                    `json:"indexersSearched"`
	IndexerErrors []types.IndexerError   `json:"errors,omitempty"`
}

// SelectResult is a ranking plus the candidate chosen for an automatic grab.
type SelectResult struct {
	*RankResult
	Selected *types.RankedResult `json:"selected"`
}

// Rank aggregates, deduplicates, and ranks the candidates of a request.
func (s *Service) Rank(ctx context.Context, req RankRequest) (*RankResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req.Item.Target); err != nil {
		return nil, fmt.Errorf("%w: target: %v", ErrInvalidRequest, err)
	}
	for _, flag := range req.FlagConfigs {
		if err := s.validate.Struct(flag); err != nil {
			return nil, fmt.Errorf("%w: flag %q: %v", ErrInvalidRequest, flag.Name, err)
		}
	}

	runID := uuid.NewString()
	logger := s.logger.With().
		Str("runId", runID).
		Str("title", req.Item.Target.Title).
		Str("author", req.Item.Target.Author).
		Str("mode", string(req.Item.Mode)).
		Logger()
	startTime := time.Now()

	aggregated := AggregateResults(req.Results, logger)
	opts := s.options(req)

	var ranked []types.RankedResult
	if req.Item.Ebook {
		ranked = s.ebooks.Rank(aggregated.Candidates, req.Item.Target, opts)
	} else {
		ranked = s.scorer.Rank(aggregated.Candidates, req.Item.Target, opts)
	}

	logger.Info().
		Int("candidates", len(aggregated.Candidates)).
		Int("ranked", len(ranked)).
		Int("dropped", len(aggregated.Candidates)-len(ranked)).
		Bool("requireAuthor", opts.RequiresAuthor()).
		Dur("elapsed", time.Since(startTime)).
		Msg("Ranking completed")

	return &RankResult{
		RunID:         runID,
		Mode:          req.Item.Mode,
		Results:       ranked,
		TotalRaw:      aggregated.TotalRaw,
		TotalUnique:   len(aggregated.Candidates),
		TotalRanked:   len(ranked),
		IndexersUsed:  aggregated.IndexersUsed,
		IndexerErrors: aggregated.IndexerErrors,
	}, nil
}

// Select ranks a request in automatic mode and picks the candidate to grab.
// Only one selection per book runs at a time.
func (s *Service) Select(ctx context.Context, req RankRequest) (*SelectResult, error) {
	req.Item.Mode = decisioning.SearchModeAutomatic

	key := decisioning.Key(req.Item)
	if !s.grabLock.TryAcquire(key) {
		return nil, fmt.Errorf("%w: %s", ErrSelectionInProgress, key)
	}
	defer s.grabLock.Release(key)

	ranked, err := s.Rank(ctx, req)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("runId", ranked.RunID).Logger()
	selected := decisioning.SelectBestCandidate(ranked.Results, s.policy.Selection, logger)
	if selected != nil {
		logger.Info().
			Str("candidate", selected.Candidate.Title).
			Str("indexer", selected.Candidate.IndexerName).
			Float64("finalScore", selected.FinalScore).
			Msg("Selected candidate")
	}

	return &SelectResult{RankResult: ranked, Selected: selected}, nil
}

// Score returns the score breakdown of a single candidate.
func (s *Service) Score(ctx context.Context, candidate types.Candidate, target types.Target, requireAuthor bool) (types.ScoreBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return types.ScoreBreakdown{}, err
	}
	if err := s.validate.Struct(target); err != nil {
		return types.ScoreBreakdown{}, fmt.Errorf("%w: target: %v", ErrInvalidRequest, err)
	}
	return s.scorer.Breakdown(&candidate, &target, requireAuthor), nil
}

func (s *Service) options(req RankRequest) scoring.Options {
	opts := s.policy.Options
	if req.IndexerPriorities != nil {
		opts.IndexerPriorities = req.IndexerPriorities
	}
	if req.FlagConfigs != nil {
		opts.FlagConfigs = req.FlagConfigs
	}
	opts.RequireAuthor = scoring.Bool(req.Item.Mode.RequireAuthor())
	return opts
}
