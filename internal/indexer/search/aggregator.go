package search

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// AggregateResult contains candidates merged from several indexers.
type AggregateResult struct {
	Candidates    []types.Candidate    `json:"candidates"`
	TotalRaw      int                  `json:"totalRaw"`
	IndexersUsed  int                  `json:"indexersSearched"`
	IndexerErrors []types.IndexerError `json:"errors,omitempty"`
}

// AggregateResults combines per-indexer results into a single deduplicated list.
// Failed indexers are reported in IndexerErrors; their partial results are dropped.
// Candidates without an IndexerID inherit the ID of the indexer that returned them.
func AggregateResults(results []types.IndexerResult, logger zerolog.Logger) *AggregateResult {
	all := make([]types.Candidate, 0)
	errors := make([]types.IndexerError, 0)
	indexersUsed := 0

	for _, result := range results {
		if result.Error != nil {
			errors = append(errors, types.IndexerError{
				IndexerID:   result.IndexerID,
				IndexerName: result.IndexerName,
				Error:       result.Error.Error(),
			})
			logger.Warn().
				Err(result.Error).
				Str("indexer", result.IndexerName).
				Msg("Indexer search failed")
			continue
		}
		indexersUsed++
		logger.Info().
			Str("indexer", result.IndexerName).
			Int("results", len(result.Candidates)).
			Msg("Received results from indexer")

		for _, c := range result.Candidates {
			if c.IndexerID == nil && result.IndexerID != 0 {
				id := result.IndexerID
				c.IndexerID = &id
			}
			if c.IndexerName == "" {
				c.IndexerName = result.IndexerName
			}
			all = append(all, c)
		}
	}

	totalRaw := len(all)
	deduplicated := DeduplicateCandidates(all)

	logger.Info().
		Int("totalRaw", totalRaw).
		Int("afterDedup", len(deduplicated)).
		Int("indexersUsed", indexersUsed).
		Int("errors", len(errors)).
		Msg("Aggregation complete")

	return &AggregateResult{
		Candidates:    deduplicated,
		TotalRaw:      totalRaw,
		IndexersUsed:  indexersUsed,
		IndexerErrors: errors,
	}
}

// DeduplicateCandidates removes duplicate candidates based on InfoHash, GUID, or
// download URL, in that order. When duplicates are found, keeps the one with the
// most seeders; candidates without a seeder count never replace one another.
// Candidates with no identifier at all are kept as they are.
func DeduplicateCandidates(candidates []types.Candidate) []types.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	seen := make(map[string]int) // identifier -> index in result slice
	result := make([]types.Candidate, 0, len(candidates))

	for _, c := range candidates {
		identifier := candidateIdentifier(c)
		if identifier == "" {
			result = append(result, c)
			continue
		}

		if existingIdx, exists := seen[identifier]; exists {
			if moreSeeders(c, result[existingIdx]) {
				result[existingIdx] = c
			}
			continue
		}
		seen[identifier] = len(result)
		result = append(result, c)
	}

	return result
}

func candidateIdentifier(c types.Candidate) string {
	switch {
	case c.InfoHash != "":
		return "hash:" + strings.ToLower(strings.TrimSpace(c.InfoHash))
	case normalizeGUID(c.GUID) != "":
		return "guid:" + normalizeGUID(c.GUID)
	case c.DownloadURL != "":
		return "url:" + strings.TrimSpace(c.DownloadURL)
	}
	return ""
}

func moreSeeders(a, b types.Candidate) bool {
	return a.Seeders != nil && b.Seeders != nil && *a.Seeders > *b.Seeders
}

// normalizeGUID normalizes a GUID for comparison.
func normalizeGUID(guid string) string {
	return strings.ToLower(strings.TrimSpace(guid))
}
