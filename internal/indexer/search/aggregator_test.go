package search

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

func intPtr(v int) *int { return &v }

func TestDeduplicateCandidates(t *testing.T) {
	tests := []struct {
		name          string
		candidates    []types.Candidate
		expectedGUIDs []string
	}{
		{
			name: "same info hash keeps more seeders",
			candidates: []types.Candidate{
				{GUID: "a", InfoHash: "ABC123", Seeders: intPtr(5)},
				{GUID: "b", InfoHash: "abc123", Seeders: intPtr(50)},
			},
			expectedGUIDs: []string{"b"},
		},
		{
			name: "same info hash keeps first when seeders are lower",
			candidates: []types.Candidate{
				{GUID: "a", InfoHash: "abc123", Seeders: intPtr(50)},
				{GUID: "b", InfoHash: "abc123", Seeders: intPtr(5)},
			},
			expectedGUIDs: []string{"a"},
		},
		{
			name: "guid compared case-insensitively",
			candidates: []types.Candidate{
				{GUID: " https://x/1 "},
				{GUID: "HTTPS://X/1"},
			},
			expectedGUIDs: []string{" https://x/1 "},
		},
		{
			name: "usenet duplicates keep first",
			candidates: []types.Candidate{
				{GUID: "nzb-1", IndexerName: "first"},
				{GUID: "nzb-1", IndexerName: "second"},
			},
			expectedGUIDs: []string{"nzb-1"},
		},
		{
			name: "download url fallback",
			candidates: []types.Candidate{
				{DownloadURL: "https://x/dl/1", Seeders: intPtr(1)},
				{DownloadURL: "https://x/dl/1", Seeders: intPtr(9), GUID: ""},
				{DownloadURL: "https://x/dl/2"},
			},
			expectedGUIDs: []string{"", ""},
		},
		{
			name: "no identifier is never merged",
			candidates: []types.Candidate{
				{Title: "one"},
				{Title: "two"},
			},
			expectedGUIDs: []string{"", ""},
		},
		{
			name: "distinct candidates keep order",
			candidates: []types.Candidate{
				{GUID: "c"},
				{GUID: "a"},
				{GUID: "b"},
			},
			expectedGUIDs: []string{"c", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DeduplicateCandidates(tt.candidates)
			if len(result) != len(tt.expectedGUIDs) {
				t.Fatalf("got %d candidates, want %d", len(result), len(tt.expectedGUIDs))
			}
			for i, guid := range tt.expectedGUIDs {
				if result[i].GUID != guid {
					t.Errorf("result[%d].GUID = %q, want %q", i, result[i].GUID, guid)
				}
			}
		})
	}
}

func TestDeduplicateCandidates_KeepsBestSeeded(t *testing.T) {
	result := DeduplicateCandidates([]types.Candidate{
		{DownloadURL: "https://x/dl/1", Seeders: intPtr(1)},
		{DownloadURL: "https://x/dl/1", Seeders: intPtr(9)},
	})
	if len(result) != 1 {
		t.Fatalf("got %d candidates, want 1", len(result))
	}
	if *result[0].Seeders != 9 {
		t.Errorf("kept candidate with %d seeders, want 9", *result[0].Seeders)
	}
}

func TestDeduplicateCandidates_Empty(t *testing.T) {
	if result := DeduplicateCandidates(nil); len(result) != 0 {
		t.Errorf("expected empty result, got %d", len(result))
	}
}

func TestAggregateResults(t *testing.T) {
	ownID := int64(7)
	results := []types.IndexerResult{
		{
			IndexerID:   1,
			IndexerName: "MyAnonamouse",
			Candidates: []types.Candidate{
				{GUID: "a", InfoHash: "hash-a", Seeders: intPtr(10)},
				{GUID: "b", IndexerID: &ownID, IndexerName: "Proxy"},
			},
		},
		{
			IndexerID:   2,
			IndexerName: "AudioBookBay",
			Candidates: []types.Candidate{
				{GUID: "a2", InfoHash: "HASH-A", Seeders: intPtr(30)},
			},
		},
		{
			IndexerID:   3,
			IndexerName: "Broken",
			Candidates:  []types.Candidate{{GUID: "partial"}},
			Error:       errors.New("connection refused"),
		},
	}

	aggregated := AggregateResults(results, zerolog.Nop())

	if aggregated.IndexersUsed != 2 {
		t.Errorf("IndexersUsed = %d, want 2", aggregated.IndexersUsed)
	}
	if aggregated.TotalRaw != 3 {
		t.Errorf("TotalRaw = %d, want 3", aggregated.TotalRaw)
	}
	if len(aggregated.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(aggregated.Candidates))
	}
	if len(aggregated.IndexerErrors) != 1 || aggregated.IndexerErrors[0].IndexerName != "Broken" {
		t.Errorf("IndexerErrors = %+v, want one error from Broken", aggregated.IndexerErrors)
	}
	if aggregated.IndexerErrors[0].Error != "connection refused" {
		t.Errorf("error = %q, want %q", aggregated.IndexerErrors[0].Error, "connection refused")
	}

	first := aggregated.Candidates[0]
	if first.GUID != "a2" || *first.IndexerID != 2 || first.IndexerName != "AudioBookBay" {
		t.Errorf("expected the better seeded duplicate from indexer 2, got %+v", first)
	}
	second := aggregated.Candidates[1]
	if *second.IndexerID != ownID || second.IndexerName != "Proxy" {
		t.Errorf("candidate indexer fields should not be overwritten, got %+v", second)
	}
}

func TestAggregateResults_DoesNotModifyInput(t *testing.T) {
	candidates := []types.Candidate{{GUID: "a"}}
	AggregateResults([]types.IndexerResult{{IndexerID: 1, IndexerName: "x", Candidates: candidates}}, zerolog.Nop())

	if candidates[0].IndexerID != nil || candidates[0].IndexerName != "" {
		t.Errorf("input candidate modified: %+v", candidates[0])
	}
}
