package scoring

import (
	"math"
	"slices"
	"testing"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorer_SeederScore(t *testing.T) {
	scorer := NewDefaultScorer()

	tests := []struct {
		name          string
		seeders       *int
		expectedScore float64
		expectedNote  string
	}{
		{name: "usenet has no seeders", seeders: nil, expectedScore: 15},
		{name: "no seeders", seeders: intPtr(0), expectedScore: 0, expectedNote: "No seeders"},
		{name: "one seeder", seeders: intPtr(1), expectedScore: 1.6, expectedNote: "Low seeders"},
		{name: "three seeders", seeders: intPtr(3), expectedScore: 4.8, expectedNote: "Low seeders"},
		{name: "low threshold", seeders: intPtr(5), expectedScore: 8},
		{name: "ten seeders", seeders: intPtr(10), expectedScore: 9.75},
		{name: "fifteen seeders", seeders: intPtr(15), expectedScore: 11.5},
		{name: "excellent threshold", seeders: intPtr(25), expectedScore: 15, expectedNote: "Excellent availability"},
		{name: "many seeders", seeders: intPtr(500), expectedScore: 15, expectedNote: "Excellent availability"},
		{name: "negative seeders", seeders: intPtr(-1), expectedScore: 0, expectedNote: "No seeders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown := types.ScoreBreakdown{}
			score := scorer.calculateSeederScore(&types.Candidate{Seeders: tt.seeders}, &breakdown)

			if !approxEqual(score, tt.expectedScore) {
				t.Errorf("Seeder score = %f, want %f", score, tt.expectedScore)
			}
			if tt.expectedNote != "" && !slices.Contains(breakdown.Notes, tt.expectedNote) {
				t.Errorf("Notes = %q, want %q", breakdown.Notes, tt.expectedNote)
			}
			if tt.expectedNote == "" && len(breakdown.Notes) != 0 {
				t.Errorf("Notes = %q, want none", breakdown.Notes)
			}
		})
	}
}

func TestScorer_SizeScore(t *testing.T) {
	scorer := NewDefaultScorer()

	tests := []struct {
		name          string
		sizeMB        int64
		duration      int
		ebook         bool
		expectedScore float64
		expectedNote  string
	}{
		{name: "high bitrate", sizeMB: 700, duration: 600, expectedScore: 15},
		{name: "exactly 1 MB per minute", sizeMB: 600, duration: 600, expectedScore: 15},
		{name: "medium bitrate", sizeMB: 400, duration: 600, expectedScore: 11},
		{name: "low bitrate", sizeMB: 200, duration: 600, expectedScore: 7, expectedNote: "Low bitrate"},
		{name: "very low bitrate", sizeMB: 100, duration: 600, expectedScore: 3, expectedNote: "Very low bitrate for duration"},
		{name: "unknown duration", sizeMB: 100, duration: 0, expectedScore: 7.5},
		{name: "ebook", sizeMB: 2, duration: 600, ebook: true, expectedScore: 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &types.Candidate{Size: tt.sizeMB * bytesPerMB}
			if tt.ebook {
				c.EbookFormat = "epub"
			}
			breakdown := types.ScoreBreakdown{}
			score := scorer.calculateSizeScore(c, tt.duration, &breakdown)

			if !approxEqual(score, tt.expectedScore) {
				t.Errorf("Size score = %f, want %f", score, tt.expectedScore)
			}
			if tt.expectedNote != "" && !slices.Contains(breakdown.Notes, tt.expectedNote) {
				t.Errorf("Notes = %q, want %q", breakdown.Notes, tt.expectedNote)
			}
		})
	}
}

func TestScorer_FormatScore(t *testing.T) {
	scorer := NewDefaultScorer()

	tests := []struct {
		name          string
		candidate     types.Candidate
		expectedScore float64
	}{
		{"explicit m4b", types.Candidate{Format: "M4B"}, 10},
		{"m4b with chapters", types.Candidate{Format: "m4b", HasChapters: boolPtr(true)}, 10},
		{"m4b without chapters", types.Candidate{Format: "m4b", HasChapters: boolPtr(false)}, 9},
		{"flac", types.Candidate{Format: "FLAC"}, 7},
		{"m4a", types.Candidate{Format: "m4a"}, 6},
		{"aac counts as m4a", types.Candidate{Format: "AAC"}, 6},
		{"mp3", types.Candidate{Format: ".mp3"}, 4},
		{"free text format", types.Candidate{Format: "M4B (AAC 64kbps)"}, 10},
		{"bracket tag", types.Candidate{Title: "Project Hail Mary [M4B]"}, 10},
		{"bracket tag wins over bare word", types.Candidate{Title: "MP3 Collection - Dune [FLAC]"}, 7},
		{"bare word", types.Candidate{Title: "Project.Hail.Mary.MP3"}, 4},
		{"explicit wins over title", types.Candidate{Title: "Dune [MP3]", Format: "m4b"}, 10},
		{"unknown explicit falls back to title", types.Candidate{Title: "Dune [MP3]", Format: "ogg"}, 4},
		{"unknown", types.Candidate{Title: "Dune"}, 0},
		{"ebook epub", types.Candidate{EbookFormat: "epub"}, 10},
		{"ebook azw3", types.Candidate{EbookFormat: ".AZW3"}, 8},
		{"ebook pdf", types.Candidate{EbookFormat: "pdf"}, 4},
		{"ebook unknown", types.Candidate{EbookFormat: "djvu"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown := types.ScoreBreakdown{}
			score := scorer.calculateFormatScore(&tt.candidate, &breakdown)
			if score != tt.expectedScore {
				t.Errorf("Format score = %f, want %f", score, tt.expectedScore)
			}
		})
	}
}

func TestScorer_FormatOrdering(t *testing.T) {
	scorer := NewDefaultScorer()
	target := &types.Target{Title: "Project Hail Mary", Author: "Andy Weir"}

	candidates := []types.Candidate{
		{Format: "m4b", HasChapters: boolPtr(true)},
		{Format: "m4b", HasChapters: boolPtr(false)},
		{Format: "flac"},
		{Format: "m4a"},
		{Format: "mp3"},
	}

	prev := math.Inf(1)
	for i := range candidates {
		candidates[i].Title = "Andy Weir - Project Hail Mary"
		candidates[i].Size = 500 * bytesPerMB
		breakdown := scorer.Breakdown(&candidates[i], target, true)
		if breakdown.TotalScore >= prev {
			t.Errorf("candidate %d (%s) scored %f, want less than %f", i, candidates[i].Format, breakdown.TotalScore, prev)
		}
		prev = breakdown.TotalScore
	}
}

func TestScorer_MatchScore(t *testing.T) {
	scorer := NewDefaultScorer()

	tests := []struct {
		name          string
		title         string
		target        types.Target
		requireAuthor bool
		minScore      float64
		maxScore      float64
		rejected      bool
	}{
		{
			name:          "full match",
			title:         "Andy Weir - Project Hail Mary [M4B]",
			target:        types.Target{Title: "Project Hail Mary", Author: "Andy Weir"},
			requireAuthor: true,
			minScore:      60,
			maxScore:      60,
		},
		{
			name:          "missing author required",
			title:         "Project Hail Mary [M4B]",
			target:        types.Target{Title: "Project Hail Mary", Author: "Andy Weir"},
			requireAuthor: true,
			minScore:      0,
			maxScore:      0,
			rejected:      true,
		},
		{
			name:          "missing author not required",
			title:         "Project Hail Mary [M4B]",
			target:        types.Target{Title: "Project Hail Mary", Author: "Andy Weir"},
			requireAuthor: false,
			minScore:      45,
			maxScore:      45,
		},
		{
			name:          "wrong author required",
			title:         "Project Hail Mary - John Smith",
			target:        types.Target{Title: "Project Hail Mary", Author: "Andy Weir"},
			requireAuthor: true,
			minScore:      0,
			maxScore:      0,
			rejected:      true,
		},
		{
			name:          "one of three authors",
			title:         "Douglas Preston - Relic",
			target:        types.Target{Title: "Relic", Author: "Douglas Preston, Lincoln Child, James Rollins"},
			requireAuthor: true,
			minScore:      50,
			maxScore:      50,
		},
		{
			name:          "coverage below minimum",
			title:         "Harry Potter - J.K. Rowling",
			target:        types.Target{Title: "Harry Potter and the Philosopher Stone", Author: "J.K. Rowling"},
			requireAuthor: false,
			minScore:      0,
			maxScore:      0,
		},
		{
			name:          "unstructured title falls back to fuzzy",
			title:         "This Inevitable Ruin Dungeon Crawler Carl - Matt Dinniman",
			target:        types.Target{Title: "Dungeon Crawler Carl", Author: "Matt Dinniman"},
			requireAuthor: true,
			minScore:      15.01,
			maxScore:      59.99,
		},
		{
			name:          "no author requested",
			title:         "Project Hail Mary",
			target:        types.Target{Title: "Project Hail Mary"},
			requireAuthor: true,
			minScore:      45,
			maxScore:      45,
		},
		{
			name:          "lowercase release of a camel case author",
			title:         "cormac mccarthy - the road [m4b]",
			target:        types.Target{Title: "The Road", Author: "Cormac McCarthy"},
			requireAuthor: true,
			minScore:      60,
			maxScore:      60,
		},
		{
			name:          "all caps release of a camel case author",
			title:         "CORMAC MCCARTHY - THE ROAD [M4B]",
			target:        types.Target{Title: "The Road", Author: "Cormac McCarthy"},
			requireAuthor: true,
			minScore:      60,
			maxScore:      60,
		},
		{
			name:          "camel case title spelled without the capital",
			title:         "Lisa Sabin-Wilson - Wordpress for Dummies",
			target:        types.Target{Title: "WordPress for Dummies", Author: "Lisa Sabin-Wilson"},
			requireAuthor: true,
			minScore:      60,
			maxScore:      60,
		},
		{
			name:          "apostrophes dropped",
			title:         "Orson Scott Card - Enders Game [M4B]",
			target:        types.Target{Title: "Ender's Game", Author: "Orson Scott Card"},
			requireAuthor: true,
			minScore:      60,
			maxScore:      60,
		},
		{
			name:          "empty title",
			title:         "Andy Weir - Project Hail Mary",
			target:        types.Target{Title: "", Author: "Andy Weir"},
			requireAuthor: true,
			minScore:      0,
			maxScore:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &types.Candidate{Title: tt.title, Size: 100 * bytesPerMB}
			breakdown := scorer.Breakdown(c, &tt.target, tt.requireAuthor)

			if breakdown.MatchScore < tt.minScore || breakdown.MatchScore > tt.maxScore {
				t.Errorf("Match score = %f, want between %f and %f (notes %q)",
					breakdown.MatchScore, tt.minScore, tt.maxScore, breakdown.Notes)
			}
			if breakdown.AuthorRejected != tt.rejected {
				t.Errorf("AuthorRejected = %v, want %v", breakdown.AuthorRejected, tt.rejected)
			}
			if !approxEqual(breakdown.MatchScore, breakdown.TitleScore+breakdown.AuthorScore) {
				t.Errorf("Match score %f != title %f + author %f",
					breakdown.MatchScore, breakdown.TitleScore, breakdown.AuthorScore)
			}
		})
	}
}

func TestScorer_FullScoring(t *testing.T) {
	c := types.Candidate{
		GUID:    "great-book",
		Title:   "Great Book - Author Name",
		Size:    25 * bytesPerMB,
		Seeders: intPtr(10),
	}
	target := types.Target{Title: "Great Book", Author: "Author Name"}

	breakdown := ScoreBreakdown(c, target, true)

	if breakdown.MatchScore != 60 {
		t.Errorf("Match score = %f, want 60", breakdown.MatchScore)
	}
	if breakdown.FormatScore != 0 {
		t.Errorf("Format score = %f, want 0", breakdown.FormatScore)
	}
	if breakdown.SizeScore != 7.5 {
		t.Errorf("Size score = %f, want 7.5 (unknown duration)", breakdown.SizeScore)
	}
	if !approxEqual(breakdown.SeederScore, 9.75) {
		t.Errorf("Seeder score = %f, want 9.75", breakdown.SeederScore)
	}
	if !approxEqual(breakdown.TotalScore, 77.25) {
		t.Errorf("Total score = %f, want 77.25", breakdown.TotalScore)
	}
	if !slices.Contains(breakdown.Notes, "Unknown format") {
		t.Errorf("Notes = %q, want %q", breakdown.Notes, "Unknown format")
	}
}

func TestScorer_NotesNeverNil(t *testing.T) {
	breakdown := ScoreBreakdown(types.Candidate{}, types.Target{}, true)
	if breakdown.Notes == nil {
		t.Error("Notes should be an empty slice, not nil")
	}
	if breakdown.TotalScore != breakdown.MatchScore+breakdown.FormatScore+breakdown.SizeScore+breakdown.SeederScore {
		t.Errorf("Total score %f is not the sum of its parts", breakdown.TotalScore)
	}
}
