// Package types contains shared type definitions for indexer packages.
package types

import (
	"time"
)

// Protocol represents the download protocol.
type Protocol string

const (
	ProtocolTorrent Protocol = "torrent"
	ProtocolUsenet  Protocol = "usenet"
	ProtocolDirect  Protocol = "direct" // ebook archive downloads
)

// Candidate represents a raw search result from an indexer or the ebook archive.
// Optional numeric fields are pointers: nil means the source has no such concept
// (e.g. usenet has no seeders), which is scored differently from zero.
type Candidate struct {
	GUID        string    `json:"guid" yaml:"guid"`
	Title       string    `json:"title" yaml:"title"`
	Size        int64     `json:"size" yaml:"size"`
	Seeders     *int      `json:"seeders,omitempty" yaml:"seeders,omitempty"`
	Leechers    *int      `json:"leechers,omitempty" yaml:"leechers,omitempty"`
	PublishDate time.Time `json:"publishDate" yaml:"publishDate"`

	// Indexer info
	IndexerName string   `json:"indexer" yaml:"indexer"`
	IndexerID   *int64   `json:"indexerId,omitempty" yaml:"indexerId,omitempty"`
	Protocol    Protocol `json:"protocol" yaml:"protocol"`

	DownloadURL string `json:"downloadUrl" yaml:"downloadUrl"`
	InfoURL     string `json:"infoUrl,omitempty" yaml:"infoUrl,omitempty"`
	InfoHash    string `json:"infoHash,omitempty" yaml:"infoHash,omitempty"`

	// Flags are free-text indexer labels such as "Freeleech".
	Flags []string `json:"flags,omitempty" yaml:"flags,omitempty"`

	// Explicit audio info; when empty the format is sniffed from the title.
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	HasChapters *bool  `json:"hasChapters,omitempty" yaml:"hasChapters,omitempty"`

	// Ebook-mode fields
	EbookFormat string `json:"ebookFormat,omitempty" yaml:"ebookFormat,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
}

// IsEbook reports whether the candidate came from an ebook search.
func (c *Candidate) IsEbook() bool {
	return c.EbookFormat != ""
}

// Target is the requested audiobook (or ebook) a candidate list is matched against.
type Target struct {
	Title  string `json:"title" yaml:"title" validate:"required"`
	Author string `json:"author" yaml:"author"` // may list several authors and role suffixes

	// DurationMinutes is the audiobook length. Nil or non-positive means unknown.
	DurationMinutes *int `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty"`
}

// Duration returns the known duration in minutes, or 0 when unknown.
func (t *Target) Duration() int {
	if t.DurationMinutes == nil || *t.DurationMinutes <= 0 {
		return 0
	}
	return *t.DurationMinutes
}

// ScoreBreakdown provides detailed scoring information for a candidate.
type ScoreBreakdown struct {
	MatchScore  float64 `json:"matchScore"` // 0-60, title + author
	TitleScore  float64 `json:"titleScore"`
	AuthorScore float64 `json:"authorScore"`
	FormatScore float64 `json:"formatScore"` // 0-10
	SizeScore   float64 `json:"sizeScore"`   // 0-15
	SeederScore float64 `json:"seederScore"` // 0-15
	TotalScore  float64 `json:"totalScore"`

	// AuthorRejected is set when requireAuthor forced the match score to zero.
	AuthorRejected bool     `json:"authorRejected,omitempty"`
	Notes          []string `json:"notes"`
}

// BonusModifierType identifies the source of a bonus adjustment.
type BonusModifierType string

const (
	BonusIndexerPriority BonusModifierType = "indexer_priority"
	BonusIndexerFlag     BonusModifierType = "indexer_flag"
)

// BonusModifier is a single post-scoring adjustment, kept individually so the UI
// can explain why one result outranks another.
type BonusModifier struct {
	Type   BonusModifierType `json:"type"`
	Value  float64           `json:"value"`  // signed fraction of the base score
	Points float64           `json:"points"` // signed contribution in score units
	Reason string            `json:"reason"`
}

// FlagConfig configures a percentage modifier for an indexer flag.
type FlagConfig struct {
	Name     string  `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Modifier float64 `json:"modifier" yaml:"modifier" mapstructure:"modifier" validate:"gte=-100,lte=100"`
}

// RankedResult is a scored candidate in ranked order.
type RankedResult struct {
	Candidate      Candidate       `json:"candidate"`
	Breakdown      ScoreBreakdown  `json:"breakdown"`
	BonusModifiers []BonusModifier `json:"bonusModifiers"`
	BonusPoints    float64         `json:"bonusPoints"`
	Score          float64         `json:"score"`
	FinalScore     float64         `json:"finalScore"`
	Rank           int             `json:"rank"`
}

// IndexerResult is the outcome of searching a single indexer.
type IndexerResult struct {
	IndexerID   int64
	IndexerName string
	Candidates  []Candidate
	Error       error
}

// IndexerError describes an indexer that failed during a search.
type IndexerError struct {
	IndexerID   int64  `json:"indexerId"`
	IndexerName string `json:"indexerName"`
	Error       string `json:"error"`
}
