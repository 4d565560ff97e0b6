package scoring

import (
	"regexp"
	"strings"

	"github.com/readmeabook/readmeabook/internal/indexer/matching"
	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// AudioFormat identifies an audiobook container/codec.
type AudioFormat string

const (
	FormatUnknown AudioFormat = ""
	FormatM4B     AudioFormat = "m4b"
	FormatFLAC    AudioFormat = "flac"
	FormatM4A     AudioFormat = "m4a"
	FormatMP3     AudioFormat = "mp3"
)

// formatMapping maps format strings to audio formats.
// Keys are lowercase for case-insensitive matching.
var formatMapping = map[string]AudioFormat{
	"m4b":  FormatM4B,
	"flac": FormatFLAC,
	"m4a":  FormatM4A,
	"aac":  FormatM4A,
	"mp3":  FormatMP3,
}

// formatPoints ranks formats by playback experience: chaptered, lossless,
// lossy in a tagged container, plain lossy.
var formatPoints = map[AudioFormat]float64{
	FormatM4B:  10,
	FormatFLAC: 7,
	FormatM4A:  6,
	FormatMP3:  4,
}

// m4bWithoutChaptersPoints applies when an M4B is known to lack chapters.
const m4bWithoutChaptersPoints = 9

// ebookFormatPoints scores ebook archive results.
var ebookFormatPoints = map[string]float64{
	"epub": 10,
	"azw3": 8,
	"mobi": 6,
	"pdf":  4,
}

var bracketBlockRegex = regexp.MustCompile(`[\[\(\{]([^\[\]\(\)\{\}]*)[\]\)\}]`)

// NormalizeFormat converts an explicit format string to an audio format.
func NormalizeFormat(format string) AudioFormat {
	lower := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	if f, ok := formatMapping[lower]; ok {
		return f
	}
	// Free-text values like "M4B (AAC 64kbps)"
	for _, w := range matching.Normalize(lower).Words {
		if f, ok := formatMapping[w]; ok {
			return f
		}
	}
	return FormatUnknown
}

// DetectFormat returns the candidate's audio format. An explicit Format wins;
// otherwise bracketed title tags like "[M4B]" are checked, then bare words.
func DetectFormat(c *types.Candidate) AudioFormat {
	if c.Format != "" {
		if f := NormalizeFormat(c.Format); f != FormatUnknown {
			return f
		}
	}

	for _, m := range bracketBlockRegex.FindAllStringSubmatch(c.Title, -1) {
		for _, w := range matching.Normalize(m[1]).Words {
			if f, ok := formatMapping[w]; ok {
				return f
			}
		}
	}

	for _, w := range matching.Normalize(c.Title).Words {
		if f, ok := formatMapping[w]; ok {
			return f
		}
	}
	return FormatUnknown
}

// calculateFormatScore returns 0-10 based on the audio (or ebook) format.
func (s *Scorer) calculateFormatScore(c *types.Candidate, breakdown *types.ScoreBreakdown) float64 {
	if c.IsEbook() {
		ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.EbookFormat)), ".")
		if points, ok := ebookFormatPoints[ext]; ok {
			return points
		}
		breakdown.Notes = append(breakdown.Notes, "Unknown ebook format")
		return 0
	}

	format := DetectFormat(c)
	switch format {
	case FormatUnknown:
		breakdown.Notes = append(breakdown.Notes, "Unknown format")
		return 0
	case FormatM4B:
		// Chapters are assumed unless the indexer says otherwise
		if c.HasChapters != nil && !*c.HasChapters {
			breakdown.Notes = append(breakdown.Notes, "M4B without chapters")
			return m4bWithoutChaptersPoints
		}
	}
	return formatPoints[format]
}
