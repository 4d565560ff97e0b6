// Package decisioning picks which ranked candidate, if any, to grab for a request.
package decisioning

import (
	"fmt"
	"strings"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// SearchMode distinguishes unattended searches from human-reviewed ones.
type SearchMode string

const (
	// SearchModeAutomatic is a scheduled or triggered search that grabs without review.
	SearchModeAutomatic SearchMode = "automatic"
	// SearchModeInteractive presents ranked results to a user who picks one.
	SearchModeInteractive SearchMode = "interactive"
)

// ParseSearchMode parses a mode name. The empty string means automatic.
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SearchModeAutomatic:
		return SearchModeAutomatic, nil
	case SearchModeInteractive:
		return SearchModeInteractive, nil
	}
	return "", fmt.Errorf("unknown search mode %q", s)
}

// RequireAuthor reports whether candidates without author evidence are rejected.
// Only a human can safely pick a result that does not name the author.
func (m SearchMode) RequireAuthor() bool {
	return m != SearchModeInteractive
}

// SearchableItem is a requested book to pick a release for.
type SearchableItem struct {
	RequestID string       `json:"requestId"`
	Target    types.Target `json:"target"`
	Ebook     bool         `json:"ebook,omitempty"`
	Mode      SearchMode   `json:"mode"`
}
