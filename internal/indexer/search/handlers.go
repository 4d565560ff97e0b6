package search

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readmeabook/readmeabook/internal/decisioning"
	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// Handlers provides HTTP handlers for ranking operations.
type Handlers struct {
	service RankingService
}

// NewHandlers creates new ranking handlers.
func NewHandlers(service RankingService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// RegisterRoutes registers the ranking routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/rank", h.Rank)
	g.POST("/score", h.Score)
	g.POST("/select", h.Select)
}

// IndexerPayload is one indexer's search outcome as sent by an orchestrator.
type IndexerPayload struct {
	IndexerID   int64             `json:"indexerId"`
	IndexerName string            `json:"indexerName"`
	Candidates  []types.Candidate `json:"candidates"`
	Error       string            `json:"error,omitempty"`
}

// RankPayload represents a ranking request.
// Candidates may be sent flat, grouped by indexer, or both.
type RankPayload struct {
	RequestID         string             `json:"requestId"`
	Target            types.Target       `json:"target"`
	Mode              string             `json:"mode"` // automatic (default) or interactive
	Ebook             bool               `json:"ebook"`
	Candidates        []types.Candidate  `json:"candidates"`
	Indexers          []IndexerPayload   `json:"indexers"`
	IndexerPriorities map[int64]int      `json:"indexerPriorities"`
	Flags             []types.FlagConfig `json:"flags"`
}

// ScorePayload represents a single-candidate scoring request.
type ScorePayload struct {
	Candidate     types.Candidate `json:"candidate"`
	Target        types.Target    `json:"target"`
	RequireAuthor *bool           `json:"requireAuthor"` // defaults to true
}

// Rank handles ranking requests.
// POST /api/v1/rank
// Returns RankResult with results sorted by final score descending.
func (h *Handlers) Rank(c echo.Context) error {
	var payload RankPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	req, err := payload.toRequest()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	result, err := h.service.Rank(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// Select handles automatic selection requests.
// POST /api/v1/select
// Returns SelectResult; selected is null when no candidate is acceptable.
func (h *Handlers) Select(c echo.Context) error {
	var payload RankPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	req, err := payload.toRequest()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	result, err := h.service.Select(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// Score handles single-candidate score breakdown requests.
// POST /api/v1/score
func (h *Handlers) Score(c echo.Context) error {
	var payload ScorePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	requireAuthor := payload.RequireAuthor == nil || *payload.RequireAuthor

	breakdown, err := h.service.Score(c.Request().Context(), payload.Candidate, payload.Target, requireAuthor)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, breakdown)
}

// toRequest converts a RankPayload to a RankRequest.
func (p RankPayload) toRequest() (RankRequest, error) {
	mode, err := decisioning.ParseSearchMode(p.Mode)
	if err != nil {
		return RankRequest{}, err
	}

	results := make([]types.IndexerResult, 0, len(p.Indexers)+1)
	if len(p.Candidates) > 0 {
		results = append(results, types.IndexerResult{Candidates: p.Candidates})
	}
	for _, idx := range p.Indexers {
		result := types.IndexerResult{
			IndexerID:   idx.IndexerID,
			IndexerName: idx.IndexerName,
			Candidates:  idx.Candidates,
		}
		if idx.Error != "" {
			result.Error = errors.New(idx.Error)
		}
		results = append(results, result)
	}

	return RankRequest{
		Item: decisioning.SearchableItem{
			RequestID: p.RequestID,
			Target:    p.Target,
			Ebook:     p.Ebook,
			Mode:      mode,
		},
		Results:           results,
		IndexerPriorities: p.IndexerPriorities,
		FlagConfigs:       p.Flags,
	}, nil
}

func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, ErrSelectionInProgress):
		status = http.StatusConflict
	}
	return c.JSON(status, map[string]string{
		"error": err.Error(),
	})
}
