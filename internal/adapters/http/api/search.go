// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/internal/domain/types"
)

// SearchDependencies defines the interface for search operations.
type SearchDependencies interface {
	Search(ctx context.Context, query string, pos model.Position, limit int) ([]types.Hit, error)
}

// SearchHandler handles player search requests.
type SearchHandler struct {
	deps     SearchDependencies
	maxLimit int
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, maxLimit int) *SearchHandler {
	return &SearchHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// searchResponse is the envelope for GET /search.
type searchResponse struct {
	Query   string      `json:"query"`
	Results []types.Hit `json:"results"`
}

// HandleSearch handles GET /search?q=&position=&limit= requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: missing q: %w", op, ErrBadRequest))
		return
	}

	pos, err := parsePosition(r.URL.Query().Get("position"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: invalid limit: %w", op, ErrBadRequest))
			return
		}
		if limit > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: limit above %d: %w", op, h.maxLimit, ErrBadRequest))
			return
		}
	}

	hits, err := h.deps.Search(r.Context(), query, pos, limit)
	if err != nil {
		if errors.Is(err, match.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: hits})
}

// parsePosition validates an optional position filter.
func parsePosition(raw string) (model.Position, error) {
	if raw == "" {
		return model.PositionAny, nil
	}
	pos := model.Position(strings.ToUpper(strings.TrimSpace(raw)))
	switch pos {
	case model.PositionQB, model.PositionRB, model.PositionWR,
		model.PositionTE, model.PositionK, model.PositionDEF:
		return pos, nil
	default:
		return model.PositionAny, fmt.Errorf("unknown position %q: %w", raw, ErrBadRequest)
	}
}
