// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pilon/fantasygrid/internal/domain/match"
	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/internal/domain/rank"
)

// ResolveDependencies defines the interface for synchronous best-match
// resolution.
type ResolveDependencies interface {
	Resolve(ctx context.Context, query string, pos model.Position) (rank.Outcome, error)
}

// ResolveHandler handles synchronous best-match requests.
type ResolveHandler struct {
	deps ResolveDependencies
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(deps ResolveDependencies) *ResolveHandler {
	return &ResolveHandler{deps: deps}
}

// resolveResponse carries the three-way outcome. Player fields are only
// present for matched and low_confidence outcomes.
type resolveResponse struct {
	Query      string `json:"query"`
	Outcome    string `json:"outcome"`
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	Score      int    `json:"score,omitempty"`
	MatchKind  string `json:"match_kind,omitempty"`
}

// HandleResolve handles GET /resolve?q=&position= requests.
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve"
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

	outcome, err := h.deps.Resolve(r.Context(), query, pos)
	if err != nil {
		if errors.Is(err, match.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	resp := resolveResponse{Query: query, Outcome: string(outcome.Kind)}
	if outcome.Kind != rank.OutcomeNoMatch {
		resp.PlayerID = outcome.Best.Candidate.ID
		resp.PlayerName = outcome.Best.Candidate.DisplayName
		resp.Score = outcome.Best.Score
		resp.MatchKind = string(outcome.Best.Kind)
	}
	writeJSON(w, http.StatusOK, resp)
}
