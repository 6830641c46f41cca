// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pilon/fantasygrid/internal/adapters/repository"
	"github.com/pilon/fantasygrid/internal/domain/model"
)

// PlayerDependencies defines the interface for roster management.
type PlayerDependencies interface {
	UpsertPlayer(ctx context.Context, c model.Candidate) error
	Player(ctx context.Context, id string) (model.Candidate, error)
	RemovePlayer(ctx context.Context, id string) error
}

// PlayersHandler handles roster CRUD requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// playerRequest mirrors the POST /players body.
type playerRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Status   string `json:"status"`
}

func (p playerRequest) validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("missing id")
	case strings.TrimSpace(p.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(p.Position) == "":
		return errors.New("missing position")
	}
	if _, err := parsePosition(p.Position); err != nil {
		return err
	}
	switch model.Status(p.Status) {
	case "", model.StatusActive, model.StatusInactive:
		return nil
	default:
		return fmt.Errorf("unknown status %q", p.Status)
	}
}

// playerResponse mirrors the stored record.
type playerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team,omitempty"`
	Status   string `json:"status"`
}

// HandleUpsert handles POST /players requests.
func (h *PlayersHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.upsert_player"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	pos, _ := parsePosition(req.Position)
	c := model.Candidate{
		ID:          req.ID,
		DisplayName: req.Name,
		Position:    pos,
		Team:        req.Team,
		Status:      model.Status(req.Status),
	}
	if c.Status == "" {
		c.Status = model.StatusActive
	}

	if err := h.deps.UpsertPlayer(r.Context(), c); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlayerResponse(c))
}

// HandlePlayerByID handles GET and DELETE /players/{id} requests.
func (h *PlayersHandler) HandlePlayerByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := h.deps.Player(r.Context(), id)
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, toPlayerResponse(c))
	case http.MethodDelete:
		if err := h.deps.RemovePlayer(r.Context(), id); err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func toPlayerResponse(c model.Candidate) playerResponse {
	return playerResponse{
		ID:       c.ID,
		Name:     c.DisplayName,
		Position: string(c.Position),
		Team:     c.Team,
		Status:   string(c.Status),
	}
}
