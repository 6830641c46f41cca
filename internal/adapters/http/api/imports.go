// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/internal/domain/types"
)

// ImportDependencies defines the interface for the import pipeline.
type ImportDependencies interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	EnqueueImport(ctx context.Context, req model.ImportRequest) (importID string, ok bool)
	ImportResolution(ctx context.Context, importID string) (model.Resolution, error)
}

// ImportsHandler handles roster-import submission and status requests.
type ImportsHandler struct {
	deps ImportDependencies
}

// NewImportsHandler creates a new imports handler.
func NewImportsHandler(deps ImportDependencies) *ImportsHandler {
	return &ImportsHandler{deps: deps}
}

// importRequest mirrors the POST /imports body.
type importRequest struct {
	ImportID string `json:"import_id"`
	Label    string `json:"label"`
	Position string `json:"position"`
}

func (i importRequest) validate() error {
	if strings.TrimSpace(i.Label) == "" {
		return errors.New("missing label")
	}
	if _, err := parsePosition(i.Position); err != nil {
		return err
	}
	return nil
}

// importAck acknowledges a submitted import.
type importAck struct {
	ImportID  string `json:"import_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandleSubmit handles POST /imports requests.
func (h *ImportsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_import"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	// Idempotency check for caller-supplied ids; generated ids are fresh
	// by construction.
	if req.ImportID != "" && h.deps.SeenAndRecord(r.Context(), req.ImportID) {
		writeJSON(w, http.StatusOK, importAck{ImportID: req.ImportID, Status: "duplicate", Duplicate: true})
		return
	}

	pos, _ := parsePosition(req.Position)
	importID, ok := h.deps.EnqueueImport(r.Context(), model.ImportRequest{
		ImportID: req.ImportID,
		Label:    req.Label,
		Position: pos,
		TS:       time.Now().UTC(),
	})
	if !ok {
		// Roll back the "seen" status so the caller can retry.
		if req.ImportID != "" {
			h.deps.Unrecord(r.Context(), req.ImportID)
		}
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, importAck{ImportID: importID, Status: "accepted", Duplicate: false})
}

// HandleStatus handles GET /imports/{id} requests. Pending imports report
// 404 until a worker records their resolution.
func (h *ImportsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/imports/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	res, err := h.deps.ImportResolution(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, types.Resolution{
		ImportID:   res.ImportID,
		Label:      res.Label,
		Outcome:    res.Outcome,
		PlayerID:   res.PlayerID,
		PlayerName: res.PlayerName,
		Score:      res.Score,
		ResolvedAt: res.ResolvedAt.Format(time.RFC3339),
	})
}
