// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pilon/fantasygrid/internal/adapters/repository"
	"github.com/pilon/fantasygrid/internal/domain/model"
	"github.com/pilon/fantasygrid/internal/domain/rank"
	"github.com/pilon/fantasygrid/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Search returns ranked matches for a query.
	Search(ctx context.Context, query string, pos model.Position, limit int) ([]types.Hit, error)

	// Resolve runs the best-match selector synchronously.
	Resolve(ctx context.Context, query string, pos model.Position) (rank.Outcome, error)

	// Roster management.
	UpsertPlayer(ctx context.Context, c model.Candidate) error
	Player(ctx context.Context, id string) (model.Candidate, error)
	RemovePlayer(ctx context.Context, id string) error

	// Import pipeline.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	EnqueueImport(ctx context.Context, req model.ImportRequest) (importID string, ok bool)
	ImportResolution(ctx context.Context, importID string) (model.Resolution, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	searchHandler  *SearchHandler
	resolveHandler *ResolveHandler
	playersHandler *PlayersHandler
	importsHandler *ImportsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxSearchLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		searchHandler:  NewSearchHandler(deps, maxSearchLimit),
		resolveHandler: NewResolveHandler(deps),
		playersHandler: NewPlayersHandler(deps),
		importsHandler: NewImportsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/resolve", MetricsMiddleware(s.resolveHandler.HandleResolve, "resolve"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleUpsert, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayerByID, "players"))
	mux.HandleFunc("/imports", MetricsMiddleware(s.importsHandler.HandleSubmit, "imports"))
	mux.HandleFunc("/imports/", MetricsMiddleware(s.importsHandler.HandleStatus, "imports"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
