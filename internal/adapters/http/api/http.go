// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aubridge/torneos/internal/adapters/repository"
	"github.com/aubridge/torneos/internal/app"
	"github.com/aubridge/torneos/internal/domain/dedupe"
	"github.com/aubridge/torneos/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper
	PlayerDependencies
	TournamentDependencies
	ImportDependencies
	RankingDependencies
	RankDependencies
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the tournament administration API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playersHandler     *PlayersHandler
	tournamentsHandler *TournamentsHandler
	importsHandler     *ImportsHandler
	rankingHandler     *RankingHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	imports := NewImportsHandler(deps)
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		playersHandler:     NewPlayersHandler(deps),
		tournamentsHandler: NewTournamentsHandler(deps, imports),
		importsHandler:     imports,
		rankingHandler:     NewRankingHandler(deps, maxRankingLimit),
		rankHandler:        NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleCollection, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleItem, "players"))
	mux.HandleFunc("/tournaments", MetricsMiddleware(s.tournamentsHandler.HandleCollection, "tournaments"))
	mux.HandleFunc("/tournaments/", MetricsMiddleware(s.tournamentsHandler.HandleItem, "tournaments"))
	mux.HandleFunc("/imports/", MetricsMiddleware(s.importsHandler.HandleJob, "imports"))
	mux.HandleFunc("/ranking", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "ranking"))
	mux.HandleFunc("/ranking/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	JobID     string `json:"job_id,omitempty"`
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

// writeServiceError translates upstream error kinds to status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, Wrap(op, err))
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, app.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, app.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
