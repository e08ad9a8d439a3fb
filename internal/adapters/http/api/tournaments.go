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

	"github.com/aubridge/torneos/internal/domain/balance"
	"github.com/aubridge/torneos/internal/domain/model"
)

// TournamentDependencies defines the interface for tournament desk operations.
type TournamentDependencies interface {
	CreateTournament(ctx context.Context, name string, date time.Time, kind string) (model.Tournament, error)
	Tournament(ctx context.Context, id string) (model.Tournament, error)
	Tournaments(ctx context.Context) ([]model.Tournament, error)
	AddPair(ctx context.Context, tournamentID, playerA, playerB string) (model.Pair, error)
	RemovePair(ctx context.Context, tournamentID, pairID string) error
	BalanceSeating(ctx context.Context, tournamentID string) (model.Tournament, balance.Result, error)
	ResetSeating(ctx context.Context, tournamentID string) (model.Tournament, error)
	RecordResults(ctx context.Context, tournamentID string, results []model.PairResult) (model.Tournament, error)
}

// TournamentsHandler handles tournament desk requests.
type TournamentsHandler struct {
	deps    TournamentDependencies
	imports *ImportsHandler
}

// NewTournamentsHandler creates a new tournaments handler. The imports
// handler serves the /tournaments/{id}/imports subresource.
func NewTournamentsHandler(deps TournamentDependencies, imports *ImportsHandler) *TournamentsHandler {
	return &TournamentsHandler{deps: deps, imports: imports}
}

// tournamentRequest mirrors the OpenAPI schema for POST /tournaments.
type tournamentRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Kind string `json:"kind"`
}

func (t tournamentRequest) validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(t.Date) == "":
		return errors.New("missing date")
	case strings.TrimSpace(t.Kind) == "":
		return errors.New("missing kind")
	}
	if _, err := parseDate(t.Date); err != nil {
		return errors.New("invalid date; must be YYYY-MM-DD or RFC3339")
	}
	return nil
}

// parseDate accepts the date-only form used by seating sheets and full
// RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// pairRequest mirrors the OpenAPI schema for POST /tournaments/{id}/pairs.
type pairRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
}

func (p pairRequest) validate() error {
	switch {
	case strings.TrimSpace(p.PlayerA) == "":
		return errors.New("missing player_a")
	case strings.TrimSpace(p.PlayerB) == "":
		return errors.New("missing player_b")
	case p.PlayerA == p.PlayerB:
		return errors.New("player_a and player_b must differ")
	}
	return nil
}

// resultsRequest mirrors the OpenAPI schema for POST /tournaments/{id}/results.
type resultsRequest struct {
	Results []resultRowRequest `json:"results"`
}

type resultRowRequest struct {
	PairNumber int     `json:"pair_number"`
	Position   int     `json:"position"`
	Percentage float64 `json:"percentage"`
}

func (r resultsRequest) validate() error {
	if len(r.Results) == 0 {
		return errors.New("missing results")
	}
	for i, row := range r.Results {
		switch {
		case row.PairNumber < 1:
			return fmt.Errorf("results[%d]: pair_number must be positive", i)
		case row.Position < 1:
			return fmt.Errorf("results[%d]: position must be positive", i)
		case row.Percentage < 0 || row.Percentage > 100:
			return fmt.Errorf("results[%d]: percentage must be 0..100", i)
		}
	}
	return nil
}

func (r resultsRequest) toModel() []model.PairResult {
	out := make([]model.PairResult, 0, len(r.Results))
	for _, row := range r.Results {
		out = append(out, model.PairResult{
			PairNumber: row.PairNumber,
			Position:   row.Position,
			Percentage: row.Percentage,
		})
	}
	return out
}

// balanceResponse reports the seating a balance run produced.
type balanceResponse struct {
	Tournament tournamentResponse `json:"tournament"`
	AvgNS      float64            `json:"avg_ns"`
	AvgEO      float64            `json:"avg_eo"`
	Difference float64            `json:"difference"`
}

// HandleCollection handles GET /tournaments and POST /tournaments requests.
func (h *TournamentsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.tournaments"
	switch r.Method {
	case http.MethodGet:
		tournaments, err := h.deps.Tournaments(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		out := make([]tournamentResponse, 0, len(tournaments))
		for _, t := range tournaments {
			out = append(out, toTournamentResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req tournamentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		date, _ := parseDate(req.Date)
		tournament, err := h.deps.CreateTournament(r.Context(), strings.TrimSpace(req.Name), date, strings.TrimSpace(req.Kind))
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTournamentResponse(tournament))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	}
}

// HandleItem dispatches /tournaments/{id} and its subresources:
// pairs, balance, reset, results and imports.
func (h *TournamentsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.tournament"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/tournaments/"), "/")
	parts := strings.Split(rest, "/")
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		h.handleGet(w, r, id)
	case len(parts) == 2 && parts[1] == "pairs":
		h.handleAddPair(w, r, id)
	case len(parts) == 3 && parts[1] == "pairs":
		h.handleRemovePair(w, r, id, parts[2])
	case len(parts) == 2 && parts[1] == "balance":
		h.handleBalance(w, r, id)
	case len(parts) == 2 && parts[1] == "reset":
		h.handleReset(w, r, id)
	case len(parts) == 2 && parts[1] == "results":
		h.handleResults(w, r, id)
	case len(parts) == 2 && parts[1] == "imports":
		h.imports.HandleTournamentImports(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *TournamentsHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_tournament"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	tournament, err := h.deps.Tournament(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toTournamentResponse(tournament))
}

func (h *TournamentsHandler) handleAddPair(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.add_pair"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	var req pairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	pair, err := h.deps.AddPair(r.Context(), id, strings.TrimSpace(req.PlayerA), strings.TrimSpace(req.PlayerB))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPairResponse(pair))
}

func (h *TournamentsHandler) handleRemovePair(w http.ResponseWriter, r *http.Request, id, pairID string) {
	const op = "api.remove_pair"
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	if err := h.deps.RemovePair(r.Context(), id, pairID); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentsHandler) handleBalance(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.balance"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	tournament, result, err := h.deps.BalanceSeating(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Tournament: toTournamentResponse(tournament),
		AvgNS:      result.AvgNS,
		AvgEO:      result.AvgEO,
		Difference: result.Difference,
	})
}

func (h *TournamentsHandler) handleReset(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.reset"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	tournament, err := h.deps.ResetSeating(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toTournamentResponse(tournament))
}

func (h *TournamentsHandler) handleResults(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.results"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	var req resultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	tournament, err := h.deps.RecordResults(r.Context(), id, req.toModel())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toTournamentResponse(tournament))
}
