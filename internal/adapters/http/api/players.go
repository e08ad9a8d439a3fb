// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aubridge/torneos/internal/domain/model"
)

// PlayerDependencies defines the interface for player registry operations.
type PlayerDependencies interface {
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	DeactivatePlayer(ctx context.Context, id string) error
	Player(ctx context.Context, id string) (model.Player, error)
	Players(ctx context.Context, includeInactive bool) ([]model.Player, error)
}

// PlayersHandler handles player registry requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// playerRequest mirrors the OpenAPI schema for player create/update.
type playerRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Handicap  float64 `json:"handicap"`
	Category  string  `json:"category"`
	CNTotals  int     `json:"cn_totals"`
}

func (p playerRequest) validate() error {
	switch {
	case strings.TrimSpace(p.FirstName) == "":
		return errors.New("missing first_name")
	case strings.TrimSpace(p.LastName) == "":
		return errors.New("missing last_name")
	case p.CNTotals < 0:
		return errors.New("cn_totals must not be negative")
	}
	return nil
}

func (p playerRequest) toModel(id string) model.Player {
	return model.Player{
		ID:        id,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Handicap:  p.Handicap,
		Category:  strings.TrimSpace(p.Category),
		CNTotals:  p.CNTotals,
	}
}

// HandleCollection handles GET /players and POST /players requests.
func (h *PlayersHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.players"
	switch r.Method {
	case http.MethodGet:
		includeInactive := r.URL.Query().Get("all") == "true"
		players, err := h.deps.Players(r.Context(), includeInactive)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlayerResponses(players))
	case http.MethodPost:
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		player, err := h.deps.CreatePlayer(r.Context(), req.toModel(""))
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPlayerResponse(player))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	}
}

// HandleItem handles GET, PUT and DELETE /players/{id} requests.
func (h *PlayersHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.player"
	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodGet:
		player, err := h.deps.Player(r.Context(), id)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlayerResponse(player))
	case http.MethodPut:
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		player, err := h.deps.UpdatePlayer(r.Context(), req.toModel(id))
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlayerResponse(player))
	case http.MethodDelete:
		if err := h.deps.DeactivatePlayer(r.Context(), id); err != nil {
			writeServiceError(w, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	}
}
