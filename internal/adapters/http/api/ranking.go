// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// defaultRankingLimit applies when the limit parameter is absent.
const defaultRankingLimit = 50

// RankingDependencies defines the interface for ranking board reads.
type RankingDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// RankingHandler handles season ranking board requests.
type RankingHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies, maxLimit int) *RankingHandler {
	return &RankingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRanking handles GET /ranking?limit=N requests.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	n := defaultRankingLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
