// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aubridge/torneos/internal/domain/dedupe"
	"github.com/aubridge/torneos/internal/domain/model"
	"github.com/aubridge/torneos/pkg/textenc"
)

// maxImportBytes caps an uploaded report body. PairsScorer exports run
// a few tens of kilobytes; anything near this limit is not a report.
const maxImportBytes = 2 << 20

// ImportDependencies defines the interface for the import pipeline.
type ImportDependencies interface {
	dedupe.Deduper

	// SubmitImport persists a queued job and hands it to the worker
	// pool. ok is false on backpressure.
	SubmitImport(ctx context.Context, tournamentID string, kind model.ImportKind, text, codec, digest string) (job model.ImportJob, ok bool, err error)
	ImportJob(ctx context.Context, id string) (model.ImportJob, error)
	TournamentImports(ctx context.Context, tournamentID string) ([]model.ImportJob, error)
}

// ImportsHandler handles report upload and import status requests.
type ImportsHandler struct {
	deps ImportDependencies
}

// NewImportsHandler creates a new imports handler.
func NewImportsHandler(deps ImportDependencies) *ImportsHandler {
	return &ImportsHandler{deps: deps}
}

// HandleTournamentImports handles POST and GET /tournaments/{id}/imports.
// POST bodies are raw report files; the kind query parameter selects
// the parser (standings or travellers).
func (h *ImportsHandler) HandleTournamentImports(w http.ResponseWriter, r *http.Request, tournamentID string) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r, tournamentID)
	case http.MethodGet:
		h.handleList(w, r, tournamentID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind("api.imports", ErrMethodNotAllowed))
	}
}

func (h *ImportsHandler) handleSubmit(w http.ResponseWriter, r *http.Request, tournamentID string) {
	const op = "api.post_import"

	kind, err := parseImportKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("empty body")))
		return
	}

	text, codec := textenc.Decode(raw)

	// Idempotency check - mark as seen first
	digest := dedupe.Digest(string(kind), text)
	if h.deps.SeenAndRecord(r.Context(), digest) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	job, ok, err := h.deps.SubmitImport(r.Context(), tournamentID, kind, text, codec, digest)
	if err != nil {
		// Rollback the "seen" status so a fixed retry is not refused
		h.deps.Unrecord(r.Context(), digest)
		writeServiceError(w, op, err)
		return
	}
	if !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), digest)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false, JobID: job.ID})
}

func (h *ImportsHandler) handleList(w http.ResponseWriter, r *http.Request, tournamentID string) {
	const op = "api.list_imports"
	jobs, err := h.deps.TournamentImports(r.Context(), tournamentID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponses(jobs))
}

// HandleJob handles GET /imports/{id} requests.
func (h *ImportsHandler) HandleJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_import"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/imports/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	job, err := h.deps.ImportJob(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func parseImportKind(s string) (model.ImportKind, error) {
	switch model.ImportKind(s) {
	case model.ImportStandings:
		return model.ImportStandings, nil
	case model.ImportTravellers:
		return model.ImportTravellers, nil
	case "":
		return "", errors.New("missing kind; use standings or travellers")
	default:
		return "", errors.New("unknown kind; use standings or travellers")
	}
}
