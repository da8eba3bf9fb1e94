package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/fairway/internal/domain/model"
)

// RoundsHandler handles round storage requests.
type RoundsHandler struct {
	deps Dependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps Dependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

// HandlePut handles PUT /rounds requests. The round is stored and its
// metrics are recomputed in the background.
func (h *RoundsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_round"
	var round model.Round
	if err := decodeJSON(w, r, &round); err != nil {
		writeDecodeError(w, op, err)
		return
	}
	saved, err := h.deps.SaveRound(r.Context(), round)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", RoundID: saved.ID})
}

// HandleGet handles GET /rounds/{id} requests.
func (h *RoundsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "api.get_round")
	if !ok {
		return
	}
	round, err := h.deps.Round(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// HandleDelete handles DELETE /rounds/{id} requests.
func (h *RoundsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "api.delete_round")
	if !ok {
		return
	}
	if err := h.deps.DeleteRound(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMetrics handles GET /rounds/{id}/metrics requests.
func (h *RoundsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "api.round_metrics")
	if !ok {
		return
	}
	m, err := h.deps.RoundMetrics(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// pathID extracts the {id} wildcard, writing 400 when it is blank.
func pathID(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return "", false
	}
	return id, true
}

// decodeJSON decodes a single bounded JSON document into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON document")
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, op string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("empty body")))
	default:
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	}
}
