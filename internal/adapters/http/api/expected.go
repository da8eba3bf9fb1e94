package api

import (
	"mime"
	"net/http"

	"github.com/okian/fairway/internal/domain/expected"
)

// ExpectedHandler manages the expected-strokes table.
type ExpectedHandler struct {
	deps Dependencies
}

// NewExpectedHandler creates a new expected-strokes handler.
func NewExpectedHandler(deps Dependencies) *ExpectedHandler {
	return &ExpectedHandler{deps: deps}
}

// HandlePut handles PUT /expected-strokes requests. The body is a JSON
// array of rows, or a YAML list when sent as application/yaml.
func (h *ExpectedHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_expected"
	var rows []expected.Row
	var err error
	if isYAML(r.Header.Get("Content-Type")) {
		rows, err = expected.DecodeRows(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	} else {
		err = decodeJSON(w, r, &rows)
	}
	if err != nil {
		writeDecodeError(w, op, err)
		return
	}
	if err := h.deps.ImportExpected(r.Context(), rows); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "replaced", Rows: len(rows)})
}

// HandleGet handles GET /expected-strokes requests.
func (h *ExpectedHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rows, err := h.deps.ExpectedRows(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if rows == nil {
		rows = []expected.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func isYAML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return true
	}
	return false
}
