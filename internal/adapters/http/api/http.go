// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/fairway/internal/adapters/repository"
	service "github.com/okian/fairway/internal/app"
	"github.com/okian/fairway/internal/domain/expected"
	"github.com/okian/fairway/internal/domain/model"
	"github.com/okian/fairway/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	SaveRound(ctx context.Context, round model.Round) (model.Round, error)
	Round(ctx context.Context, id string) (model.Round, error)
	DeleteRound(ctx context.Context, id string) error
	RoundMetrics(ctx context.Context, roundID string) (model.RoundMetrics, error)

	Analyze(ctx context.Context, userID string) (service.Report, error)
	Skill(ctx context.Context, userID string) (model.SkillEstimate, error)

	ImportExpected(ctx context.Context, rows []expected.Row) error
	ExpectedRows(ctx context.Context) ([]expected.Row, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	roundsHandler   *RoundsHandler
	analysisHandler *AnalysisHandler
	expectedHandler *ExpectedHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		roundsHandler:   NewRoundsHandler(deps),
		analysisHandler: NewAnalysisHandler(deps),
		expectedHandler: NewExpectedHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("PUT /rounds", MetricsMiddleware(s.roundsHandler.HandlePut, "rounds"))
	mux.HandleFunc("GET /rounds/{id}", MetricsMiddleware(s.roundsHandler.HandleGet, "round"))
	mux.HandleFunc("DELETE /rounds/{id}", MetricsMiddleware(s.roundsHandler.HandleDelete, "round"))
	mux.HandleFunc("GET /rounds/{id}/metrics", MetricsMiddleware(s.roundsHandler.HandleMetrics, "round_metrics"))

	mux.HandleFunc("GET /users/{id}/analysis", MetricsMiddleware(s.analysisHandler.HandleAnalysis, "analysis"))
	mux.HandleFunc("GET /users/{id}/skill", MetricsMiddleware(s.analysisHandler.HandleSkill, "skill"))

	mux.HandleFunc("PUT /expected-strokes", MetricsMiddleware(s.expectedHandler.HandlePut, "expected_strokes"))
	mux.HandleFunc("GET /expected-strokes", MetricsMiddleware(s.expectedHandler.HandleGet, "expected_strokes"))
}

type ackResponse struct {
	Status  string `json:"status"`
	RoundID string `json:"round_id,omitempty"`
	Rows    int    `json:"rows,omitempty"`
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

// writeServiceError maps service and store errors onto HTTP statuses.
// Internal failures are logged and answered with the bare status text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		logger.Get().Named("api").Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal", nil)
	}
}

func isBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, service.ErrInvalidRound) ||
		errors.Is(err, service.ErrInvalidExpected) ||
		errors.Is(err, service.ErrInvalidUser)
}
