package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"se-metrics/internal/report"
)

// ReportGenerator produces the weekly report document.
type ReportGenerator interface {
	Generate(ctx context.Context) (*report.WeeklyReport, error)
}

// errorResponse is the envelope for every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": fmt.Sprintf("%s Weekly Metrics API is running!", s.project),
		"endpoints": map[string]string{
			"/metrics":    fmt.Sprintf("Get weekly %s metrics", s.project),
			"/health":     "Health check",
			"/test-dates": "Echo the report window and queries",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	rep, err := s.generator.Generate(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Report generation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleTestDates echoes the window /metrics would use and every JQL string
// that would run, for manual verification against the Jira search UI.
func (s *Server) handleTestDates(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	window := report.PreviousWeek(now)
	queries := report.Queries{Project: s.project, Window: window}

	teamQueries := make(map[string]string, len(s.teams))
	for _, team := range s.teams {
		teamQueries[team] = queries.TeamTransfers(team)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"today":     now.Format("2006-01-02"),
		"weekStart": window.StartDate(),
		"weekEnd":   window.EndDate(),
		"weekRange": window.Range(),
		"queries": map[string]any{
			"created":            queries.Created(),
			"resolvedField":      queries.ResolvedField(),
			"resolvedTransition": queries.ResolvedTransition(),
			"activeUpdated":      queries.ActiveUpdated(),
			"transfers":          teamQueries,
		},
	})
}
