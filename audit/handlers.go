package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/axaudit/report"
	"github.com/hazyhaar/axaudit/shield"
	"github.com/hazyhaar/axaudit/store"
)

// Server exposes read-only HTTP views over persisted audit runs.
type Server struct {
	st  *store.Store
	log *slog.Logger
}

func NewServer(st *store.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{st: st, log: log}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack() {
		r.Use(mw)
	}
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/runs/{id}/report.csv", s.handleGetReport)
	return r
}

// handleListRuns returns all runs, newest first.
// GET /runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.st.ListRuns(r.Context())
	if err != nil {
		s.log.Error("list runs failed", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": runs})
}

// handleGetRun returns one run with its issues and task results.
// GET /runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.st.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get run failed", "run_id", id, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	issues, err := s.st.GetIssues(r.Context(), id)
	if err != nil {
		s.log.Error("get issues failed", "run_id", id, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	results, err := s.st.GetResults(r.Context(), id)
	if err != nil {
		s.log.Error("get results failed", "run_id", id, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"run":     run,
		"issues":  issues,
		"results": results,
	})
}

// handleGetReport streams the run's report rows as CSV.
// GET /runs/{id}/report.csv
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.st.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get run failed", "run_id", id, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	rows, err := s.st.GetReportRows(r.Context(), id)
	if err != nil {
		s.log.Error("get report rows failed", "run_id", id, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	logDate := report.LogDate(run.Timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(logDate)))
	if err := report.WriteCSV(w, rows); err != nil {
		s.log.Error("write csv failed", "run_id", id, "error", err)
	}
}
