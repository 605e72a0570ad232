package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Years before the IRS prior-year PDF archive covers the current layout
// are rejected up front.
const minYear = 2017

type scrapeRequest struct {
	Year int `json:"year"`
}

// handleScrape queues an extraction run for one year.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Year < minYear || req.Year > time.Now().Year() {
		jsonError(w, fmt.Sprintf("year must be between %d and %d", minYear, time.Now().Year()), http.StatusBadRequest)
		return
	}

	job, err := s.orchestrator.Submit(req.Year)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"year":     snap.Year,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/scrape/%s/status", snap.ID),
	})
}

func (s *Server) handleScrapeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
