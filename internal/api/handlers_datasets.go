package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/dgallion1/taxtables/internal/pipeline"
	"github.com/dgallion1/taxtables/internal/report"
	"github.com/dgallion1/taxtables/internal/store"
	"github.com/go-chi/chi/v5"
)

// handleListDatasets lists the years with extracted datasets on disk.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	years, err := store.Years(s.cfg.DataDir)
	if err != nil {
		s.log.Error("list datasets failed", "error", err)
		jsonError(w, "failed to list datasets", http.StatusInternalServerError)
		return
	}
	if years == nil {
		years = []int{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"years": years})
}

// handleDatasetReport renders the HTML extraction summary for one year.
func (s *Server) handleDatasetReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		jsonError(w, "invalid year", http.StatusBadRequest)
		return
	}

	res, err := s.dataset(year)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			jsonError(w, "no dataset for year "+strconv.Itoa(year), http.StatusNotFound)
			return
		}
		s.log.Error("load dataset failed", "year", year, "error", err)
		jsonError(w, "failed to load dataset", http.StatusInternalServerError)
		return
	}

	source := "archived"
	if job := s.orchestrator.GetJob(pipeline.JobID(year)); job != nil {
		if snap := job.Snapshot(); snap.Source != "" {
			source = snap.Source
		}
	}

	out, err := report.HTML(year, source, res)
	if err != nil {
		s.log.Error("render report failed", "year", year, "error", err)
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}
