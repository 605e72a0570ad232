package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/dgallion1/taxtables/internal/compute"
)

// handleTax answers GET /api/tax?year=2025&income=50000&status=single.
func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		jsonError(w, "year is required", http.StatusBadRequest)
		return
	}
	income, err := strconv.ParseInt(r.URL.Query().Get("income"), 10, 64)
	if err != nil {
		jsonError(w, "income is required", http.StatusBadRequest)
		return
	}
	statusKey := r.URL.Query().Get("status")
	status, ok := parseStatus(statusKey)
	if !ok {
		jsonError(w, "unknown filing status: "+statusKey, http.StatusBadRequest)
		return
	}

	calc, err := s.calculator(year)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			jsonError(w, "no dataset for year "+strconv.Itoa(year), http.StatusNotFound)
			return
		}
		s.log.Error("load dataset failed", "year", year, "error", err)
		jsonError(w, "failed to load dataset", http.StatusInternalServerError)
		return
	}

	tax, err := calc.Tax(income, status)
	if err != nil {
		switch {
		case errors.Is(err, compute.ErrNegativeIncome):
			jsonError(w, "income must not be negative", http.StatusBadRequest)
		case errors.Is(err, compute.ErrNoBracket):
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"year":   year,
		"income": income,
		"status": status.Key(),
		"tax":    tax,
	})
}

// parseStatus maps a query value to a filing status. Qualifying surviving
// spouse shares the married-filing-jointly column.
func parseStatus(key string) (bracket.FilingStatus, bool) {
	if key == "qualifying_surviving_spouse" {
		return bracket.MarriedFilingJointly, true
	}
	return bracket.StatusFromKey(key)
}
