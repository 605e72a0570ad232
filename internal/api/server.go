package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/dgallion1/taxtables/internal/compute"
	"github.com/dgallion1/taxtables/internal/config"
	"github.com/dgallion1/taxtables/internal/pipeline"
	"github.com/dgallion1/taxtables/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for taxtables.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config

	mu    sync.Mutex
	calcs map[int]*compute.Calculator
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
		calcs:        make(map[int]*compute.Calculator),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/tax", s.handleTax)
		r.Post("/api/scrape", s.handleScrape)
		r.Get("/api/scrape/{jobID}/status", s.handleScrapeStatus)
		r.Get("/api/datasets", s.handleListDatasets)
		r.Get("/api/datasets/{year}/report", s.handleDatasetReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// calculator returns the cached calculator for a year, loading the CSV
// dataset on first use.
func (s *Server) calculator(year int) (*compute.Calculator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.calcs[year]; ok {
		return c, nil
	}
	res, err := store.Read(s.cfg.DataDir, year)
	if err != nil {
		return nil, err
	}
	c := compute.NewCalculator(res)
	s.calcs[year] = c
	return c, nil
}

// Invalidate drops the cached calculator for a year after a rescrape
// rewrites its dataset.
func (s *Server) Invalidate(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.calcs, year)
}

// dataset loads a year's dataset without caching a calculator.
func (s *Server) dataset(year int) (*bracket.Result, error) {
	return store.Read(s.cfg.DataDir, year)
}
