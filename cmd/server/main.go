package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/taxtables/internal/api"
	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/dgallion1/taxtables/internal/config"
	"github.com/dgallion1/taxtables/internal/fetch"
	"github.com/dgallion1/taxtables/internal/pipeline"
	"github.com/dgallion1/taxtables/internal/scrape"
	"github.com/dgallion1/taxtables/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := fetch.NewClient(cfg.HTMLURL, cfg.PDFURLTemplate, cfg.UserAgent, cfg.HTTPTimeout, cfg.MaxPDFBytes)
	scraper := scrape.NewScraper(client, log)

	// The write hook drops the server's cached calculator for a year once
	// its dataset is rewritten. srv is assigned before any job can run.
	var srv *api.Server
	write := func(year int, res *bracket.Result) error {
		if err := store.Write(cfg.DataDir, year, res); err != nil {
			return err
		}
		if srv != nil {
			srv.Invalidate(year)
		}
		return nil
	}

	orch := pipeline.NewOrchestrator(cfg, scraper, write, log)
	srv = api.NewServer(orch, log, cfg)
	orch.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting taxtables", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
