package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/dgallion1/taxtables/internal/scrape"
)

// Runner performs one extraction run. Satisfied by scrape.Scraper.
type Runner interface {
	Run(ctx context.Context, year int) (*bracket.Result, scrape.Source, error)
}

// Writer persists one year's dataset. Satisfied by a closure over store.Write.
type Writer func(year int, res *bracket.Result) error

// Worker processes a single scrape job.
type Worker struct {
	runner  Runner
	write   Writer
	log     *slog.Logger
	backoff func(int) time.Duration
}

func NewWorker(runner Runner, write Writer, log *slog.Logger) *Worker {
	return &Worker{
		runner:  runner,
		write:   write,
		log:     log,
		backoff: Backoff,
	}
}

// Process runs the full scrape pipeline for a job: fetch and extract with
// retries on transient failures, then write the CSV dataset.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "year", job.Year)

	job.SetStatus(StatusFetching)

	var res *bracket.Result
	var source scrape.Source
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		res, source, lastErr = w.runner.Run(ctx, job.Year)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable scrape error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			lastErr = ctx.Err()
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		log.Error("scrape failed", "error", lastErr)
		job.AddError(lastErr.Error())
		job.SetStatus(StatusFailed)
		return
	}
	job.SetResult(string(source), len(res.TaxTable))
	log.Info("scrape complete", "source", source, "rows", len(res.TaxTable))

	job.SetStatus(StatusWriting)
	if err := w.write(job.Year, res); err != nil {
		log.Error("dataset write failed", "error", err)
		job.AddError(fmt.Sprintf("write dataset: %s", err))
		job.SetStatus(StatusFailed)
		return
	}

	job.SetStatus(StatusCompleted)
}
