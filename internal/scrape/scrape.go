// Package scrape drives one extraction run: pick the source document for a
// tax year, locate both regions, and return the structured result.
package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/taxtables/internal/bracket"
	"github.com/dgallion1/taxtables/internal/locate"
	"github.com/dgallion1/taxtables/internal/pdfdoc"
	"golang.org/x/net/html"
)

// Source identifies which document format produced a result.
type Source string

const (
	SourceHTML Source = "html"
	SourcePDF  Source = "pdf"
)

// Fetcher retrieves source documents. Satisfied by fetch.Client.
type Fetcher interface {
	HTML(ctx context.Context) (*html.Node, error)
	PDF(ctx context.Context, year int) ([]byte, error)
}

// Scraper selects a source and extracts one year's brackets.
type Scraper struct {
	fetcher Fetcher
	loadPDF func([]byte) ([]locate.Page, error)
	log     *slog.Logger
}

func NewScraper(f Fetcher, log *slog.Logger) *Scraper {
	return &Scraper{
		fetcher: f,
		loadPDF: pdfdoc.Load,
		log:     log,
	}
}

// Run extracts the tax table and worksheet for the given year.
//
// The single "current" HTML page only ever covers one year, so the year
// embedded in its title decides the path: a match means the HTML document is
// authoritative, anything else falls back to the year-specific PDF. The
// mismatch itself is never an error.
func (s *Scraper) Run(ctx context.Context, year int) (*bracket.Result, Source, error) {
	doc, err := s.fetcher.HTML(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("fetch html: %w", err)
	}

	hl := &locate.HTMLLocator{Doc: doc}
	if htmlYear := hl.Year(); htmlYear == year {
		res, err := s.runHTML(hl)
		if err != nil {
			return nil, SourceHTML, err
		}
		return res, SourceHTML, nil
	} else {
		s.log.Info("html page covers different year, falling back to pdf", "requested", year, "html_year", htmlYear)
	}

	res, err := s.runPDF(ctx, year)
	if err != nil {
		return nil, SourcePDF, err
	}
	return res, SourcePDF, nil
}

func (s *Scraper) runHTML(hl *locate.HTMLLocator) (*bracket.Result, error) {
	rows, err := hl.TaxTable()
	if err != nil {
		return nil, fmt.Errorf("html tax table: %w", err)
	}
	s.log.Info("parsed tax table", "source", SourceHTML, "rows", len(rows))

	ws, err := hl.Worksheet()
	if err != nil {
		return nil, fmt.Errorf("html worksheet: %w", err)
	}
	logWorksheet(s.log, ws)

	return &bracket.Result{TaxTable: rows, Worksheet: ws}, nil
}

func (s *Scraper) runPDF(ctx context.Context, year int) (*bracket.Result, error) {
	data, err := s.fetcher.PDF(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch pdf: %w", err)
	}
	s.log.Info("downloaded pdf", "year", year, "bytes", len(data))

	pages, err := s.loadPDF(data)
	if err != nil {
		return nil, fmt.Errorf("load pdf: %w", err)
	}

	pl := &locate.PDFLocator{Pages: pages}
	rows, err := pl.TaxTable()
	if err != nil {
		return nil, fmt.Errorf("pdf tax table: %w", err)
	}
	s.log.Info("parsed tax table", "source", SourcePDF, "rows", len(rows))

	ws, err := pl.Worksheet()
	if err != nil {
		return nil, fmt.Errorf("pdf worksheet: %w", err)
	}
	logWorksheet(s.log, ws)

	return &bracket.Result{TaxTable: rows, Worksheet: ws}, nil
}

func logWorksheet(log *slog.Logger, ws map[bracket.FilingStatus][]bracket.WorksheetBracket) {
	for _, status := range bracket.Statuses {
		log.Info("parsed worksheet section", "status", status.Key(), "brackets", len(ws[status]))
	}
}
