// Command scrape runs one-shot extractions without the HTTP server:
//
//	scrape -years 2023,2024,2025 -out data
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/taxtables/internal/config"
	"github.com/dgallion1/taxtables/internal/fetch"
	"github.com/dgallion1/taxtables/internal/scrape"
	"github.com/dgallion1/taxtables/internal/store"
)

func main() {
	var (
		yearsFlag = flag.String("years", "", "comma-separated tax years to extract (required)")
		outFlag   = flag.String("out", "data", "dataset output directory")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	years, err := parseYears(*yearsFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	client := fetch.NewClient(cfg.HTMLURL, cfg.PDFURLTemplate, cfg.UserAgent, cfg.HTTPTimeout, cfg.MaxPDFBytes)
	scraper := scrape.NewScraper(client, log)

	ctx := context.Background()
	failed := 0
	for _, year := range years {
		res, source, err := scraper.Run(ctx, year)
		if err != nil {
			log.Error("extraction failed", "year", year, "error", err)
			failed++
			continue
		}
		if err := store.Write(*outFlag, year, res); err != nil {
			log.Error("dataset write failed", "year", year, "error", err)
			failed++
			continue
		}
		log.Info("dataset written", "year", year, "source", source,
			"rows", len(res.TaxTable), "dir", store.YearDir(*outFlag, year))
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func parseYears(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("-years is required")
	}
	var years []int
	for _, part := range strings.Split(s, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}
