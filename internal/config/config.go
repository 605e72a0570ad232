package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth for mutating endpoints
	APIKey string

	// Dataset location
	DataDir string

	// IRS sources
	HTMLURL        string
	PDFURLTemplate string
	UserAgent      string

	// Download limits
	HTTPTimeout time.Duration
	MaxPDFBytes int64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("TAXTABLES_API_KEY"),

		DataDir: envOr("DATA_DIR", "data"),

		HTMLURL:        envOr("IRS_HTML_URL", "https://www.irs.gov/instructions/i1040gi"),
		PDFURLTemplate: envOr("IRS_PDF_URL_TEMPLATE", "https://www.irs.gov/pub/irs-prior/i1040gi--%d.pdf"),
		UserAgent:      envOr("HTTP_USER_AGENT", "taxtables/1.0"),

		HTTPTimeout: envDuration("HTTP_TIMEOUT", 60*time.Second),
		MaxPDFBytes: envInt64("MAX_PDF_BYTES", 52428800), // 50MB

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 20),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 20
	}
	if cfg.MaxPDFBytes <= 0 {
		cfg.MaxPDFBytes = 52428800
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TAXTABLES_API_KEY is required")
	}
	if !strings.Contains(c.PDFURLTemplate, "%d") {
		return fmt.Errorf("IRS_PDF_URL_TEMPLATE must contain a %%d year placeholder")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
