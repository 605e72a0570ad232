// Package fetch retrieves the IRS Form 1040 instructions: the current-year
// HTML page and the prior-year PDF editions.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

// Client talks to irs.gov.
type Client struct {
	htmlURL    string
	pdfURL     string // template with one %d verb for the year
	userAgent  string
	maxPDF     int64
	httpClient *http.Client
}

func NewClient(htmlURL, pdfURLTemplate, userAgent string, timeout time.Duration, maxPDFBytes int64) *Client {
	return &Client{
		htmlURL:   htmlURL,
		pdfURL:    pdfURLTemplate,
		userAgent: userAgent,
		maxPDF:    maxPDFBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RetryableError marks a transient failure (network error or 5xx/429)
// worth retrying with backoff.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// HTML fetches and parses the current-year instructions page.
func (c *Client) HTML(ctx context.Context) (*html.Node, error) {
	body, err := c.get(ctx, c.htmlURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// PDF downloads the instructions PDF for a prior year.
func (c *Client) PDF(ctx context.Context, year int) ([]byte, error) {
	body, err := c.get(ctx, fmt.Sprintf(c.pdfURL, year))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, c.maxPDF+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read pdf body: %w", err)}
	}
	if int64(len(data)) > c.maxPDF {
		return nil, fmt.Errorf("pdf exceeds max size (%d bytes)", c.maxPDF)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", url, err)}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		err := fmt.Errorf("get %s: status %d: %s", url, resp.StatusCode, string(respBody))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, &RetryableError{Err: err}
		}
		return nil, err
	}
	return resp.Body, nil
}
