// Package scraper provides the HTTP plumbing for pulling catalog pages:
// a retrying client with randomized User-Agents, exponential backoff, and
// singleflight deduplication for concurrent scrapes of the same page.
package scraper

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/corpix/uarand"
)

// Client is an HTTP client for catalog scraping with retries and backoff.
type Client struct {
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a scraper client. maxRetries counts retry attempts after
// the first try.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxRetries: maxRetries,
	}
}

// Get performs a GET request with retries and exponential backoff.
// Caller is responsible for closing the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var resp *http.Response

	err := RetryWithBackoff(ctx, c.maxRetries, 1*time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return &permanentError{err: fmt.Errorf("failed to create request: %w", err)}
		}

		req.Header.Set("User-Agent", uarand.GetRandom())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept-Encoding", "gzip, deflate")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Body won't be returned, close it before deciding on a retry.
			_ = resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusTooManyRequests:
				return fmt.Errorf("rate limited for %s: status %d", url, resp.StatusCode)
			case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				return fmt.Errorf("server error for %s: status %d", url, resp.StatusCode)
			case http.StatusNotFound, http.StatusForbidden, http.StatusUnauthorized:
				return &permanentError{err: fmt.Errorf("client error for %s: status %d", url, resp.StatusCode)}
			default:
				return fmt.Errorf("unexpected status for %s: %d", url, resp.StatusCode)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// GetDocument performs a GET request and parses the response as HTML.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}
