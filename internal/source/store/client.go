package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"gamecatalog/internal/domain"
)

const defaultMaxBodyBytes = 32 << 20

// Config holds the settings for one upstream store endpoint.
type Config struct {
	Platform     domain.Platform
	URL          string
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// FetchError is returned when a store endpoint is unreachable or answers with a
// non-success status.
type FetchError struct {
	Platform   domain.Platform
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s listings: unexpected status: %d", e.Platform, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s listings: %v", e.Platform, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches the raw listing payload of a single app store.
type Client struct {
	httpClient   *http.Client
	platform     domain.Platform
	url          string
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "GameCatalog/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		platform:     cfg.Platform,
		url:          cfg.URL,
		userAgent:    userAgent,
		maxBodyBytes: maxBody,
		logger:       logger.With("store", string(cfg.Platform)),
	}
}

func (c *Client) Platform() domain.Platform {
	return c.platform
}

// Fetch returns the response body of the store endpoint. No retries are made.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(resp.StatusCode, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, c.fail(0, fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, c.fail(0, fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes))
	}

	c.logger.Debug("fetched listings",
		"bytes", len(body),
		"duration", time.Since(start),
	)

	return body, nil
}

func (c *Client) fail(status int, err error) *FetchError {
	return &FetchError{
		Platform:   c.platform,
		URL:        c.url,
		StatusCode: status,
		Err:        err,
	}
}
