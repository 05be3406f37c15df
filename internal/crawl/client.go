package crawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"frontdesk/internal/config"
	"frontdesk/internal/errs"
	"frontdesk/internal/metrics"
	"frontdesk/internal/model"
)

// Client starts full-site crawl jobs against the remote crawl service
// and polls them to completion.
type Client struct {
	baseURL      string
	apiKey       string
	http         *http.Client
	maxDepth     int
	waitForMs    int
	maxAttempts  int
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewClient builds a Client from configuration. Zero-valued tuning
// fields fall back to the defaults the pipeline was designed around:
// 120 attempts at 1s apart, depth 1, a 3s render delay.
func NewClient(cfg config.CrawlerConfig, logger *slog.Logger) *Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 120
	}
	pollInterval := time.Duration(cfg.PollIntervalMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 1
	}
	waitForMs := cfg.WaitForMs
	if waitForMs <= 0 {
		waitForMs = 3000
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		http:         &http.Client{Timeout: 30 * time.Second},
		maxDepth:     maxDepth,
		waitForMs:    waitForMs,
		maxAttempts:  maxAttempts,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// startRequest declares the crawl parameters. Robots directives are
// deliberately ignored: target medspa sites commonly block automated
// fetches, and respecting them leaves the remote job stuck in an
// intermediate state forever.
type startRequest struct {
	URL               string `json:"url"`
	MaxDepth          int    `json:"maxDepth"`
	IgnoreRobotsTxt   bool   `json:"ignoreRobotsTxt"`
	IncludeSubdomains bool   `json:"includeSubdomains"`
	WaitFor           int    `json:"waitFor"`
	Javascript        bool   `json:"javascript"`
}

type startResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ScrapeSite starts a crawl job for siteURL and polls until the job
// reaches a terminal state, then returns the normalized result.
func (c *Client) ScrapeSite(ctx context.Context, siteURL string) (*model.CrawlResult, error) {
	if siteURL == "" {
		return nil, errs.New(errs.CodeConfiguration, "site url is required")
	}
	if c.apiKey == "" {
		return nil, errs.New(errs.CodeConfiguration, "crawl service api key is not configured")
	}

	start, err := c.startJob(ctx, siteURL)
	if err != nil {
		return nil, err
	}

	c.logger.Info("crawl job started", "job_id", start.ID, "url", siteURL)
	return c.awaitJob(ctx, start.ID, start.URL)
}

func (c *Client) startJob(ctx context.Context, siteURL string) (*startResponse, error) {
	body, err := json.Marshal(startRequest{
		URL:               siteURL,
		MaxDepth:          c.maxDepth,
		IgnoreRobotsTxt:   true,
		IncludeSubdomains: false,
		WaitFor:           c.waitForMs,
		Javascript:        true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/crawl", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.CodeRemote, err, "crawl start request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errs.New(errs.CodeRemote, "crawl start returned status %d: %s", resp.StatusCode, string(payload))
	}

	var start startResponse
	if err := json.NewDecoder(resp.Body).Decode(&start); err != nil {
		return nil, errs.Wrap(errs.CodeRemote, err, "crawl start returned malformed response")
	}
	// The poll path is not derivable from the job id; both must come
	// from the service.
	if start.ID == "" || start.URL == "" {
		return nil, errs.New(errs.CodeRemote, "crawl start response missing job id or poll url")
	}
	return &start, nil
}

// awaitJob drives the poll state machine: pending/scraping (or any
// unrecognized status) keep the loop alive, completed hands the payload
// to the normalizer, failed and attempt exhaustion are terminal errors.
func (c *Client) awaitJob(ctx context.Context, jobID, pollURL string) (*model.CrawlResult, error) {
	started := time.Now()

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		metrics.RecordPollAttempts(1)
		payload, err := c.poll(ctx, pollURL)
		if err != nil {
			// Explicit non-2xx responses are fatal immediately; only
			// transport-level failures are soft, and even those become
			// fatal on the last scheduled attempt.
			if !isTransport(err) {
				return nil, err
			}
			if attempt == c.maxAttempts {
				return nil, errs.Wrap(errs.CodeRemote, err, "crawl poll failed on final attempt %d", attempt)
			}
			c.logger.Warn("crawl poll attempt failed", "job_id", jobID, "attempt", attempt, "error", err)
			if err := c.sleep(ctx); err != nil {
				return nil, err
			}
			continue
		}

		status := strings.ToLower(asString(payload["status"]))
		switch status {
		case "completed":
			return Normalize(payload)
		case "failed":
			msg := asString(payload["error"])
			if msg == "" {
				msg = "remote crawl job reported failure"
			}
			return nil, errs.New(errs.CodeJobFailed, "%s", msg)
		default:
			// Unlisted intermediate statuses count as still in
			// progress; progress counters are observability only.
			if progress, ok := payload["progress"].(map[string]any); ok {
				c.logger.Info("crawl job in progress",
					"job_id", jobID, "status", status, "attempt", attempt,
					"pages_scraped", progress["pagesScraped"])
			}
		}

		if attempt < c.maxAttempts {
			if err := c.sleep(ctx); err != nil {
				return nil, err
			}
		}
	}

	elapsed := time.Since(started).Round(time.Second)
	return nil, errs.New(errs.CodeTimeout, "crawl job %s did not finish within %d attempts (%s elapsed)", jobID, c.maxAttempts, elapsed)
}

// poll issues one GET against the service-provided poll URL and decodes
// the payload generically so the normalizer sees the full response.
func (c *Client) poll(ctx context.Context, pollURL string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pollURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errs.New(errs.CodeRemote, "crawl poll returned status %d: %s", resp.StatusCode, string(payload))
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &transportError{err: err}
	}
	return payload, nil
}

func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.Wrap(errs.CodeTimeout, ctx.Err(), "crawl polling aborted")
	case <-time.After(c.pollInterval):
		return nil
	}
}

// transportError marks failures of the poll transport itself, which are
// retried on the next tick, as opposed to explicit non-2xx responses,
// which are fatal immediately.
type transportError struct {
	err error
}

func (t *transportError) Error() string { return "poll transport error: " + t.err.Error() }
func (t *transportError) Unwrap() error { return t.err }

func isTransport(err error) bool {
	_, ok := err.(*transportError)
	return ok
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	switch v.(type) {
	case float64, int, int64, bool:
		return fmt.Sprint(v)
	}
	return ""
}
