package crawl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"frontdesk/internal/config"
	"frontdesk/internal/errs"
)

func testClient(t *testing.T, baseURL string, maxAttempts int) *Client {
	t.Helper()
	return NewClient(config.CrawlerConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		MaxAttempts:    maxAttempts,
		PollIntervalMs: 1,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// crawlServer stands in for the remote crawl service: one start
// endpoint and a poll endpoint whose responses are scripted per attempt.
func crawlServer(t *testing.T, pollResponses func(attempt int64, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	var polls atomic.Int64
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("POST /v1/crawl", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("start auth header = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":  "job-1",
			"url": srv.URL + "/v1/crawl/job-1",
		})
	})
	mux.HandleFunc("GET /v1/crawl/job-1", func(w http.ResponseWriter, r *http.Request) {
		pollResponses(polls.Add(1), w)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeSiteCompletesOnFinalAttempt(t *testing.T) {
	srv := crawlServer(t, func(attempt int64, w http.ResponseWriter) {
		if attempt < 120 {
			json.NewEncoder(w).Encode(map[string]any{
				"status":   "scraping",
				"progress": map[string]any{"pagesScraped": attempt},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":   "completed",
			"url":      "https://x.com",
			"markdown": "Hello",
		})
	})

	res, err := testClient(t, srv.URL, 120).ScrapeSite(context.Background(), "https://x.com")
	if err != nil {
		t.Fatalf("ScrapeSite: %v", err)
	}
	if res.RawText != "Hello" {
		t.Fatalf("RawText = %q, want %q", res.RawText, "Hello")
	}
}

func TestScrapeSiteTimesOutAfterAllAttempts(t *testing.T) {
	srv := crawlServer(t, func(attempt int64, w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]any{"status": "scraping"})
	})

	_, err := testClient(t, srv.URL, 5).ScrapeSite(context.Background(), "https://x.com")
	if !errs.Is(err, errs.CodeTimeout) {
		t.Fatalf("error code = %v, want CRAWL_TIMEOUT (err: %v)", errs.CodeOf(err), err)
	}
}

func TestScrapeSiteFailedJobIsTerminal(t *testing.T) {
	srv := crawlServer(t, func(attempt int64, w http.ResponseWriter) {
		if attempt > 1 {
			t.Error("polled again after terminal failure")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "failed",
			"error":  "site unreachable",
		})
	})

	_, err := testClient(t, srv.URL, 10).ScrapeSite(context.Background(), "https://x.com")
	if !errs.Is(err, errs.CodeJobFailed) {
		t.Fatalf("error code = %v, want CRAWL_JOB_FAILED", errs.CodeOf(err))
	}
}

func TestScrapeSiteUnknownStatusKeepsPolling(t *testing.T) {
	srv := crawlServer(t, func(attempt int64, w http.ResponseWriter) {
		if attempt < 3 {
			json.NewEncoder(w).Encode(map[string]any{"status": "warming-up"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "completed", "markdown": "done",
		})
	})

	res, err := testClient(t, srv.URL, 10).ScrapeSite(context.Background(), "https://x.com")
	if err != nil {
		t.Fatalf("ScrapeSite: %v", err)
	}
	if res.RawText != "done" {
		t.Fatalf("RawText = %q", res.RawText)
	}
}

func TestScrapeSitePollErrorStatusIsFatal(t *testing.T) {
	srv := crawlServer(t, func(attempt int64, w http.ResponseWriter) {
		if attempt > 1 {
			t.Error("retried after an explicit error status")
		}
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := testClient(t, srv.URL, 10).ScrapeSite(context.Background(), "https://x.com")
	if !errs.Is(err, errs.CodeRemote) {
		t.Fatalf("error code = %v, want REMOTE_SERVICE_ERROR", errs.CodeOf(err))
	}
}

func TestScrapeSiteMalformedPollBodyIsRetried(t *testing.T) {
	srv := crawlServer(t, func(attempt int64, w http.ResponseWriter) {
		if attempt == 1 {
			io.WriteString(w, "not json{")
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "completed", "markdown": "recovered",
		})
	})

	res, err := testClient(t, srv.URL, 10).ScrapeSite(context.Background(), "https://x.com")
	if err != nil {
		t.Fatalf("ScrapeSite: %v", err)
	}
	if res.RawText != "recovered" {
		t.Fatalf("RawText = %q", res.RawText)
	}
}

func TestScrapeSiteMissingPollURLIsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/crawl", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := testClient(t, srv.URL, 10).ScrapeSite(context.Background(), "https://x.com")
	if !errs.Is(err, errs.CodeRemote) {
		t.Fatalf("error code = %v, want REMOTE_SERVICE_ERROR", errs.CodeOf(err))
	}
}

func TestScrapeSiteRequiresConfiguration(t *testing.T) {
	c := NewClient(config.CrawlerConfig{BaseURL: "http://example.com"}, nil)
	_, err := c.ScrapeSite(context.Background(), "https://x.com")
	if !errs.Is(err, errs.CodeConfiguration) {
		t.Fatalf("error code = %v, want CONFIGURATION_ERROR", errs.CodeOf(err))
	}

	c = testClient(t, "http://example.com", 1)
	_, err = c.ScrapeSite(context.Background(), "")
	if !errs.Is(err, errs.CodeConfiguration) {
		t.Fatalf("error code = %v, want CONFIGURATION_ERROR", errs.CodeOf(err))
	}
}
