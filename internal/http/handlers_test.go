package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"frontdesk/internal/bizconfig"
	"frontdesk/internal/config"
	"frontdesk/internal/errs"
	"frontdesk/internal/metrics"
	"frontdesk/internal/model"
	"frontdesk/internal/outreach"
)

type fakeExtractor struct {
	cfg *bizconfig.BusinessConfig
	err error
	key model.OwnerKey
}

func (f *fakeExtractor) Extract(ctx context.Context, key model.OwnerKey, domainHint string) (*bizconfig.BusinessConfig, error) {
	f.key = key
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

type fakeCapturer struct {
	png []byte
	err error
}

func (f *fakeCapturer) Capture(ctx context.Context, url string, fullPage bool) ([]byte, error) {
	return f.png, f.err
}

type fakeCrawler struct {
	result *model.CrawlResult
	err    error
}

func (f *fakeCrawler) ScrapeSite(ctx context.Context, siteURL string) (*model.CrawlResult, error) {
	return f.result, f.err
}

type fakeOutreach struct{}

func (f *fakeOutreach) GenerateEmail(ctx context.Context, lead *model.Lead) (*outreach.Email, error) {
	return &outreach.Email{Subject: "s", Body: "b"}, nil
}

func testApp(cfg *config.Config, svcs *Services, method, path string, handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Add(method, path, func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("services", svcs)
		return handler(c)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var envelope ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

func TestScrapeSiteHandlerValidation(t *testing.T) {
	app := testApp(&config.Config{}, &Services{}, http.MethodPost, "/v1/sites/scrape", sitesScrapeHandler)

	resp := postJSON(t, app, "/v1/sites/scrape", map[string]any{"leadId": "a"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing url: status = %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/v1/sites/scrape", map[string]any{"url": "https://x.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("no owner key: status = %d", resp.StatusCode)
	}
	if env := decodeError(t, resp); env.Code != "INVALID_ARGUMENT" {
		t.Fatalf("code = %q", env.Code)
	}

	resp = postJSON(t, app, "/v1/sites/scrape", map[string]any{
		"url": "https://x.com", "leadId": "a", "businessId": "b",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("both owner keys: status = %d", resp.StatusCode)
	}
}

func TestRecordCrawlOutcomeByErrorCode(t *testing.T) {
	recordCrawlOutcome(nil)
	recordCrawlOutcome(errs.New(errs.CodeTimeout, "poll budget spent"))
	recordCrawlOutcome(errs.New(errs.CodeJobFailed, "remote job crashed"))
	recordCrawlOutcome(errs.New(errs.CodeRemote, "poll returned 503"))

	out := metrics.Export()
	for _, label := range []string{
		`frontdesk_crawl_jobs_total{outcome="completed"}`,
		`frontdesk_crawl_jobs_total{outcome="timeout"}`,
		`frontdesk_crawl_jobs_total{outcome="failed"}`,
		`frontdesk_crawl_jobs_total{outcome="error"}`,
	} {
		if !strings.Contains(out, label) {
			t.Errorf("metrics missing %s", label)
		}
	}
}

func TestExtractConfigHandler(t *testing.T) {
	ext := &fakeExtractor{cfg: bizconfig.Normalize(map[string]any{"name": "Glow"})}
	app := testApp(&config.Config{}, &Services{Extractor: ext}, http.MethodPost, "/v1/config/extract", extractConfigHandler)

	resp := postJSON(t, app, "/v1/config/extract", map[string]any{"leadId": "lead-1", "domain": "glow.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out ExtractConfigResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Config.Name != "Glow" {
		t.Fatalf("response = %+v", out)
	}
	if ext.key.LeadID != "lead-1" {
		t.Fatalf("extractor key = %+v", ext.key)
	}
}

func TestExtractConfigHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errs.New(errs.CodeNotFound, "no data"), http.StatusNotFound},
		{errs.New(errs.CodeEmptyInput, "empty"), http.StatusBadRequest},
		{errs.New(errs.CodeParse, "bad json"), http.StatusUnprocessableEntity},
		{errs.New(errs.CodeRemote, "llm down"), http.StatusBadGateway},
	}

	for _, tc := range cases {
		app := testApp(&config.Config{}, &Services{Extractor: &fakeExtractor{err: tc.err}},
			http.MethodPost, "/v1/config/extract", extractConfigHandler)
		resp := postJSON(t, app, "/v1/config/extract", map[string]any{"leadId": "a"})
		if resp.StatusCode != tc.status {
			t.Errorf("%v: status = %d, want %d", errs.CodeOf(tc.err), resp.StatusCode, tc.status)
		}
	}
}

func TestScreenshotHandler(t *testing.T) {
	cfg := &config.Config{Screenshot: config.ScreenshotConfig{Enabled: true}}
	app := testApp(cfg, &Services{Screenshot: &fakeCapturer{png: []byte{0x89, 'P', 'N', 'G'}}},
		http.MethodPost, "/v1/screenshot", screenshotHandler)

	resp := postJSON(t, app, "/v1/screenshot", map[string]any{"url": "https://x.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out ScreenshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Format != "png" || out.Data == "" {
		t.Fatalf("response = %+v", out)
	}
}

func TestScreenshotHandlerDisabled(t *testing.T) {
	app := testApp(&config.Config{}, &Services{}, http.MethodPost, "/v1/screenshot", screenshotHandler)
	resp := postJSON(t, app, "/v1/screenshot", map[string]any{"url": "https://x.com"})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestJobStatusHandlerInvalidID(t *testing.T) {
	app := testApp(&config.Config{}, &Services{}, http.MethodGet, "/v1/jobs/:id", jobStatusHandler)
	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/not-a-uuid", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestOutreachHandlerValidation(t *testing.T) {
	app := testApp(&config.Config{}, &Services{Outreach: &fakeOutreach{}},
		http.MethodPost, "/v1/outreach/email", outreachEmailHandler)
	resp := postJSON(t, app, "/v1/outreach/email", map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing leadId: status = %d", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{Enabled: true}}
	app := fiber.New()
	app.Use(authMiddleware(cfg, nil))
	app.Get("/v1/leads", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// no header at all
	req := httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no header: status = %d", resp.StatusCode)
	}

	// wrong key prefix never reaches the store
	req = httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set("Authorization", "Bearer sk_wrong_prefix")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad prefix: status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("UNAUTHENTICATED")) {
		t.Fatalf("body = %s", body)
	}
}
