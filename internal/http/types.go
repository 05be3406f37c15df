package http

import (
	"context"
	"encoding/json"

	"frontdesk/internal/bizconfig"
	"frontdesk/internal/model"
	"frontdesk/internal/outreach"
)

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Crawler starts a remote crawl and waits for its result.
type Crawler interface {
	ScrapeSite(ctx context.Context, siteURL string) (*model.CrawlResult, error)
}

// ConfigExtractor runs the LLM extraction pipeline for an owner.
type ConfigExtractor interface {
	Extract(ctx context.Context, key model.OwnerKey, domainHint string) (*bizconfig.BusinessConfig, error)
}

// OutreachGenerator writes a cold outreach email for a lead.
type OutreachGenerator interface {
	GenerateEmail(ctx context.Context, lead *model.Lead) (*outreach.Email, error)
}

// ScreenshotCapturer renders a page and returns PNG bytes.
type ScreenshotCapturer interface {
	Capture(ctx context.Context, url string, fullPage bool) ([]byte, error)
}

// Services groups the pipeline collaborators handlers pull from request
// context.
type Services struct {
	Crawler    Crawler
	Extractor  ConfigExtractor
	Outreach   OutreachGenerator
	Screenshot ScreenshotCapturer
}

// OwnerRequest carries the exactly-one-of owner key used by scrape and
// extract endpoints.
type OwnerRequest struct {
	LeadID     string `json:"leadId,omitempty"`
	BusinessID string `json:"businessId,omitempty"`
}

func (r OwnerRequest) Key() model.OwnerKey {
	return model.OwnerKey{LeadID: r.LeadID, BusinessID: r.BusinessID}
}

type ScrapeSiteRequest struct {
	OwnerRequest
	URL string `json:"url"`
}

type ScrapeSiteResponse struct {
	Success bool                  `json:"success"`
	Record  *model.RawCrawlRecord `json:"record"`
}

type RawCrawlResponse struct {
	Success bool                  `json:"success"`
	Record  *model.RawCrawlRecord `json:"record"`
}

type ExtractConfigRequest struct {
	OwnerRequest
	Domain string `json:"domain,omitempty"`
}

type ExtractConfigResponse struct {
	Success bool                      `json:"success"`
	Config  *bizconfig.BusinessConfig `json:"config"`
}

type EnqueueScrapeRequest struct {
	OwnerRequest
	URL string `json:"url"`
}

type EnqueueScrapeResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	URL     string `json:"url"`
}

type JobStatusResponse struct {
	Success bool            `json:"success"`
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Output  json.RawMessage `json:"output,omitempty"`
}

type OutreachEmailRequest struct {
	LeadID string `json:"leadId"`
}

type OutreachEmailResponse struct {
	Success bool            `json:"success"`
	Email   *outreach.Email `json:"email"`
}

type ScreenshotRequest struct {
	URL      string `json:"url"`
	FullPage bool   `json:"fullPage,omitempty"`
}

type ScreenshotResponse struct {
	Success bool   `json:"success"`
	Format  string `json:"format"`
	Data    string `json:"data"` // base64 png
}

type LeadRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Website   string `json:"website,omitempty"`
	Status    string `json:"status,omitempty"`
}

type LeadResponse struct {
	Success bool        `json:"success"`
	Lead    *model.Lead `json:"lead"`
}

type LeadListResponse struct {
	Success bool         `json:"success"`
	Leads   []model.Lead `json:"leads"`
}

type BusinessRequest struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

type BusinessResponse struct {
	Success  bool            `json:"success"`
	Business *model.Business `json:"business"`
}

type BusinessListResponse struct {
	Success    bool             `json:"success"`
	Businesses []model.Business `json:"businesses"`
}

type CreateAPIKeyRequest struct {
	Label              string `json:"label"`
	IsAdmin            bool   `json:"isAdmin,omitempty"`
	RateLimitPerMinute *int   `json:"rateLimitPerMinute,omitempty"`
}

type CreateAPIKeyResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Key     string `json:"key"`
	Label   string `json:"label"`
}
