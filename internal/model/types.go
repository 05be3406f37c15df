package model

import (
	"encoding/json"
	"time"

	"frontdesk/internal/errs"
)

// PageSeparator joins per-page text when building combined crawl text
// and when assembling LLM extraction input. The two sides must agree so
// stored text round-trips cleanly.
const PageSeparator = "\n\n---\n\n"

// CrawlPage is one crawled page in canonical form.
type CrawlPage struct {
	URL      string         `json:"url"`
	RawHTML  string         `json:"rawHtml"`
	RawText  string         `json:"rawText"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CrawlResult is the canonical shape every crawl-service response is
// normalized into before storage. RawHTML/RawText describe the main
// page (first page crawled); RawText additionally carries the joined
// text of all pages when more than one was found.
type CrawlResult struct {
	RawHTML  string         `json:"rawHtml"`
	RawText  string         `json:"rawText"`
	Pages    []CrawlPage    `json:"pages"`
	Metadata map[string]any `json:"metadata"`
}

// OwnerKey identifies the entity a crawl belongs to. Exactly one of the
// two ids must be set.
type OwnerKey struct {
	LeadID     string
	BusinessID string
}

// Validate enforces the exactly-one-owner rule.
func (k OwnerKey) Validate() error {
	if k.LeadID == "" && k.BusinessID == "" {
		return errs.New(errs.CodeInvalidArg, "either leadId or businessId is required")
	}
	if k.LeadID != "" && k.BusinessID != "" {
		return errs.New(errs.CodeInvalidArg, "leadId and businessId are mutually exclusive")
	}
	return nil
}

// ID returns whichever id is set.
func (k OwnerKey) ID() string {
	if k.LeadID != "" {
		return k.LeadID
	}
	return k.BusinessID
}

func (k OwnerKey) String() string {
	if k.LeadID != "" {
		return "lead:" + k.LeadID
	}
	return "business:" + k.BusinessID
}

// RawCrawlRecord is the persisted form of a CrawlResult, keyed by its
// owning lead or business. At most one record exists per owner.
type RawCrawlRecord struct {
	ID         string          `json:"id"`
	LeadID     string          `json:"leadId,omitempty"`
	BusinessID string          `json:"businessId,omitempty"`
	RawHTML    string          `json:"rawHtml"`
	RawText    string          `json:"rawText"`
	Pages      json.RawMessage `json:"pages"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Lead is a prospective customer discovered during lead generation.
type Lead struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Instagram   string          `json:"instagram,omitempty"`
	Website     string          `json:"website,omitempty"`
	Status      string          `json:"status,omitempty"`
	ScrapedData json.RawMessage `json:"scrapedData,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Business is an onboarded customer with a structured receptionist config.
type Business struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Website   string          `json:"website,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
