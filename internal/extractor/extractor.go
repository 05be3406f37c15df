// Package extractor turns stored raw crawl data into a structured
// receptionist config with a single LLM call.
package extractor

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"unicode/utf8"

	"frontdesk/internal/bizconfig"
	"frontdesk/internal/config"
	"frontdesk/internal/errs"
	"frontdesk/internal/llm"
	"frontdesk/internal/model"
)

// Store is the persistence surface the extractor needs.
type Store interface {
	GetRawCrawl(ctx context.Context, key model.OwnerKey) (*model.RawCrawlRecord, error)
	SetLeadScrapedData(ctx context.Context, id string, data json.RawMessage) error
	SetBusinessConfig(ctx context.Context, id string, config json.RawMessage) error
}

type Extractor struct {
	store         Store
	llm           llm.Client
	maxInputChars int
	logger        *slog.Logger
}

func New(store Store, client llm.Client, cfg config.ExtractorConfig, logger *slog.Logger) *Extractor {
	maxInputChars := cfg.MaxInputChars
	if maxInputChars <= 0 {
		maxInputChars = 100_000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		store:         store,
		llm:           client,
		maxInputChars: maxInputChars,
		logger:        logger,
	}
}

// Extract loads the owner's raw crawl data, asks the model for a
// structured config, normalizes it and persists it on the owning row.
// The config id is always forced to the owner id, regardless of what
// the model returned.
func (e *Extractor) Extract(ctx context.Context, key model.OwnerKey, domainHint string) (*bizconfig.BusinessConfig, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	rec, err := e.store.GetRawCrawl(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errs.New(errs.CodeNotFound, "no raw crawl data stored for %s", key)
	}

	input := buildInput(rec)
	if strings.TrimSpace(input) == "" {
		return nil, errs.New(errs.CodeEmptyInput, "stored crawl data for %s has no text or html", key)
	}
	if len(input) > e.maxInputChars {
		// Back off to the previous rune boundary so the cap never
		// splits a multi-byte character.
		cut := e.maxInputChars
		for cut > 0 && !utf8.RuneStart(input[cut]) {
			cut--
		}
		e.logger.Info("truncating extraction input",
			"owner", key.String(), "chars", len(input), "cap", e.maxInputChars)
		input = input[:cut]
	}

	raw, err := e.llm.Generate(ctx, buildPrompt(key.ID(), domainHint, input))
	if err != nil {
		return nil, err
	}
	fields, err := llm.ParseJSONObject(raw)
	if err != nil {
		return nil, err
	}

	cfg := bizconfig.Normalize(fields)
	cfg.ID = key.ID()

	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if key.LeadID != "" {
		err = e.store.SetLeadScrapedData(ctx, key.LeadID, payload)
	} else {
		err = e.store.SetBusinessConfig(ctx, key.BusinessID, payload)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info("business config extracted",
		"owner", key.String(), "services", len(cfg.Services), "locations", len(cfg.Locations))
	return cfg, nil
}

// buildInput assembles the model input: the stored top-level text (or
// html when no text exists) followed by each page's text. Repetition is
// fine, the model deduplicates semantically.
func buildInput(rec *model.RawCrawlRecord) string {
	parts := []string{}
	if strings.TrimSpace(rec.RawText) != "" {
		parts = append(parts, rec.RawText)
	} else if strings.TrimSpace(rec.RawHTML) != "" {
		parts = append(parts, rec.RawHTML)
	}

	if len(rec.Pages) > 0 {
		var pages []model.CrawlPage
		if err := json.Unmarshal(rec.Pages, &pages); err == nil {
			for _, p := range pages {
				if strings.TrimSpace(p.RawText) != "" {
					parts = append(parts, p.RawText)
				}
			}
		}
	}
	return strings.Join(parts, model.PageSeparator)
}
