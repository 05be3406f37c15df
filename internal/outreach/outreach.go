// Package outreach generates cold outreach emails for leads using a
// fixed linear chain of LLM calls.
package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"frontdesk/internal/bizconfig"
	"frontdesk/internal/errs"
	"frontdesk/internal/llm"
	"frontdesk/internal/metrics"
	"frontdesk/internal/model"
)

// Email is a generated outreach email plus the intermediate artifacts,
// kept for review and debugging.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Summary string `json:"summary"`
	Angle   string `json:"angle"`
}

type Generator struct {
	llm    llm.Client
	logger *slog.Logger
}

func NewGenerator(client llm.Client, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: client, logger: logger}
}

// GenerateEmail runs the four-step chain: summarize the lead's
// business, pick a selling angle, write the body, then write the
// subject. Each step feeds the next; only the subject step has a
// non-LLM fallback.
func (g *Generator) GenerateEmail(ctx context.Context, lead *model.Lead) (*Email, error) {
	if lead == nil {
		return nil, errs.New(errs.CodeInvalidArg, "lead is required")
	}

	profile := leadProfile(lead)
	if strings.TrimSpace(profile) == "" {
		return nil, errs.New(errs.CodeEmptyInput, "lead %q has no profile data to write from", lead.ID)
	}

	summary, err := g.step(ctx, fmt.Sprintf(
		"Summarize this medical spa in 2-3 sentences for a salesperson. Focus on what they offer and who their clients are.\n\n%s", profile))
	if err != nil {
		return nil, err
	}

	angle, err := g.step(ctx, fmt.Sprintf(
		"A company sells an AI receptionist that answers calls and messages for medspas, books appointments, and never misses a lead.\nGiven this business summary, state the single strongest reason this specific business would benefit. One sentence.\n\nSummary: %s", summary))
	if err != nil {
		return nil, err
	}

	body, err := g.step(ctx, fmt.Sprintf(
		"Write a short, friendly cold outreach email (under 120 words) to %s pitching an AI receptionist for their medspa.\nLead with this angle: %s\nNo subject line, no placeholders, sign off as \"The Frontdesk Team\".\n\nBusiness summary: %s",
		greetingName(lead), angle, summary))
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)

	subject, err := g.step(ctx, fmt.Sprintf(
		"Write one short email subject line (under 8 words) for this email. Return only the subject text.\n\n%s", body))
	if err != nil || strings.TrimSpace(subject) == "" {
		// subject is the only non-essential step
		g.logger.Warn("subject generation failed, deriving from body", "lead_id", lead.ID, "error", err)
		subject = subjectFromBody(body)
	}

	g.logger.Info("outreach email generated", "lead_id", lead.ID)
	return &Email{
		Subject: strings.Trim(strings.TrimSpace(subject), `"`),
		Body:    body,
		Summary: strings.TrimSpace(summary),
		Angle:   strings.TrimSpace(angle),
	}, nil
}

func (g *Generator) step(ctx context.Context, prompt string) (string, error) {
	out, err := g.llm.Generate(ctx, prompt)
	metrics.RecordLLMCall("outreach", err == nil)
	return out, err
}

// leadProfile flattens what we know about the lead into prompt text:
// contact fields plus the business config extracted from their site,
// when present.
func leadProfile(lead *model.Lead) string {
	var sb strings.Builder
	if lead.Name != "" {
		fmt.Fprintf(&sb, "Business: %s\n", lead.Name)
	}
	if lead.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", lead.Website)
	}
	if lead.Instagram != "" {
		fmt.Fprintf(&sb, "Instagram: %s\n", lead.Instagram)
	}

	if len(lead.ScrapedData) > 0 {
		var cfg bizconfig.BusinessConfig
		if err := json.Unmarshal(lead.ScrapedData, &cfg); err == nil {
			if cfg.Tagline != "" {
				fmt.Fprintf(&sb, "Tagline: %s\n", cfg.Tagline)
			}
			var names []string
			for _, svc := range cfg.Services {
				names = append(names, svc.Name)
			}
			if len(names) > 0 {
				fmt.Fprintf(&sb, "Services: %s\n", strings.Join(names, ", "))
			}
			for _, loc := range cfg.Locations {
				if loc.Address != "" {
					fmt.Fprintf(&sb, "Location: %s\n", loc.Address)
				}
			}
		}
	}
	return sb.String()
}

func greetingName(lead *model.Lead) string {
	if lead.Name != "" {
		return lead.Name
	}
	return "the team"
}

// subjectFromBody derives a subject from the first non-greeting line of
// the body.
func subjectFromBody(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(strings.ToLower(line), "hi ") ||
			strings.HasPrefix(strings.ToLower(line), "hello") {
			continue
		}
		if len(line) > 60 {
			line = line[:60]
		}
		return line
	}
	return "Quick question about your front desk"
}
