package outreach

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"frontdesk/internal/errs"
	"frontdesk/internal/model"
)

// scriptedLLM returns one canned response per call, in order.
type scriptedLLM struct {
	responses []string
	errAt     int // 1-based call index that fails, 0 for never
	calls     int
	prompts   []string
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.errAt == s.calls {
		return "", errors.New("llm unavailable")
	}
	if s.calls > len(s.responses) {
		return "", errors.New("unexpected extra call")
	}
	return s.responses[s.calls-1], nil
}

func testGenerator(client *scriptedLLM) *Generator {
	return NewGenerator(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testLead() *model.Lead {
	return &model.Lead{
		ID:      "lead-1",
		Name:    "Glow Medspa",
		Website: "https://glow.example",
	}
}

func TestGenerateEmailRunsAllFourSteps(t *testing.T) {
	client := &scriptedLLM{responses: []string{
		"Glow Medspa offers botox and facials to busy professionals.",
		"They likely miss calls during treatments.",
		"Hi Glow Medspa,\n\nYour front desk deserves backup.\n\nThe Frontdesk Team",
		"Never miss another booking",
	}}

	email, err := testGenerator(client).GenerateEmail(context.Background(), testLead())
	if err != nil {
		t.Fatalf("GenerateEmail: %v", err)
	}
	if client.calls != 4 {
		t.Fatalf("llm calls = %d, want 4", client.calls)
	}
	if email.Subject != "Never miss another booking" {
		t.Fatalf("subject = %q", email.Subject)
	}
	if !strings.Contains(email.Body, "front desk") {
		t.Fatalf("body = %q", email.Body)
	}
	if email.Summary == "" || email.Angle == "" {
		t.Fatal("intermediate artifacts dropped")
	}

	// each step feeds the next
	if !strings.Contains(client.prompts[1], "busy professionals") {
		t.Fatal("angle prompt missing summary")
	}
	if !strings.Contains(client.prompts[2], "miss calls during treatments") {
		t.Fatal("body prompt missing angle")
	}
	if !strings.Contains(client.prompts[3], "deserves backup") {
		t.Fatal("subject prompt missing body")
	}
}

func TestGenerateEmailSubjectFallback(t *testing.T) {
	client := &scriptedLLM{
		responses: []string{
			"summary",
			"angle",
			"Hi there,\nYour bookings are slipping through the cracks.\nThe Frontdesk Team",
			"unused",
		},
		errAt: 4,
	}

	email, err := testGenerator(client).GenerateEmail(context.Background(), testLead())
	if err != nil {
		t.Fatalf("GenerateEmail: %v", err)
	}
	if email.Subject != "Your bookings are slipping through the cracks." {
		t.Fatalf("fallback subject = %q", email.Subject)
	}
}

func TestGenerateEmailEarlyStepFailureIsFatal(t *testing.T) {
	client := &scriptedLLM{responses: []string{"summary"}, errAt: 2}
	if _, err := testGenerator(client).GenerateEmail(context.Background(), testLead()); err == nil {
		t.Fatal("expected error when angle step fails")
	}
	if client.calls != 2 {
		t.Fatalf("llm calls = %d, want chain to stop at failing step", client.calls)
	}
}

func TestGenerateEmailRequiresProfileData(t *testing.T) {
	_, err := testGenerator(&scriptedLLM{}).GenerateEmail(context.Background(), &model.Lead{ID: "bare"})
	if !errs.Is(err, errs.CodeEmptyInput) {
		t.Fatalf("code = %v, want EMPTY_INPUT", errs.CodeOf(err))
	}

	_, err = testGenerator(&scriptedLLM{}).GenerateEmail(context.Background(), nil)
	if !errs.Is(err, errs.CodeInvalidArg) {
		t.Fatalf("code = %v, want INVALID_ARGUMENT", errs.CodeOf(err))
	}
}
