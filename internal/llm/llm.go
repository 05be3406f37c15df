package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"frontdesk/internal/config"
	"frontdesk/internal/errs"
)

// Client is the single-call text-generation abstraction the extraction
// and outreach pipelines build on.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// googleClient implements Client using Gemini's generateContent API.
// Authentication is either a service-account bearer token (when a
// credentials file is configured) or an API key query parameter; never
// both on the same request, and credentials never fall back to the key.
type googleClient struct {
	apiKey  string
	baseURL string
	model   string
	tokens  oauth2.TokenSource
	http    *http.Client
}

// NewClientFromConfig builds the Gemini client. A configured
// credentials file that cannot be loaded is a hard error rather than a
// silent downgrade to API-key auth.
func NewClientFromConfig(cfg config.GoogleLLMConfig) (Client, error) {
	if cfg.Model == "" {
		return nil, errs.New(errs.CodeConfiguration, "llm model is not configured")
	}

	c := &googleClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	if c.baseURL == "" {
		c.baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	if cfg.CredentialsFile != "" {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, errs.Wrap(errs.CodeConfiguration, err, "failed to read llm credentials file")
		}
		creds, err := google.CredentialsFromJSON(context.Background(), raw,
			"https://www.googleapis.com/auth/generative-language",
			"https://www.googleapis.com/auth/cloud-platform")
		if err != nil {
			return nil, errs.Wrap(errs.CodeConfiguration, err, "failed to parse llm credentials file")
		}
		c.tokens = creds.TokenSource
		return c, nil
	}

	if cfg.APIKey == "" {
		return nil, errs.New(errs.CodeConfiguration, "llm requires either an api key or a credentials file")
	}
	return c, nil
}

// googleGenerateContentRequest & response are minimal shapes for Gemini's generateContent.
type googleGenerateContentRequest struct {
	Contents []googleContent `json:"contents"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text,omitempty"`
}

type googleGenerateContentResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
}

func (c *googleClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(googleGenerateContentRequest{
		Contents: []googleContent{
			{Parts: []googlePart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	if c.tokens == nil {
		endpoint += "?key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return "", errs.Wrap(errs.CodeRemote, err, "failed to mint llm access token")
		}
		tok.SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.CodeRemote, err, "generateContent request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errs.New(errs.CodeRemote, "generateContent returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed googleGenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errs.Wrap(errs.CodeRemote, err, "generateContent returned malformed response")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errs.New(errs.CodeRemote, "generateContent returned no candidates")
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
