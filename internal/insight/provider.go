package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider is the capability interface for text-insight generation. A
// sequential or a concurrent caller may satisfy requests through it without
// changing the contract.
type Provider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	IsConfigured() bool
}

// ErrNoCandidates marks a successful exchange whose response carried no
// usable candidate text.
var ErrNoCandidates = errors.New("no candidates in response")

// DefaultEndpoint is the Gemini API base URL.
const DefaultEndpoint = "https://generativelanguage.googleapis.com"

const placeholderKey = "YOUR_GEMINI_API_KEY"

// GeminiProvider calls the Gemini generateContent API.
type GeminiProvider struct {
	Model    string
	Endpoint string
	APIKey   string
	client   *http.Client
}

// NewGeminiProvider creates a Gemini provider. An empty endpoint falls back
// to the public API; timeout <= 0 falls back to 60 seconds.
func NewGeminiProvider(model, endpoint, apiKey string, timeout time.Duration) *GeminiProvider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiProvider{
		Model:    model,
		Endpoint: endpoint,
		APIKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether a usable API key is present. A placeholder
// value counts as unconfigured.
func (g *GeminiProvider) IsConfigured() bool {
	return g.APIKey != "" && g.APIKey != placeholderKey
}

// Generate sends a single-turn prompt and returns the first text part of the
// first candidate. A well-formed response without candidate text returns
// ErrNoCandidates.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": prompt}},
			},
		},
	}
	if maxTokens > 0 {
		body["generationConfig"] = map[string]any{"maxOutputTokens": maxTokens}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimSuffix(g.Endpoint, "/"), g.Model, url.QueryEscape(g.APIKey))

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}
	text := result.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrNoCandidates
	}
	return text, nil
}
