package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/foodvanpos/posd/pkg/logger"
)

// DefaultBaseURL is the default text-generation API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// GeminiClient calls a Gemini-style generateContent endpoint.
type GeminiClient struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
	log     *logger.Logger
}

var _ Generator = (*GeminiClient)(nil)

// NewGeminiClient constructs a client. baseURL and model fall back to the
// defaults; the API key is required.
func NewGeminiClient(client *http.Client, baseURL, model, apiKey string, log *logger.Logger) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("insights API key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse insights endpoint: %w", err)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("insights-gemini")
	}
	return &GeminiClient{
		client:  client,
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		log:     log,
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Generate posts the prompt and returns the first candidate's text verbatim.
// The response is otherwise neither parsed nor validated.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send generate request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.WithField("status", resp.StatusCode).Warn("insights endpoint returned non-OK status")
		return "", fmt.Errorf("insights endpoint status %d", resp.StatusCode)
	}

	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text").String()
	return text, nil
}
