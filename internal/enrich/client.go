// Package enrich produces sentiment, theme, and recommendation
// analyses for scraped products. A generative-language backend does
// the heavy lifting; a deterministic rule-based substitute guarantees
// a fully populated result on every failure path.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// Generator is the generative-language capability boundary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator builds the configured backend.
func NewGenerator(cfg config.AI, logger *slog.Logger) (Generator, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(cfg, logger), nil
	case "custom":
		return NewCustomClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient talks to the Gemini generateContent API.
type GeminiClient struct {
	cfg    config.AI
	client *http.Client
	logger *slog.Logger
}

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(cfg config.AI, logger *slog.Logger) *GeminiClient {
	return &GeminiClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.With("component", "gemini_client"),
	}
}

// Generate sends a prompt and returns the first candidate's text.
// Rate-limit and quota responses map to ErrQuotaExceeded so callers
// can switch to the substitute without string matching.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	body, _ := json.Marshal(payload)

	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", endpoint, c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || isQuotaBody(respBody) {
		return "", fmt.Errorf("gemini status %d: %w", resp.StatusCode, types.ErrQuotaExceeded)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
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
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

func isQuotaBody(body []byte) bool {
	s := string(body)
	return strings.Contains(s, "RESOURCE_EXHAUSTED") || strings.Contains(strings.ToLower(s), "quota")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// CustomClient posts the prompt to a user-supplied endpoint and
// returns the raw response body.
type CustomClient struct {
	cfg    config.AI
	client *http.Client
	logger *slog.Logger
}

// NewCustomClient creates a client for a custom generation endpoint.
func NewCustomClient(cfg config.AI, logger *slog.Logger) *CustomClient {
	return &CustomClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.With("component", "custom_client"),
	}
}

func (c *CustomClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"prompt": prompt,
		"model":  c.cfg.Model,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", types.ErrQuotaExceeded
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(respBody), nil
}
