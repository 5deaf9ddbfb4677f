// Package openai provides a concept-extraction adapter using an
// OpenAI-compatible chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.ConceptExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerMinute is the client-side rate limit applied
	// before each API call.
	DefaultRequestsPerMinute = 30
)

// Config holds configuration for the extraction adapter.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can point at any compatible endpoint.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerMinute caps outbound call rate (default: 30).
	RequestsPerMinute int
}

// Extractor calls a chat completions endpoint and parses the model's
// JSON reply into a validated ExtractionResult.
type Extractor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new extraction adapter.
func New(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}, nil
}

// ExtractConcepts analyses a content sample and returns structured
// concepts. Transport failures, timeouts and rate-limit responses are
// reported as ErrExtractionUnavailable so the pipeline can degrade.
func (e *Extractor) ExtractConcepts(ctx context.Context, sample string, kind domain.SourceKind) (*domain.ExtractionResult, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionUnavailable, err)
	}

	content, err := e.chatCompletion(ctx, extractionPrompt(sample, kind))
	if err != nil {
		return nil, err
	}

	result, err := parseExtraction(content)
	if err != nil {
		logger.Warn("Unparseable extraction response: %v", err)
		return domain.EmptyExtraction(), nil
	}
	return result, nil
}

// Summarise produces a short summary of document content.
func (e *Extractor) Summarise(ctx context.Context, content string, maxWords int) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionUnavailable, err)
	}

	prompt := fmt.Sprintf(
		"Summarise the following document in at most %d words. Reply with the summary only.\n\n%s",
		maxWords, content)
	return e.chatCompletion(ctx, prompt)
}

// ModelName returns the configured model name.
func (e *Extractor) ModelName() string {
	return e.model
}

// Close releases resources.
func (e *Extractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// chatCompletion sends one user prompt and returns the reply text.
func (e *Extractor) chatCompletion(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: e.model,
		Messages: []chatCompletionMsg{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrExtractionUnavailable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: status %d", domain.ErrExtractionUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: status %d: %s", resp.StatusCode, truncateBody(body))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// truncateBody bounds error detail from the API.
func truncateBody(body []byte) string {
	const maxLen = 300
	s := string(body)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
