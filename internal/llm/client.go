package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vietddude/codementor/internal/metrics"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("AI service is not configured")

// Config holds the chat completion provider settings.
type Config struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxInputTokens int           `yaml:"max_input_tokens"`
}

// APIError is a non-2xx reply from the provider.
type APIError struct {
	Status     int
	Message    string
	RetryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider http %d: %s", e.Status, e.Message)
}

func (e *APIError) StatusCode() int { return e.Status }

func (e *APIError) ServerMessage() string { return e.Message }

// throttlePatterns mark quota errors some providers report with other statuses.
var throttlePatterns = []string{
	"rate limit",
	"too many requests",
	"quota exceeded",
	"insufficient_quota",
}

func isThrottleMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, p := range throttlePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a provider client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: slog.Default().With("component", "llm"),
	}
}

// Configured reports whether requests can be sent at all.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// complete sends a single user message and returns the first choice.
func (c *Client) complete(ctx context.Context, kind, prompt string, temperature float64, maxTokens int) (string, error) {
	if !c.Configured() {
		metrics.LLMCalls.WithLabelValues(kind, "not_configured").Inc()
		return "", ErrNotConfigured
	}

	jsonData, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.LLMCalls.WithLabelValues(kind, "transport_error").Inc()
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.LLMCalls.WithLabelValues(kind, "transport_error").Inc()
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			Status:     resp.StatusCode,
			Message:    gjson.GetBytes(body, "error.message").String(),
			RetryAfter: resp.Header.Get("Retry-After"),
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if apiErr.Status != http.StatusTooManyRequests && isThrottleMessage(apiErr.Message) {
			apiErr.Status = http.StatusTooManyRequests
		}
		metrics.LLMCalls.WithLabelValues(kind, strconv.Itoa(apiErr.Status)).Inc()
		c.log.Warn("Provider returned error",
			"kind", kind,
			"status", resp.StatusCode,
			"message", apiErr.Message,
			"retry_after", apiErr.RetryAfter,
		)
		return "", apiErr
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		metrics.LLMCalls.WithLabelValues(kind, "malformed").Inc()
		return "", &APIError{Status: http.StatusBadGateway, Message: "empty completion"}
	}

	metrics.LLMCalls.WithLabelValues(kind, "ok").Inc()
	c.log.Debug("Completion received", "kind", kind, "latency", time.Since(start))
	return content.String(), nil
}

// Explain returns a plain-language explanation of code.
func (c *Client) Explain(ctx context.Context, code, language, level string) (string, error) {
	return c.complete(ctx, "explain", ExplainPrompt(code, language, level), 0.7, 1000)
}

// Debug returns step-by-step debugging guidance.
func (c *Client) Debug(ctx context.Context, code, errText, description string) (string, error) {
	return c.complete(ctx, "debug", DebugPrompt(code, errText, description), 0.7, 1500)
}

// GeneratePlan asks for a plan and extracts its JSON document.
func (c *Client) GeneratePlan(ctx context.Context, req PlanRequest) (*PlanDraft, error) {
	text, err := c.complete(ctx, "generate_plan", PlanPrompt(req), 0.8, 2000)
	if err != nil {
		return nil, err
	}
	return ExtractPlan(text)
}
