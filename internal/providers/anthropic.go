package providers

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

	"github.com/google/uuid"
)

const (
	AnthropicName    = "anthropic"
	AnthropicBaseURL = "https://api.anthropic.com"

	anthropicVersion = "2023-06-01"
)

// AnthropicConfig holds configuration for the Anthropic client.
type AnthropicConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// AnthropicClient implements LLMClient against the Anthropic Messages API.
// Calls are never retried; failures surface to the caller that triggered
// them.
type AnthropicClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	timeout      time.Duration
	client       *http.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = AnthropicBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "claude-3-5-haiku-latest"
	}
	if cfg.Timeout == 0 {
		// Model inference over long prompts is slow; be generous.
		cfg.Timeout = 5 * time.Minute
	}

	return &AnthropicClient{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		defaultModel: cfg.DefaultModel,
		timeout:      cfg.Timeout,
		client:       &http.Client{},
	}
}

// Name returns the client identifier.
func (c *AnthropicClient) Name() string {
	return AnthropicName
}

// GenerateText sends a one-shot message request.
func (c *AnthropicClient) GenerateText(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	aReq := anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	}
	bodyBytes, err := json.Marshal(aReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamStatusError{
			Provider:   AnthropicName,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(string(respBody)),
		}
	}

	var aResp anthropicResponse
	if err := json.Unmarshal(respBody, &aResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var text strings.Builder
	for _, block := range aResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &GenerateResult{
		Text:             text.String(),
		PromptTokens:     aResp.Usage.InputTokens,
		CompletionTokens: aResp.Usage.OutputTokens,
		TotalTokens:      aResp.Usage.InputTokens + aResp.Usage.OutputTokens,
		ExecutionTime:    time.Since(start),
		Provider:         AnthropicName,
		ModelUsed:        aResp.Model,
		RequestID:        requestID,
	}, nil
}

// mapTransportError sorts network failures into the upstream error taxonomy.
func (c *AnthropicClient) mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamTimeoutError{Provider: AnthropicName, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &UpstreamTimeoutError{Provider: AnthropicName, Err: err}
	}
	return &UpstreamConnectionError{Provider: AnthropicName, Err: err}
}

// Anthropic API types

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Verify interface
var _ LLMClient = (*AnthropicClient)(nil)
