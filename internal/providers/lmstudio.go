package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	LMStudioName    = "lmstudio"
	LMStudioBaseURL = "http://localhost:1234/v1"
)

// LMStudioConfig holds configuration for the LM Studio client.
type LMStudioConfig struct {
	BaseURL      string
	APIKey       string
	DefaultModel string
	Timeout      time.Duration
}

// LMStudioClient implements LLMClient against a local LM Studio server,
// which speaks the OpenAI chat-completions dialect. No retries: local
// inference failures are surfaced directly.
type LMStudioClient struct {
	baseURL      string
	defaultModel string
	timeout      time.Duration
	client       openai.Client
}

// NewLMStudioClient creates a new LM Studio client.
func NewLMStudioClient(cfg LMStudioConfig) *LMStudioClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = LMStudioBaseURL
	}
	if cfg.APIKey == "" {
		// LM Studio ignores the key but the SDK requires one.
		cfg.APIKey = "lm-studio"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
	)

	return &LMStudioClient{
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		timeout:      cfg.Timeout,
		client:       client,
	}
}

// Name returns the client identifier.
func (c *LMStudioClient) Name() string {
	return LMStudioName
}

// GenerateText sends a one-shot chat completion request.
func (c *LMStudioClient) GenerateText(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, c.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &UpstreamStatusError{
			Provider:   LMStudioName,
			StatusCode: http.StatusOK,
			Body:       "no choices in response",
		}
	}

	return &GenerateResult{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
		Provider:         LMStudioName,
		ModelUsed:        resp.Model,
		RequestID:        requestID,
	}, nil
}

// mapError sorts SDK failures into the upstream error taxonomy.
func (c *LMStudioClient) mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &UpstreamStatusError{
			Provider:   LMStudioName,
			StatusCode: apiErr.StatusCode,
			Body:       truncateBody(apiErr.Message),
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamTimeoutError{Provider: LMStudioName, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &UpstreamTimeoutError{Provider: LMStudioName, Err: err}
	}
	return &UpstreamConnectionError{Provider: LMStudioName, Err: err}
}

// Verify interface
var _ LLMClient = (*LMStudioClient)(nil)
