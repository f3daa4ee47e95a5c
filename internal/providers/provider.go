package providers

import (
	"context"
	"time"
)

// LLMClient is the common capability interface over chat-completion
// backends. One-shot prompt in, generated text out.
type LLMClient interface {
	// GenerateText sends a single completion request.
	GenerateText(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g. "anthropic", "lmstudio").
	Name() string
}

// GenerateRequest is a one-shot generation request.
type GenerateRequest struct {
	// Required
	Prompt string

	// Optional system instruction.
	System string

	// Model selection (uses client default if empty)
	Model string

	// Generation parameters
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	// Request tracking
	RequestID string
}

// GenerateResult is the response from a generation call.
type GenerateResult struct {
	Text string `json:"text"`

	// Token counts, when the backend reports them.
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
}

// Provider selection values accepted from configuration and requests.
const (
	SelectionAuto      = "auto"
	SelectionAnthropic = "anthropic"
	SelectionLMStudio  = "lmstudio"
)
