package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailWith     error // returned instead of the generic failure when set
	FailAfter    int   // Fail after N requests (0 = never)
	ResponseText string

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// GenerateText sends a mock generation request.
func (c *MockClient) GenerateText(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	if c.ShouldFail || (c.FailAfter > 0 && int(count) > c.FailAfter) {
		if c.FailWith != nil {
			return nil, c.FailWith
		}
		return nil, fmt.Errorf("mock client configured to fail")
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &GenerateResult{
		Text:             c.ResponseText,
		PromptTokens:     len(req.Prompt) / 4, // Rough estimate
		CompletionTokens: len(c.ResponseText) / 4,
		TotalTokens:      (len(req.Prompt) + len(c.ResponseText)) / 4,
		ExecutionTime:    time.Since(start),
		Provider:         MockClientName,
		ModelUsed:        req.Model,
		RequestID:        fmt.Sprintf("mock-%d", count),
	}, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
