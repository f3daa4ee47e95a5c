package providers

import "fmt"

// maxErrorBodyLen bounds upstream error bodies included in messages.
const maxErrorBodyLen = 512

// UpstreamTimeoutError means the provider did not answer within the
// per-call timeout. Maps to a gateway-timeout class at the HTTP surface.
type UpstreamTimeoutError struct {
	Provider string
	Err      error
}

func (e *UpstreamTimeoutError) Error() string {
	return fmt.Sprintf("%s: upstream timeout: %v", e.Provider, e.Err)
}

func (e *UpstreamTimeoutError) Unwrap() error { return e.Err }

// UpstreamStatusError means the provider answered with a non-success
// status. The body is truncated to bound response size.
type UpstreamStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: upstream error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// UpstreamConnectionError means the provider could not be reached at all.
type UpstreamConnectionError struct {
	Provider string
	Err      error
}

func (e *UpstreamConnectionError) Error() string {
	return fmt.Sprintf("%s: connection failed: %v", e.Provider, e.Err)
}

func (e *UpstreamConnectionError) Unwrap() error { return e.Err }

// truncateBody clips an upstream response body for error messages.
func truncateBody(body string) string {
	if len(body) > maxErrorBodyLen {
		return body[:maxErrorBodyLen] + "..."
	}
	return body
}
