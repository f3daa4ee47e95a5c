package curriculum

import "fmt"

// MalformedModelOutputError means the model was asked for strict JSON and
// returned something else. Raw carries the model text for caller-side
// debugging.
type MalformedModelOutputError struct {
	Raw string
	Err error
}

func (e *MalformedModelOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *MalformedModelOutputError) Unwrap() error { return e.Err }
