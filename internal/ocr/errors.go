package ocr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyInput indicates an upload with zero bytes.
	ErrEmptyInput = errors.New("empty image input")
	// ErrInvalidImage indicates bytes that do not decode as an image.
	ErrInvalidImage = errors.New("image could not be decoded")
)

// EngineUnavailableError is returned when no tesseract binary could be
// located. The searched locations are kept so operators can see where the
// lookup failed.
type EngineUnavailableError struct {
	Searched []string
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("tesseract binary not found (searched: %s)", strings.Join(e.Searched, ", "))
}
