package ocr

import (
	"context"
	"os"
	"os/exec"
)

// Options are passed through to the OCR engine per call.
type Options struct {
	// Lang is the tesseract language pack spec (e.g. "kor+eng").
	Lang string
	// PageSegMode is tesseract --psm.
	PageSegMode int
	// EngineMode is tesseract --oem.
	EngineMode int
	// DPI is the assumed source resolution.
	DPI int
}

// Engine recognizes text in a single encoded image.
type Engine interface {
	// Recognize runs OCR over PNG-encoded image bytes and returns raw text.
	Recognize(ctx context.Context, imagePNG []byte, opts Options) (string, error)

	// Name returns the engine identifier (e.g. "tesseract").
	Name() string
}

// commonEnginePaths are checked after the configured path and PATH lookup.
var commonEnginePaths = []string{
	"/usr/bin/tesseract",
	"/usr/local/bin/tesseract",
	"/opt/homebrew/bin/tesseract",
	"/snap/bin/tesseract",
}

// FindEngineBinary locates the tesseract executable. Lookup order: the
// configured path, the process PATH, then common installation directories.
func FindEngineBinary(configured string) (string, error) {
	var searched []string

	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
		searched = append(searched, configured)
	}

	if path, err := exec.LookPath("tesseract"); err == nil {
		return path, nil
	}
	searched = append(searched, "$PATH")

	for _, p := range commonEnginePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		searched = append(searched, p)
	}

	return "", &EngineUnavailableError{Searched: searched}
}
