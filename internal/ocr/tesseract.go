package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var execCommandContext = exec.CommandContext

// runFunc executes the tesseract process; replaced in tests.
type runFunc func(ctx context.Context, path string, stdin []byte, args []string) ([]byte, error)

// TesseractEngine shells out to the tesseract CLI, feeding the image on
// stdin and reading recognized text from stdout.
type TesseractEngine struct {
	path    string
	timeout time.Duration
	run     runFunc
}

// TesseractConfig holds engine construction parameters.
type TesseractConfig struct {
	// Path is an explicit binary location; empty triggers auto-discovery.
	Path string
	// Timeout bounds a single recognition call. Multi-variant OCR over
	// dense documents is slow, so the default is generous.
	Timeout time.Duration
}

// NewTesseractEngine locates the tesseract binary and returns an engine
// bound to it. Returns *EngineUnavailableError when no binary is found.
func NewTesseractEngine(cfg TesseractConfig) (*TesseractEngine, error) {
	path, err := FindEngineBinary(cfg.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &TesseractEngine{
		path:    path,
		timeout: cfg.Timeout,
		run:     runTesseract,
	}, nil
}

// Name returns the engine identifier.
func (e *TesseractEngine) Name() string { return "tesseract" }

// Path returns the resolved binary location.
func (e *TesseractEngine) Path() string { return e.path }

// Recognize runs one OCR pass over PNG bytes with the given options.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePNG []byte, opts Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{"stdin", "stdout"}
	if opts.Lang != "" {
		args = append(args, "-l", opts.Lang)
	}
	args = append(args,
		"--psm", strconv.Itoa(opts.PageSegMode),
		"--oem", strconv.Itoa(opts.EngineMode),
	)
	if opts.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(opts.DPI))
	}
	args = append(args, "-c", "preserve_interword_spaces=1")

	out, err := e.run(ctx, e.path, imagePNG, args)
	if err != nil {
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func runTesseract(ctx context.Context, path string, stdin []byte, args []string) ([]byte, error) {
	cmd := execCommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Version reports the installed tesseract version, or "" when unknown.
func (e *TesseractEngine) Version(ctx context.Context) string {
	out, err := e.run(ctx, e.path, nil, []string{"--version"})
	if err != nil {
		return ""
	}
	lines := strings.SplitN(string(out), "\n", 2)
	fields := strings.Fields(lines[0])
	if len(fields) >= 2 {
		return fields[1]
	}
	return ""
}
