package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
)

// Candidate records one variant's OCR outcome for diagnostics.
type Candidate struct {
	Variant string `json:"variant"`
	Score   int    `json:"score"`
	Length  int    `json:"length"`
}

// Result is the reduced output of a multi-variant OCR run.
type Result struct {
	Engine          string      `json:"engine"`
	Text            string      `json:"text"`
	SelectedVariant string      `json:"selected_variant"`
	Candidates      []Candidate `json:"candidates"`
}

// Selector runs the OCR engine over several preprocessed variants of a
// source image and keeps the result with the highest script-composition
// score.
type Selector struct {
	engine Engine
	cfg    PreprocessConfig
	logger *slog.Logger
}

// NewSelector creates a Selector bound to an engine.
func NewSelector(engine Engine, cfg PreprocessConfig, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{engine: engine, cfg: cfg, logger: logger}
}

// ExtractText decodes the image, builds the raw/light/binarized variants,
// OCRs each, and returns the best-scoring text. A variant that fails to
// build or recognize is skipped; the call only fails outright when no
// variant produced text.
func (s *Selector) ExtractText(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	src = fixOrientation(data, src)

	variants := s.buildVariants(src)

	result := &Result{Engine: s.engine.Name()}
	bestScore := -1
	var lastErr error

	for _, v := range variants {
		encoded, err := encodePNG(v.Image)
		if err != nil {
			s.logger.Warn("variant encode failed, skipping", "variant", v.Name, "error", err)
			lastErr = err
			continue
		}
		text, err := s.engine.Recognize(ctx, encoded, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("variant recognition failed, skipping", "variant", v.Name, "error", err)
			lastErr = err
			continue
		}
		score := Score(text)
		result.Candidates = append(result.Candidates, Candidate{
			Variant: v.Name,
			Score:   score,
			Length:  len([]rune(text)),
		})
		// Strictly greater keeps the first-built variant on ties.
		if score > bestScore {
			bestScore = score
			result.Text = strings.TrimSpace(text)
			result.SelectedVariant = v.Name
		}
	}

	if result.SelectedVariant == "" {
		if lastErr != nil {
			return nil, fmt.Errorf("all OCR variants failed: %w", lastErr)
		}
		return nil, fmt.Errorf("no OCR variants produced output")
	}

	s.logger.Debug("variant selected",
		"variant", result.SelectedVariant,
		"score", bestScore,
		"candidates", len(result.Candidates))
	return result, nil
}

// buildVariants assembles the candidate list in fixed order. The raw variant
// always exists; light and binarized are dropped individually on failure.
func (s *Selector) buildVariants(src image.Image) []Variant {
	variants := []Variant{{Name: VariantRaw, Image: src}}

	light, err := buildLight(src, s.cfg)
	if err != nil {
		s.logger.Warn("light variant build failed, skipping", "error", err)
		return variants
	}
	variants = append(variants, Variant{Name: VariantLight, Image: light})

	binarized, err := buildBinarized(light, s.cfg)
	if err != nil {
		s.logger.Warn("binarized variant build failed, skipping", "error", err)
		return variants
	}
	return append(variants, Variant{Name: VariantBinarized, Image: binarized})
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode variant: %w", err)
	}
	return buf.Bytes(), nil
}
