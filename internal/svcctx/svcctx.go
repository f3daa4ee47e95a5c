// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/every-mentor/mentorai/internal/certs"
	"github.com/every-mentor/mentorai/internal/company"
	"github.com/every-mentor/mentorai/internal/config"
	"github.com/every-mentor/mentorai/internal/curriculum"
	"github.com/every-mentor/mentorai/internal/ocr"
	"github.com/every-mentor/mentorai/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Selector     *ocr.Selector
	Engine       *ocr.TesseractEngine
	Resolver     *certs.Resolver
	Inferrer     *certs.Inferrer
	Extractor    *company.Extractor
	Orchestrator *curriculum.Orchestrator
	Registry     *providers.Registry
	Config       *config.Manager
	Logger       *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// SelectorFrom extracts the OCR variant selector from context.
func SelectorFrom(ctx context.Context) *ocr.Selector {
	if s := ServicesFrom(ctx); s != nil {
		return s.Selector
	}
	return nil
}

// EngineFrom extracts the Tesseract engine from context.
func EngineFrom(ctx context.Context) *ocr.TesseractEngine {
	if s := ServicesFrom(ctx); s != nil {
		return s.Engine
	}
	return nil
}

// ResolverFrom extracts the certificate resolver from context.
func ResolverFrom(ctx context.Context) *certs.Resolver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Resolver
	}
	return nil
}

// InferrerFrom extracts the subject inferrer from context.
func InferrerFrom(ctx context.Context) *certs.Inferrer {
	if s := ServicesFrom(ctx); s != nil {
		return s.Inferrer
	}
	return nil
}

// ExtractorFrom extracts the company candidate extractor from context.
func ExtractorFrom(ctx context.Context) *company.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Extractor
	}
	return nil
}

// OrchestratorFrom extracts the curriculum orchestrator from context.
func OrchestratorFrom(ctx context.Context) *curriculum.Orchestrator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Orchestrator
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
