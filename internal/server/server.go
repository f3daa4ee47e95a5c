package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/every-mentor/mentorai/internal/api"
	"github.com/every-mentor/mentorai/internal/certs"
	"github.com/every-mentor/mentorai/internal/company"
	"github.com/every-mentor/mentorai/internal/config"
	"github.com/every-mentor/mentorai/internal/curriculum"
	"github.com/every-mentor/mentorai/internal/ocr"
	"github.com/every-mentor/mentorai/internal/providers"
	"github.com/every-mentor/mentorai/internal/server/endpoints"
	"github.com/every-mentor/mentorai/internal/svcctx"
)

// Server is the main mentorai HTTP server. It locates the OCR engine on
// start and wires the resolver, extractor, and LLM providers into the
// request context for the endpoints.
type Server struct {
	httpServer *http.Server
	engine     *ocr.TesseractEngine
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8090)
	Port int
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, errors.New("config manager is required")
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	registry.Reload(cfg.ConfigManager.Get().ToProviderRegistryConfig())

	// Watch for config changes
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		registry.Reload(c.ToProviderRegistryConfig())
		cfg.Logger.Info("provider registry reloaded from config")
	})

	s := &Server{
		registry:  registry,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)
	cfg.Logger.Debug("endpoint routes registered", "count", len(s.endpointRegistry.Endpoints()))

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // OCR + LLM round trips are slow
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start locates the OCR engine, assembles the core services, and serves
// HTTP. It blocks until the context is cancelled or an error occurs.
// A missing tesseract binary fails startup so the operator sees the
// searched locations immediately instead of per-request 503s.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	cfg := s.configMgr.Get()

	engine, err := ocr.NewTesseractEngine(ocr.TesseractConfig{
		Path:    cfg.OCR.TesseractPath,
		Timeout: cfg.OCR.Timeout,
	})
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to locate OCR engine: %w", err)
	}
	s.engine = engine
	s.logger.Info("OCR engine located", "path", engine.Path(), "version", engine.Version(ctx))

	selector := ocr.NewSelector(engine, ocr.PreprocessConfig{
		BinarizeThreshold: uint8(cfg.OCR.BinarizeThreshold),
		LightScale:        cfg.OCR.LightScale,
	}, s.logger)

	resolver := certs.NewResolver(certs.NewTaxonomy(), certs.NewLevenshteinMatcher())

	// The inferrer uses the configured provider; nil disables the fallback.
	client, err := s.registry.Select(cfg.LLM.Provider)
	if err != nil {
		s.logger.Warn("no LLM provider available, subject inference disabled", "error", err)
		client = nil
	}
	inferrer := certs.NewInferrer(certs.InferrerConfig{
		Client:          client,
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		Temperature:     cfg.LLM.Temperature,
		Logger:          s.logger,
	})

	extractor := company.NewExtractor(s.logger)

	orchestrator := curriculum.NewOrchestrator(curriculum.OrchestratorConfig{
		Resolver:        resolver,
		Inferrer:        inferrer,
		Extractor:       extractor,
		Registry:        s.registry,
		MaxUnknownCerts: cfg.LLM.MaxUnknownCerts,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		LogResponses:    cfg.Debug.LogResponses,
		TruncateLen:     cfg.Debug.TruncateLen,
		Logger:          s.logger,
	})

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Selector:     selector,
		Engine:       engine,
		Resolver:     resolver,
		Inferrer:     inferrer,
		Extractor:    extractor,
		Orchestrator: orchestrator,
		Registry:     s.registry,
		Config:       s.configMgr,
		Logger:       s.logger,
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Engine returns the OCR engine.
// Returns nil if the server hasn't started yet.
func (s *Server) Engine() *ocr.TesseractEngine {
	return s.engine
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if the OCR engine and services aren't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.engine == nil || s.services == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
