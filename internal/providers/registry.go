package providers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry holds the configured LLM clients and resolves provider
// selection strings. Thread-safe; supports config-driven hot reload.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]LLMClient
	logger  *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]LLMClient),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers an LLM client by name.
func (r *Registry) Register(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// Unregister removes an LLM client by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
	if r.logger != nil {
		r.logger.Info("unregistered LLM client", "name", name)
	}
}

// Get returns an LLM client by name.
func (r *Registry) Get(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// Has checks if an LLM client is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// List returns all registered client names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Select resolves a provider selection string to a client. "auto" prefers
// anthropic when its API key is configured, falling back to the local
// LM Studio server; explicit names must be registered.
func (r *Registry) Select(selection string) (LLMClient, error) {
	switch selection {
	case "", SelectionAuto:
		if client, err := r.Get(SelectionAnthropic); err == nil {
			return client, nil
		}
		return r.Get(SelectionLMStudio)
	default:
		return r.Get(selection)
	}
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	LMStudioBaseURL  string
	LMStudioModel    string
	Timeout          time.Duration
}

// NewRegistryFromConfig creates a registry with providers based on
// configuration. The anthropic client is only registered when its API key
// is present; the LM Studio client is always available as the local
// fallback.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.applyConfig(cfg)
	return r
}

// Reload rebuilds the registry from new configuration. Clients whose
// settings changed are re-created; a removed API key unregisters the
// client.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = make(map[string]LLMClient)
	r.applyConfigLocked(cfg)
	if r.logger != nil {
		r.logger.Info("provider registry reloaded", "clients", len(r.clients))
	}
}

func (r *Registry) applyConfig(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyConfigLocked(cfg)
}

func (r *Registry) applyConfigLocked(cfg RegistryConfig) {
	if cfg.AnthropicAPIKey != "" {
		r.clients[SelectionAnthropic] = NewAnthropicClient(AnthropicConfig{
			APIKey:       cfg.AnthropicAPIKey,
			BaseURL:      cfg.AnthropicBaseURL,
			DefaultModel: cfg.AnthropicModel,
			Timeout:      cfg.Timeout,
		})
	}
	r.clients[SelectionLMStudio] = NewLMStudioClient(LMStudioConfig{
		BaseURL:      cfg.LMStudioBaseURL,
		DefaultModel: cfg.LMStudioModel,
		Timeout:      cfg.Timeout,
	})
}
