package certs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/every-mentor/mentorai/internal/providers"
	"github.com/every-mentor/mentorai/internal/textnorm"
)

const (
	placeholderSuffix = " - (과목표 미등록)"
	noInfoSentinel    = "정보 없음"
)

// SubjectCache memoizes inferred subject lines, keyed by the compacted
// certificate name. Unbounded for the process lifetime; concurrent writers
// for the same key are acceptable, both would store equivalent lines.
type SubjectCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewSubjectCache returns an empty cache.
func NewSubjectCache() *SubjectCache {
	return &SubjectCache{entries: make(map[string]string)}
}

// Get returns the cached line for a compacted key.
func (c *SubjectCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line, ok := c.entries[key]
	return line, ok
}

// Put stores a line under a compacted key.
func (c *SubjectCache) Put(key, line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = line
}

// Len returns the number of cached entries.
func (c *SubjectCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Inferrer produces subject lines for certificates the taxonomy does not
// know, optionally asking the LLM once per distinct name.
type Inferrer struct {
	cache           *SubjectCache
	client          providers.LLMClient
	fallbackEnabled bool
	temperature     float64
	maxTokens       int
	logger          *slog.Logger
}

// InferrerConfig holds Inferrer construction parameters.
type InferrerConfig struct {
	Cache           *SubjectCache
	Client          providers.LLMClient
	FallbackEnabled bool
	Temperature     float64
	MaxTokens       int
	Logger          *slog.Logger
}

// NewInferrer builds an Inferrer. A nil cache gets a fresh one; a nil client
// forces placeholder lines regardless of the fallback flag.
func NewInferrer(cfg InferrerConfig) *Inferrer {
	if cfg.Cache == nil {
		cfg.Cache = NewSubjectCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}
	return &Inferrer{
		cache:           cfg.Cache,
		client:          cfg.Client,
		fallbackEnabled: cfg.FallbackEnabled && cfg.Client != nil,
		temperature:     cfg.Temperature,
		maxTokens:       cfg.MaxTokens,
		logger:          cfg.Logger,
	}
}

// Cached returns the memoized line for a certificate name, if present.
func (inf *Inferrer) Cached(name string) (string, bool) {
	return inf.cache.Get(textnorm.Compact(name))
}

// PlaceholderLine is the deterministic line used when no subject table is
// registered and the LLM fallback is unavailable or out of budget.
func (inf *Inferrer) PlaceholderLine(name string) string {
	return name + placeholderSuffix
}

// InferSubjects returns the subject line for an unknown certificate. Cache
// hits short-circuit; with the fallback disabled the placeholder line is
// cached and returned; otherwise one LLM call is made and its first line is
// cached. Idempotent per compacted name for the process lifetime.
func (inf *Inferrer) InferSubjects(ctx context.Context, name string) (string, error) {
	key := textnorm.Compact(name)
	if key == "" {
		return "", nil
	}
	if line, ok := inf.cache.Get(key); ok {
		return line, nil
	}

	if !inf.fallbackEnabled {
		line := inf.PlaceholderLine(name)
		inf.cache.Put(key, line)
		return line, nil
	}

	result, err := inf.client.GenerateText(ctx, &providers.GenerateRequest{
		Prompt:      subjectPrompt(name),
		Temperature: inf.temperature,
		MaxTokens:   inf.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("infer subjects for %q: %w", name, err)
	}

	line := firstLine(result.Text)
	if line == "" || strings.Contains(line, noInfoSentinel) {
		line = inf.PlaceholderLine(name)
	} else if !strings.HasPrefix(line, name) {
		line = name + " - " + strings.TrimLeft(line, "-: ")
	}

	inf.cache.Put(key, line)
	inf.logger.Debug("subject line inferred", "certificate", name, "provider", inf.client.Name())
	return line, nil
}

func subjectPrompt(name string) string {
	return fmt.Sprintf(
		"한국 국가기술자격증 %q의 필기시험 과목을 알고 있으면 "+
			"\"%s - 과목1, 과목2, ...\" 형식의 한 줄로만 답하세요. "+
			"모르면 \"%s\"라고만 답하세요.",
		name, name, noInfoSentinel)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
