package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.OCR.Lang != "kor+eng" {
		t.Errorf("lang = %q", cfg.OCR.Lang)
	}
	if cfg.OCR.BinarizeThreshold != 160 {
		t.Errorf("binarize threshold = %d", cfg.OCR.BinarizeThreshold)
	}
	if cfg.OCR.LightScale != 2 {
		t.Errorf("light scale = %d", cfg.OCR.LightScale)
	}
	if cfg.LLM.Provider != "auto" {
		t.Errorf("provider = %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout != 5*time.Minute {
		t.Errorf("llm timeout = %v", cfg.LLM.Timeout)
	}
	if !cfg.LLM.FallbackEnabled {
		t.Error("fallback should default on")
	}
	if cfg.LLM.MaxUnknownCerts != 3 {
		t.Errorf("max unknown certs = %d", cfg.LLM.MaxUnknownCerts)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("MENTORAI_TEST_KEY", "secret-value")

	cases := []struct {
		in, want string
	}{
		{"${MENTORAI_TEST_KEY}", "secret-value"},
		{"prefix-${MENTORAI_TEST_KEY}-suffix", "prefix-secret-value-suffix"},
		{"no-references", "no-references"},
		{"${UNSET_VAR_XYZ}", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ResolveEnvVars(tc.in); got != tc.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteDefaultAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("config file empty")
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cfg := cm.Get()
	if cfg.OCR.BinarizeThreshold != 160 {
		t.Errorf("loaded threshold = %d", cfg.OCR.BinarizeThreshold)
	}
	if cfg.LLM.Anthropic.APIKey != "${ANTHROPIC_API_KEY}" {
		t.Errorf("api key reference not preserved: %q", cfg.LLM.Anthropic.APIKey)
	}
}

func TestToProviderRegistryConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "resolved-key")

	cfg := DefaultConfig()
	rc := cfg.ToProviderRegistryConfig()
	if rc.AnthropicAPIKey != "resolved-key" {
		t.Errorf("api key = %q, want env-resolved value", rc.AnthropicAPIKey)
	}
	if rc.LMStudioBaseURL != "http://localhost:1234/v1" {
		t.Errorf("lmstudio base url = %q", rc.LMStudioBaseURL)
	}
}
