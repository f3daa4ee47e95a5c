package config

import "time"

// Config holds mentorai configuration.
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	OCR    OCRCfg    `mapstructure:"ocr" yaml:"ocr"`
	LLM    LLMCfg    `mapstructure:"llm" yaml:"llm"`
	Debug  DebugCfg  `mapstructure:"debug" yaml:"debug"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// OCRCfg configures the Tesseract engine and preprocessing.
type OCRCfg struct {
	// TesseractPath is an explicit binary location; empty uses auto-discovery.
	TesseractPath string `mapstructure:"tesseract_path" yaml:"tesseract_path"`
	// Lang is the tesseract language pack spec (e.g. "kor+eng").
	Lang string `mapstructure:"lang" yaml:"lang"`
	// PSM is the tesseract page segmentation mode.
	PSM int `mapstructure:"psm" yaml:"psm"`
	// OEM is the tesseract engine mode.
	OEM int `mapstructure:"oem" yaml:"oem"`
	// DPI is the assumed source resolution.
	DPI int `mapstructure:"dpi" yaml:"dpi"`
	// BinarizeThreshold is the luminance cut for the binarized variant.
	BinarizeThreshold int `mapstructure:"binarize_threshold" yaml:"binarize_threshold"`
	// LightScale is the upscale factor for the light variant.
	LightScale int `mapstructure:"light_scale" yaml:"light_scale"`
	// Timeout bounds one tesseract invocation.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LLMCfg configures the LLM providers and fallback behavior.
type LLMCfg struct {
	// Provider selects "auto", "anthropic", or "lmstudio".
	Provider  string       `mapstructure:"provider" yaml:"provider"`
	Anthropic AnthropicCfg `mapstructure:"anthropic" yaml:"anthropic"`
	LMStudio  LMStudioCfg  `mapstructure:"lmstudio" yaml:"lmstudio"`

	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// FallbackEnabled allows LLM inference of subject lines for unknown
	// certificates.
	FallbackEnabled bool `mapstructure:"fallback_enabled" yaml:"fallback_enabled"`
	// MaxUnknownCerts caps LLM subject inferences per request.
	MaxUnknownCerts int `mapstructure:"max_unknown_certs" yaml:"max_unknown_certs"`
}

// AnthropicCfg configures the Anthropic client.
type AnthropicCfg struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// APIKey supports ${ENV_VAR} syntax.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	Model  string `mapstructure:"model" yaml:"model"`
}

// LMStudioCfg configures the local LM Studio client.
type LMStudioCfg struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// DebugCfg configures debug logging of prompts and model responses.
type DebugCfg struct {
	LogResponses bool `mapstructure:"log_responses" yaml:"log_responses"`
	// TruncateLen bounds logged prompt/response excerpts.
	TruncateLen int `mapstructure:"truncate_len" yaml:"truncate_len"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: 8090,
		},
		OCR: OCRCfg{
			Lang:              "kor+eng",
			PSM:               4,
			OEM:               1,
			DPI:               300,
			BinarizeThreshold: 160,
			LightScale:        2,
			Timeout:           2 * time.Minute,
		},
		LLM: LLMCfg{
			Provider: "auto",
			Anthropic: AnthropicCfg{
				APIKey: "${ANTHROPIC_API_KEY}",
				Model:  "claude-3-5-haiku-latest",
			},
			LMStudio: LMStudioCfg{
				BaseURL: "http://localhost:1234/v1",
			},
			Temperature:     0.3,
			MaxTokens:       2048,
			Timeout:         5 * time.Minute,
			FallbackEnabled: true,
			MaxUnknownCerts: 3,
		},
		Debug: DebugCfg{
			TruncateLen: 500,
		},
	}
}
