package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"horse.fit/polyglot/internal/backend"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	OllamaBaseURL          string  `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OllamaOCRModel         string  `envconfig:"OLLAMA_OCR_MODEL" default:"llava"`
	OllamaTranslationModel string  `envconfig:"OLLAMA_TRANSLATION_MODEL" default:"mistral"`
	EnableLocalOllama      bool    `envconfig:"ENABLE_LOCAL_OLLAMA" default:"true"`
	OllamaTemperature      float64 `envconfig:"OLLAMA_TEMPERATURE" default:"0.3"`
	OllamaTopP             float64 `envconfig:"OLLAMA_TOP_P" default:"0.9"`
	OllamaMaxTokens        int     `envconfig:"OLLAMA_MAX_TOKENS" default:"1000"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	DeepLAPIKey   string `envconfig:"DEEPL_API_KEY" default:""`

	ProbeTimeoutSeconds    int `envconfig:"BACKEND_PROBE_TIMEOUT_SECONDS" default:"5"`
	GenerateTimeoutSeconds int `envconfig:"BACKEND_GENERATE_TIMEOUT_SECONDS" default:"60"`

	MaxUploadMB        int    `envconfig:"MAX_UPLOAD_MB" default:"20"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.OllamaBaseURL) == "" {
		return fmt.Errorf("OLLAMA_BASE_URL is required")
	}
	if c.OllamaTemperature < 0 || c.OllamaTemperature > 2 {
		return fmt.Errorf("OLLAMA_TEMPERATURE must be between 0 and 2")
	}
	if c.OllamaTopP <= 0 || c.OllamaTopP > 1 {
		return fmt.Errorf("OLLAMA_TOP_P must be in (0, 1]")
	}
	if c.OllamaMaxTokens < 1 {
		return fmt.Errorf("OLLAMA_MAX_TOKENS must be >= 1")
	}
	if c.ProbeTimeoutSeconds < 1 {
		return fmt.Errorf("BACKEND_PROBE_TIMEOUT_SECONDS must be >= 1")
	}
	if c.GenerateTimeoutSeconds < 1 {
		return fmt.Errorf("BACKEND_GENERATE_TIMEOUT_SECONDS must be >= 1")
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be >= 1")
	}
	return nil
}

// BackendSettings converts the startup environment into the initial runtime
// settings snapshot applied to the backend client.
func (c *Config) BackendSettings() backend.Settings {
	return backend.Settings{
		BaseURL:          c.OllamaBaseURL,
		OCRModel:         c.OllamaOCRModel,
		TranslationModel: c.OllamaTranslationModel,
		EnableLocal:      c.EnableLocalOllama,
		Temperature:      c.OllamaTemperature,
		TopP:             c.OllamaTopP,
		MaxTokens:        c.OllamaMaxTokens,
	}
}

func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.GenerateTimeoutSeconds) * time.Second
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
