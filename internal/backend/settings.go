package backend

import "strings"

// Settings is one immutable snapshot of the mutable Ollama runtime
// configuration. The client holds the current snapshot behind an atomic
// pointer: reads never lock, updates replace the whole snapshot so a
// concurrent reader observes either the old or the new configuration, never
// a partially-written one.
type Settings struct {
	BaseURL          string  `json:"ollama_base_url"`
	OCRModel         string  `json:"ocr_model"`
	TranslationModel string  `json:"translation_model"`
	EnableLocal      bool    `json:"enable_local_ollama"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	MaxTokens        int     `json:"max_tokens"`
}

const (
	DefaultBaseURL          = "http://localhost:11434"
	DefaultOCRModel         = "llava"
	DefaultTranslationModel = "mistral"
	DefaultTemperature      = 0.3
	DefaultTopP             = 0.9
	DefaultMaxTokens        = 1000
)

func (s Settings) withDefaults() Settings {
	if strings.TrimSpace(s.BaseURL) == "" {
		s.BaseURL = DefaultBaseURL
	}
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if strings.TrimSpace(s.OCRModel) == "" {
		s.OCRModel = DefaultOCRModel
	}
	if strings.TrimSpace(s.TranslationModel) == "" {
		s.TranslationModel = DefaultTranslationModel
	}
	if s.Temperature == 0 {
		s.Temperature = DefaultTemperature
	}
	if s.TopP == 0 {
		s.TopP = DefaultTopP
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	return s
}
