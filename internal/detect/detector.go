package detect

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/language"
)

// CodeUnknown is reported when no backend could identify the language.
const CodeUnknown = "unknown"

const (
	cloudSampleRunes  = 100
	promptSampleRunes = 200

	confidenceCloudExact  = 0.95
	confidencePromptExact = 0.9
	confidenceCloudOther  = 0.8
	confidencePromptFuzzy = 0.7
)

// Result is a best-effort language identification.
type Result struct {
	Code       string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// CloudBackend detects a source language as a side effect of translating a
// sample to a default target.
type CloudBackend interface {
	TranslateDetect(ctx context.Context, text, targetCode string) (translated, detectedSource string, err error)
}

// PromptBackend answers free-form prompts with a local generative model.
type PromptBackend interface {
	TranslateText(ctx context.Context, text, targetName string) (string, error)
}

// Detector identifies the language of a text. Detection never fails: every
// internal error degrades to {unknown, 0.0}.
type Detector struct {
	cloud  CloudBackend
	prompt PromptBackend
	logger zerolog.Logger
}

func NewDetector(cloud CloudBackend, prompt PromptBackend, logger zerolog.Logger) *Detector {
	return &Detector{cloud: cloud, prompt: prompt, logger: logger}
}

// Detect identifies the language of text, preferring the cloud backend's
// auto-detection side effect and falling back to a prompt against the local
// model.
func (d *Detector) Detect(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Code: CodeUnknown, Confidence: 0}
	}

	if result, ok := d.detectViaCloud(ctx, text); ok {
		return result
	}
	return d.detectViaPrompt(ctx, text)
}

func (d *Detector) detectViaCloud(ctx context.Context, text string) (Result, bool) {
	if d.cloud == nil {
		return Result{}, false
	}

	sample := firstRunes(text, cloudSampleRunes)
	_, detected, err := d.cloud.TranslateDetect(ctx, sample, "en")
	if err != nil || detected == "" {
		d.logger.Warn().Err(err).Msg("cloud language detection failed, falling back to local model")
		return Result{}, false
	}

	if language.Known(detected) {
		return Result{Code: language.Normalize(detected), Confidence: confidenceCloudExact}, true
	}
	// The catalog splits Chinese into variants the backend does not.
	if detected == "zh" {
		return Result{Code: "zh-CN", Confidence: confidenceCloudExact}, true
	}
	return Result{Code: detected, Confidence: confidenceCloudOther}, true
}

func (d *Detector) detectViaPrompt(ctx context.Context, text string) Result {
	if d.prompt == nil {
		return Result{Code: CodeUnknown, Confidence: 0}
	}

	prompt := "Identify the language of the following text. Respond with only the ISO 639-1 language code and nothing else:\n\n" +
		firstRunes(text, promptSampleRunes)

	answer, err := d.prompt.TranslateText(ctx, prompt, "English")
	if err != nil {
		d.logger.Warn().Err(err).Msg("local model language detection failed")
		return Result{Code: CodeUnknown, Confidence: 0}
	}

	candidate := strings.ToLower(strings.TrimSpace(answer))
	if candidate == "" {
		return Result{Code: CodeUnknown, Confidence: 0}
	}

	if language.Known(candidate) {
		return Result{Code: language.Normalize(candidate), Confidence: confidencePromptExact}
	}

	// The model may answer with prose; accept a catalog code or language
	// name buried in it.
	for _, entry := range language.List() {
		if strings.Contains(candidate, strings.ToLower(entry.Code)) ||
			strings.Contains(candidate, strings.ToLower(entry.Name)) {
			return Result{Code: entry.Code, Confidence: confidencePromptFuzzy}
		}
	}

	return Result{Code: CodeUnknown, Confidence: 0}
}

func firstRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
