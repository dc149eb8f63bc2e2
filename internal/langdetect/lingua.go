package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/polyglot/internal/language"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectCode runs the offline lingua detector over the text and returns a
// canonical catalog code, or "" when the sample is too short or detection is
// inconclusive. It never touches the network, which is what makes it usable
// for resolving the source language of dictionary providers that cannot
// auto-detect.
func DetectCode(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	detected, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(detected.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	// lingua reports generic Chinese; the catalog splits it into variants.
	if code == "zh" {
		return "zh-CN"
	}
	if !language.Known(code) {
		return ""
	}
	return language.Normalize(code)
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
