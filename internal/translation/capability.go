package translation

import (
	"unicode/utf8"

	"horse.fit/polyglot/internal/language"
)

// Capability constrains what a provider can translate. A nil Languages slice
// means the provider supports every catalog language; MaxLength zero means no
// input length cap.
type Capability struct {
	Languages []string
	MaxLength int
}

// capabilities is the static provider constraint table. Providers absent
// here are unrestricted.
var capabilities = map[Provider]Capability{
	ProviderPons: {
		Languages: []string{"en", "de", "fr", "es", "it", "pt", "ru"},
		MaxLength: 200,
	},
	ProviderLinguee: {
		Languages: []string{"en", "de", "fr", "es", "it", "pt", "ja", "zh", "ru", "nl", "sv", "pl", "da"},
		MaxLength: 500,
	},
	ProviderDeepL: {
		Languages: []string{"en", "de", "fr", "es", "it", "pt", "ru", "ja", "zh", "nl", "pl"},
	},
}

// CapabilityOf returns the capability descriptor for a provider and whether
// the provider is constrained at all.
func CapabilityOf(provider Provider) (Capability, bool) {
	capability, constrained := capabilities[provider]
	return capability, constrained
}

// Supports reports whether a provider can translate text of the given rune
// length into the given canonical language code. It is a pure predicate with
// no side effects.
func Supports(provider Provider, code string, length int) bool {
	capability, constrained := capabilities[provider]
	if !constrained {
		return true
	}
	if capability.MaxLength > 0 && length > capability.MaxLength {
		return false
	}
	if capability.Languages != nil && !containsCode(capability.Languages, code) {
		return false
	}
	return true
}

// SupportsText is Supports with the length taken from the text itself,
// counted in runes rather than bytes.
func SupportsText(provider Provider, code, text string) bool {
	return Supports(provider, code, utf8.RuneCountInString(text))
}

// LanguagesFor returns the catalog entries a provider can translate into.
// Unconstrained providers get the full catalog.
func LanguagesFor(provider Provider) []language.Entry {
	capability, constrained := capabilities[provider]
	if !constrained || capability.Languages == nil {
		return language.List()
	}

	entries := make([]language.Entry, 0, len(capability.Languages))
	for _, entry := range language.List() {
		if containsCode(capability.Languages, entry.Code) {
			entries = append(entries, entry)
		}
	}
	return entries
}

func containsCode(codes []string, code string) bool {
	for _, candidate := range codes {
		if candidate == code {
			return true
		}
	}
	return false
}
