package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider identifies one translation backend. The set is closed: every
// variant is declared here and carries a capability descriptor in
// capability.go.
type Provider string

const (
	ProviderOllama   Provider = "ollama"
	ProviderOpenAI   Provider = "openai"
	ProviderGoogle   Provider = "google"
	ProviderDeepL    Provider = "deepl"
	ProviderMyMemory Provider = "mymemory"
	ProviderLinguee  Provider = "linguee"
	ProviderPons     Provider = "pons"
)

// UniversalFallback is the credential-free, unrestricted provider used
// whenever another provider is unsuitable or fails.
const UniversalFallback = ProviderGoogle

// DefaultProvider is used when a request names no provider.
const DefaultProvider = ProviderOllama

var providerDisplayNames = map[Provider]string{
	ProviderOllama:   "Ollama (Local AI)",
	ProviderOpenAI:   "OpenAI",
	ProviderGoogle:   "Google Translate",
	ProviderDeepL:    "DeepL",
	ProviderMyMemory: "MyMemory",
	ProviderLinguee:  "Linguee",
	ProviderPons:     "Pons",
}

// ProviderDisplayNames returns the provider id to display name mapping.
func ProviderDisplayNames() map[string]string {
	names := make(map[string]string, len(providerDisplayNames))
	for provider, name := range providerDisplayNames {
		names[string(provider)] = name
	}
	return names
}

// ResolveProvider maps raw user input to a Provider. Empty input selects the
// default provider; unrecognized input selects the universal fallback so a
// stale client never gets an error for naming a provider we dropped.
func ResolveProvider(raw string) Provider {
	normalized := Provider(strings.ToLower(strings.TrimSpace(raw)))
	if normalized == "" {
		return DefaultProvider
	}
	if _, known := providerDisplayNames[normalized]; known {
		return normalized
	}
	return UniversalFallback
}

// Request describes one translation call against a backend. TargetCode is a
// canonical catalog code and TargetName its display name for prompting.
type Request struct {
	Text       string
	TargetCode string
	TargetName string
}

// Response is a raw backend answer before normalization. Raw may be a string,
// a list of candidate strings, or any other JSON-shaped value the backend
// produced.
type Response struct {
	Raw     any
	Latency time.Duration
}

// Backend executes translation requests against one provider's service.
type Backend interface {
	Translate(ctx context.Context, req Request) (*Response, error)
	Name() Provider
}

// configuredBackend is implemented by backends that can tell before a call
// whether they hold the credentials they need.
type configuredBackend interface {
	Configured() bool
}

// Result is the normalized outcome of an orchestrated translation. Provider
// is the backend that actually produced the text, which differs from the
// requested one after a downgrade or fallback.
type Result struct {
	Text      string
	Provider  Provider
	LatencyMs int64
}

// NormalizeRaw flattens a heterogeneous backend response into a single
// string: nil and empty values collapse to "", candidate lists are
// space-joined, anything else is stringified and trimmed.
func NormalizeRaw(raw any) string {
	switch value := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case []string:
		return strings.TrimSpace(strings.Join(value, " "))
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			part := NormalizeRaw(item)
			if part == "" {
				continue
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, " ")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}
}
