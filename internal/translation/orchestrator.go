package translation

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/language"
)

// Orchestrator selects a backend for each translation request, enforces the
// capability table, and applies the bounded fallback policy: a capability
// mismatch redirects to the universal fallback before any call, a backend
// failure earns exactly one retry against the universal fallback. Worst case
// is therefore two round trips.
type Orchestrator struct {
	registry *Registry
	logger   zerolog.Logger
}

func NewOrchestrator(registry *Registry, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{registry: registry, logger: logger}
}

// Translate translates text into the language named by targetRaw (a code or
// display name in any case) using the given provider, downgrading and
// falling back per the orchestration policy. The returned Result reports the
// provider that actually served the request.
func (o *Orchestrator) Translate(ctx context.Context, text, targetRaw string, provider Provider) (*Result, error) {
	if o == nil || o.registry == nil {
		return nil, &Error{Kind: KindBackendUnavailable, Provider: provider}
	}

	if strings.TrimSpace(text) == "" || strings.TrimSpace(targetRaw) == "" {
		return nil, &Error{Kind: KindInvalidInput, Provider: provider}
	}

	targetCode := language.Normalize(targetRaw)
	targetName := language.DisplayName(targetCode)

	o.logger.Info().
		Int("chars", utf8.RuneCountInString(text)).
		Str("target", targetName).
		Str("provider", string(provider)).
		Msg("translating text")

	// Capability violations never raise: the request is redirected to the
	// universal fallback instead of guaranteed-fail calls to the original
	// provider.
	if !SupportsText(provider, targetCode, text) {
		o.logger.Warn().
			Str("provider", string(provider)).
			Str("target", targetCode).
			Msg("provider does not support request, downgrading to universal fallback")
		provider = UniversalFallback
	}

	backend, err := o.registry.Backend(provider)
	if err != nil {
		return nil, &Error{Kind: KindBackendUnavailable, Provider: provider, Cause: err}
	}

	// Credentialed backends that lack their credential are downgraded before
	// the call rather than allowed to fail it.
	if unready, ok := backend.(configuredBackend); ok && !unready.Configured() && provider != UniversalFallback {
		o.logger.Warn().
			Str("provider", string(provider)).
			Msg("provider is not configured, downgrading to universal fallback")
		provider = UniversalFallback
		backend, err = o.registry.Backend(provider)
		if err != nil {
			return nil, &Error{Kind: KindBackendUnavailable, Provider: provider, Cause: err}
		}
	}

	req := Request{Text: text, TargetCode: targetCode, TargetName: targetName}

	resp, err := backend.Translate(ctx, req)
	if err != nil && provider != UniversalFallback {
		o.logger.Warn().
			Err(err).
			Str("provider", string(provider)).
			Msg("provider failed, retrying with universal fallback")

		fallback, fallbackErr := o.registry.Backend(UniversalFallback)
		if fallbackErr != nil {
			return nil, &Error{Kind: KindAllProvidersExhausted, Provider: UniversalFallback, Cause: fallbackErr}
		}
		provider = UniversalFallback
		resp, err = fallback.Translate(ctx, req)
	}
	if err != nil {
		return nil, &Error{Kind: KindAllProvidersExhausted, Provider: provider, Cause: err}
	}

	return &Result{
		Text:      NormalizeRaw(resp.Raw),
		Provider:  provider,
		LatencyMs: resp.Latency.Milliseconds(),
	}, nil
}
