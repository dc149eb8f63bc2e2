package translation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubBackend struct {
	name       Provider
	calls      int
	raw        any
	err        error
	configured bool
}

func newStubBackend(name Provider, raw any) *stubBackend {
	return &stubBackend{name: name, raw: raw, configured: true}
}

func (b *stubBackend) Name() Provider {
	return b.name
}

func (b *stubBackend) Configured() bool {
	return b.configured
}

func (b *stubBackend) Translate(_ context.Context, _ Request) (*Response, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return &Response{Raw: b.raw, Latency: 5 * time.Millisecond}, nil
}

func newTestOrchestrator(t *testing.T, backends ...Backend) *Orchestrator {
	t.Helper()
	registry := NewRegistry()
	for _, candidate := range backends {
		if err := registry.Register(candidate); err != nil {
			t.Fatalf("register backend %s: %v", candidate.Name(), err)
		}
	}
	return NewOrchestrator(registry, zerolog.Nop())
}

func TestTranslateUsesRequestedProviderWithinCapability(t *testing.T) {
	t.Parallel()

	pons := newStubBackend(ProviderPons, []string{"bonjour"})
	google := newStubBackend(ProviderGoogle, "unused")
	orchestrator := newTestOrchestrator(t, pons, google)

	result, err := orchestrator.Translate(context.Background(), "Hello", "french", ProviderPons)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if pons.calls != 1 || google.calls != 0 {
		t.Fatalf("unexpected call pattern: pons=%d google=%d", pons.calls, google.calls)
	}
	if result.Provider != ProviderPons {
		t.Fatalf("unexpected provider used: %s", result.Provider)
	}
	if result.Text != "bonjour" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
}

func TestTranslateDowngradesUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	pons := newStubBackend(ProviderPons, "unused")
	google := newStubBackend(ProviderGoogle, "こんにちは")
	orchestrator := newTestOrchestrator(t, pons, google)

	result, err := orchestrator.Translate(context.Background(), "Hello", "japanese", ProviderPons)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if pons.calls != 0 {
		t.Fatalf("unsupported provider must never be called, got %d calls", pons.calls)
	}
	if google.calls != 1 {
		t.Fatalf("expected exactly one fallback call, got %d", google.calls)
	}
	if result.Provider != ProviderGoogle {
		t.Fatalf("unexpected provider used: %s", result.Provider)
	}
}

func TestTranslateDowngradesOverlongInput(t *testing.T) {
	t.Parallel()

	pons := newStubBackend(ProviderPons, "unused")
	google := newStubBackend(ProviderGoogle, "lang, lang text")
	orchestrator := newTestOrchestrator(t, pons, google)

	longText := strings.Repeat("a", 600)
	result, err := orchestrator.Translate(context.Background(), longText, "de", ProviderPons)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if pons.calls != 0 {
		t.Fatalf("length-limited provider must not see overlong input, got %d calls", pons.calls)
	}
	if result.Provider != ProviderGoogle {
		t.Fatalf("unexpected provider used: %s", result.Provider)
	}
}

func TestTranslateRetriesUniversalFallbackOnce(t *testing.T) {
	t.Parallel()

	mymemory := newStubBackend(ProviderMyMemory, nil)
	mymemory.err = errors.New("quota exhausted")
	google := newStubBackend(ProviderGoogle, "hola")
	orchestrator := newTestOrchestrator(t, mymemory, google)

	result, err := orchestrator.Translate(context.Background(), "Hello", "es", ProviderMyMemory)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if mymemory.calls != 1 || google.calls != 1 {
		t.Fatalf("unexpected call pattern: mymemory=%d google=%d", mymemory.calls, google.calls)
	}
	if result.Provider != ProviderGoogle || result.Text != "hola" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestTranslateExhaustsWhenFallbackFails(t *testing.T) {
	t.Parallel()

	deepl := newStubBackend(ProviderDeepL, nil)
	deepl.err = errors.New("upstream 502")
	google := newStubBackend(ProviderGoogle, nil)
	google.err = errors.New("upstream 503")
	orchestrator := newTestOrchestrator(t, deepl, google)

	_, err := orchestrator.Translate(context.Background(), "Hello", "de", ProviderDeepL)
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if !IsKind(err, KindAllProvidersExhausted) {
		t.Fatalf("unexpected error kind: %v", err)
	}
	if deepl.calls != 1 || google.calls != 1 {
		t.Fatalf("fallback must fire exactly once: deepl=%d google=%d", deepl.calls, google.calls)
	}
}

func TestTranslateGoogleFailureIsTerminal(t *testing.T) {
	t.Parallel()

	google := newStubBackend(ProviderGoogle, nil)
	google.err = errors.New("upstream 500")
	orchestrator := newTestOrchestrator(t, google)

	_, err := orchestrator.Translate(context.Background(), "Hello", "fr", ProviderGoogle)
	if !IsKind(err, KindAllProvidersExhausted) {
		t.Fatalf("unexpected error kind: %v", err)
	}
	if google.calls != 1 {
		t.Fatalf("universal fallback must not retry itself, got %d calls", google.calls)
	}
}

func TestTranslateRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	google := newStubBackend(ProviderGoogle, "unused")
	orchestrator := newTestOrchestrator(t, google)

	if _, err := orchestrator.Translate(context.Background(), "", "fr", ProviderGoogle); !IsKind(err, KindInvalidInput) {
		t.Fatalf("expected invalid input for empty text, got %v", err)
	}
	if _, err := orchestrator.Translate(context.Background(), "Hello", "  ", ProviderGoogle); !IsKind(err, KindInvalidInput) {
		t.Fatalf("expected invalid input for blank target, got %v", err)
	}
	if google.calls != 0 {
		t.Fatalf("invalid input must not reach a backend, got %d calls", google.calls)
	}
}

func TestTranslateDowngradesUnconfiguredBackend(t *testing.T) {
	t.Parallel()

	deepl := newStubBackend(ProviderDeepL, "unused")
	deepl.configured = false
	google := newStubBackend(ProviderGoogle, "hallo")
	orchestrator := newTestOrchestrator(t, deepl, google)

	result, err := orchestrator.Translate(context.Background(), "Hello", "de", ProviderDeepL)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if deepl.calls != 0 {
		t.Fatalf("unconfigured provider must not be called, got %d calls", deepl.calls)
	}
	if result.Provider != ProviderGoogle {
		t.Fatalf("unexpected provider used: %s", result.Provider)
	}
}

func TestNormalizeRaw(t *testing.T) {
	t.Parallel()

	if got := NormalizeRaw(nil); got != "" {
		t.Fatalf("nil must normalize to empty, got %q", got)
	}
	if got := NormalizeRaw("  hello  "); got != "hello" {
		t.Fatalf("unexpected string normalization: %q", got)
	}
	if got := NormalizeRaw([]string{"guten", "Tag"}); got != "guten Tag" {
		t.Fatalf("unexpected list normalization: %q", got)
	}
	if got := NormalizeRaw([]any{"bon", "", "jour"}); got != "bon jour" {
		t.Fatalf("unexpected mixed list normalization: %q", got)
	}
	if got := NormalizeRaw(42); got != "42" {
		t.Fatalf("unexpected scalar normalization: %q", got)
	}
}

func TestResolveProvider(t *testing.T) {
	t.Parallel()

	if got := ResolveProvider(""); got != DefaultProvider {
		t.Fatalf("empty input must select default provider, got %s", got)
	}
	if got := ResolveProvider(" PONS "); got != ProviderPons {
		t.Fatalf("unexpected provider: %s", got)
	}
	if got := ResolveProvider("babelfish"); got != UniversalFallback {
		t.Fatalf("unknown input must select universal fallback, got %s", got)
	}
}
