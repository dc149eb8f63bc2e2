package translation

import (
	"context"
	"time"

	"horse.fit/polyglot/internal/backend"
)

// OllamaBackend serves the local-model provider by delegating to the shared
// Ollama client, which carries its own OpenAI fallback tier.
type OllamaBackend struct {
	client *backend.Client
}

func NewOllamaBackend(client *backend.Client) *OllamaBackend {
	return &OllamaBackend{client: client}
}

func (b *OllamaBackend) Name() Provider {
	return ProviderOllama
}

func (b *OllamaBackend) Translate(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	text, err := b.client.TranslateText(ctx, req.Text, req.TargetName)
	if err != nil {
		return nil, err
	}
	return &Response{Raw: text, Latency: time.Since(started)}, nil
}

// OpenAIBackend serves the explicit openai provider through the shared
// client's chat endpoint.
type OpenAIBackend struct {
	client *backend.Client
}

func NewOpenAIBackend(client *backend.Client) *OpenAIBackend {
	return &OpenAIBackend{client: client}
}

func (b *OpenAIBackend) Name() Provider {
	return ProviderOpenAI
}

func (b *OpenAIBackend) Configured() bool {
	return b.client.OpenAIConfigured()
}

func (b *OpenAIBackend) Translate(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	text, err := b.client.TranslateWithOpenAI(ctx, req.Text, req.TargetName)
	if err != nil {
		return nil, err
	}
	return &Response{Raw: text, Latency: time.Since(started)}, nil
}

// NewDefaultRegistry wires one backend per provider variant using the given
// shared client and per-service endpoints (empty strings select the public
// defaults).
func NewDefaultRegistry(client *backend.Client, deeplAPIKey string, timeout time.Duration) (*Registry, error) {
	registry := NewRegistry()
	backends := []Backend{
		NewOllamaBackend(client),
		NewOpenAIBackend(client),
		NewGoogleBackend("", timeout),
		NewDeepLBackend("", deeplAPIKey, timeout),
		NewMyMemoryBackend("", timeout),
		NewLingueeBackend("", timeout),
		NewPonsBackend("", timeout),
	}
	for _, candidate := range backends {
		if err := registry.Register(candidate); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
