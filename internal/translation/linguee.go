package translation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"horse.fit/polyglot/internal/langdetect"
)

// DefaultLingueeEndpoint is the Linguee search page root. Linguee rejects
// long inputs; the capability table caps input at 500 characters.
const DefaultLingueeEndpoint = "https://www.linguee.com"

// LingueeBackend translates by scraping Linguee dictionary search results.
// Like Pons it needs an explicit source language, resolved offline.
type LingueeBackend struct {
	endpoint string
	client   *http.Client
}

func NewLingueeBackend(endpoint string, timeout time.Duration) *LingueeBackend {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultLingueeEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LingueeBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *LingueeBackend) Name() Provider {
	return ProviderLinguee
}

func (b *LingueeBackend) Translate(ctx context.Context, req Request) (*Response, error) {
	source := langdetect.DetectCode(req.Text)
	if source == "" || source == req.TargetCode {
		source = "en"
	}

	query := url.Values{}
	query.Set("source", "auto")
	query.Set("query", req.Text)
	searchURL := fmt.Sprintf("%s/%s-%s/search?%s",
		b.endpoint,
		dictionaryLanguageName(source),
		dictionaryLanguageName(req.TargetCode),
		query.Encode(),
	)

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build linguee request: %w", err)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send linguee request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linguee status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse linguee page: %w", err)
	}

	candidates := collectClassText(doc, "a", "dictLink")
	if len(candidates) == 0 {
		return nil, fmt.Errorf("linguee returned no translation")
	}
	return &Response{Raw: candidates, Latency: time.Since(started)}, nil
}
