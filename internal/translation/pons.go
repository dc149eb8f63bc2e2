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

// DefaultPonsEndpoint is the Pons dictionary page root. Pons serves short
// word and phrase lookups only; the capability table caps input at 200
// characters.
const DefaultPonsEndpoint = "https://en.pons.com/translation"

// PonsBackend translates by scraping the Pons dictionary result page, the
// same surface the service exposes to browsers. Pons cannot auto-detect the
// source language, so it is resolved offline first.
type PonsBackend struct {
	endpoint string
	client   *http.Client
}

func NewPonsBackend(endpoint string, timeout time.Duration) *PonsBackend {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultPonsEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PonsBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *PonsBackend) Name() Provider {
	return ProviderPons
}

func (b *PonsBackend) Translate(ctx context.Context, req Request) (*Response, error) {
	source := langdetect.DetectCode(req.Text)
	if source == "" || source == req.TargetCode {
		source = "en"
	}

	lookupURL := fmt.Sprintf("%s/%s-%s/%s",
		b.endpoint,
		dictionaryLanguageName(source),
		dictionaryLanguageName(req.TargetCode),
		url.PathEscape(req.Text),
	)

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build pons request: %w", err)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send pons request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pons status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse pons page: %w", err)
	}

	candidates := collectClassText(doc, "div", "target")
	if len(candidates) == 0 {
		return nil, fmt.Errorf("pons returned no translation")
	}
	return &Response{Raw: candidates, Latency: time.Since(started)}, nil
}
