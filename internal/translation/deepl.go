package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horse.fit/polyglot/internal/language"
)

// DefaultDeepLEndpoint points at the free-tier DeepL REST API.
const DefaultDeepLEndpoint = "https://api-free.deepl.com/v2/translate"

// DeepLBackend translates through the DeepL API. It is the only credentialed
// cloud provider; without a key the orchestrator downgrades before calling.
type DeepLBackend struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewDeepLBackend(endpoint, apiKey string, timeout time.Duration) *DeepLBackend {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultDeepLEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &DeepLBackend{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *DeepLBackend) Name() Provider {
	return ProviderDeepL
}

func (b *DeepLBackend) Configured() bool {
	return b.apiKey != ""
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (b *DeepLBackend) Translate(ctx context.Context, req Request) (*Response, error) {
	if !b.Configured() {
		return nil, fmt.Errorf("deepl api key is not configured")
	}

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("target_lang", strings.ToUpper(language.BaseCode(req.TargetCode)))

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build deepl request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+b.apiKey)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send deepl request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deepl response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deepl status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed deeplResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode deepl response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return nil, fmt.Errorf("deepl response missing translations")
	}

	return &Response{Raw: parsed.Translations[0].Text, Latency: time.Since(started)}, nil
}
