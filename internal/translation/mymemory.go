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

	"horse.fit/polyglot/internal/langdetect"
	"horse.fit/polyglot/internal/language"
)

// DefaultMyMemoryEndpoint is the keyless MyMemory REST API. The service has
// daily limits but needs no credential.
const DefaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"

type MyMemoryBackend struct {
	endpoint string
	client   *http.Client
}

func NewMyMemoryBackend(endpoint string, timeout time.Duration) *MyMemoryBackend {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultMyMemoryEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &MyMemoryBackend{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *MyMemoryBackend) Name() Provider {
	return ProviderMyMemory
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText  string `json:"translatedText"`
		ResponseStatus  any    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	} `json:"responseData"`
	Matches []struct {
		Translation string `json:"translation"`
	} `json:"matches"`
}

func (b *MyMemoryBackend) Translate(ctx context.Context, req Request) (*Response, error) {
	// MyMemory wants an explicit language pair; resolve the source offline.
	source := langdetect.DetectCode(req.Text)
	if source == "" {
		source = "en"
	}

	query := url.Values{}
	query.Set("q", req.Text)
	query.Set("langpair", language.BaseCode(source)+"|"+language.BaseCode(req.TargetCode))

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build mymemory request: %w", err)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send mymemory request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read mymemory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mymemory status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed myMemoryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode mymemory response: %w", err)
	}

	if text := strings.TrimSpace(parsed.ResponseData.TranslatedText); text != "" {
		return &Response{Raw: text, Latency: time.Since(started)}, nil
	}

	// No direct answer; surface match candidates and let normalization join
	// them.
	candidates := make([]string, 0, len(parsed.Matches))
	for _, match := range parsed.Matches {
		if translation := strings.TrimSpace(match.Translation); translation != "" {
			candidates = append(candidates, translation)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("mymemory returned no translation: %s", parsed.ResponseData.ResponseDetails)
	}
	return &Response{Raw: candidates, Latency: time.Since(started)}, nil
}
