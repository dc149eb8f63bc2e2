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
)

// DefaultGoogleEndpoint is the unauthenticated Google Translate web endpoint.
const DefaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleBackend is the universal fallback: credential-free and unrestricted
// in both language and input length.
type GoogleBackend struct {
	endpoint string
	client   *http.Client
}

func NewGoogleBackend(endpoint string, timeout time.Duration) *GoogleBackend {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultGoogleEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GoogleBackend{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *GoogleBackend) Name() Provider {
	return ProviderGoogle
}

func (b *GoogleBackend) Translate(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	text, _, err := b.TranslateDetect(ctx, req.Text, req.TargetCode)
	if err != nil {
		return nil, err
	}
	return &Response{Raw: text, Latency: time.Since(started)}, nil
}

// TranslateDetect translates text and also returns the source language code
// Google auto-detected. The detector leans on this side effect.
func (b *GoogleBackend) TranslateDetect(ctx context.Context, text, targetCode string) (string, string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", targetCode)
	query.Set("dt", "t")
	query.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("build google request: %w", err)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("send google request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read google response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("google status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// The gtx payload is a nested array: segment list first, detected source
	// language at index 2.
	var parsed []any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", "", fmt.Errorf("decode google response: %w", err)
	}
	if len(parsed) == 0 {
		return "", "", fmt.Errorf("google response is empty")
	}

	var translated strings.Builder
	if segments, ok := parsed[0].([]any); ok {
		for _, segment := range segments {
			parts, ok := segment.([]any)
			if !ok || len(parts) == 0 {
				continue
			}
			if piece, ok := parts[0].(string); ok {
				translated.WriteString(piece)
			}
		}
	}
	if translated.Len() == 0 {
		return "", "", fmt.Errorf("google response carried no translation")
	}

	detected := ""
	if len(parsed) > 2 {
		if code, ok := parsed[2].(string); ok {
			detected = strings.ToLower(strings.TrimSpace(code))
		}
	}

	return translated.String(), detected, nil
}
