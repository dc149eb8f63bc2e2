package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnavailable reports that the local Ollama service did not answer its
// availability probe and no fallback was configured.
var ErrUnavailable = errors.New("ollama service is not available")

const (
	ocrPrompt = "Extract all text from this image. Return only the extracted text without any commentary or explanation."

	// Availability probes stay short; generation calls get the long budget.
	defaultProbeTimeout    = 5 * time.Second
	defaultGenerateTimeout = 60 * time.Second
)

// Options configures a Client.
type Options struct {
	Settings        Settings
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	ProbeTimeout    time.Duration
	GenerateTimeout time.Duration
}

// Client talks to a local Ollama service for OCR and translation, with an
// optional OpenAI fallback tier used when Ollama is unavailable or fails.
type Client struct {
	settings atomic.Pointer[Settings]

	openAIAPIKey  string
	openAIBaseURL string

	probeClient    *http.Client
	generateClient *http.Client
	logger         zerolog.Logger
}

func NewClient(opts Options, logger zerolog.Logger) *Client {
	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	generateTimeout := opts.GenerateTimeout
	if generateTimeout <= 0 {
		generateTimeout = defaultGenerateTimeout
	}

	openAIBaseURL := strings.TrimRight(strings.TrimSpace(opts.OpenAIBaseURL), "/")
	if openAIBaseURL == "" {
		openAIBaseURL = "https://api.openai.com/v1"
	}

	client := &Client{
		openAIAPIKey:   strings.TrimSpace(opts.OpenAIAPIKey),
		openAIBaseURL:  openAIBaseURL,
		probeClient:    &http.Client{Timeout: probeTimeout},
		generateClient: &http.Client{Timeout: generateTimeout},
		logger:         logger,
	}

	settings := opts.Settings.withDefaults()
	client.settings.Store(&settings)

	logger.Info().
		Str("ocr_model", settings.OCRModel).
		Str("translation_model", settings.TranslationModel).
		Bool("local_ollama", settings.EnableLocal).
		Bool("openai_fallback", client.OpenAIConfigured()).
		Msg("backend client initialized")

	return client
}

// Settings returns the current configuration snapshot.
func (c *Client) Settings() Settings {
	return *c.settings.Load()
}

// UpdateSettings swaps in a new configuration snapshot atomically.
func (c *Client) UpdateSettings(settings Settings) {
	normalized := settings.withDefaults()
	c.settings.Store(&normalized)
	c.logger.Info().
		Str("ocr_model", normalized.OCRModel).
		Str("translation_model", normalized.TranslationModel).
		Bool("local_ollama", normalized.EnableLocal).
		Msg("backend configuration updated")
}

// OpenAIConfigured reports whether the OpenAI fallback tier has a key.
func (c *Client) OpenAIConfigured() bool {
	return c.openAIAPIKey != ""
}

// Available probes the Ollama tags endpoint. A disabled local service counts
// as unavailable without a network call.
func (c *Client) Available(ctx context.Context) bool {
	settings := c.Settings()
	if !settings.EnableLocal {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, settings.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("ollama availability probe failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// ExtractImageText runs the vision model over one image file and returns the
// recognized text. When Ollama is unavailable or errors, the OpenAI vision
// fallback is used if configured.
func (c *Client) ExtractImageText(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(imageData)

	if !c.Available(ctx) {
		if c.OpenAIConfigured() {
			return c.openAIVision(ctx, encoded)
		}
		return "", ErrUnavailable
	}

	settings := c.Settings()
	text, err := c.generate(ctx, settings, settings.OCRModel, ocrPrompt, []string{encoded})
	if err != nil {
		c.logger.Warn().Err(err).Msg("ollama ocr failed")
		if c.OpenAIConfigured() {
			return c.openAIVision(ctx, encoded)
		}
		return "", err
	}
	return text, nil
}

// TranslateText translates text into the named target language using the
// configured translation model, falling back to OpenAI when needed.
func (c *Client) TranslateText(ctx context.Context, text, targetName string) (string, error) {
	if !c.Available(ctx) {
		if c.OpenAIConfigured() {
			return c.TranslateWithOpenAI(ctx, text, targetName)
		}
		return "", ErrUnavailable
	}

	prompt := fmt.Sprintf("Translate the following text to %s:\n\n%s\n\nTranslation:", targetName, text)
	settings := c.Settings()
	translated, err := c.generate(ctx, settings, settings.TranslationModel, prompt, nil)
	if err != nil {
		c.logger.Warn().Err(err).Msg("ollama translation failed")
		if c.OpenAIConfigured() {
			return c.TranslateWithOpenAI(ctx, text, targetName)
		}
		return "", err
	}
	return translated, nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) generate(ctx context.Context, settings Settings, model, prompt string, images []string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Images: images,
		Stream: false,
		Options: generateOptions{
			Temperature: settings.Temperature,
			TopP:        settings.TopP,
			NumPredict:  settings.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.generateClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send generate request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return strings.TrimSpace(parsed.Response), nil
}
