package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	openAIVisionModel = "gpt-4o-mini"
	openAIChatModel   = "gpt-3.5-turbo"
)

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// openAIVision extracts text from a base64-encoded JPEG via the OpenAI
// vision chat endpoint.
func (c *Client) openAIVision(ctx context.Context, base64Image string) (string, error) {
	if !c.OpenAIConfigured() {
		return "", fmt.Errorf("openai api key is not configured")
	}

	payload := openAIChatRequest{
		Model: openAIVisionModel,
		Messages: []openAIMessage{{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "text", Text: ocrPrompt},
				{Type: "image_url", ImageURL: &openAIImageURL{
					URL: "data:image/jpeg;base64," + base64Image,
				}},
			},
		}},
		MaxTokens: c.Settings().MaxTokens,
	}
	return c.openAIChat(ctx, payload)
}

// TranslateWithOpenAI translates text through the OpenAI chat endpoint. It
// backs both the explicit openai provider and the silent fallback tier.
func (c *Client) TranslateWithOpenAI(ctx context.Context, text, targetName string) (string, error) {
	if !c.OpenAIConfigured() {
		return "", fmt.Errorf("openai api key is not configured")
	}

	payload := openAIChatRequest{
		Model: openAIChatModel,
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: fmt.Sprintf("You are a translator. Translate the user's text to %s. Only respond with the translation, no explanations.", targetName),
			},
			{
				Role:    "user",
				Content: text,
			},
		},
		Temperature: c.Settings().Temperature,
	}
	return c.openAIChat(ctx, payload)
}

func (c *Client) openAIChat(ctx context.Context, payload openAIChatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.openAIBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.openAIAPIKey)

	resp, err := c.generateClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send openai request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read openai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
