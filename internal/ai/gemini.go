package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iti-tech/taskboard-api/internal/config"
)

// CompletionClient is the AI completion boundary: one prompt plus a system
// instruction in, generated text or an error out. The service is stateless
// per call; conversation memory lives in the prompt.
type CompletionClient interface {
	Complete(ctx context.Context, systemInstruction, prompt string) (string, error)
}

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient implements CompletionClient against the Gemini generateContent
// endpoint.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(cfg config.AIConfig) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		// Timeout zero means no client-side timeout; the chat lock is held
		// for however long the call takes.
		httpClient: &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

type generateContentRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *GeminiClient) Complete(ctx context.Context, systemInstruction, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	body := generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}
	if systemInstruction != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	var decoded generateContentResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if decoded.Error != nil {
		return "", fmt.Errorf("gemini API error: %s (code: %d, status: %s)",
			decoded.Error.Message, decoded.Error.Code, decoded.Error.Status)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d", res.StatusCode)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}

	text := ""
	for _, p := range decoded.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text, nil
}
