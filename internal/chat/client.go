// Package chat proxies user questions to a hosted text-generation API and
// keeps a log of every exchange. The assistant is scoped to general health
// education; it never sees the user's stored records.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lineage-health/platform/internal/shared/config"
)

const systemPrompt = "You are a helpful health information assistant. Provide general health education only. " +
	"Always remind users to consult a healthcare professional for personal medical advice. " +
	"Never diagnose conditions or prescribe treatments."

// Message is one turn of a conversation. Role is "user" or "model".
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	temp       float64
	maxTokens  int
	httpClient *http.Client
}

// NewClient creates a chat client from config. Configured reports whether an
// API key is present; an unconfigured client must not be called.
func NewClient(cfg config.ChatConfig) *Client {
	return &Client{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		baseURL:   cfg.BaseURL,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxOutputTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Configured reports whether an API key was provided
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// --- wire types for the generateContent call ---

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents          []generateContent `json:"contents"`
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the conversation and returns the model's reply text. The
// history carries prior turns in order; message is the new user turn.
func (c *Client) Generate(ctx context.Context, history []Message, message string) (string, error) {
	req := generateRequest{
		SystemInstruction: &generateContent{
			Parts: []generatePart{{Text: systemPrompt}},
		},
	}
	req.GenerationConfig.Temperature = c.temp
	req.GenerationConfig.MaxOutputTokens = c.maxTokens

	for _, m := range history {
		role := m.Role
		if role != "model" {
			role = "user"
		}
		req.Contents = append(req.Contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: m.Text}},
		})
	}
	req.Contents = append(req.Contents, generateContent{
		Role:  "user",
		Parts: []generatePart{{Text: message}},
	})

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("upstream error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("upstream returned no candidates")
	}

	text := ""
	for _, part := range genResp.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("upstream returned empty text")
	}

	return text, nil
}
