package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"goldstrategist/internal/shared"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// tokenEstimate is recorded against a key when the provider omits
// usageMetadata. Sized for a menu-analysis round trip.
const tokenEstimate = 800

// GeminiClient is a raw HTTP client for the Gemini generateContent API.
// Unlike an SDK client it binds neither model nor key: both arrive with each
// request, which is what key rotation requires.
type GeminiClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient() *GeminiClient {
	return &GeminiClient{
		baseURL: defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Generate issues one generateContent call for the given (model, key) pair
// and returns the reply text with fences stripped, the authoritative token
// count when the provider reports one, and any grounding citations.
func (g *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	parts := make([]geminiPart, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{MIMEType: img.MIMEType, Data: img.Data},
		})
	}
	parts = append(parts, geminiPart{Text: req.Prompt})

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature":      0.2,
			"responseMimeType": "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, req.Model, req.Key)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: "gemini", Code: resp.StatusCode, Body: string(raw)}
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			GroundingMetadata struct {
				GroundingChunks []struct {
					Web struct {
						URI   string `json:"uri"`
						Title string `json:"title"`
					} `json:"web"`
				} `json:"groundingChunks"`
			} `json:"groundingMetadata"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}

	usage := shared.TokenUsage{
		PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
		CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		Model:            req.Model,
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = tokenEstimate
	}

	var sources []GroundingSource
	for _, chunk := range parsed.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web.URI != "" {
			sources = append(sources, GroundingSource{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}

	return &Result{
		Text:    StripFences(parsed.Candidates[0].Content.Parts[0].Text),
		Usage:   usage,
		Sources: sources,
	}, nil
}
