package llm

import (
	"context"

	"goldstrategist/internal/shared"
)

// InlineImage is an attachment forwarded to a vision-capable model.
type InlineImage struct {
	MIMEType string
	Data     string // base64-encoded bytes
}

// GenerateRequest is one attempt against the primary provider. Model and
// Key vary per attempt; the payload is opaque to the caller.
type GenerateRequest struct {
	Model  string
	Key    string
	Prompt string
	Images []InlineImage
}

// GroundingSource is a citation the provider attached when it used web
// search to inform the answer.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Result contains the generated text and metadata like token usage.
type Result struct {
	Text    string
	Usage   shared.TokenUsage
	Sources []GroundingSource
}

// Generator is the primary-provider contract: one request per (model, key)
// pair, with full status-code visibility via *StatusError.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Result, error)
}

// TextCompleter is the reduced contract the secondary and tertiary
// providers satisfy: prompt text in, completion text out, error on failure.
// The completion is expected to contain a JSON object extractable via
// ExtractJSON.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
