package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AttemptMeta holds operational metadata for one generation attempt.
type AttemptMeta struct {
	Provider string
	Model    string
	Usage    TokenUsage
	Latency  time.Duration
}
