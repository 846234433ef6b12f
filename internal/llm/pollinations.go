package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const pollinationsAPIURL = "https://text.pollinations.ai/"

// pollinationsClient is the tertiary, credential-free provider: a plain
// text-completion endpoint that needs no API key. Last resort before the
// deterministic fallback takes over.
type pollinationsClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewPollinationsClient creates the no-credential tertiary client.
func NewPollinationsClient() TextCompleter {
	return &pollinationsClient{
		apiURL: pollinationsAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Complete posts the raw prompt and returns the completion body.
func (c *pollinationsClient) Complete(ctx context.Context, prompt string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, strings.NewReader(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Provider: "pollinations", Code: resp.StatusCode, Body: string(raw)}
	}
	return string(raw), nil
}
