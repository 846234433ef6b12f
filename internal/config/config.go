package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultAttemptTimeout = 20 * time.Second

// Config holds the configuration for the application.
type Config struct {
	// DataDir is where the key store and the usage ledger live.
	DataDir      string
	UsageDBPath  string
	KeystorePath string

	// GeminiAPIKeys seeds the key store on first run. Keys added through
	// the CLI afterwards take precedence.
	GeminiAPIKeys []string

	// GroqAPIKey enables the secondary text provider when set.
	GroqAPIKey string

	// AttemptTimeout bounds each provider call.
	AttemptTimeout time.Duration
}

// NewFromEnv creates a new Config object from environment variables. Only
// the data directory is required to resolve; both provider credentials are
// optional because keys can also be managed through the key store.
func NewFromEnv() (*Config, error) {
	dataDir := os.Getenv("GOLDSTRATEGIST_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".goldstrategist")
	}

	var geminiKeys []string
	for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			geminiKeys = append(geminiKeys, k)
		}
	}

	attemptTimeout := defaultAttemptTimeout
	if raw := os.Getenv("GOLDSTRATEGIST_ATTEMPT_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid GOLDSTRATEGIST_ATTEMPT_TIMEOUT %q: %w", raw, err)
		}
		attemptTimeout = d
	}

	return &Config{
		DataDir:        dataDir,
		UsageDBPath:    filepath.Join(dataDir, "usage.db"),
		KeystorePath:   filepath.Join(dataDir, "keys.json"),
		GeminiAPIKeys:  geminiKeys,
		GroqAPIKey:     os.Getenv("GROQ_API_KEY"),
		AttemptTimeout: attemptTimeout,
	}, nil
}
