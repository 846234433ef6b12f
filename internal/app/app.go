// Package app wires the generation pipeline together: prompt building,
// provider orchestration, payload normalization and the deterministic
// synthesizer that guarantees a usable strategy even with every provider
// down.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"goldstrategist/internal/finance"
	"goldstrategist/internal/keystore"
	"goldstrategist/internal/llm"
	"goldstrategist/internal/orchestrator"
	"goldstrategist/internal/profile"
	"goldstrategist/internal/strategy"
)

// cooldownPeriod is how long regeneration stays blocked after every
// provider layer has been exhausted, so a retry storm cannot deepen the
// quota hole.
const cooldownPeriod = 60 * time.Second

// CooldownError reports that regeneration is temporarily blocked.
type CooldownError struct {
	Until time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("generation is cooling down, retry in %s", time.Until(e.Until).Round(time.Second))
}

// App holds the application's dependencies.
type App struct {
	orch   *orchestrator.Orchestrator
	keys   *keystore.Store
	logger *slog.Logger

	mu            sync.Mutex
	cooldownUntil time.Time
	now           func() time.Time
}

// NewApp creates and initializes a new App instance.
func NewApp(orch *orchestrator.Orchestrator, keys *keystore.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		orch:   orch,
		keys:   keys,
		logger: logger,
		now:    time.Now,
	}
}

// Impact computes the deterministic financial projection for a profile.
func (a *App) Impact(p profile.Profile) finance.Projection {
	return finance.Project(p.DailyVisits, p.AverageOrderValue, p.DiscountPercent)
}

// BuildStrategy produces a complete strategy bundle for the profile. The
// call never fails for provider reasons: once every layer is exhausted it
// arms a cooldown and falls back to the deterministic synthesizer, so the
// only error paths are an active cooldown and caller cancellation.
func (a *App) BuildStrategy(ctx context.Context, p profile.Profile, menuText string, images []llm.InlineImage) (*strategy.Bundle, error) {
	if err := a.checkCooldown(); err != nil {
		return nil, err
	}

	keys, err := a.keys.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to load API keys: %w", err)
	}

	prompt := strategy.BuildPrompt(p, menuText)
	res, err := a.orch.Generate(ctx, keys, orchestrator.Request{Prompt: prompt, Images: images})
	if err != nil {
		if errors.Is(err, llm.ErrQuotaExhausted) {
			a.armCooldown()
			a.logger.Warn("all providers exhausted, synthesizing fallback strategy")
			return a.synthesize(p, menuText), nil
		}
		return nil, err
	}

	bundle, err := strategy.Normalize(res.Text, p.AverageOrderValue)
	if err != nil {
		var vErr *strategy.ValidationError
		if errors.As(err, &vErr) {
			a.logger.Warn("generated payload unusable, synthesizing fallback strategy", "reason", vErr.Reason)
			return a.synthesize(p, menuText), nil
		}
		return nil, err
	}

	bundle.Sources = res.Sources
	return bundle, nil
}

func (a *App) synthesize(p profile.Profile, menuText string) *strategy.Bundle {
	items := strategy.ParseItems(menuText, p.AverageOrderValue)
	return strategy.Synthesize(items, p.AverageOrderValue)
}

func (a *App) checkCooldown() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.now().Before(a.cooldownUntil) {
		return &CooldownError{Until: a.cooldownUntil}
	}
	return nil
}

func (a *App) armCooldown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cooldownUntil = a.now().Add(cooldownPeriod)
}
