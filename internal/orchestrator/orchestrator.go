// Package orchestrator produces one generation result by walking an ordered
// ladder of fallbacks: every (model, key) pair against the primary provider,
// then a secondary provider, then a credential-free tertiary one. Rate
// limits are pre-checked against the usage tracker so exhausted keys are
// skipped without a network call.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"goldstrategist/internal/catalog"
	"goldstrategist/internal/llm"
	"goldstrategist/internal/usage"
)

// defaultAttemptTimeout bounds one provider call so a hung provider cannot
// stall the whole fallback chain. Sized for vision requests.
const defaultAttemptTimeout = 20 * time.Second

// Phase names one step of the fallback ladder, for UI progress feedback.
type Phase string

const (
	PhaseTryModel  Phase = "try_model"
	PhaseTryKey    Phase = "try_key"
	PhaseSkipKey   Phase = "skip_key"
	PhaseSecondary Phase = "secondary"
	PhaseTertiary  Phase = "tertiary"
	PhaseExhausted Phase = "exhausted"
)

// Event is one progress notification. Layer switches are events, never
// errors: only total exhaustion surfaces as a failure.
type Event struct {
	Phase   Phase
	Message string
}

// Request is the opaque payload to generate against. The orchestrator only
// adapts its format per provider; it never inspects the content.
type Request struct {
	Prompt string
	Images []llm.InlineImage
}

// Orchestrator coordinates providers, keys and models for one generation
// request at a time. The internal loop is strictly sequential: one
// outstanding request per invocation, so the tracker's accounting stays
// accurate and providers are never burst-triggered.
type Orchestrator struct {
	primary   llm.Generator
	secondary llm.TextCompleter // nil when no credential is configured
	tertiary  llm.TextCompleter
	tracker   *usage.Tracker
	models    []catalog.Model
	logger    *slog.Logger

	// AttemptTimeout bounds each provider call.
	AttemptTimeout time.Duration
	// OnEvent, when set, receives progress events.
	OnEvent func(Event)
}

// New creates an Orchestrator. secondary and tertiary may be nil.
func New(primary llm.Generator, secondary, tertiary llm.TextCompleter, tracker *usage.Tracker, models []catalog.Model, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		primary:        primary,
		secondary:      secondary,
		tertiary:       tertiary,
		tracker:        tracker,
		models:         models,
		logger:         logger,
		AttemptTimeout: defaultAttemptTimeout,
	}
}

func (o *Orchestrator) emit(phase Phase, format string, args ...any) {
	if o.OnEvent != nil {
		o.OnEvent(Event{Phase: phase, Message: fmt.Sprintf(format, args...)})
	}
}

// state enumerates the fallback ladder. Transitions run strictly downward;
// the only other exit is a successful provider response.
type state int

const (
	statePrimary state = iota
	stateSecondary
	stateTertiary
	stateExhausted
)

// Generate walks the fallback ladder for one request, using keys in the
// given rotation order. It returns the first successful result, the
// caller's context error if cancelled, or llm.ErrQuotaExhausted once every
// layer has been tried.
func (o *Orchestrator) Generate(ctx context.Context, keys []string, req Request) (*llm.Result, error) {
	st := statePrimary
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch st {
		case statePrimary:
			res, err := o.tryPrimary(ctx, keys, req)
			if err != nil {
				return nil, err
			}
			if res != nil {
				return res, nil
			}
			st = stateSecondary

		case stateSecondary:
			if o.secondary == nil {
				st = stateTertiary
				continue
			}
			o.emit(PhaseSecondary, "primary provider exhausted, trying secondary")
			if res := o.tryCompleter(ctx, o.secondary, "secondary", req.Prompt); res != nil {
				return res, nil
			}
			st = stateTertiary

		case stateTertiary:
			if o.tertiary == nil {
				st = stateExhausted
				continue
			}
			o.emit(PhaseTertiary, "trying free-tier provider")
			if res := o.tryCompleter(ctx, o.tertiary, "tertiary", req.Prompt); res != nil {
				return res, nil
			}
			st = stateExhausted

		case stateExhausted:
			o.emit(PhaseExhausted, "all providers, keys and models exhausted")
			return nil, llm.ErrQuotaExhausted
		}
	}
}

// tryPrimary walks every (model, key) pair in order. A nil, nil return
// means the layer is exhausted; a non-nil error is a context cancellation.
func (o *Orchestrator) tryPrimary(ctx context.Context, keys []string, req Request) (*llm.Result, error) {
	for _, model := range o.models {
		o.emit(PhaseTryModel, "trying %s", model.Label)

	keyLoop:
		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			if reason := o.tracker.IsRateLimited(key, model.RPM, model.RPD); reason != "" {
				o.emit(PhaseSkipKey, "skipping key: %s", reason)
				continue
			}
			o.emit(PhaseTryKey, "requesting %s", model.Label)

			res, err := o.attempt(ctx, model, key, req)
			if err == nil {
				o.tracker.Record(key, res.Usage.TotalTokens)
				o.logger.Info("generation succeeded", "model", model.ID, "tokens", res.Usage.TotalTokens)
				return res, nil
			}

			var statusErr *llm.StatusError
			switch {
			case errors.As(err, &statusErr) && statusErr.RateLimited():
				// Poison the key so it is skipped for the rest of the
				// window, then move on to the next key.
				o.logger.Warn("key exhausted", "model", model.ID, "status", statusErr.Code)
				o.tracker.MarkExhausted(key, model.RPM)

			case errors.As(err, &statusErr):
				// A structural error is model-specific, not key-specific:
				// do not burn the remaining keys on this model.
				o.logger.Warn("model rejected request", "model", model.ID, "status", statusErr.Code)
				break keyLoop

			default:
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				// Transport failure or per-attempt timeout: next key.
				o.logger.Warn("transport failure", "model", model.ID, "error", err)
			}
		}
	}
	return nil, nil
}

// attempt issues one bounded call against the primary provider.
func (o *Orchestrator) attempt(ctx context.Context, model catalog.Model, key string, req Request) (*llm.Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.AttemptTimeout)
	defer cancel()
	return o.primary.Generate(attemptCtx, llm.GenerateRequest{
		Model:  model.ID,
		Key:    key,
		Prompt: req.Prompt,
		Images: req.Images,
	})
}

// tryCompleter issues one bounded call against a fallback provider.
// Failures are absorbed; only success returns a result.
func (o *Orchestrator) tryCompleter(ctx context.Context, c llm.TextCompleter, name, prompt string) *llm.Result {
	attemptCtx, cancel := context.WithTimeout(ctx, o.AttemptTimeout)
	defer cancel()

	text, err := c.Complete(attemptCtx, prompt)
	if err != nil {
		o.logger.Warn("fallback provider failed", "provider", name, "error", err)
		return nil
	}
	o.logger.Info("fallback provider succeeded", "provider", name)
	return &llm.Result{Text: text}
}
