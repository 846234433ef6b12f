package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"testing"
	"time"

	"goldstrategist/internal/catalog"
	"goldstrategist/internal/keystore"
	"goldstrategist/internal/llm"
	"goldstrategist/internal/orchestrator"
	"goldstrategist/internal/profile"
	"goldstrategist/internal/strategy"
	"goldstrategist/internal/usage"
)

type scriptedGenerator struct {
	result *llm.Result
	err    error
}

func (g *scriptedGenerator) Generate(_ context.Context, _ llm.GenerateRequest) (*llm.Result, error) {
	return g.result, g.err
}

const validPayload = `{
	"deals": [
		{"title": "Solo Thali", "items": [{"name": "Thali", "price": 250}], "dealPrice": 250, "goldReward": 50},
		{"title": "Duo Combo", "items": [{"name": "Pizza", "price": 400}, {"name": "Coke", "price": 60}], "dealPrice": 460, "goldReward": 70},
		{"title": "Family Pack", "items": [{"name": "Biryani", "price": 900}], "dealPrice": 900, "goldReward": 140}
	],
	"vouchers": [],
	"repeatCard": null
}`

func newTestApp(t *testing.T, gen llm.Generator) *App {
	t.Helper()

	keys, err := keystore.NewStore(filepath.Join(t.TempDir(), "keys.json"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := keys.AddKey("test-key-000000000001"); err != nil {
		t.Fatalf("AddKey() error = %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := usage.NewTracker(usage.NewMemoryStore())
	models := []catalog.Model{{ID: "m-fast", Label: "Fast", RPM: 10, RPD: 100}}
	orch := orchestrator.New(gen, nil, nil, tracker, models, logger)
	return NewApp(orch, keys, logger)
}

func TestImpactMatchesProjection(t *testing.T) {
	a := newTestApp(t, &scriptedGenerator{})
	p := profile.New("Cafe Aroma", "restaurant", "50", "1500", "15")

	proj := a.Impact(p)
	if math.Abs(proj.PerBill.Save-92.5875) > 1e-9 {
		t.Errorf("PerBill.Save = %v, want 92.5875", proj.PerBill.Save)
	}
}

func TestBuildStrategyGenerated(t *testing.T) {
	gen := &scriptedGenerator{result: &llm.Result{
		Text:    validPayload,
		Sources: []llm.GroundingSource{{Title: "Swiggy", URI: "https://swiggy.example"}},
	}}
	a := newTestApp(t, gen)
	p := profile.New("Cafe Aroma", "restaurant", "50", "1500", "15")

	bundle, err := a.BuildStrategy(context.Background(), p, "Thali - 250", nil)
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v", err)
	}
	if bundle.Origin != strategy.OriginGenerated {
		t.Errorf("Origin = %q, want %q", bundle.Origin, strategy.OriginGenerated)
	}
	if len(bundle.Deals) != 3 {
		t.Errorf("len(Deals) = %d, want 3", len(bundle.Deals))
	}
	if len(bundle.Sources) != 1 || bundle.Sources[0].Title != "Swiggy" {
		t.Errorf("Sources = %v, want grounding carried through", bundle.Sources)
	}
}

func TestBuildStrategyFallsBackOnExhaustion(t *testing.T) {
	gen := &scriptedGenerator{err: &llm.StatusError{Provider: "gemini", Code: 429}}
	a := newTestApp(t, gen)
	p := profile.New("Cafe Aroma", "restaurant", "50", "1500", "15")

	bundle, err := a.BuildStrategy(context.Background(), p, "Thali - 250\nPizza - 400", nil)
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v", err)
	}
	if bundle.Origin != strategy.OriginFallback {
		t.Errorf("Origin = %q, want %q", bundle.Origin, strategy.OriginFallback)
	}
	if len(bundle.Deals) == 0 {
		t.Error("fallback bundle has no deals")
	}

	// Exhaustion arms the cooldown: the next call is rejected.
	_, err = a.BuildStrategy(context.Background(), p, "Thali - 250", nil)
	var cdErr *CooldownError
	if !errors.As(err, &cdErr) {
		t.Fatalf("second call error = %v, want CooldownError", err)
	}

	// Once the window passes, generation is allowed again.
	a.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := a.BuildStrategy(context.Background(), p, "Thali - 250", nil); err != nil {
		t.Errorf("post-cooldown call error = %v", err)
	}
}

func TestBuildStrategyFallsBackOnUnusablePayload(t *testing.T) {
	gen := &scriptedGenerator{result: &llm.Result{Text: "sorry, I cannot help with that"}}
	a := newTestApp(t, gen)
	p := profile.New("Cafe Aroma", "restaurant", "50", "1500", "15")

	bundle, err := a.BuildStrategy(context.Background(), p, "Thali - 250", nil)
	if err != nil {
		t.Fatalf("BuildStrategy() error = %v", err)
	}
	if bundle.Origin != strategy.OriginFallback {
		t.Errorf("Origin = %q, want %q", bundle.Origin, strategy.OriginFallback)
	}

	// A bad payload is not exhaustion: no cooldown is armed.
	if _, err := a.BuildStrategy(context.Background(), p, "Thali - 250", nil); err != nil {
		t.Errorf("follow-up call error = %v, want none", err)
	}
}
