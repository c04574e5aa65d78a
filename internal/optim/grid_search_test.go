package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/controllers"
	"github.com/san-kum/attitude/internal/rotation"
)

func holdScenario(params map[string]float64) (attitude.Scenario, error) {
	return attitude.Scenario{
		Name:    "tune",
		Initial: rotation.QuaternionFromEulerAngles(30, 0, 0, rotation.Degrees),
		Hold: &controllers.HoldConfig{
			Target: rotation.DefaultQuaternion(),
			Gains:  controllers.Gains{Kp: params["kp"]},
		},
		Integrator:  "rk4",
		Dt:          0.01,
		Duration:    5,
		Renormalize: true,
	}, nil
}

func TestGridSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"kp"}, [][]float64{{0.5, 2, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}

	best, err := g.Search(context.Background(), holdScenario, "tracking_error")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["kp"] != 2 {
		t.Errorf("best kp = %v, want 2", best.Params["kp"])
	}
	// unbounded P loop: θ(t) = θ0·exp(-kp·t), so ∫θ ≈ θ0/kp
	if want := math.Pi / 6 / 2; math.Abs(best.Score-want) > 1e-2 {
		t.Errorf("score = %v, want about %v", best.Score, want)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g, err := NewGridSearch([]string{"kp", "kd"}, [][]float64{{0, 1}, {0}})
	if err != nil {
		t.Fatal(err)
	}
	// kp=0, kd=0 has no gains and fails validation
	best, err := g.Search(context.Background(), holdScenario, "tracking_error")
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["kp"] != 1 || best.Params["kd"] != 0 {
		t.Errorf("best = %v", best.Params)
	}

	g, _ = NewGridSearch([]string{"kp"}, [][]float64{{0}})
	if _, err := g.Search(context.Background(), holdScenario, "tracking_error"); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}

	g, _ = NewGridSearch([]string{"kp"}, [][]float64{{1}})
	if _, err := g.Search(context.Background(), holdScenario, "missing"); err == nil {
		t.Error("expected unknown metric error")
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"kp"}, nil); err == nil {
		t.Error("expected mismatched ranges error")
	}
	if _, err := NewGridSearch([]string{"kp"}, [][]float64{{}}); err == nil {
		t.Error("expected empty range error")
	}

	g, _ := NewGridSearch([]string{"kp"}, [][]float64{{1, 2}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Search(ctx, holdScenario, "tracking_error"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
