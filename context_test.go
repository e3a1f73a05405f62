package solarkit

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// eightPlanets builds a full system for the selection tests.
func eightPlanets() *System {
	sys := NewSystem("Solar System")
	sys.Add(CelestialBody{Name: "Sun", A: 0})
	sys.Add(CelestialBody{Name: "Mercury", A: 0.387, Ecc: 0.2056, P: 0.241, Color: "grey"})
	sys.Add(CelestialBody{Name: "Venus", A: 0.723, Ecc: 0.0068, P: 0.615, Color: "y"})
	sys.Add(CelestialBody{Name: "Earth", A: 1, Ecc: 0.0167, P: 1, Color: "b"})
	sys.Add(CelestialBody{Name: "Mars", A: 1.524, Ecc: 0.0934, P: 1.881, Color: "r"})
	sys.Add(CelestialBody{Name: "Jupiter", A: 5.203, Ecc: 0.0484, P: 11.86, Color: "orange"})
	sys.Add(CelestialBody{Name: "Saturn", A: 9.537, Ecc: 0.0542, P: 29.46, Color: "khaki"})
	sys.Add(CelestialBody{Name: "Uranus", A: 19.19, Ecc: 0.0472, P: 84.01, Color: "c"})
	sys.Add(CelestialBody{Name: "Neptune", A: 30.07, Ecc: 0.0086, P: 164.8, Color: "navy"})
	return sys
}

func animCfg(bodies ...string) RunConfig {
	cfg := DefaultRunConfig()
	cfg.Mode = AnimatedOrbits
	cfg.Bodies = bodies
	return cfg
}

func TestSelectionByName(t *testing.T) {
	ctx, err := NewRunContext(eightPlanets(), animCfg("Mars", "Venus"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ctx.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(ctx.Bodies))
	}
	// Ascending orbital period: Venus before Mars regardless of the
	// order they were requested in.
	if ctx.Bodies[0].Name != "Venus" || ctx.Bodies[1].Name != "Mars" {
		t.Fatalf("wrong ordering: %s, %s", ctx.Bodies[0].Name, ctx.Bodies[1].Name)
	}
	if ctx.Outermost().Name != "Mars" {
		t.Fatalf("outermost should be Mars, got %s", ctx.Outermost().Name)
	}
}

func TestSelectionDefaultsToAll(t *testing.T) {
	ctx, err := NewRunContext(eightPlanets(), animCfg())
	if err != nil {
		t.Fatal(err)
	}
	if len(ctx.Bodies) != 8 {
		t.Fatalf("expected all 8 bodies, got %d", len(ctx.Bodies))
	}
	for i := 1; i < len(ctx.Bodies); i++ {
		if ctx.Bodies[i].P < ctx.Bodies[i-1].P {
			t.Fatalf("bodies not sorted by period at %d", i)
		}
	}
}

func TestSelectionUnknownName(t *testing.T) {
	if _, err := NewRunContext(eightPlanets(), animCfg("Venus", "Vulcan")); !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("expected ErrUnknownBody, got %v", err)
	}
}

func TestSelectionFromFilteredOutSystem(t *testing.T) {
	// A system where only a central body was ever added is empty, and
	// selecting from it must fail before any stepping starts.
	sys := NewSystem("lonely")
	sys.Add(CelestialBody{Name: "Sun", A: 0})
	if _, err := NewRunContext(sys, animCfg()); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestAnimationHorizon(t *testing.T) {
	ctx, err := NewRunContext(eightPlanets(), animCfg("Venus", "Mars"))
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(ctx.TMax, 4*1.881, 1e-12) {
		t.Fatalf("tmax=%f, want 4 outermost periods", ctx.TMax)
	}
	if ctx.Steps != 2500 {
		t.Fatalf("steps=%d, want 2500", ctx.Steps)
	}
	if !scalar.EqualWithinAbs(ctx.DT, ctx.TMax/2500, 1e-15) {
		t.Fatalf("dt=%f, want tmax/steps", ctx.DT)
	}
}

func TestSpinographHorizonCompounds(t *testing.T) {
	cfg := animCfg("Venus", "Mars")
	cfg.Mode = Spinograph
	ctx, err := NewRunContext(eightPlanets(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Ten times the orbit horizon: 40 outermost periods, 1234 steps.
	if !scalar.EqualWithinAbs(ctx.TMax, 40*1.881, 1e-12) {
		t.Fatalf("tmax=%f, want 40 outermost periods", ctx.TMax)
	}
	if ctx.Steps != 1234 {
		t.Fatalf("steps=%d, want 1234", ctx.Steps)
	}
}

func TestPathsCachedPerRun(t *testing.T) {
	ctx, err := NewRunContext(eightPlanets(), animCfg("Earth"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ctx.Paths) != 1 || ctx.Paths[0].Name != "Earth" {
		t.Fatal("run context must cache one path per selected body")
	}
	if len(ctx.Paths[0].X) != PathSamples {
		t.Fatalf("cached path has %d samples", len(ctx.Paths[0].X))
	}
}

func TestRunContextRejectsDegenerateOrbit(t *testing.T) {
	// A parabolic conic blows up while its path is sampled; the run must
	// fail during assembly, before any frame exists.
	sys := NewSystem("degenerate")
	sys.Add(CelestialBody{Name: "Comet", A: 1, Ecc: 1, P: 1})
	if _, err := NewRunContext(sys, animCfg()); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}
}

func TestConfigRejectsBadFPS(t *testing.T) {
	cfg := animCfg("Earth")
	cfg.TargetFPS = 0
	if _, err := NewRunContext(eightPlanets(), cfg); !errors.Is(err, ErrBadFPS) {
		t.Fatalf("expected ErrBadFPS, got %v", err)
	}
}
