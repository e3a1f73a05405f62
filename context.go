package solarkit

import (
	"errors"
	"fmt"
	"sort"
)

const (
	orbitHorizonOrbits = 4    // horizon in outermost-body periods
	orbitSteps         = 2500 // steps for orbit animation
	spinoHorizonFactor = 10   // applied on top of the orbit horizon
	spinoSteps         = 1234 // steps for spinograph traces
)

var (
	// ErrEmptySelection is returned when a run would have no bodies.
	ErrEmptySelection = errors.New("solarkit: selection resolves to no bodies")
	// ErrUnknownBody is returned when a selected name is not in the system.
	ErrUnknownBody = errors.New("solarkit: body not in system")
)

// RunContext is the fully-initialized, immutable configuration of one
// visualization run: the selected bodies sorted by ascending period, their
// cached orbit paths, and the derived time horizon. Build one through
// NewRunContext; nothing mutates it afterwards, so it may be shared freely
// with a renderer.
type RunContext struct {
	System     *System
	Bodies     []CelestialBody // ascending orbital period
	Paths      []OrbitPath     // cached, same order as Bodies
	Projection Projection
	Mode       Mode
	TargetFPS  int
	TMax       float64 // simulation horizon, years
	DT         float64 // step size, years
	Steps      int
}

// NewRunContext resolves and orders the selection, derives the horizon for
// the requested mode, and precomputes every orbit path exactly once.
//
// An empty name list selects the whole system. The horizon is anchored on
// the outermost (longest-period) body: four of its orbits for the orbit
// views, ten times that again for the spinograph views. The step count is
// fixed per mode, and dt = tmax/steps.
func NewRunContext(sys *System, cfg RunConfig) (*RunContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	names := cfg.Bodies
	if len(names) == 0 {
		names = sys.Names()
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w (system %s is empty)", ErrEmptySelection, sys.Name)
	}
	bodies := make([]CelestialBody, len(names))
	for i, name := range names {
		body, found := sys.Get(name)
		if !found {
			return nil, fmt.Errorf("%w (%q)", ErrUnknownBody, name)
		}
		bodies[i] = body
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].P < bodies[j].P })

	tmax := orbitHorizonOrbits * bodies[len(bodies)-1].P
	steps := orbitSteps
	if cfg.Mode.spinograph() {
		tmax *= spinoHorizonFactor
		steps = spinoSteps
	}

	ctx := &RunContext{
		System:     sys,
		Bodies:     bodies,
		Projection: cfg.Projection(),
		Mode:       cfg.Mode,
		TargetFPS:  cfg.TargetFPS,
		TMax:       tmax,
		DT:         tmax / float64(steps),
		Steps:      steps,
	}
	ctx.Paths = make([]OrbitPath, len(bodies))
	for i, body := range bodies {
		path, err := ComputePath(body, ctx.Projection)
		if err != nil {
			return nil, err
		}
		ctx.Paths[i] = path
	}
	return ctx, nil
}

// Outermost returns the longest-period body of the selection, which paces
// the run horizon.
func (ctx *RunContext) Outermost() CelestialBody {
	return ctx.Bodies[len(ctx.Bodies)-1]
}
