package solarkit

import (
	"errors"
	"fmt"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

/* Handles the animation stepping loops. */

// ErrDriverSpent is returned when a driver is started a second time.
var ErrDriverSpent = errors.New("solarkit: driver already ran")

type driverState uint8

const (
	stateIdle driverState = iota
	stateRunning
	stateComplete
)

// Driver owns the simulation clock of one run and steps it to completion.
// It is single-use and single-threaded: one start call per driver, and all
// computation for a frame finishes before the next tick begins. The only
// suspension point is the pacing delay between animated frames.
type Driver struct {
	Ctx      *RunContext
	out      Renderer
	logger   kitlog.Logger
	t        float64
	state    driverState
	stopChan chan bool
}

// NewDriver returns an idle driver for the given run. A nil logger falls
// back to logfmt on stdout.
func NewDriver(ctx *RunContext, out Renderer, logger kitlog.Logger) *Driver {
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	logger = kitlog.With(logger, "subsys", "driver", "system", ctx.System.Name)
	return &Driver{Ctx: ctx, out: out, logger: logger, stopChan: make(chan bool, 1)}
}

// T returns the current simulation time in years. Only the driver itself
// advances it.
func (d *Driver) T() float64 {
	return d.t
}

// Completed returns whether the driver has finished its run.
func (d *Driver) Completed() bool {
	return d.state == stateComplete
}

// Stop requests a cooperative stop. The driver honors it at the top of the
// next tick; there is no mid-tick cancellation.
func (d *Driver) Stop() {
	select {
	case d.stopChan <- true:
	default: // a stop is already pending
	}
}

// start moves the driver from Idle to Running.
func (d *Driver) start() error {
	if d.state != stateIdle {
		return ErrDriverSpent
	}
	d.state = stateRunning
	d.t = 0
	return nil
}

// stopped reports whether a stop request is pending. Checked once per tick.
func (d *Driver) stopped() bool {
	select {
	case <-d.stopChan:
		return true
	default:
		return false
	}
}

// frameAt assembles the frame for simulation time t: the sun marker, the
// cached orbit paths and every selected body's current position. It fails
// before emission if any coordinate is not finite, so a malformed frame is
// never pushed to the renderer.
func (d *Driver) frameAt(t float64) (Frame, error) {
	positions := make([]PositionSample, len(d.Ctx.Bodies))
	for i, body := range d.Ctx.Bodies {
		pos, err := ComputePosition(body, d.Ctx.Projection, t)
		if err != nil {
			return Frame{}, err
		}
		positions[i] = pos
	}
	return Frame{
		T:          t,
		Projection: d.Ctx.Projection,
		Mode:       d.Ctx.Mode,
		Sun:        sunMarker(),
		Orbits:     d.Ctx.Paths,
		Positions:  positions,
	}, nil
}

// Orbits emits the single orbits-only frame: sun marker and cached paths,
// no positions and no stepping.
func (d *Driver) Orbits() error {
	if err := d.start(); err != nil {
		return err
	}
	defer func() { d.state = stateComplete }()
	frame := Frame{
		Projection: d.Ctx.Projection,
		Mode:       OrbitsOnly,
		Sun:        sunMarker(),
		Orbits:     d.Ctx.Paths,
	}
	if err := d.out.RenderFrame(frame); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Animate runs the paced stepping loop: one frame per step, pushed to the
// renderer, then the clock advances by dt. Pacing at 1/targetFps is best
// effort, not hard real time. The loop finishes after exactly Steps ticks
// or earlier on a stop request or error; frames already emitted stay valid
// either way.
func (d *Driver) Animate() error {
	if err := d.start(); err != nil {
		return err
	}
	defer func() { d.state = stateComplete }()
	d.logger.Log("level", "info", "status", "running", "mode", d.Ctx.Mode,
		"proj", d.Ctx.Projection, "tmax", d.Ctx.TMax, "dt", d.Ctx.DT, "steps", d.Ctx.Steps)
	pace := time.NewTicker(time.Second / time.Duration(d.Ctx.TargetFPS))
	defer pace.Stop()
	for k := 0; k < d.Ctx.Steps; k++ {
		if d.stopped() {
			d.logger.Log("level", "notice", "status", "stopped", "t", d.t)
			return nil
		}
		d.t = float64(k) * d.Ctx.DT
		frame, err := d.frameAt(d.t)
		if err != nil {
			return err
		}
		if err := d.out.RenderFrame(frame); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		<-pace.C // yield to the renderer until the next tick is due
	}
	d.logger.Log("level", "info", "status", "finished", "t", d.t)
	return nil
}

// Trace runs the same stepping loop without pacing and without per-tick
// emission, collecting every step's position chord into one aggregate for
// a one-shot render. This is the spinograph builder: the traced line is
// the set of chords connecting the bodies' simultaneous positions.
func (d *Driver) Trace() (Trace, error) {
	if err := d.start(); err != nil {
		return Trace{}, err
	}
	defer func() { d.state = stateComplete }()
	trace := Trace{
		Projection: d.Ctx.Projection,
		Mode:       d.Ctx.Mode,
		DT:         d.Ctx.DT,
		Orbits:     d.Ctx.Paths,
		Steps:      make([][]PositionSample, 0, d.Ctx.Steps),
	}
	for k := 0; k < d.Ctx.Steps; k++ {
		if d.stopped() {
			d.logger.Log("level", "notice", "status", "stopped", "t", d.t)
			return trace, nil
		}
		d.t = float64(k) * d.Ctx.DT
		chord := make([]PositionSample, len(d.Ctx.Bodies))
		for i, body := range d.Ctx.Bodies {
			pos, err := ComputePosition(body, d.Ctx.Projection, d.t)
			if err != nil {
				return Trace{}, err
			}
			chord[i] = pos
		}
		trace.Steps = append(trace.Steps, chord)
	}
	d.logger.Log("level", "info", "status", "finished", "mode", d.Ctx.Mode, "t", d.t)
	return trace, nil
}
