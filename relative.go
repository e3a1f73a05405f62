package solarkit

import "fmt"

// TraceRelative builds the aggregate trace of the selection as seen from
// another body: at every step, each selected body's position is
// re-expressed relative to the origin body's simultaneous position. The
// origin may be any body of the system, selected or not; it sits at the
// center of the resulting view and is left out of the chords either way.
func (d *Driver) TraceRelative(origin string) (Trace, error) {
	originBody, found := d.Ctx.System.Get(origin)
	if !found {
		return Trace{}, fmt.Errorf("%w (origin %q)", ErrUnknownBody, origin)
	}
	if err := d.start(); err != nil {
		return Trace{}, err
	}
	defer func() { d.state = stateComplete }()
	trace := Trace{
		Projection: d.Ctx.Projection,
		Mode:       d.Ctx.Mode,
		DT:         d.Ctx.DT,
		Steps:      make([][]PositionSample, 0, d.Ctx.Steps),
	}
	for k := 0; k < d.Ctx.Steps; k++ {
		if d.stopped() {
			d.logger.Log("level", "notice", "status", "stopped", "t", d.t)
			return trace, nil
		}
		d.t = float64(k) * d.Ctx.DT
		center, err := ComputePosition(originBody, d.Ctx.Projection, d.t)
		if err != nil {
			return Trace{}, err
		}
		chord := make([]PositionSample, 0, len(d.Ctx.Bodies)-1)
		for _, body := range d.Ctx.Bodies {
			if body.Name == origin {
				continue
			}
			pos, err := ComputePosition(body, d.Ctx.Projection, d.t)
			if err != nil {
				return Trace{}, err
			}
			pos.X -= center.X
			pos.Y -= center.Y
			pos.Z -= center.Z
			chord = append(chord, pos)
		}
		trace.Steps = append(trace.Steps, chord)
	}
	d.logger.Log("level", "info", "status", "finished", "origin", origin, "t", d.t)
	return trace, nil
}
