package solarkit

// Mode selects what a run draws and which time horizon it uses.
type Mode uint8

const (
	// OrbitsOnly renders a single frame with the orbit paths.
	OrbitsOnly Mode = iota
	// AnimatedOrbits steps each body along its orbit in real time.
	AnimatedOrbits
	// Spinograph traces the lines connecting the simultaneous positions
	// of the selected bodies over the whole horizon, in one pass.
	Spinograph
	// AnimatedSpinograph draws the spinograph trace tick by tick.
	AnimatedSpinograph
)

// String implements the Stringer interface.
func (m Mode) String() string {
	switch m {
	case OrbitsOnly:
		return "orbits"
	case AnimatedOrbits:
		return "animate"
	case Spinograph:
		return "spinograph"
	case AnimatedSpinograph:
		return "animated-spinograph"
	}
	return "unknown"
}

// spinograph returns whether the mode uses the extended trace horizon.
func (m Mode) spinograph() bool {
	return m == Spinograph || m == AnimatedSpinograph
}

// Frame is the unit pushed to a Renderer on every tick: the sun marker at
// the origin, the cached orbit paths, and the positions of the selected
// bodies at time T. All of its members share the same Projection; a Flat
// frame never carries Z data. Frames are transient: the driver keeps no
// history, so a Renderer must draw or copy a frame before the next tick.
type Frame struct {
	T          float64
	Projection Projection
	Mode       Mode
	Sun        PositionSample
	Orbits     []OrbitPath
	Positions  []PositionSample
}

// Trace is the one-shot aggregate built by the static variants: the
// per-step position chords of the whole run, collected into a single
// drawing pass instead of being emitted frame by frame.
type Trace struct {
	Projection Projection
	Mode       Mode
	DT         float64 // simulation years between consecutive steps
	Orbits     []OrbitPath
	Steps      [][]PositionSample
}

// Renderer consumes frames as the driver emits them. The driver does not
// know how frames are drawn; a renderer may write them to disk, hand them
// to a plotting surface, or discard them.
type Renderer interface {
	RenderFrame(f Frame) error
}

// sunMarker returns the fixed central-body marker at the origin.
func sunMarker() PositionSample {
	return PositionSample{Name: "Sun", Color: "y"}
}
