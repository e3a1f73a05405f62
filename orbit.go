package solarkit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

/* Handles the orbital geometry computations. */

const (
	// PathSamples is the number of true anomaly samples per orbit path.
	PathSamples = 1000
)

var (
	// ErrZeroPeriod is returned when a position is requested for a body
	// whose orbital period is zero.
	ErrZeroPeriod = errors.New("solarkit: orbital period is zero")
	// ErrNonFinite is returned when the conic equation degenerates into a
	// NaN or infinite coordinate.
	ErrNonFinite = errors.New("solarkit: non-finite coordinate")
)

// Projection selects the coordinate space of a run. It is chosen once per
// run and shared by every path and position computed for that run.
type Projection uint8

const (
	// Flat projects orbits onto the ecliptic plane, ignoring inclination.
	Flat Projection = iota
	// Inclined tilts each orbit by the body's inclination Beta.
	Inclined
)

// String implements the Stringer interface.
func (p Projection) String() string {
	if p == Inclined {
		return "3D"
	}
	return "2D"
}

// project tilts a planar conic point by the inclination β (in degrees).
// Both the orbit path and the position computations must go through here.
func project(x, y, betaDeg float64) (float64, float64, float64) {
	sβ, cβ := math.Sincos(Deg2rad(betaDeg))
	return x * cβ, y, x * sβ
}

// finite reports whether every coordinate is a usable number.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// conicRadius evaluates the polar conic equation at the true anomaly θ.
func conicRadius(b CelestialBody, θ float64) float64 {
	return b.A * (1 - b.Ecc*b.Ecc) / (1 - b.Ecc*math.Cos(θ))
}

// OrbitPath traces one full revolution of a body's orbit. Z is nil under
// the Flat projection; under Inclined it always has the same length as X.
// Paths are immutable once computed and are shared across frames.
type OrbitPath struct {
	Name  string
	Color string
	X     []float64
	Y     []float64
	Z     []float64
}

// ComputePath samples a body's full orbit at PathSamples uniformly spaced
// true anomalies starting at θ=0. The result only depends on the body's
// elements and the projection, so callers cache it for the whole run. A
// degenerate conic (ecc=1 blows up at θ=0) surfaces as ErrNonFinite here,
// before any frame can carry the path.
func ComputePath(b CelestialBody, proj Projection) (OrbitPath, error) {
	θs := floats.Span(make([]float64, PathSamples), 0, 2*math.Pi)
	path := OrbitPath{
		Name:  b.Name,
		Color: b.Color,
		X:     make([]float64, PathSamples),
		Y:     make([]float64, PathSamples),
	}
	if proj == Inclined {
		path.Z = make([]float64, PathSamples)
	}
	for i, θ := range θs {
		sθ, cθ := math.Sincos(θ)
		r := conicRadius(b, θ)
		x, y := r*cθ, r*sθ
		if proj == Inclined {
			path.X[i], path.Y[i], path.Z[i] = project(x, y, b.Beta)
		} else {
			path.X[i], path.Y[i] = x, y
		}
		if !finite(path.X[i], path.Y[i]) || (proj == Inclined && !finite(path.Z[i])) {
			return OrbitPath{}, fmt.Errorf("%w (%s at θ=%f)", ErrNonFinite, b.Name, θ)
		}
	}
	return path, nil
}

// PositionSample is a body's instantaneous position at one simulation time.
// Z is only meaningful when the frame carrying the sample is Inclined.
type PositionSample struct {
	Name  string
	Color string
	X     float64
	Y     float64
	Z     float64
}

// ComputePosition returns a body's position at simulation time t (in
// years). The true anomaly is mapped linearly from time, θ(t) = 2πt/P,
// rather than solved from Kepler's equation; positions are therefore only
// exact for circular orbits. This matches the accepted behavior of the
// rest of the engine and keeps the position periodic in P.
func ComputePosition(b CelestialBody, proj Projection, t float64) (PositionSample, error) {
	if b.P == 0 {
		return PositionSample{}, fmt.Errorf("%w (%s)", ErrZeroPeriod, b.Name)
	}
	θ := 2 * math.Pi * t / b.P
	sθ, cθ := math.Sincos(θ)
	r := conicRadius(b, θ)
	x, y := r*cθ, r*sθ
	pos := PositionSample{Name: b.Name, Color: b.Color, X: x, Y: y}
	if proj == Inclined {
		pos.X, pos.Y, pos.Z = project(x, y, b.Beta)
	}
	if !finite(pos.X, pos.Y, pos.Z) {
		return PositionSample{}, fmt.Errorf("%w (%s at t=%f)", ErrNonFinite, b.Name, t)
	}
	return pos, nil
}
