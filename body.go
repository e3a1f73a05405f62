package solarkit

import "strings"

// CelestialBody defines an orbiting body via its classical orbital elements.
// Only A, Ecc, Beta and P drive the geometry; M, R and Trot are carried for
// informational purposes and the render color is passed through untouched.
type CelestialBody struct {
	Name  string  // unique identifier within a System
	M     float64 // mass, in Earth masses
	A     float64 // semi-major axis, in AU
	Ecc   float64 // eccentricity, in [0, 1) for bound orbits
	Beta  float64 // orbital inclination, in degrees
	R     float64 // radius, in Earth radii
	Trot  float64 // rotational period, in days
	P     float64 // orbital period, in years
	Color string  // render color, opaque to the engine
}

// String implements the Stringer interface.
func (b CelestialBody) String() string {
	return b.Name + " body"
}

// System holds the bodies of a planetary system, keyed by name and kept in
// insertion order. Bodies are only ever added, never removed.
type System struct {
	Name   string
	bodies map[string]CelestialBody
	order  []string
}

// NewSystem returns an empty system with the given display name.
func NewSystem(name string) *System {
	return &System{Name: name, bodies: make(map[string]CelestialBody)}
}

// Add adds a body to the system. Bodies with a non-positive semi-major axis
// are dropped without signaling: they mark the central body, whose orbit
// cannot be computed. Re-adding a name replaces the stored elements.
func (s *System) Add(b CelestialBody) {
	if b.A <= 0 {
		return
	}
	if _, seen := s.bodies[b.Name]; !seen {
		s.order = append(s.order, b.Name)
	}
	s.bodies[b.Name] = b
}

// Get returns the body stored under the given name.
func (s *System) Get(name string) (CelestialBody, bool) {
	b, found := s.bodies[name]
	return b, found
}

// Len returns the number of bodies in the system.
func (s *System) Len() int {
	return len(s.order)
}

// Bodies returns the bodies in insertion order.
func (s *System) Bodies() []CelestialBody {
	bodies := make([]CelestialBody, len(s.order))
	for i, name := range s.order {
		bodies[i] = s.bodies[name]
	}
	return bodies
}

// Names returns the body names in insertion order.
func (s *System) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// String implements the Stringer interface.
func (s *System) String() string {
	return s.Name + "(" + strings.Join(s.order, ", ") + ")"
}
