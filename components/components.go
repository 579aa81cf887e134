// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/sensefield/sense"

// Position is an entity's cell on a level.
type Position struct {
	X     int `inspect:"label"`
	Y     int `inspect:"label"`
	Level int `inspect:"label"`
}

// Point returns the position as a sense point.
func (p Position) Point() sense.Point { return sense.Point{X: p.X, Y: p.Y} }

// Actor holds identity and movement state for a wandering entity.
type Actor struct {
	ID      string  `inspect:"label"`
	Heading float32 `inspect:"angle"` // degrees, 0 = north, clockwise
	Wander  float32 `inspect:"bar"`   // chance per tick of taking a step
}

// SenseSource is a point emitter or sensor of one sense kind. Data holds the
// last computed field and is reused across ticks while the radius is stable.
type SenseSource struct {
	Kind       sense.Kind        `inspect:"label"`
	Definition sense.Definition  `inspect:"skip"`
	Intensity  float32           `inspect:"bar,max:20"` // current intensity, may differ from Definition.Intensity
	Flicker    float32           `inspect:"bar"`        // relative intensity jitter per tick
	Enabled    bool              `inspect:"bool"`
	Data       *sense.SourceData `inspect:"skip"`
}

// Radius returns the radius of the last computed field, or 0.
func (s *SenseSource) Radius() int {
	if s.Data == nil {
		return 0
	}
	return s.Data.Radius()
}
