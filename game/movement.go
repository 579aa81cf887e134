package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/components"
	"github.com/pthm-cable/sensefield/sense"
	"github.com/pthm-cable/sensefield/telemetry"
)

// turnChance is the per-tick chance that a resting actor turns 45 degrees.
const turnChance = 0.1

// updateActors random-walks actors over open, unoccupied cells and applies
// intensity flicker. A step sets the heading to the step direction.
func (g *Game) updateActors() {
	g.rebuildOccupancy()

	query := g.entityFilter.Query()
	for query.Next() {
		pos, actor, src := query.Get()
		level := g.levels.Level(pos.Level)
		if level == nil {
			continue
		}

		if g.rng.Float32() < actor.Wander {
			d := sense.Direction(1 + g.rng.Intn(8))
			next := pos.Point().Add(d.Step())
			if level.IsOpen(next.X, next.Y) && !g.occupancy.Occupied(next.X, next.Y, pos.Level) {
				to := components.Position{X: next.X, Y: next.Y, Level: pos.Level}
				g.occupancy.Move(query.Entity(), *pos, to)
				*pos = to
				actor.Heading = headingOf(d)
				g.collector.Record(telemetry.NewMovedEvent(g.tick, query.Entity().ID()))
			}
		} else if g.rng.Float32() < turnChance {
			turn := float32(45)
			if g.rng.Intn(2) == 0 {
				turn = -45
			}
			actor.Heading = wrapDegrees(actor.Heading + turn)
		}

		if src.Flicker > 0 && src.Enabled {
			jitter := src.Flicker * (2*g.rng.Float32() - 1)
			src.Intensity = max(src.Definition.Intensity*(1+jitter), 0)
		}
	}
}

// rebuildOccupancy reindexes every actor by its current cell.
func (g *Game) rebuildOccupancy() {
	g.occupancy.Clear()
	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		g.occupancy.Insert(query.Entity(), *pos)
	}
}

// ActorsNear returns the actors within Chebyshev distance radius of (x, y).
func (g *Game) ActorsNear(x, y, level, radius int) []ecs.Entity {
	return g.occupancy.QueryInto(nil, x, y, level, radius)
}

// SetSourceEnabled switches an actor's source on or off.
func (g *Game) SetSourceEnabled(e ecs.Entity, enabled bool) {
	src := g.srcMap.Get(e)
	if src == nil || src.Enabled == enabled {
		return
	}
	src.Enabled = enabled
	g.collector.Record(telemetry.NewToggledEvent(g.tick, e.ID(), src.Kind, enabled))
}
