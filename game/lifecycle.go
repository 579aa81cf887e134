package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/components"
	"github.com/pthm-cable/sensefield/sense"
	"github.com/pthm-cable/sensefield/telemetry"
)

// spawnSearchRadius bounds the search for an open cell around a random pick.
const spawnSearchRadius = 16

// spawnInitialActors places the configured number of actors on random open
// cells, assigning sense kinds round-robin.
func (g *Game) spawnInitialActors() {
	kinds := g.cfg.Actors.Kinds
	if len(kinds) == 0 {
		return
	}

	spawned := 0
	for i := 0; i < g.cfg.Actors.Count; i++ {
		kind, ok := sense.ParseKind(kinds[i%len(kinds)])
		if !ok {
			continue
		}
		z := g.rng.Intn(len(g.levels.Levels))
		level := g.levels.Level(z)
		x, y, ok := level.NearestOpen(g.rng.Intn(level.Width()), g.rng.Intn(level.Height()), spawnSearchRadius)
		if !ok {
			continue
		}
		heading := float32(g.rng.Intn(8)) * 45
		g.spawnActor(components.Position{X: x, Y: y, Level: z}, heading, float32(g.cfg.Actors.Wander), kind)
		spawned++
	}

	if spawned < g.cfg.Actors.Count {
		slog.Warn("could not place every actor", "wanted", g.cfg.Actors.Count, "placed", spawned)
	}
}

// spawnActor creates an actor carrying an enabled source of kind.
func (g *Game) spawnActor(pos components.Position, heading, wander float32, kind sense.Kind) ecs.Entity {
	profile := g.profiles.Get(kind)

	actor := components.Actor{
		ID:      g.newActorID(),
		Heading: heading,
		Wander:  wander,
	}
	src := components.SenseSource{Kind: kind, Enabled: true}
	if profile != nil {
		src.Definition = profile.Definition
		src.Intensity = profile.Definition.Intensity
		src.Flicker = profile.Flicker
	}

	return g.entityMapper.NewEntity(&pos, &actor, &src)
}

func (g *Game) newActorID() string {
	id := fmt.Sprintf("a%d", g.nextID)
	g.nextID++
	return id
}

// createSnapshot builds a snapshot of every actor.
func (g *Game) createSnapshot() *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        g.rngSeed,
		WorldWidth:  g.cfg.World.Width,
		WorldHeight: g.cfg.World.Height,
		Levels:      len(g.levels.Levels),
		Tick:        g.tick,
	}

	query := g.entityFilter.Query()
	for query.Next() {
		pos, actor, src := query.Get()
		snapshot.Entities = append(snapshot.Entities, telemetry.EntityState{
			ID:        actor.ID,
			X:         pos.X,
			Y:         pos.Y,
			Level:     pos.Level,
			Heading:   actor.Heading,
			Wander:    actor.Wander,
			Kind:      src.Kind.String(),
			Intensity: src.Intensity,
			Enabled:   src.Enabled,
		})
	}

	return snapshot
}

// saveSnapshot writes a snapshot to the snapshot directory.
func (g *Game) saveSnapshot() {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// restoreSnapshot replaces actor spawning with the actors from a snapshot.
// The world must have the same dimensions; terrain is regenerated from the
// config seed, so resuming with a different seed is reported.
func (g *Game) restoreSnapshot(path string) error {
	snapshot, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if snapshot.WorldWidth != g.cfg.World.Width || snapshot.WorldHeight != g.cfg.World.Height || snapshot.Levels != len(g.levels.Levels) {
		return fmt.Errorf("snapshot world %dx%dx%d does not match config %dx%dx%d",
			snapshot.WorldWidth, snapshot.WorldHeight, snapshot.Levels,
			g.cfg.World.Width, g.cfg.World.Height, len(g.levels.Levels))
	}
	if snapshot.Seed != g.rngSeed {
		slog.Warn("resuming with a different seed, terrain will differ", "snapshot_seed", snapshot.Seed, "seed", g.rngSeed)
	}

	for _, es := range snapshot.Entities {
		kind, ok := sense.ParseKind(es.Kind)
		if !ok {
			return fmt.Errorf("snapshot entity %s: unknown kind %q", es.ID, es.Kind)
		}
		pos := components.Position{X: es.X, Y: es.Y, Level: es.Level}
		e := g.spawnActor(pos, es.Heading, es.Wander, kind)

		actor := g.actorMap.Get(e)
		actor.ID = es.ID
		src := g.srcMap.Get(e)
		src.Intensity = es.Intensity
		src.Enabled = es.Enabled
	}
	g.nextID = len(snapshot.Entities)
	g.tick = snapshot.Tick

	slog.Info("snapshot restored", "path", path, "tick", g.tick, "actors", len(snapshot.Entities))
	return nil
}
