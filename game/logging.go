package game

import (
	"log/slog"

	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/sense"
)

// logPerfIfDue logs performance and world state every LogInterval ticks.
func (g *Game) logPerfIfDue() {
	interval := int32(g.cfg.Telemetry.LogInterval)
	if interval <= 0 || g.tick%interval != 0 {
		return
	}
	g.logPerfStats()
	g.logWorldState()
}

// logPerfStats logs performance statistics.
func (g *Game) logPerfStats() {
	slog.Info("perf",
		"tick", g.tick,
		"steps_per_update", g.stepsPerUpdate,
		"stats", g.perfCollector.Stats(),
	)
}

// logWorldState logs per-kind source counts and terrain composition.
func (g *Game) logWorldState() {
	var enabled, total [sense.NumKinds]int
	var maxRadius int

	query := g.entityFilter.Query()
	for query.Next() {
		_, _, src := query.Get()
		if src.Kind >= sense.NumKinds {
			continue
		}
		total[src.Kind]++
		if src.Enabled {
			enabled[src.Kind]++
		}
		maxRadius = max(maxRadius, src.Radius())
	}

	attrs := []any{"tick", g.tick, "max_radius", maxRadius}
	for k := sense.Kind(0); k < sense.NumKinds; k++ {
		if total[k] == 0 {
			continue
		}
		attrs = append(attrs, slog.Group(k.String(), "total", total[k], "enabled", enabled[k]))
	}
	if level := g.levels.Level(0); level != nil {
		attrs = append(attrs, slog.Group("terrain",
			"rock", level.Count(grid.Rock),
			"foliage", level.Count(grid.Foliage),
			"water", level.Count(grid.Water),
			"glass", level.Count(grid.Glass),
			"tiles", g.levels.Level(0).TileCount(),
		))
	}
	slog.Info("world", attrs...)
}
