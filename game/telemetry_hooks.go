package game

import (
	"log/slog"

	"github.com/pthm-cable/sensefield/telemetry"
)

// recordComputed turns the sense system's per-source results into events.
func (g *Game) recordComputed() {
	for _, c := range g.senses.Computed() {
		if c.Reallocated {
			g.collector.Record(telemetry.NewReallocatedEvent(g.tick, c.Entity.ID(), c.Kind, c.Radius))
		} else {
			g.collector.Record(telemetry.NewCalculatedEvent(g.tick, c.Entity.ID(), c.Kind, c.Radius))
		}
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleFields())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "stats", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleFields summarises every source's current field.
func (g *Game) sampleFields() []telemetry.FieldSample {
	var samples []telemetry.FieldSample
	query := g.entityFilter.Query()
	for query.Next() {
		_, _, src := query.Get()
		samples = append(samples, telemetry.SampleField(src.Kind, src.Enabled, src.Data))
	}
	return samples
}

// writeFieldLog appends every enabled field to the field log at the
// configured interval.
func (g *Game) writeFieldLog() {
	interval := int32(g.cfg.Telemetry.FieldLogInterval)
	if g.fieldLog == nil || interval <= 0 || g.tick%interval != 0 {
		return
	}

	query := g.entityFilter.Query()
	for query.Next() {
		pos, actor, src := query.Get()
		if !src.Enabled || src.Data == nil {
			continue
		}
		rec := telemetry.NewFieldRecord(g.tick, actor.ID, src.Kind, pos.Point(), pos.Level, src.Data)
		if err := g.fieldLog.Write(rec); err != nil {
			slog.Error("failed to write field log", "error", err)
			query.Close()
			return
		}
	}
}
