// Package systems contains the ECS systems of the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/components"
	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/sense"
)

// DefaultParallelThreshold is the minimum number of active sources for which
// computation is spread over the worker pool.
const DefaultParallelThreshold = 64

// sourceSnapshot captures what one source's computation needs, taken before
// any goroutine starts.
type sourceSnapshot struct {
	Entity    ecs.Entity
	Kind      sense.Kind
	Def       sense.Definition
	Intensity float32
	Origin    sense.Point
	Res       sense.ResistanceView
	Dirs      sense.DirectionalityView
	Reuse     *sense.SourceData
}

// Computed describes one source refreshed in the last Update.
type Computed struct {
	Entity      ecs.Entity
	Kind        sense.Kind
	Radius      int
	Reallocated bool
}

// TickStats summarises one Update.
type TickStats struct {
	Active    int // sources computed
	Disabled  int // sources skipped and cleared
	Reallocs  int // sources whose output grid was replaced
	MaxRadius int
	Parallel  bool
}

// SenseSourceSystem recomputes the field of every enabled sense source once
// per tick.
type SenseSourceSystem struct {
	filter   *ecs.Filter3[components.Position, components.Actor, components.SenseSource]
	srcMap   *ecs.Map1[components.SenseSource]
	levels   *grid.World
	profiles *Profiles

	pool              *workerPool
	parallelThreshold int

	snapshots []sourceSnapshot
	results   []*sense.SourceData
	computed  []Computed
}

// NewSenseSourceSystem creates the system. workers is the size of the
// persistent pool used once at least parallelThreshold sources are active.
func NewSenseSourceSystem(world *ecs.World, levels *grid.World, profiles *Profiles, workers, parallelThreshold int) *SenseSourceSystem {
	if parallelThreshold < 1 {
		parallelThreshold = DefaultParallelThreshold
	}
	s := &SenseSourceSystem{
		filter:            ecs.NewFilter3[components.Position, components.Actor, components.SenseSource](world),
		srcMap:            ecs.NewMap1[components.SenseSource](world),
		levels:            levels,
		profiles:          profiles,
		parallelThreshold: parallelThreshold,
		snapshots:         make([]sourceSnapshot, 0, 256),
		results:           make([]*sense.SourceData, 0, 256),
		computed:          make([]Computed, 0, 256),
	}
	s.pool = newWorkerPool(workers, s.computeChunk)
	return s
}

// Workers returns the worker pool size.
func (s *SenseSourceSystem) Workers() int {
	return s.pool.numWorkers
}

// Update runs snapshot, compute and apply in order.
func (s *SenseSourceSystem) Update() TickStats {
	stats := s.Snapshot()
	stats.Parallel = s.Compute()
	s.Apply(&stats)
	return stats
}

// Snapshot collects enabled sources. Disabled sources, and sources on a
// missing level or without a profile, have their field cleared in place.
func (s *SenseSourceSystem) Snapshot() TickStats {
	var stats TickStats
	s.snapshots = s.snapshots[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, actor, src := query.Get()

		level := s.levels.Level(pos.Level)
		profile := s.profiles.Get(src.Kind)
		if !src.Enabled || level == nil || profile == nil {
			if src.Data != nil {
				src.Data.Reset()
			}
			stats.Disabled++
			continue
		}

		s.snapshots = append(s.snapshots, sourceSnapshot{
			Entity:    query.Entity(),
			Kind:      src.Kind,
			Def:       profile.Oriented(actor.Heading),
			Intensity: src.Intensity,
			Origin:    pos.Point(),
			Res:       level.ResistanceView(src.Kind),
			Dirs:      level.DirectionalityView(src.Kind),
			Reuse:     src.Data,
		})
	}

	stats.Active = len(s.snapshots)
	return stats
}

// Compute runs the propagators over the snapshots, in parallel when there are
// enough of them. It reports whether the pool was used.
func (s *SenseSourceSystem) Compute() bool {
	n := len(s.snapshots)
	if cap(s.results) < n {
		s.results = make([]*sense.SourceData, n)
	}
	s.results = s.results[:n]
	if n == 0 {
		return false
	}

	if n < s.parallelThreshold || s.pool.numWorkers == 1 {
		s.pool.runSerial(n)
		return false
	}
	s.pool.runParallel(n)
	return true
}

// computeChunk processes a range of snapshots for a single worker.
func (s *SenseSourceSystem) computeChunk(i0, i1 int, scratch *sense.ScratchBuffer) {
	for i := i0; i < i1; i++ {
		snap := &s.snapshots[i]
		prop := s.profiles.Get(snap.Kind).Propagator
		s.results[i] = prop.CalculateWith(scratch, snap.Def, snap.Intensity, snap.Origin, snap.Res, snap.Dirs, snap.Reuse)
	}
}

// Apply stores the computed fields back on the components.
func (s *SenseSourceSystem) Apply(stats *TickStats) {
	s.computed = s.computed[:0]

	for i := range s.snapshots {
		snap := &s.snapshots[i]
		data := s.results[i]
		s.results[i] = nil

		src := s.srcMap.Get(snap.Entity)
		if src == nil {
			continue
		}
		src.Data = data

		realloc := data != snap.Reuse
		if realloc {
			stats.Reallocs++
		}
		if data.Radius() > stats.MaxRadius {
			stats.MaxRadius = data.Radius()
		}
		s.computed = append(s.computed, Computed{
			Entity:      snap.Entity,
			Kind:        snap.Kind,
			Radius:      data.Radius(),
			Reallocated: realloc,
		})
	}
}

// Computed returns the sources refreshed by the last Apply. The slice is
// reused by the next tick.
func (s *SenseSourceSystem) Computed() []Computed {
	return s.computed
}

// Stop shuts the worker pool down.
func (s *SenseSourceSystem) Stop() {
	s.pool.stop()
}
