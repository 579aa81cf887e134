// Package game runs the sense-field simulation: wandering actors carrying
// sense sources over generated terrain, with optional raylib rendering.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/camera"
	"github.com/pthm-cable/sensefield/components"
	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/inspector"
	"github.com/pthm-cable/sensefield/renderer"
	"github.com/pthm-cable/sensefield/systems"
	"github.com/pthm-cable/sensefield/telemetry"
	"github.com/pthm-cable/sensefield/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string // CSV telemetry and config snapshot, empty = off
	FieldLogPath   string // zstd JSONL field records, empty = off
	SnapshotDir    string // actor snapshot written on Unload, empty = off
	ResumePath     string // snapshot to restore actors from
	Headless       bool
	StepsPerUpdate int

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	levels    *grid.World
	profiles  *systems.Profiles
	senses    *systems.SenseSourceSystem
	occupancy *systems.Occupancy

	entityMapper *ecs.Map3[components.Position, components.Actor, components.SenseSource]
	entityFilter *ecs.Filter3[components.Position, components.Actor, components.SenseSource]
	posMap       *ecs.Map1[components.Position]
	actorMap     *ecs.Map1[components.Actor]
	srcMap       *ecs.Map1[components.SenseSource]

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	nextID         int

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	fieldLog      *telemetry.FieldLog
	logStats      bool
	snapshotDir   string
	statsCallback func(telemetry.WindowStats)
	lastStats     telemetry.WindowStats
	tickStats     systems.TickStats

	// Rendering (nil when headless)
	headless     bool
	screenWidth  float32
	screenHeight float32
	camera       *camera.Camera
	inspector    *inspector.Inspector
	overlays     *ui.OverlayRegistry
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	controls     *ui.ControlsPanel
	gridRenderer *renderer.GridRenderer
	viewLevel    int
	hoverX       int
	hoverY       int
	hoverOK      bool
}

// NewGameWithOptions builds the world, terrain, actors and telemetry sinks.
// config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}

	profiles, err := systems.ProfilesFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building sense profiles: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:            cfg,
		world:          world,
		rng:            rand.New(rand.NewSource(seed)),
		rngSeed:        seed,
		levels:         grid.NewWorld(cfg.World.Width, cfg.World.Height, cfg.World.Levels),
		profiles:       profiles,
		occupancy:      systems.NewOccupancy(cfg.World.Width, cfg.World.Height, cfg.World.Levels, 16),
		entityMapper:   ecs.NewMap3[components.Position, components.Actor, components.SenseSource](world),
		entityFilter:   ecs.NewFilter3[components.Position, components.Actor, components.SenseSource](world),
		posMap:         ecs.NewMap1[components.Position](world),
		actorMap:       ecs.NewMap1[components.Actor](world),
		srcMap:         ecs.NewMap1[components.SenseSource](world),
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		collector:      telemetry.NewCollector(int32(cfg.Telemetry.StatsWindow)),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		statsCallback:  opts.StatsCallback,
		headless:       opts.Headless,
	}

	g.senses = systems.NewSenseSourceSystem(world, g.levels, profiles, cfg.Derived.Workers, cfg.Propagation.ParallelThreshold)

	g.generateTerrain()

	if opts.ResumePath != "" {
		if err := g.restoreSnapshot(opts.ResumePath); err != nil {
			g.senses.Stop()
			return nil, err
		}
	} else {
		g.spawnInitialActors()
	}
	g.rebuildOccupancy()

	if err := g.openOutputs(opts); err != nil {
		g.senses.Stop()
		return nil, err
	}

	if !g.headless {
		g.initRendering()
	}

	slog.Info("game initialized",
		"seed", seed,
		"width", cfg.World.Width,
		"height", cfg.World.Height,
		"levels", cfg.World.Levels,
		"actors", g.ActorCount(),
		"workers", g.senses.Workers(),
	)

	return g, nil
}

// openOutputs creates the CSV output directory and the field log.
func (g *Game) openOutputs(opts Options) error {
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	if opts.FieldLogPath != "" {
		fl, err := telemetry.NewFieldLog(opts.FieldLogPath)
		if err != nil {
			return err
		}
		g.fieldLog = fl
	}
	return nil
}

// generateTerrain fills every level with noise terrain, offsetting the seed
// per level.
func (g *Game) generateTerrain() {
	tc := g.cfg.Terrain
	for z, level := range g.levels.Levels {
		if !tc.Enabled {
			if tc.Border {
				level.Border()
			}
			continue
		}
		grid.Generate(level, grid.TerrainFromConfig(tc), g.rngSeed+int64(z)*7919)
	}
}

// Update handles input and runs stepsPerUpdate simulation steps.
func (g *Game) Update() {
	if !g.headless {
		g.handleInput()
		g.perfCollector.RecordFrame()
	}

	if g.paused {
		return
	}

	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs stepsPerUpdate simulation steps without input handling.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	// 1. Move actors and vary intensities
	g.perfCollector.StartPhase(telemetry.PhaseMovement)
	g.updateActors()

	// 2-4. Recompute every enabled source
	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	stats := g.senses.Snapshot()

	g.perfCollector.StartPhase(telemetry.PhasePropagate)
	stats.Parallel = g.senses.Compute()

	g.perfCollector.StartPhase(telemetry.PhaseApply)
	g.senses.Apply(&stats)
	g.tickStats = stats

	// 5. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordComputed()
	g.tick++
	g.writeFieldLog()
	g.flushTelemetry()
	g.logPerfIfDue()

	g.perfCollector.EndTick()
}

// Tick returns the number of completed simulation steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// ActorCount returns the number of actors.
func (g *Game) ActorCount() int {
	n := 0
	query := g.entityFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Unload writes the final snapshot, closes outputs and stops workers.
func (g *Game) Unload() {
	start := time.Now()

	if g.snapshotDir != "" {
		g.saveSnapshot()
	}
	if err := g.fieldLog.Close(); err != nil {
		slog.Error("failed to close field log", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.senses.Stop()
	g.unloadRendering()

	slog.Debug("game unloaded", "tick", g.tick, "elapsed", time.Since(start))
}
