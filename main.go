package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	fieldLog := flag.String("field-log", "", "Write computed fields to this zstd JSONL file")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for the exit snapshot")
	resume := flag.String("resume", "", "Restore actors from a snapshot file")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, -1 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		FieldLogPath:   *fieldLog,
		SnapshotDir:    *snapshotDir,
		ResumePath:     *resume,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxTicks))
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Sense Field")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the simulation without raylib and returns the exit code.
func runHeadless(opts game.Options, maxTicks int) int {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	start := time.Now()
	for maxTicks <= 0 || int(g.Tick()) < maxTicks {
		g.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", g.Tick(), "elapsed", time.Since(start))
	return 0
}
