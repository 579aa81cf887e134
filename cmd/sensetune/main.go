// Package main tunes one sense entry with CMA-ES so its fields cover a target
// number of cells on generated rooms while staying cheap to compute.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/sensefield/bench"
	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/sense"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	MeanLit   float64 `csv:"mean_lit"`
	MeanUS    float64 `csv:"mean_us"`
	Intensity float64 `csv:"intensity"`
	Physics   float64 `csv:"physics_param"`
	Span      float64 `csv:"span"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	kind := flag.String("kind", "vision", "Sense kind to tune")
	targetLit := flag.Float64("target-lit", 150, "Desired mean lit cells per source")
	budgetUS := flag.Float64("budget-us", 50, "Mean calculation time (microseconds) that costs one point")
	costWeight := flag.Float64("cost-weight", 0.1, "Weight of compute cost against coverage")
	seeds := flag.Int("seeds", 3, "Rooms per evaluation")
	size := flag.Int("size", 96, "Room side in cells")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *outputDir == "" {
		slog.Error("--output is required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	base, ok := cfg.Sense(*kind)
	if !ok {
		slog.Error("no sense entry for kind", "kind", *kind)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params := NewParamVector(base)

	scenario := bench.DefaultScenario()
	scenario.Size = *size
	scenario.Terrain = grid.TerrainFromConfig(cfg.Terrain)
	scenario.Terrain.Border = true
	scenario.Seeds = scenario.Seeds[:0]
	for i := 0; i < *seeds; i++ {
		scenario.Seeds = append(scenario.Seeds, int64(i*1000+42))
	}

	evaluator := NewFitnessEvaluator(params, base, scenario, *targetLit, *budgetUS, *costWeight,
		sense.WithEpsilon(cfg.Derived.Epsilon32),
		sense.WithMaxRadius(cfg.Propagation.MaxRadius),
	)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; each evaluation fans out per room
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		slog.Error("failed to create log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := failedFitness
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if ctx.Err() != nil {
				return failedFitness
			}
			raw := params.Denormalize(x)
			clamped := params.Clamp(raw)
			fitness := evaluator.Evaluate(ctx, clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			lit, us := evaluator.Last()
			tuned := params.Apply(base, clamped)
			physicsParam := tuned.DecayPerCell
			if tuned.Physics == "full" {
				physicsParam = tuned.CellsPerUnit
			}
			row := []evalRow{{
				Eval:      evalCount,
				Fitness:   fitness,
				MeanLit:   lit,
				MeanUS:    us,
				Intensity: tuned.Intensity,
				Physics:   physicsParam,
				Span:      tuned.Span,
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(row, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if err != nil {
				slog.Warn("failed to write log row", "error", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: lit=%.0f cost=%.1fus fitness=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, lit, us, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES tuning of %s with %d parameters, population=%d, max_evals=%d\n",
		*kind, dim, popSize, *maxEvals)
	fmt.Printf("Rooms per evaluation: %d (%dx%d), target lit cells: %.0f\n", *seeds, *size, *size, *targetLit)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Info("optimization ended", "reason", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		slog.Error("no evaluation completed")
		os.Exit(1)
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f (unbuildable settings: %d)\n", bestFitness, evaluator.Failures())
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Name, bestParams[i])
	}

	params.ApplyToConfig(cfg, base, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
