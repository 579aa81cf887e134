// Package main benchmarks sense propagation across variants, metrics and
// intensities on generated rooms, writing one CSV row per combination.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/sensefield/bench"
	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/sense"
	"github.com/pthm-cable/sensefield/systems"
)

// Row is one benchmarked combination.
type Row struct {
	RunID      string  `csv:"run_id"`
	Kind       string  `csv:"kind"`
	Variant    string  `csv:"variant"`
	Metric     string  `csv:"metric"`
	Intensity  float64 `csv:"intensity"`
	Calcs      int     `csv:"calculations"`
	MeanUS     float64 `csv:"mean_us"`
	StdUS      float64 `csv:"std_us"`
	P50US      float64 `csv:"p50_us"`
	P90US      float64 `csv:"p90_us"`
	MeanRadius float64 `csv:"mean_radius"`
	MeanLit    float64 `csv:"mean_lit"`
	MeanObstr  float64 `csv:"mean_obstructed"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	kind := flag.String("kind", "vision", "Sense kind whose settings are varied")
	intensities := flag.String("intensities", "4,8,16,32", "Comma-separated source intensities")
	size := flag.Int("size", 128, "Room side in cells")
	seeds := flag.Int("seeds", 3, "Rooms per combination")
	sources := flag.Int("sources", 32, "Origins per room")
	repeats := flag.Int("repeats", 3, "Calculations per origin")
	output := flag.String("output", "", "CSV output path (empty = stdout)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *kind, *intensities, *size, *seeds, *sources, *repeats, *output); err != nil {
		slog.Error("benchmark failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, kind, intensityList string, size, seeds, sources, repeats int, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	base, ok := cfg.Sense(kind)
	if !ok {
		return fmt.Errorf("no sense entry for kind %q", kind)
	}
	levels, err := parseFloats(intensityList)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scenario := bench.Scenario{
		Size:    size,
		Sources: sources,
		Repeats: repeats,
		Terrain: grid.TerrainFromConfig(cfg.Terrain),
	}
	scenario.Terrain.Border = true
	for i := 0; i < seeds; i++ {
		scenario.Seeds = append(scenario.Seeds, cfg.World.Seed+int64(i)*1000)
	}

	runID := uuid.New().String()
	slog.Info("starting benchmark", "run_id", runID, "kind", kind, "size", size, "seeds", seeds, "sources", sources)

	var rows []Row
	start := time.Now()
	for _, variant := range []string{sense.VariantFull, sense.VariantRestricted} {
		for _, metric := range []string{"euclidean", "chebyshev", "manhattan"} {
			for _, intensity := range levels {
				sc := base
				sc.Variant = variant
				sc.Metric = metric
				sc.Intensity = intensity

				profile, err := systems.NewProfile(sc,
					sense.WithEpsilon(cfg.Derived.Epsilon32),
					sense.WithMaxRadius(cfg.Propagation.MaxRadius),
				)
				if err != nil {
					return err
				}
				res, err := bench.Run(ctx, profile, scenario)
				if err != nil {
					return err
				}
				sum := res.Summary()
				row := Row{
					RunID:      runID,
					Kind:       kind,
					Variant:    variant,
					Metric:     metric,
					Intensity:  intensity,
					Calcs:      sum.Calculations,
					MeanUS:     sum.MeanNS / 1e3,
					StdUS:      sum.StdNS / 1e3,
					P50US:      sum.P50NS / 1e3,
					P90US:      sum.P90NS / 1e3,
					MeanRadius: sum.MeanRadius,
					MeanLit:    sum.MeanLit,
					MeanObstr:  sum.MeanObstructed,
				}
				rows = append(rows, row)
				slog.Info("combination done",
					"variant", variant,
					"metric", metric,
					"intensity", intensity,
					"mean_us", fmt.Sprintf("%.1f", row.MeanUS),
					"mean_lit", fmt.Sprintf("%.0f", row.MeanLit),
				)
			}
		}
	}
	slog.Info("benchmark complete", "run_id", runID, "rows", len(rows), "elapsed", time.Since(start))

	return writeRows(rows, output)
}

func writeRows(rows []Row, output string) error {
	if output == "" {
		return gocsv.Marshal(rows, os.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

func parseFloats(list string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad intensity %q: %w", part, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("intensity must be positive, got %v", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no intensities given")
	}
	return out, nil
}
