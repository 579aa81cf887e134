// Package bench runs a sense profile over generated rooms and measures how
// long each field takes and how much of the room it covers. It backs the
// sensebench and sensetune tools.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/sense"
	"github.com/pthm-cable/sensefield/systems"
	"github.com/pthm-cable/sensefield/telemetry"
)

// Scenario describes the rooms a profile is measured on.
type Scenario struct {
	Size    int     // room side in cells
	Seeds   []int64 // one generated room per seed
	Sources int     // origins sampled per room
	Repeats int     // calculations per origin
	Terrain grid.TerrainParams
}

// DefaultScenario returns a scenario small enough for quick runs.
func DefaultScenario() Scenario {
	return Scenario{
		Size:    96,
		Seeds:   []int64{42, 1042, 2042},
		Sources: 16,
		Repeats: 3,
		Terrain: grid.DefaultTerrain(),
	}
}

// Sample is one timed calculation.
type Sample struct {
	Seed       int64
	Origin     sense.Point
	Duration   time.Duration
	Radius     int
	Lit        int
	Obstructed int
}

// Result holds every sample of a run.
type Result struct {
	Samples []Sample
}

// Summary aggregates a Result.
type Summary struct {
	Calculations   int
	MeanNS         float64
	StdNS          float64
	P10NS          float64
	P50NS          float64
	P90NS          float64
	MeanLit        float64
	MeanObstructed float64
	MeanRadius     float64
}

// Rooms generates one level per seed.
func (s Scenario) Rooms() []*grid.Level {
	rooms := make([]*grid.Level, len(s.Seeds))
	for i, seed := range s.Seeds {
		level := grid.NewLevel(s.Size, s.Size)
		grid.Generate(level, s.Terrain, seed)
		rooms[i] = level
	}
	return rooms
}

// Origins picks up to n open cells in level, deterministically from seed.
func Origins(level *grid.Level, n int, seed int64) []sense.Point {
	rng := rand.New(rand.NewSource(seed))
	out := make([]sense.Point, 0, n)
	for tries := 0; len(out) < n && tries < n*20; tries++ {
		x, y, ok := level.NearestOpen(rng.Intn(level.Width()), rng.Intn(level.Height()), 4)
		if ok {
			out = append(out, sense.Point{X: x, Y: y})
		}
	}
	return out
}

// Run measures profile on every room of the scenario. The output grid is
// reused between calculations, as the simulation does.
func Run(ctx context.Context, profile *systems.Profile, sc Scenario) (Result, error) {
	if profile == nil {
		return Result{}, fmt.Errorf("bench: nil profile")
	}
	if sc.Size <= 0 || sc.Sources <= 0 {
		return Result{}, fmt.Errorf("bench: empty scenario")
	}
	repeats := max(sc.Repeats, 1)

	var res Result
	var data *sense.SourceData
	def := profile.Definition
	for i, level := range sc.Rooms() {
		seed := sc.Seeds[i]
		resistance := level.ResistanceView(profile.Kind)
		dirs := level.DirectionalityView(profile.Kind)

		for _, origin := range Origins(level, sc.Sources, seed) {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			for r := 0; r < repeats; r++ {
				start := time.Now()
				data = profile.Propagator.Calculate(def, def.Intensity, origin, resistance, dirs, data)
				elapsed := time.Since(start)

				s := Sample{Seed: seed, Origin: origin, Duration: elapsed, Radius: data.Radius()}
				data.Each(func(_ sense.Point, c sense.Cell) {
					if c.Intensity > 0 {
						s.Lit++
					}
					if c.Flags.Has(sense.Obstructed) {
						s.Obstructed++
					}
				})
				res.Samples = append(res.Samples, s)
			}
		}
	}
	return res, nil
}

// Summary computes timing and coverage statistics over the samples.
func (r Result) Summary() Summary {
	n := len(r.Samples)
	if n == 0 {
		return Summary{}
	}
	durations := make([]float64, n)
	var lit, obstructed, radius float64
	for i, s := range r.Samples {
		durations[i] = float64(s.Duration.Nanoseconds())
		lit += float64(s.Lit)
		obstructed += float64(s.Obstructed)
		radius += float64(s.Radius)
	}

	sum := Summary{Calculations: n}
	sum.MeanNS, sum.StdNS, sum.P10NS, sum.P50NS, sum.P90NS = telemetry.ComputeDistribution(durations)
	sum.MeanLit = lit / float64(n)
	sum.MeanObstructed = obstructed / float64(n)
	sum.MeanRadius = radius / float64(n)
	return sum
}
