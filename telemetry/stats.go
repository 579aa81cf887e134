package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated sense-field statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`
	Ticks           int32 `csv:"ticks"`

	// Counts at window end
	Sources    int `csv:"sources"`
	Enabled    int `csv:"enabled"`
	CellsLit   int `csv:"cells_lit"`
	Obstructed int `csv:"obstructed"`
	MaxRadius  int `csv:"max_radius"`

	// Totals over the window
	Calculations  int `csv:"calculations"`
	Reallocations int `csv:"reallocations"`
	Toggles       int `csv:"toggles"`
	Moves         int `csv:"moves"`

	// Lit cells per enabled source, sampled at window end
	LitMean float64 `csv:"lit_mean"`
	LitStd  float64 `csv:"lit_std"`
	LitP10  float64 `csv:"lit_p10"`
	LitP50  float64 `csv:"lit_p50"`
	LitP90  float64 `csv:"lit_p90"`

	// ReuseRate is the share of calculations that reused their output grid.
	ReuseRate float64 `csv:"reuse_rate"`
}

// Percentile returns the p-th percentile (p in [0,1]) of a sorted slice,
// interpolating linearly between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution returns mean, standard deviation and p10/p50/p90 of
// values. The slice is sorted in place.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sort.Float64s(values)

	mean, std = stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	p10 = Percentile(values, 0.10)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("sources", s.Sources),
		slog.Int("enabled", s.Enabled),
		slog.Int("cells_lit", s.CellsLit),
		slog.Int("obstructed", s.Obstructed),
		slog.Int("max_radius", s.MaxRadius),
		slog.Int("calculations", s.Calculations),
		slog.Int("reallocations", s.Reallocations),
		slog.Float64("reuse_rate", round2(s.ReuseRate)),
		slog.Group("lit",
			slog.Float64("mean", round2(s.LitMean)),
			slog.Float64("p10", s.LitP10),
			slog.Float64("p50", s.LitP50),
			slog.Float64("p90", s.LitP90),
		),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
