package telemetry

import "github.com/pthm-cable/sensefield/sense"

// FieldSample is the end-of-window snapshot of one source's field.
type FieldSample struct {
	Kind       sense.Kind
	Enabled    bool
	Radius     int
	Lit        int
	Obstructed int
}

// Collector accumulates events within windows of ticks and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for current window
	calculations  int
	reallocations int
	toggles       int
	moves         int
}

// NewCollector creates a collector whose windows last windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// Record counts an event in the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventCalculated:
		c.calculations++
	case EventReallocated:
		c.calculations++
		c.reallocations++
	case EventToggled:
		c.toggles++
	case EventMoved:
		c.moves++
	}
}

// ShouldFlush reports whether the current window is complete at tick.
func (c *Collector) ShouldFlush(tick int32) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}

// Flush computes stats for the window ending at tick from the given field
// samples, then resets the counters for the next window.
func (c *Collector) Flush(tick int32, samples []FieldSample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		Ticks:           tick - c.windowStartTick,
		Sources:         len(samples),
		Calculations:    c.calculations,
		Reallocations:   c.reallocations,
		Toggles:         c.toggles,
		Moves:           c.moves,
	}

	lit := make([]float64, 0, len(samples))
	for _, s := range samples {
		if !s.Enabled {
			continue
		}
		stats.Enabled++
		stats.CellsLit += s.Lit
		stats.Obstructed += s.Obstructed
		if s.Radius > stats.MaxRadius {
			stats.MaxRadius = s.Radius
		}
		lit = append(lit, float64(s.Lit))
	}
	stats.LitMean, stats.LitStd, stats.LitP10, stats.LitP50, stats.LitP90 = ComputeDistribution(lit)

	if c.calculations > 0 {
		stats.ReuseRate = float64(c.calculations-c.reallocations) / float64(c.calculations)
	}

	c.windowStartTick = tick
	c.calculations = 0
	c.reallocations = 0
	c.toggles = 0
	c.moves = 0

	return stats
}

// SampleField summarises a computed field for Flush.
func SampleField(kind sense.Kind, enabled bool, data *sense.SourceData) FieldSample {
	s := FieldSample{Kind: kind, Enabled: enabled}
	if data == nil {
		return s
	}
	s.Radius = data.Radius()
	data.Each(func(_ sense.Point, cell sense.Cell) {
		if cell.Intensity > 0 {
			s.Lit++
		}
		if cell.Flags.Has(sense.Obstructed) {
			s.Obstructed++
		}
	})
	return s
}
