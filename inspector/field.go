package inspector

import "github.com/pthm-cable/sensefield/sense"

// FieldSummary condenses a computed field for display.
type FieldSummary struct {
	Radius     int
	Lit        int
	Obstructed int
	Peak       float32 // strongest cell other than the source itself
	Total      float32

	// Arrivals holds the share of lit cells reached from each direction,
	// indexed N..NW.
	Arrivals [8]float32
}

// Summarize walks a field once and counts what it lit.
func Summarize(data *sense.SourceData) FieldSummary {
	var s FieldSummary
	if data == nil {
		return s
	}
	s.Radius = data.Radius()

	var counts [8]int
	withDir := 0
	data.Each(func(_ sense.Point, c sense.Cell) {
		if c.Intensity <= 0 {
			return
		}
		s.Lit++
		s.Total += c.Intensity
		if c.Flags.Has(sense.Obstructed) {
			s.Obstructed++
		}
		if !c.Flags.Has(sense.SelfIlluminating) && c.Intensity > s.Peak {
			s.Peak = c.Intensity
		}
		if c.Direction != sense.None {
			counts[c.Direction-sense.N]++
			withDir++
		}
	})

	if withDir > 0 {
		for i, n := range counts {
			s.Arrivals[i] = float32(n) / float32(withDir)
		}
	}
	return s
}
