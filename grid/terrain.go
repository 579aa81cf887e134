package grid

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/sensefield/config"
)

// TerrainParams control procedural level generation. Noise values are in
// [-1, 1]; a feature is placed where its noise exceeds the threshold.
type TerrainParams struct {
	Scale            float64
	RockThreshold    float64
	CaveThreshold    float64
	FoliageThreshold float64
	WaterThreshold   float64
	GlassThreshold   float64
	Border           bool
}

// DefaultTerrain returns the parameters used when none are configured.
func DefaultTerrain() TerrainParams {
	return TerrainParams{
		Scale:            0.08,
		RockThreshold:    0.35,
		CaveThreshold:    0.45,
		FoliageThreshold: 0.3,
		WaterThreshold:   0.4,
		GlassThreshold:   0.62,
		Border:           true,
	}
}

// TerrainFromConfig converts the terrain section of the config.
func TerrainFromConfig(tc config.TerrainConfig) TerrainParams {
	return TerrainParams{
		Scale:            tc.Scale,
		RockThreshold:    tc.RockThreshold,
		CaveThreshold:    tc.CaveThreshold,
		FoliageThreshold: tc.FoliageThreshold,
		WaterThreshold:   tc.WaterThreshold,
		GlassThreshold:   tc.GlassThreshold,
		Border:           tc.Border,
	}
}

// Generate fills level with noise-driven terrain. The same seed and params
// always give the same level.
func Generate(level *Level, p TerrainParams, seed int64) {
	noise := opensimplex.New(seed)
	level.Clear()

	// 1. Rock outcrops
	level.eachCell(func(x, y int) {
		if sample(noise, x, y, p.Scale, 0) > p.RockThreshold {
			level.SetMaterial(x, y, Rock)
		}
	})

	// 2. Glass panes: high-frequency, thin features inside rock
	level.eachCell(func(x, y int) {
		if level.Material(x, y) == Rock && sample(noise, x, y, p.Scale*3, 500) > p.GlassThreshold {
			level.SetMaterial(x, y, Glass)
		}
	})

	// 3. Cave carving keeps rock regions connected
	level.eachCell(func(x, y int) {
		if level.Material(x, y) == Open {
			return
		}
		if sample(noise, x, y, p.Scale*1.25, 300) > p.CaveThreshold {
			level.SetMaterial(x, y, Open)
		}
	})

	// 4. Water pools: low frequency
	level.eachCell(func(x, y int) {
		if level.Material(x, y) == Open && sample(noise, x, y, p.Scale*0.5, 700) < -p.WaterThreshold {
			level.SetMaterial(x, y, Water)
		}
	})

	// 5. Foliage on remaining open ground
	level.eachCell(func(x, y int) {
		if level.Material(x, y) == Open && sample(noise, x, y, p.Scale*2, 200) > p.FoliageThreshold {
			level.SetMaterial(x, y, Foliage)
		}
	})

	if p.Border {
		level.Border()
	}
}

func sample(n opensimplex.Noise, x, y int, scale, offset float64) float64 {
	return n.Eval2(float64(x)*scale+offset, float64(y)*scale+offset)
}

func (l *Level) eachCell(fn func(x, y int)) {
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			fn(x, y)
		}
	}
}
