package main

import (
	"fmt"
	"image/color"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/renderer"
	"github.com/pthm-cable/sensefield/sense"
	"github.com/pthm-cable/sensefield/systems"
)

var (
	variants  = []string{sense.VariantFull, sense.VariantRestricted}
	metrics   = []string{"euclidean", "chebyshev", "manhattan"}
	brushes   = []grid.Material{grid.Rock, grid.Foliage, grid.Glass, grid.Water}
	physicses = []string{"linear", "full"}
)

// preview owns the edited room, the sense settings and the last field.
type preview struct {
	size   int
	level  *grid.Level
	origin sense.Point
	sc     config.SenseConfig
	kind   sense.Kind
	brush  int
	seed   int64

	profile *systems.Profile
	data    *sense.SourceData
	err     error
}

func newPreview(size int, sc config.SenseConfig) *preview {
	p := &preview{
		size:   size,
		level:  grid.NewLevel(size, size),
		origin: sense.Point{X: size / 2, Y: size / 2},
		sc:     sc,
		seed:   1,
	}
	p.level.Border()
	p.recompute()
	return p
}

// recompute rebuilds the propagator from the current settings and runs it
// once. The previous field is reused when the radius is unchanged.
func (p *preview) recompute() {
	profile, err := systems.NewProfile(p.sc, sense.WithMaxRadius(p.size))
	if err != nil {
		p.err = err
		return
	}
	p.err = nil
	p.profile = profile
	p.kind = profile.Kind
	p.data = profile.Propagator.Calculate(
		profile.Definition,
		profile.Definition.Intensity,
		p.origin,
		p.level.ResistanceView(p.kind),
		p.level.DirectionalityView(p.kind),
		p.data,
	)
}

// paint sets a cell to the current brush, or clears it when erase is set.
// The source cell is never painted over.
func (p *preview) paint(x, y int, erase bool) bool {
	if !p.level.InBounds(x, y) || (x == p.origin.X && y == p.origin.Y) {
		return false
	}
	m := brushes[p.brush]
	if erase {
		m = grid.Open
	}
	if p.level.Material(x, y) == m {
		return false
	}
	p.level.SetMaterial(x, y, m)
	return true
}

// moveSource places the source on an open cell.
func (p *preview) moveSource(x, y int) bool {
	if !p.level.IsOpen(x, y) {
		return false
	}
	p.origin = sense.Point{X: x, Y: y}
	return true
}

// randomTerrain regenerates the room from noise with a new seed.
func (p *preview) randomTerrain() {
	p.seed++
	grid.Generate(p.level, grid.DefaultTerrain(), p.seed)
	if ox, oy, ok := p.level.NearestOpen(p.origin.X, p.origin.Y, p.size); ok {
		p.origin = sense.Point{X: ox, Y: oy}
	}
}

func (p *preview) clear() {
	p.level.Clear()
	p.level.Border()
}

// pixels renders the room and field into one RGBA value per cell.
func (p *preview) pixels(dst []color.RGBA) []color.RGBA {
	if cap(dst) < p.size*p.size {
		dst = make([]color.RGBA, p.size*p.size)
	}
	dst = dst[:p.size*p.size]

	tint := renderer.KindColor(p.kind)
	peak := float32(p.sc.Intensity)
	for y := 0; y < p.size; y++ {
		for x := 0; x < p.size; x++ {
			c := renderer.MaterialColor(p.level.Material(x, y))
			px := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}

			if p.data != nil {
				cell, ok := p.data.TryGet(sense.Point{X: x - p.origin.X, Y: y - p.origin.Y})
				if ok && cell.Intensity > 0 {
					a := float32(renderer.FieldAlpha(cell.Intensity, peak)) / 255
					px = blend(px, tint, a)
					if cell.Flags.Has(sense.Obstructed) {
						px = blend(px, color.RGBA{R: 255, A: 255}, 0.35)
					}
				}
			}
			dst[y*p.size+x] = px
		}
	}
	return dst
}

// yaml returns the current settings as a config senses entry.
func (p *preview) yaml() string {
	out, err := yaml.Marshal([]config.SenseConfig{p.sc})
	if err != nil {
		return fmt.Sprintf("# %v", err)
	}
	return "senses:\n" + string(out)
}

func blend(dst, src color.RGBA, a float32) color.RGBA {
	mix := func(d, s uint8) uint8 {
		return uint8(float32(d)*(1-a) + float32(s)*a)
	}
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 255}
}

// next returns the element after cur in list, wrapping around.
func next(list []string, cur string) string {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
