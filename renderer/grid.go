package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sensefield/camera"
	"github.com/pthm-cable/sensefield/components"
	"github.com/pthm-cable/sensefield/grid"
	"github.com/pthm-cable/sensefield/sense"
)

// Background is the clear color behind the grid.
var Background = rl.Color{R: 14, G: 16, B: 22, A: 255}

var materialColors = [...]rl.Color{
	grid.Open:    {R: 28, G: 32, B: 40, A: 255},
	grid.Rock:    {R: 70, G: 72, B: 80, A: 255},
	grid.Foliage: {R: 38, G: 78, B: 46, A: 255},
	grid.Glass:   {R: 120, G: 170, B: 190, A: 255},
	grid.Water:   {R: 30, G: 60, B: 110, A: 255},
}

var kindColors = [sense.NumKinds]rl.Color{
	sense.Vision: {R: 255, G: 230, B: 140, A: 255},
	sense.Heat:   {R: 255, G: 110, B: 60, A: 255},
	sense.Smell:  {R: 150, G: 220, B: 90, A: 255},
	sense.Sound:  {R: 110, G: 170, B: 255, A: 255},
	sense.Touch:  {R: 220, G: 130, B: 230, A: 255},
}

// MaterialColor returns the base fill color of a material.
func MaterialColor(m grid.Material) rl.Color {
	if int(m) < len(materialColors) {
		return materialColors[m]
	}
	return rl.Magenta
}

// KindColor returns the tint used for fields and actors of a sense kind.
func KindColor(k sense.Kind) rl.Color {
	if k < sense.NumKinds {
		return kindColors[k]
	}
	return rl.White
}

// FieldAlpha maps an intensity to an overlay alpha. The scale is relative to
// the source intensity so weak and strong sources read alike.
func FieldAlpha(intensity, peak float32) uint8 {
	if intensity <= 0 || peak <= 0 {
		return 0
	}
	t := intensity / peak
	if t > 1 {
		t = 1
	}
	// sqrt lifts the faint tail of linear falloff
	return uint8(30 + 200*float32(math.Sqrt(float64(t))))
}

// GridRenderer draws one level of the grid, sense fields and actors.
type GridRenderer struct {
	// GridLines draws a 1px separation between cells when zoomed in.
	GridLines bool
}

// NewGridRenderer creates a grid renderer.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{GridLines: true}
}

// DrawLevel fills every visible cell with its material color. Solid cells
// get a lighter top edge and a darker bottom edge.
func (r *GridRenderer) DrawLevel(level *grid.Level, cam *camera.Camera) {
	if level == nil || cam == nil {
		return
	}
	x0, y0, x1, y1 := cam.VisibleCells()
	size := cam.CellPixels()
	gap := float32(0)
	if r.GridLines && size >= 6 {
		gap = 1
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m := level.Material(x, y)
			sx, sy := cam.CellToScreen(x, y)
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size - gap, Y: size - gap}, MaterialColor(m))

			if !m.Solid() || size < 4 {
				continue
			}
			edge := max(size*0.12, 1)
			if !level.InBounds(x, y-1) || !level.Material(x, y-1).Solid() {
				rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size - gap, Y: edge}, rl.Fade(rl.White, 0.15))
			}
			if !level.InBounds(x, y+1) || !level.Material(x, y+1).Solid() {
				rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy + size - gap - edge}, rl.Vector2{X: size - gap, Y: edge}, rl.Fade(rl.Black, 0.3))
			}
		}
	}
}

// DrawField overlays a computed field centred on origin. Obstructed cells
// are outlined so lit wall surfaces stand out from open ground.
func (r *GridRenderer) DrawField(data *sense.SourceData, origin sense.Point, peak float32, tint rl.Color, cam *camera.Camera, showObstructed bool) {
	if data == nil || cam == nil {
		return
	}
	x0, y0, x1, y1 := cam.VisibleCells()
	size := cam.CellPixels()
	rad := data.Radius()

	for y := max(y0, origin.Y-rad); y < min(y1, origin.Y+rad+1); y++ {
		for x := max(x0, origin.X-rad); x < min(x1, origin.X+rad+1); x++ {
			c, ok := data.TryGet(sense.Point{X: x - origin.X, Y: y - origin.Y})
			if !ok || c.Intensity <= 0 {
				continue
			}
			sx, sy := cam.CellToScreen(x, y)
			col := tint
			col.A = FieldAlpha(c.Intensity, peak)
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size, Y: size}, col)

			if showObstructed && c.Flags.Has(sense.Obstructed) && size >= 4 {
				rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, max(size*0.08, 1), rl.Fade(rl.Red, 0.8))
			}
		}
	}
}

// DrawArrivals draws a short arrow per lit cell pointing the way the signal
// travelled into it. Skipped when cells are too small to read.
func (r *GridRenderer) DrawArrivals(data *sense.SourceData, origin sense.Point, cam *camera.Camera) {
	if data == nil || cam == nil {
		return
	}
	size := cam.CellPixels()
	if size < 10 {
		return
	}
	x0, y0, x1, y1 := cam.VisibleCells()
	rad := data.Radius()
	col := rl.Fade(rl.White, 0.55)

	for y := max(y0, origin.Y-rad); y < min(y1, origin.Y+rad+1); y++ {
		for x := max(x0, origin.X-rad); x < min(x1, origin.X+rad+1); x++ {
			c, ok := data.TryGet(sense.Point{X: x - origin.X, Y: y - origin.Y})
			if !ok || c.Direction == sense.None {
				continue
			}
			step := c.Direction.Step()
			dx, dy := float32(step.X), float32(step.Y)
			if c.Direction.IsDiagonal() {
				dx *= math.Sqrt2 / 2
				dy *= math.Sqrt2 / 2
			}
			sx, sy := cam.WorldToScreen(float32(x)+0.5, float32(y)+0.5)
			l := size * 0.35
			tip := rl.Vector2{X: sx + dx*l, Y: sy + dy*l}
			rl.DrawLineEx(rl.Vector2{X: sx - dx*l, Y: sy - dy*l}, tip, 1, col)
			rl.DrawCircleV(tip, max(size*0.06, 1.5), col)
		}
	}
}

// DrawActor draws an actor as a triangle pointing along its heading.
func (r *GridRenderer) DrawActor(pos components.Position, heading float32, kind sense.Kind, enabled, selected bool, cam *camera.Camera) {
	if cam == nil {
		return
	}
	cx, cy := float32(pos.X)+0.5, float32(pos.Y)+0.5
	if !cam.IsVisible(cx, cy, 1) {
		return
	}
	sx, sy := cam.WorldToScreen(cx, cy)
	size := max(cam.CellPixels()*0.45, 3)

	col := KindColor(kind)
	if !enabled {
		col = rl.Fade(col, 0.35)
	}

	// Heading is compass degrees with Y growing downward.
	rad := float64(heading) * math.Pi / 180
	fx, fy := float32(math.Sin(rad)), float32(-math.Cos(rad))
	px, py := -fy, fx

	tip := rl.Vector2{X: sx + fx*size, Y: sy + fy*size}
	// p points to the actor's right, so this order winds counter-clockwise on screen
	right := rl.Vector2{X: sx - fx*size*0.7 + px*size*0.6, Y: sy - fy*size*0.7 + py*size*0.6}
	left := rl.Vector2{X: sx - fx*size*0.7 - px*size*0.6, Y: sy - fy*size*0.7 - py*size*0.6}
	rl.DrawTriangle(tip, left, right, col)

	if selected {
		rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, size*1.4, rl.Yellow)
	}
}

// DrawHoverCell outlines the cell under the cursor.
func (r *GridRenderer) DrawHoverCell(x, y int, cam *camera.Camera) {
	if cam == nil {
		return
	}
	sx, sy := cam.CellToScreen(x, y)
	size := cam.CellPixels()
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, 1, rl.Fade(rl.White, 0.7))
}
