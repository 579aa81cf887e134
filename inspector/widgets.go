package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sensefield/sense"
)

var (
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorTrack   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorWeak    = rl.Color{R: 90, G: 110, B: 170, A: 255}
	ColorStrong  = rl.Color{R: 255, G: 210, B: 120, A: 255}
	ColorDial    = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorCone    = rl.Color{R: 255, G: 210, B: 120, A: 70}
	ColorOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorOff     = rl.Color{R: 120, G: 80, B: 80, A: 255}
)

// valueX is where widgets start to the right of their caption.
const valueX = 80

// DrawLabel renders "name: value".
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	rl.DrawText(fmt.Sprintf("%s: %s", name, FormatValue(value, options["fmt"])), x, y, 16, ColorText)
	return 20
}

// DrawMeter renders value against the max option as a horizontal meter
// shaded from weak to strong.
func DrawMeter(x, y int32, name string, value float32, options map[string]string) int32 {
	const w, h = 120, 12
	ratio := clamp01(value / GetMax(options))

	rl.DrawText(name, x, y, 14, ColorTextDim)
	mx := x + valueX
	rl.DrawRectangle(mx, y+1, w, h, ColorTrack)
	rl.DrawRectangle(mx, y+1, int32(w*ratio), h, blend(ColorWeak, ColorStrong, ratio))
	rl.DrawText(fmt.Sprintf("%.2f", value), mx+w+5, y, 14, ColorTextDim)
	return 18
}

// DrawArrivalRose draws the share of lit cells reached from each compass
// direction as spokes around a dial. The longest spoke touches the rim.
func DrawArrivalRose(x, y int32, name string, arrivals [8]float32) int32 {
	const radius = 34
	cx, cy := float32(x+valueX+radius+12), float32(y+radius+12)
	rl.DrawText(name, x, y+radius+5, 14, ColorTextDim)
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, radius, ColorDial)

	var peak float32
	for _, a := range arrivals {
		peak = max(peak, a)
	}
	for i, share := range arrivals {
		d := sense.N + sense.Direction(i)
		ux, uy := compassUnit(float32(i) * 45)
		if peak > 0 && share > 0 {
			r := radius * share / peak
			rl.DrawLineEx(
				rl.Vector2{X: cx, Y: cy},
				rl.Vector2{X: cx + ux*r, Y: cy + uy*r},
				3,
				blend(ColorWeak, ColorStrong, share/peak),
			)
		}
		label := d.String()
		lw := float32(rl.MeasureText(label, 10))
		rl.DrawText(label, int32(cx+ux*(radius+8)-lw/2), int32(cy+uy*(radius+8)-5), 10, ColorTextDim)
	}
	return 2*radius + 28
}

// DrawHeading draws a compass needle for a bearing in degrees, 0 = north,
// clockwise. A span in (0, 1) also shades the cone around the bearing.
func DrawHeading(x, y int32, name string, degrees, span float32) int32 {
	const radius = 20
	cx, cy := float32(x+valueX+radius), float32(y+radius)
	centre := rl.Vector2{X: cx, Y: cy}

	rl.DrawText(name, x, y+radius-7, 14, ColorTextDim)
	rl.DrawCircleV(centre, radius, ColorDial)
	if span > 0 && span < 1 {
		// raylib measures sector angles from +X, clockwise on screen.
		half := span * 180
		rl.DrawCircleSector(centre, radius, degrees-90-half, degrees-90+half, 24, ColorCone)
	}
	rl.DrawCircleLines(int32(cx), int32(cy), radius, ColorTextDim)

	ux, uy := compassUnit(degrees)
	rl.DrawLineEx(centre, rl.Vector2{X: cx + ux*(radius-4), Y: cy + uy*(radius-4)}, 2, ColorStrong)

	text := fmt.Sprintf("%.0f deg", degrees)
	if span > 0 && span < 1 {
		text += fmt.Sprintf(", span %.2f", span)
	}
	rl.DrawText(text, x+valueX+2*radius+6, y+radius-7, 14, ColorTextDim)
	return 2*radius + 4
}

// DrawSwitch renders an on/off state.
func DrawSwitch(x, y int32, name string, on bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	color, text := ColorOff, "off"
	if on {
		color, text = ColorOn, "on"
	}
	rl.DrawCircle(x+valueX+6, y+7, 6, color)
	rl.DrawText(text, x+valueX+18, y, 14, color)
	return 18
}

// DrawField renders a component field with the widget its tag asked for,
// falling back to a label when the value does not fit the widget.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawMeter(x, y, field.Name, v, field.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawHeading(x, y, field.Name, v, 0)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawSwitch(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// compassUnit returns the screen-space unit vector for a compass bearing.
// Screen Y grows downward, so north is -Y.
func compassUnit(degrees float32) (float32, float32) {
	rad := float64(degrees) * math.Pi / 180
	return float32(math.Sin(rad)), -float32(math.Cos(rad))
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func blend(a, b rl.Color, t float32) rl.Color {
	mix := func(p, q uint8) uint8 { return uint8(float32(p) + (float32(q)-float32(p))*t) }
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
