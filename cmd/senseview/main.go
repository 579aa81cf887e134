// Sense field preview tool - edit a small room and watch one source's field
// update live.
//
// Usage: go run ./cmd/senseview [-config path] [-kind vision]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/inspector"
	"github.com/pthm-cable/sensefield/sense"
)

const (
	windowWidth  = 1100
	windowHeight = 740
	previewSize  = 656
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 41
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	kindName := flag.String("kind", "vision", "Sense kind to start with")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	sc, ok := cfg.Sense(*kindName)
	if !ok {
		slog.Error("no sense entry for kind", "kind", *kindName)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Sense Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	p := newPreview(gridSize, sc)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var pixels []color.RGBA
	needsRedraw := true
	cellPx := float32(previewSize) / gridSize

	for !rl.WindowShouldClose() {
		// Room editing
		mouse := rl.GetMousePosition()
		cx := int((mouse.X - 10) / cellPx)
		cy := int((mouse.Y - 10) / cellPx)
		onGrid := mouse.X >= 10 && mouse.Y >= 10 && cx < gridSize && cy < gridSize

		if onGrid {
			changed := false
			switch {
			case rl.IsKeyDown(rl.KeyLeftShift) && rl.IsMouseButtonPressed(rl.MouseButtonLeft):
				changed = p.moveSource(cx, cy)
			case rl.IsMouseButtonDown(rl.MouseButtonLeft) && !rl.IsKeyDown(rl.KeyLeftShift):
				changed = p.paint(cx, cy, false)
			case rl.IsMouseButtonDown(rl.MouseButtonRight):
				changed = p.paint(cx, cy, true)
			}
			if changed {
				p.recompute()
				needsRedraw = true
			}
		}

		if needsRedraw {
			pixels = p.pixels(pixels)
			rl.UpdateTexture(texture, pixels)
			needsRedraw = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		rl.DrawCircleV(rl.Vector2{
			X: 10 + (float32(p.origin.X)+0.5)*cellPx,
			Y: 10 + (float32(p.origin.Y)+0.5)*cellPx,
		}, cellPx*0.3, rl.White)

		// Field stats under the preview
		statsY := int32(previewSize + 18)
		summary := inspector.Summarize(p.data)
		rl.DrawText(fmt.Sprintf("Radius: %d  Lit: %d  Obstructed: %d  Peak: %.2f",
			summary.Radius, summary.Lit, summary.Obstructed, summary.Peak), 15, statsY, 16, rl.DarkGray)
		if onGrid && p.data != nil {
			rl.DrawText(inspector.CellReadout(p.data, p.origin, cx, cy), 15, statsY+20, 16, rl.Gray)
		}
		if p.err != nil {
			rl.DrawText(p.err.Error(), 15, statsY+40, 16, rl.Red)
		}

		if drawPanel(p) {
			p.recompute()
			needsRedraw = true
		}

		rl.EndDrawing()
	}
}

// drawPanel draws the controls and reports whether a setting changed.
func drawPanel(p *preview) bool {
	changed := false
	panelX := float32(previewSize + 20)
	panelY := float32(10)

	rl.DrawText(fmt.Sprintf("Sense: %s (%s)", p.sc.Kind, p.sc.Variant), int32(panelX), int32(panelY), 20, rl.DarkGray)
	panelY += 35

	slider := func(label, lo, hi string, value, minV, maxV float32, format string) float32 {
		rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		v := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			lo, hi, value, minV, maxV,
		)
		rl.DrawText(fmt.Sprintf(format, v), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 35
		return v
	}

	if v := slider("Intensity", "0", "30", float32(p.sc.Intensity), 0, 30, "%.1f"); v != float32(p.sc.Intensity) {
		p.sc.Intensity = float64(v)
		changed = true
	}
	if p.sc.Physics == "full" {
		if v := slider("Cells per unit", "0.1", "4", float32(p.sc.CellsPerUnit), 0.1, 4, "%.2f"); v != float32(p.sc.CellsPerUnit) {
			p.sc.CellsPerUnit = float64(v)
			changed = true
		}
	} else {
		if v := slider("Decay per cell", "0.1", "3", float32(p.sc.DecayPerCell), 0.1, 3, "%.2f"); v != float32(p.sc.DecayPerCell) {
			p.sc.DecayPerCell = float64(v)
			changed = true
		}
	}
	if v := slider("Cone angle (0 = north)", "0", "360", float32(p.sc.Angle), 0, 360, "%.0f"); v != float32(p.sc.Angle) {
		p.sc.Angle = float64(v)
		changed = true
	}
	if v := slider("Cone span (0 = all round)", "0", "1", float32(p.sc.Span), 0, 1, "%.2f"); v != float32(p.sc.Span) {
		p.sc.Span = float64(v)
		changed = true
	}

	// Cycling buttons
	button := func(col, row int, text string) bool {
		return gui.Button(rl.Rectangle{X: panelX + float32(col)*130, Y: panelY + float32(row)*40, Width: 120, Height: 30}, text)
	}
	if button(0, 0, "Variant: "+p.sc.Variant) {
		p.sc.Variant = next(variants, p.sc.Variant)
		changed = true
	}
	if button(1, 0, "Physics: "+p.sc.Physics) {
		p.sc.Physics = next(physicses, p.sc.Physics)
		if p.sc.Physics == "full" && p.sc.CellsPerUnit <= 0 {
			p.sc.CellsPerUnit = 1
		}
		if p.sc.Physics == "linear" && p.sc.DecayPerCell <= 0 {
			p.sc.DecayPerCell = 1
		}
		changed = true
	}
	if button(2, 0, "Metric: "+p.sc.Metric) {
		p.sc.Metric = next(metrics, p.sc.Metric)
		changed = true
	}
	if button(0, 1, "Adjacency: "+p.sc.Adjacency) {
		p.sc.Adjacency = next([]string{"eight", "four"}, p.sc.Adjacency)
		changed = true
	}
	if button(1, 1, "Brush: "+brushes[p.brush].String()) {
		p.brush = (p.brush + 1) % len(brushes)
	}
	if button(2, 1, "Kind: "+p.sc.Kind) {
		kinds := make([]string, sense.NumKinds)
		for k := sense.Kind(0); k < sense.NumKinds; k++ {
			kinds[k] = k.String()
		}
		p.sc.Kind = next(kinds, p.sc.Kind)
		changed = true
	}
	if button(0, 2, "Clear Room") {
		p.clear()
		changed = true
	}
	if button(1, 2, "Random Room") {
		p.randomTerrain()
		changed = true
	}
	panelY += 3*40 + 15

	// Output YAML
	rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
	panelY += 25
	text := p.yaml()
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 16
	}

	rl.DrawText("LMB paint | RMB erase | Shift+LMB move source | C copy YAML", int32(panelX), int32(windowHeight-30), 12, rl.Gray)
	if rl.IsKeyPressed(rl.KeyC) {
		rl.SetClipboardText(text)
	}

	return changed
}
