package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sensefield/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Tick      int32
	Actors    int
	Active    int
	Disabled  int
	MaxRadius int
	Level     int
	Levels    int
	Speed     int
	FPS       int32
	Paused    bool
	Hover     string // readout for the cell under the cursor, empty to hide
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Actors: %d | Sources: %d active, %d off | Max radius: %d", data.Actors, data.Active, data.Disabled, data.MaxRadius),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Level: %d/%d", data.Tick, data.Speed, data.FPS, data.Level+1, data.Levels),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	if data.Hover != "" {
		rl.DrawText(data.Hover, 10, 95, 14, rl.SkyBlue)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	pad := r.Theme.Padding
	phases := telemetry.Phases()
	height := r.Theme.LineHeight*int32(len(phases)+4) + pad*2

	r.DrawPanel(p.x, p.y, p.width, height)
	x := p.x + pad
	y := p.y + pad
	inner := p.width - pad*2

	y = r.DrawSectionHeader(x, y, "Tick Performance")
	y = r.DrawLabelValue(x, y, "Avg / P95", fmt.Sprintf("%s / %s",
		stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond)))
	y = r.DrawLabelValue(x, y, "Ticks/s", fmt.Sprintf("%.0f", stats.TicksPerSecond))

	for _, phase := range phases {
		pct := stats.PhasePct[phase]
		caption := fmt.Sprintf("%5.1f%%", pct)
		y = r.DrawBar(x, y, phase, float32(pct/100), caption, inner, 0.5)
	}
}
