package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sensefield/camera"
	"github.com/pthm-cable/sensefield/inspector"
	"github.com/pthm-cable/sensefield/renderer"
	"github.com/pthm-cable/sensefield/ui"
)

const controlsLegend = "SPACE: Pause | < >: Speed | PgUp/PgDn: Level | Click/Tab: Select | T: Toggle source | C: Center | K: Overlays"

// initRendering creates the camera, panels and renderers. The raylib window
// must already be open.
func (g *Game) initRendering() {
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	g.camera = camera.New(g.screenWidth, g.screenHeight, g.cfg.World.Width, g.cfg.World.Height, float32(g.cfg.Screen.CellSize))
	g.inspector = inspector.NewInspector(int32(g.screenWidth), int32(g.screenHeight))
	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, int32(g.screenHeight)-200, 260)
	g.controls = ui.NewControlsPanel(10, 120, 220)
	g.gridRenderer = renderer.NewGridRenderer()
	g.gridRenderer.GridLines = g.overlays.IsEnabled(ui.OverlayGridLines)
}

// unloadRendering releases rendering state. Nothing here owns GPU memory,
// the window itself is closed by main.
func (g *Game) unloadRendering() {
	g.camera = nil
	g.inspector = nil
	g.gridRenderer = nil
}

// Draw renders the viewed level, the selected source's field, actors and UI.
func (g *Game) Draw() {
	if g.headless {
		return
	}
	rl.BeginDrawing()
	rl.ClearBackground(renderer.Background)

	level := g.levels.Level(g.viewLevel)
	g.gridRenderer.DrawLevel(level, g.camera)

	g.drawSelectedField()

	if g.overlays.IsEnabled(ui.OverlayActors) {
		g.drawActors()
	}
	if g.hoverOK {
		g.gridRenderer.DrawHoverCell(g.hoverX, g.hoverY, g.camera)
	}

	g.drawUI()

	rl.EndDrawing()
}

// drawSelectedField overlays the field of the selected actor when it sits
// on the viewed level. Fields of other actors are not drawn.
func (g *Game) drawSelectedField() {
	e, ok := g.inspector.Selected()
	if !ok || !g.world.Alive(e) {
		return
	}
	pos := g.posMap.Get(e)
	src := g.srcMap.Get(e)
	if pos == nil || src == nil || src.Data == nil || pos.Level != g.viewLevel {
		return
	}

	if g.overlays.IsEnabled(ui.OverlayField) {
		peak := max(src.Intensity, src.Definition.Intensity)
		g.gridRenderer.DrawField(src.Data, pos.Point(), peak, renderer.KindColor(src.Kind), g.camera,
			g.overlays.IsEnabled(ui.OverlayObstructed))
	}
	if g.overlays.IsEnabled(ui.OverlayArrivals) {
		g.gridRenderer.DrawArrivals(src.Data, pos.Point(), g.camera)
	}
}

func (g *Game) drawActors() {
	selected, hasSelected := g.inspector.Selected()

	query := g.entityFilter.Query()
	for query.Next() {
		pos, actor, src := query.Get()
		if pos.Level != g.viewLevel {
			continue
		}
		isSel := hasSelected && query.Entity() == selected
		g.gridRenderer.DrawActor(*pos, actor.Heading, src.Kind, src.Enabled, isSel, g.camera)
	}
}

// drawUI draws the HUD, inspector and optional panels.
func (g *Game) drawUI() {
	stats := g.tickStats

	hover := ""
	if g.hoverOK && g.overlays.IsEnabled(ui.OverlayHover) {
		hover = g.inspector.Readout(g.posMap, g.srcMap, g.hoverX, g.hoverY)
		if hover == "" {
			hover = fmt.Sprintf("(%d, %d): %s", g.hoverX, g.hoverY, g.levels.Level(g.viewLevel).Material(g.hoverX, g.hoverY))
			if n := len(g.ActorsNear(g.hoverX, g.hoverY, g.viewLevel, 2)); n > 0 {
				hover += fmt.Sprintf(", %d actors nearby", n)
			}
		}
	}

	g.hud.Draw(ui.HUDData{
		Title:     "Sense Field",
		Tick:      g.tick,
		Actors:    g.ActorCount(),
		Active:    stats.Active,
		Disabled:  stats.Disabled,
		MaxRadius: stats.MaxRadius,
		Level:     g.viewLevel,
		Levels:    len(g.levels.Levels),
		Speed:     g.stepsPerUpdate,
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
		Hover:     hover,
	})

	g.controls.Draw(g.overlays)

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	g.inspector.Draw(g.world, g.posMap, g.actorMap, g.srcMap)

	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
}
