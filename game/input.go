package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/ui"
)

const maxStepsPerUpdate = 10

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	// Level switch
	if rl.IsKeyPressed(rl.KeyPageUp) && g.viewLevel+1 < len(g.levels.Levels) {
		g.viewLevel++
	}
	if rl.IsKeyPressed(rl.KeyPageDown) && g.viewLevel > 0 {
		g.viewLevel--
	}

	if rl.IsKeyPressed(rl.KeyK) {
		g.controls.Toggle()
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok && id == ui.OverlayGridLines {
			g.gridRenderer.GridLines = on
		}
	}

	g.handleCameraInput()
	g.handleSelectionInput()
}

// handleSelectionInput picks actors with the mouse and drives the selected
// one from the keyboard.
func (g *Game) handleSelectionInput() {
	mouse := rl.GetMousePosition()
	g.hoverX, g.hoverY, g.hoverOK = g.camera.ScreenToCell(mouse.X, mouse.Y)
	if g.inspector.ContainsPoint(mouse.X, mouse.Y) {
		g.hoverOK = false
	}

	g.inspector.HandleInput(mouse.X, mouse.Y, g.camera, g.viewLevel, g.entityFilter)

	if rl.IsKeyPressed(rl.KeyTab) {
		g.selectNextActor()
	}

	e, ok := g.inspector.Selected()
	if !ok || !g.world.Alive(e) {
		return
	}
	if rl.IsKeyPressed(rl.KeyT) {
		if src := g.srcMap.Get(e); src != nil {
			g.SetSourceEnabled(e, !src.Enabled)
		}
	}
	if rl.IsKeyPressed(rl.KeyC) {
		if pos := g.posMap.Get(e); pos != nil {
			g.viewLevel = pos.Level
			g.camera.CenterOn(pos.X, pos.Y)
		}
	}
}

// selectNextActor cycles the selection through actors on the viewed level
// in query order.
func (g *Game) selectNextActor() {
	current, hasCurrent := g.inspector.Selected()
	passed := !hasCurrent
	var first ecs.Entity
	haveFirst := false

	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		if pos.Level != g.viewLevel {
			continue
		}
		e := query.Entity()
		if !haveFirst {
			first, haveFirst = e, true
		}
		if passed {
			g.inspector.Select(e)
			query.Close()
			return
		}
		if e == current {
			passed = true
		}
	}
	if haveFirst {
		g.inspector.Select(first)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.inspector.Resize(int32(w), int32(h))
	g.perfPanel.SetPosition(10, int32(h)-200)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan is in screen pixels, so speed is zoom independent
	const panSpeed = float32(12)

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Middle-drag pans with the cursor
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
