package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/camera"
	"github.com/pthm-cable/sensefield/components"
	"github.com/pthm-cable/sensefield/sense"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Actors is the query the inspector picks from.
type Actors = ecs.Filter3[components.Position, components.Actor, components.SenseSource]

// Inspector manages actor selection and panel rendering.
type Inspector struct {
	selected     ecs.Entity
	hasSelected  bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
	lastHeight   int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize anchors the panel to the right edge of the screen.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// ContainsPoint reports whether a screen point lies on the open panel.
func (ins *Inspector) ContainsPoint(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.lastHeight
}

// HandleInput selects the actor on the clicked cell of the viewed level.
// Clicking an empty cell keeps the current selection.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, cam *camera.Camera, level int, actors *Actors) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
			int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
			ins.Deselect()
			return
		}
		if ins.ContainsPoint(mouseX, mouseY) {
			return
		}
	}

	cx, cy, ok := cam.ScreenToCell(mouseX, mouseY)
	if !ok {
		return
	}
	if e, found := PickAt(actors, cx, cy, level); found {
		ins.Select(e)
	}
}

// PickAt returns the actor standing on (x, y, level), preferring an exact
// hit over a neighbouring cell.
func PickAt(actors *Actors, x, y, level int) (ecs.Entity, bool) {
	var best ecs.Entity
	bestDist := 3
	query := actors.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		if pos.Level != level {
			continue
		}
		d := max(abs(pos.X-x), abs(pos.Y-y))
		if d <= 1 && d < bestDist {
			best = query.Entity()
			bestDist = d
		}
	}
	return best, bestDist <= 1
}

// Select makes e the inspected entity.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected entity.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel if an entity is selected. Entities
// removed from the world are deselected.
func (ins *Inspector) Draw(
	world *ecs.World,
	posMap *ecs.Map1[components.Position],
	actorMap *ecs.Map1[components.Actor],
	srcMap *ecs.Map1[components.SenseSource],
) {
	if !ins.hasSelected {
		return
	}
	if !world.Alive(ins.selected) {
		ins.Deselect()
		return
	}

	pos := posMap.Get(ins.selected)
	actor := actorMap.Get(ins.selected)
	src := srcMap.Get(ins.selected)
	if pos == nil || actor == nil || src == nil {
		ins.Deselect()
		return
	}

	summary := Summarize(src.Data)
	height := ins.lastHeight
	if height == 0 {
		height = 480
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	rl.DrawText(fmt.Sprintf("%s  (%s)", actor.ID, src.Kind), x, y, 14, ColorHeaderText)
	y += 22
	y = ins.separator(x, y)

	y += DrawLabel(x, y, "Cell", fmt.Sprintf("(%d, %d) L%d", pos.X, pos.Y, pos.Level), nil)
	for _, f := range ExtractFields(actor) {
		if f.Name == "ID" {
			continue
		}
		y += DrawField(x, y, f)
	}

	y = ins.separator(x, y)
	ins.drawSectionHeader(x, y, "SOURCE")
	y += 20
	for _, f := range ExtractFields(src) {
		if f.Name == "Kind" {
			continue
		}
		y += DrawField(x, y, f)
	}
	y += DrawLabel(x, y, "Metric", src.Definition.Metric, nil)
	y += DrawLabel(x, y, "Adjacency", src.Definition.Adjacency, nil)
	if src.Definition.Restricted() {
		y += DrawHeading(x, y, "Cone", ConeBearing(src.Definition.Angle, actor.Heading), src.Definition.Span)
	}

	y = ins.separator(x, y)
	ins.drawSectionHeader(x, y, "FIELD")
	y += 20
	if src.Data == nil || summary.Lit == 0 {
		rl.DrawText("(no field computed)", x, y, 12, ColorTextDim)
		y += 16
	} else {
		y += DrawLabel(x, y, "Radius", summary.Radius, nil)
		y += DrawLabel(x, y, "Lit", fmt.Sprintf("%d cells, %d obstructed", summary.Lit, summary.Obstructed), nil)
		y += DrawLabel(x, y, "Peak", summary.Peak, nil)
		y += DrawArrivalRose(x, y, "Arrival", summary.Arrivals)
	}

	ins.lastHeight = y - ins.panelY + PanelPadding
}

// Readout describes the selected field at a grid cell, or returns an empty
// string when nothing is selected.
func (ins *Inspector) Readout(
	posMap *ecs.Map1[components.Position],
	srcMap *ecs.Map1[components.SenseSource],
	x, y int,
) string {
	if !ins.hasSelected {
		return ""
	}
	pos := posMap.Get(ins.selected)
	src := srcMap.Get(ins.selected)
	if pos == nil || src == nil || src.Data == nil {
		return ""
	}
	return CellReadout(src.Data, pos.Point(), x, y)
}

// CellReadout formats the field value at absolute cell (x, y) for a field
// centred on origin.
func CellReadout(data *sense.SourceData, origin sense.Point, x, y int) string {
	rel := sense.Point{X: x - origin.X, Y: y - origin.Y}
	c, ok := data.TryGet(rel)
	if !ok {
		return fmt.Sprintf("(%d, %d): no signal", x, y)
	}
	text := fmt.Sprintf("(%d, %d): %.3f from %s", x, y, c.Intensity, c.Direction)
	if c.Flags.Has(sense.Obstructed) {
		text += " [obstructed]"
	}
	if c.Flags.Has(sense.SelfIlluminating) {
		text += " [source]"
	}
	return text
}

// ConeBearing is the compass bearing a cone faces once the actor's heading
// is applied, in [0, 360).
func ConeBearing(angle, heading float32) float32 {
	b := float32(math.Mod(float64(angle+heading), 360))
	if b < 0 {
		b += 360
	}
	return b
}

func (ins *Inspector) separator(x, y int32) int32 {
	y += 4
	rl.DrawLine(x, y, ins.panelX+PanelWidth-PanelPadding, y, ColorPanelBorder)
	return y + 8
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
