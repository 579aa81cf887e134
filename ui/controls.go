package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggles grouped by category.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := len(overlays.All()) + len(categories)
	panelHeight := int32(rows)*lineHeight + int32(len(categories))*4 + padding*2 + lineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}
	return y
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "field":
		return "Field"
	case "world":
		return "World"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
