// Package camera provides a 2D camera for viewing a bounded cell grid.
package camera

import "math"

// Camera controls the viewport into the grid. World coordinates are in
// cells; one cell spans CellSize pixels at zoom 1.
type Camera struct {
	// Position is the camera center in cell coordinates
	X, Y float32

	// Zoom level (1.0 = CellSize pixels per cell)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	GridW, GridH int

	CellSize float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on a gridW x gridH grid.
func New(viewportW, viewportH float32, gridW, gridH int, cellSize float32) *Camera {
	if cellSize <= 0 {
		cellSize = 1
	}
	c := &Camera{
		X:         float32(gridW) / 2,
		Y:         float32(gridH) / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		GridW:     gridW,
		GridH:     gridH,
		CellSize:  cellSize,
		MaxZoom:   8.0,
	}
	c.updateMinZoom()
	return c
}

// scale returns pixels per cell at the current zoom.
func (c *Camera) scale() float32 {
	return c.CellSize * c.Zoom
}

// CellPixels returns the on-screen size of one cell.
func (c *Camera) CellPixels() float32 {
	return c.scale()
}

// WorldToScreen converts cell-space coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 + (wy-c.Y)*s
	return sx, sy
}

// CellToScreen returns the screen position of the top-left corner of cell (x, y).
func (c *Camera) CellToScreen(x, y int) (sx, sy float32) {
	return c.WorldToScreen(float32(x), float32(y))
}

// ScreenToWorld converts screen coordinates to cell-space coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y + (sy-c.ViewportH/2)/s
	return wx, wy
}

// ScreenToCell returns the cell under a screen position and whether it lies
// on the grid.
func (c *Camera) ScreenToCell(sx, sy float32) (x, y int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	x = int(math.Floor(float64(wx)))
	y = int(math.Floor(float64(wy)))
	ok = x >= 0 && y >= 0 && x < c.GridW && y < c.GridH
	return x, y, ok
}

// IsVisible returns true if a circle at (wx, wy) with given radius in cells
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.scale()) + radius
	halfH := c.ViewportH/(2*c.scale()) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// VisibleCells returns the half-open range of grid cells intersecting the
// viewport, clipped to the grid.
func (c *Camera) VisibleCells() (x0, y0, x1, y1 int) {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	x0 = max(int(math.Floor(float64(minX))), 0)
	y0 = max(int(math.Floor(float64(minY))), 0)
	x1 = min(int(math.Ceil(float64(maxX))), c.GridW)
	y1 = min(int(math.Ceil(float64(maxY))), c.GridH)
	return x0, y0, x1, y1
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampPosition()
}

// updateMinZoom lets the whole grid fit on screen at minimum zoom.
func (c *Camera) updateMinZoom() {
	if c.GridW <= 0 || c.GridH <= 0 {
		c.MinZoom = 0.1
		return
	}
	fitX := c.ViewportW / (float32(c.GridW) * c.CellSize)
	fitY := c.ViewportH / (float32(c.GridH) * c.CellSize)
	c.MinZoom = min(fitX, fitY, 1)
}

// Pan moves the camera by the given delta in screen pixels, keeping the
// center on the grid.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.scale()
	c.Y += dy / c.scale()
	c.clampPosition()
}

// CenterOn moves the camera center to cell (x, y).
func (c *Camera) CenterOn(x, y int) {
	c.X = float32(x) + 0.5
	c.Y = float32(y) + 0.5
	c.clampPosition()
}

func (c *Camera) clampPosition() {
	c.X = clamp(c.X, 0, float32(c.GridW))
	c.Y = clamp(c.Y, 0, float32(c.GridH))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = float32(c.GridW) / 2
	c.Y = float32(c.GridH) / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the cell-space bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.scale())
	halfH := c.ViewportH / (2 * c.scale())

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
