// Package grid stores per-cell map data in fixed-size tiles that are only
// allocated once written, and exposes it to the sense kernel as resistance
// and directionality views.
package grid

import (
	"sync"
	"sync/atomic"
)

const (
	tileBits = 5
	// TileSize is the side of a storage tile in cells.
	TileSize = 1 << tileBits
	tileMask = TileSize - 1
)

type tile[T any] [TileSize * TileSize]T

// Layer is a bounded 2D grid of T. Unwritten in-bounds cells read the fill
// value; out-of-bounds reads return the outside value.
//
// Reads take no lock. Writes are serialised, but must not run concurrently
// with readers of the same region.
type Layer[T comparable] struct {
	width, height  int
	tilesX, tilesY int
	fill, outside  T

	mu    sync.Mutex
	tiles []atomic.Pointer[tile[T]]
}

// NewLayer creates an empty layer.
func NewLayer[T comparable](width, height int, fill, outside T) *Layer[T] {
	tx := (width + tileMask) >> tileBits
	ty := (height + tileMask) >> tileBits
	return &Layer[T]{
		width:   width,
		height:  height,
		tilesX:  tx,
		tilesY:  ty,
		fill:    fill,
		outside: outside,
		tiles:   make([]atomic.Pointer[tile[T]], tx*ty),
	}
}

func (l *Layer[T]) Width() int  { return l.width }
func (l *Layer[T]) Height() int { return l.height }

// InBounds reports whether (x, y) lies on the layer.
func (l *Layer[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.width && y < l.height
}

// At returns the value at (x, y).
func (l *Layer[T]) At(x, y int) T {
	if !l.InBounds(x, y) {
		return l.outside
	}
	t := l.tiles[(y>>tileBits)*l.tilesX+(x>>tileBits)].Load()
	if t == nil {
		return l.fill
	}
	return t[(y&tileMask)<<tileBits|(x&tileMask)]
}

// Set stores v at (x, y). Out-of-bounds writes are dropped.
func (l *Layer[T]) Set(x, y int, v T) {
	if !l.InBounds(x, y) {
		return
	}
	l.mu.Lock()
	l.setLocked(x, y, v)
	l.mu.Unlock()
}

// FillRect stores v over the half-open rectangle [x0,x1)×[y0,y1), clipped to
// the layer.
func (l *Layer[T]) FillRect(x0, y0, x1, y1 int, v T) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, l.width), min(y1, l.height)

	l.mu.Lock()
	defer l.mu.Unlock()
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			l.setLocked(x, y, v)
		}
	}
}

func (l *Layer[T]) setLocked(x, y int, v T) {
	slot := &l.tiles[(y>>tileBits)*l.tilesX+(x>>tileBits)]
	t := slot.Load()
	if t == nil {
		if v == l.fill {
			return
		}
		t = new(tile[T])
		for i := range t {
			t[i] = l.fill
		}
		slot.Store(t)
	}
	t[(y&tileMask)<<tileBits|(x&tileMask)] = v
}

// Clear drops every tile so all cells read the fill value again.
func (l *Layer[T]) Clear() {
	l.mu.Lock()
	for i := range l.tiles {
		l.tiles[i].Store(nil)
	}
	l.mu.Unlock()
}

// TileCount returns the number of allocated tiles.
func (l *Layer[T]) TileCount() int {
	n := 0
	for i := range l.tiles {
		if l.tiles[i].Load() != nil {
			n++
		}
	}
	return n
}
