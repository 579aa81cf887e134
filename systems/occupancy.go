package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/components"
)

// MaxQueryResults caps the number of entities returned by occupancy queries.
const MaxQueryResults = 128

type occupant struct {
	e   ecs.Entity
	pos components.Position
}

// Occupancy indexes actors by the cell they stand on. Each level is split
// into square buckets of bucketSize cells so radius queries only visit
// nearby buckets.
type Occupancy struct {
	bucketSize int
	cols, rows int
	levels     int
	cells      [][]occupant // level-major flat bucket grid
}

// NewOccupancy creates an empty index covering levels of width x height.
func NewOccupancy(width, height, levels, bucketSize int) *Occupancy {
	if bucketSize < 1 {
		bucketSize = 1
	}
	cols := (width + bucketSize - 1) / bucketSize
	rows := (height + bucketSize - 1) / bucketSize
	cells := make([][]occupant, cols*rows*max(levels, 1))
	for i := range cells {
		cells[i] = make([]occupant, 0, 4)
	}
	return &Occupancy{
		bucketSize: bucketSize,
		cols:       cols,
		rows:       rows,
		levels:     max(levels, 1),
		cells:      cells,
	}
}

// Clear removes every entity.
func (o *Occupancy) Clear() {
	for i := range o.cells {
		o.cells[i] = o.cells[i][:0]
	}
}

// Insert records e standing at pos. Positions off the index are ignored.
func (o *Occupancy) Insert(e ecs.Entity, pos components.Position) {
	if idx := o.bucket(pos.X, pos.Y, pos.Level); idx >= 0 {
		o.cells[idx] = append(o.cells[idx], occupant{e: e, pos: pos})
	}
}

// Remove drops e from the bucket holding pos.
func (o *Occupancy) Remove(e ecs.Entity, pos components.Position) {
	idx := o.bucket(pos.X, pos.Y, pos.Level)
	if idx < 0 {
		return
	}
	list := o.cells[idx]
	for i := range list {
		if list[i].e == e {
			list[i] = list[len(list)-1]
			o.cells[idx] = list[:len(list)-1]
			return
		}
	}
}

// Move updates e from one cell to another.
func (o *Occupancy) Move(e ecs.Entity, from, to components.Position) {
	o.Remove(e, from)
	o.Insert(e, to)
}

// Occupied reports whether any entity stands on (x, y, level).
func (o *Occupancy) Occupied(x, y, level int) bool {
	idx := o.bucket(x, y, level)
	if idx < 0 {
		return false
	}
	for _, oc := range o.cells[idx] {
		if oc.pos.X == x && oc.pos.Y == y {
			return true
		}
	}
	return false
}

// QueryInto appends entities within Chebyshev distance radius of (x, y) on
// level to dst, up to MaxQueryResults, and returns the extended slice.
func (o *Occupancy) QueryInto(dst []ecs.Entity, x, y, level, radius int) []ecs.Entity {
	if level < 0 || level >= o.levels || radius < 0 {
		return dst
	}
	c0 := max((x-radius)/o.bucketSize, 0)
	c1 := min((x+radius)/o.bucketSize, o.cols-1)
	r0 := max((y-radius)/o.bucketSize, 0)
	r1 := min((y+radius)/o.bucketSize, o.rows-1)
	if x+radius < 0 || y+radius < 0 {
		return dst
	}

	base := level * o.cols * o.rows
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, oc := range o.cells[base+row*o.cols+col] {
				if max(abs(oc.pos.X-x), abs(oc.pos.Y-y)) > radius {
					continue
				}
				dst = append(dst, oc.e)
				if len(dst) >= MaxQueryResults {
					return dst
				}
			}
		}
	}
	return dst
}

// bucket returns the flat index for a cell, or -1 when it is off the index.
func (o *Occupancy) bucket(x, y, level int) int {
	if x < 0 || y < 0 || level < 0 || level >= o.levels {
		return -1
	}
	col := x / o.bucketSize
	row := y / o.bucketSize
	if col >= o.cols || row >= o.rows {
		return -1
	}
	return (level*o.rows+row)*o.cols + col
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
