package sense

// Flags annotate a computed cell.
type Flags uint8

const (
	// Obstructed marks a fully opaque cell that received signal on its
	// surface.
	Obstructed Flags = 1 << iota
	// SelfIlluminating marks the source cell.
	SelfIlluminating
)

func (f Flags) Has(o Flags) bool { return f&o == o }

// Cell is one computed entry of a SourceData.
type Cell struct {
	Intensity float32
	Direction Direction
	Flags     Flags
}

// SourceData is the field computed for one source: a square of side
// 2*radius+1 centred on the source, addressed by relative coordinates.
//
// Cells carry a generation stamp so Reset is O(1): a cell whose stamp does not
// match the current generation reads as unwritten.
type SourceData struct {
	radius int
	side   int

	cells      []Cell
	stamps     []uint32
	generation uint32
}

// NewSourceData allocates an empty field for the given radius.
func NewSourceData(radius int) *SourceData {
	if radius < 0 {
		radius = 0
	}
	side := 2*radius + 1
	return &SourceData{
		radius:     radius,
		side:       side,
		cells:      make([]Cell, side*side),
		stamps:     make([]uint32, side*side),
		generation: 1,
	}
}

// Radius returns the radius the field was allocated for.
func (d *SourceData) Radius() int { return d.radius }

// Side returns the side length of the square.
func (d *SourceData) Side() int { return d.side }

// Len returns the number of cells written since the last Reset.
func (d *SourceData) Len() int {
	n := 0
	for _, s := range d.stamps {
		if s == d.generation {
			n++
		}
	}
	return n
}

func (d *SourceData) index(p Point) (int, bool) {
	if p.X < -d.radius || p.X > d.radius || p.Y < -d.radius || p.Y > d.radius {
		return 0, false
	}
	return (p.Y+d.radius)*d.side + (p.X + d.radius), true
}

// Write stores a value at the relative position p, replacing any previous
// value. Writes outside the square are dropped.
func (d *SourceData) Write(p Point, intensity float32, dir Direction, flags Flags) {
	i, ok := d.index(p)
	if !ok {
		return
	}
	d.cells[i] = Cell{Intensity: intensity, Direction: dir, Flags: flags}
	d.stamps[i] = d.generation
}

// TryGet returns the cell at p and whether it was written since the last
// Reset.
func (d *SourceData) TryGet(p Point) (Cell, bool) {
	i, ok := d.index(p)
	if !ok || d.stamps[i] != d.generation {
		return Cell{}, false
	}
	return d.cells[i], true
}

// Intensity returns the intensity at p, or 0 if nothing was written there.
func (d *SourceData) Intensity(p Point) float32 {
	c, _ := d.TryGet(p)
	return c.Intensity
}

// DirectionAt returns the direction of arrival at p, or None.
func (d *SourceData) DirectionAt(p Point) Direction {
	c, _ := d.TryGet(p)
	return c.Direction
}

// FlagsAt returns the flags at p, or 0.
func (d *SourceData) FlagsAt(p Point) Flags {
	c, _ := d.TryGet(p)
	return c.Flags
}

// Reset marks every cell unwritten without touching the backing arrays.
func (d *SourceData) Reset() {
	d.generation++
	if d.generation == 0 {
		// Wrapped: stale stamps could collide with the new generation.
		clear(d.stamps)
		d.generation = 1
	}
}

// Each calls fn for every written cell in row order.
func (d *SourceData) Each(fn func(p Point, c Cell)) {
	for i, s := range d.stamps {
		if s != d.generation {
			continue
		}
		fn(Point{X: i%d.side - d.radius, Y: i/d.side - d.radius}, d.cells[i])
	}
}
