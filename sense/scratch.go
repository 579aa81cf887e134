package sense

// ScratchBuffer holds the transmittance carried into each relative cell during
// one propagation. It is owned by one goroutine for the duration of a call.
//
// Capacity only grows; a smaller radius reuses the front of the backing
// array.
type ScratchBuffer struct {
	radius int
	side   int
	values []float32
}

// NewScratchBuffer preallocates a buffer for the given radius.
func NewScratchBuffer(radius int) *ScratchBuffer {
	b := &ScratchBuffer{}
	b.prepare(radius)
	return b
}

// Radius returns the radius of the last prepared square.
func (b *ScratchBuffer) Radius() int { return b.radius }

// Cap returns the number of cells the buffer can hold without growing.
func (b *ScratchBuffer) Cap() int { return cap(b.values) }

// prepare sizes the buffer for radius and zeroes it.
func (b *ScratchBuffer) prepare(radius int) {
	if radius < 0 {
		radius = 0
	}
	side := 2*radius + 1
	n := side * side
	if cap(b.values) < n {
		b.values = make([]float32, n)
	} else {
		b.values = b.values[:n]
		clear(b.values)
	}
	b.radius = radius
	b.side = side
}

// at reads the transmittance at a relative cell. Cells outside the square are
// virtual and fully transmissive.
func (b *ScratchBuffer) at(x, y int) float32 {
	if x < -b.radius || x > b.radius || y < -b.radius || y > b.radius {
		return 1
	}
	return b.values[(y+b.radius)*b.side+x+b.radius]
}

func (b *ScratchBuffer) set(x, y int, v float32) {
	if x < -b.radius || x > b.radius || y < -b.radius || y > b.radius {
		return
	}
	b.values[(y+b.radius)*b.side+x+b.radius] = v
}

// ScratchPool holds one scratch buffer per worker. Worker i must only ever be
// used by the goroutine that owns index i.
type ScratchPool struct {
	buffers []*ScratchBuffer
}

// NewScratchPool creates buffers for n workers.
func NewScratchPool(n int) *ScratchPool {
	if n < 1 {
		n = 1
	}
	p := &ScratchPool{buffers: make([]*ScratchBuffer, n)}
	for i := range p.buffers {
		p.buffers[i] = &ScratchBuffer{}
	}
	return p
}

// Worker returns the buffer owned by worker i.
func (p *ScratchPool) Worker(i int) *ScratchBuffer { return p.buffers[i] }

// Len returns the number of workers the pool was sized for.
func (p *ScratchPool) Len() int { return len(p.buffers) }
