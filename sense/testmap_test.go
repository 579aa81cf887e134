package sense

// testMap is a dense resistance/directionality map for tests. Off-map reads
// follow the view contract.
type testMap struct {
	w, h  int
	res   []float32
	masks []DirectionMask
}

func newTestMap(w, h int) *testMap {
	m := &testMap{w: w, h: h, res: make([]float32, w*h), masks: make([]DirectionMask, w*h)}
	for i := range m.masks {
		m.masks[i] = AllDirections
	}
	return m
}

// newRoom builds a w×h room with an opaque one-cell border.
func newRoom(w, h int) *testMap {
	m := newTestMap(w, h)
	for x := 0; x < w; x++ {
		m.set(x, 0, 1)
		m.set(x, h-1, 1)
	}
	for y := 0; y < h; y++ {
		m.set(0, y, 1)
		m.set(w-1, y, 1)
	}
	return m
}

func (m *testMap) in(x, y int) bool { return x >= 0 && y >= 0 && x < m.w && y < m.h }

func (m *testMap) set(x, y int, r float32) { m.res[y*m.w+x] = r }

func (m *testMap) setMask(x, y int, d DirectionMask) { m.masks[y*m.w+x] = d }

func (m *testMap) Resistance(x, y int) float32 {
	if !m.in(x, y) {
		return 1
	}
	return m.res[y*m.w+x]
}

func (m *testMap) Directions(x, y int) DirectionMask {
	if !m.in(x, y) {
		return 0
	}
	return m.masks[y*m.w+x]
}
