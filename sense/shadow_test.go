package sense

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const fieldTolerance = 0.005

// emptyRoomResult is the field for a 9×9 room with an opaque border, source at
// the centre, intensity 5, linear decay 1 per cell, Euclidean distance.
// Rows are y = -4..4, columns x = -4..4.
var emptyRoomResult = [9][9]float32{
	{0, 0, 0.5279, 0.8769, 1, 0.8769, 0.5279, 0, 0},
	{0, 0.7574, 1.3944, 1.8377, 2, 1.8377, 1.3944, 0.7574, 0},
	{0.5279, 1.3944, 2.1716, 2.7639, 3, 2.7639, 2.1716, 1.3944, 0.5279},
	{0.8769, 1.8377, 2.7639, 3.5858, 4, 3.5858, 2.7639, 1.8377, 0.8769},
	{1, 2, 3, 4, 5, 4, 3, 2, 1},
	{0.8769, 1.8377, 2.7639, 3.5858, 4, 3.5858, 2.7639, 1.8377, 0.8769},
	{0.5279, 1.3944, 2.1716, 2.7639, 3, 2.7639, 2.1716, 1.3944, 0.5279},
	{0, 0.7574, 1.3944, 1.8377, 2, 1.8377, 1.3944, 0.7574, 0},
	{0, 0, 0.5279, 0.8769, 1, 0.8769, 0.5279, 0, 0},
}

func linearVision() *ShadowPropagation {
	return NewShadowPropagation(LinearDecay{DecayPerCell: 1})
}

func near(a, b float32) bool {
	return scalar.EqualWithinAbs(float64(a), float64(b), fieldTolerance)
}

func checkGrid(t *testing.T, data *SourceData, want [9][9]float32) {
	t.Helper()
	for row := range want {
		for col := range want[row] {
			p := Point{X: col - 4, Y: row - 4}
			if got := data.Intensity(p); !near(got, want[row][col]) {
				t.Errorf("intensity at %v: got %.4f, want %.4f", p, got, want[row][col])
			}
		}
	}
}

func snapshot(d *SourceData) map[Point]Cell {
	out := make(map[Point]Cell, d.Len())
	d.Each(func(p Point, c Cell) { out[p] = c })
	return out
}

func TestEmptyRoom(t *testing.T) {
	room := newRoom(9, 9)
	data := linearVision().Calculate(Definition{}, 5, Point{4, 4}, room, room, nil)

	if data.Radius() != 5 {
		t.Fatalf("radius: got %d, want 5", data.Radius())
	}
	checkGrid(t, data, emptyRoomResult)

	// The border is lit on its surface and flagged.
	for _, p := range []Point{{0, -4}, {4, 0}, {-4, 2}, {2, 4}} {
		if !data.FlagsAt(p).Has(Obstructed) {
			t.Errorf("border cell %v not obstructed", p)
		}
	}
	if data.FlagsAt(Point{1, 1}).Has(Obstructed) {
		t.Error("open cell flagged obstructed")
	}
}

func TestInteriorWallCastsShadow(t *testing.T) {
	room := newRoom(9, 9)
	room.set(2, 2, 1)
	room.set(3, 2, 1)
	data := linearVision().Calculate(Definition{}, 5, Point{4, 4}, room, room, nil)

	for _, p := range []Point{{-2, -2}, {-1, -2}} {
		if !data.FlagsAt(p).Has(Obstructed) {
			t.Errorf("wall %v not obstructed", p)
		}
		if got := data.Intensity(p); got <= 0 {
			t.Errorf("wall surface %v not lit: %f", p, got)
		}
	}

	for _, p := range []Point{{-2, -3}, {-3, -3}, {-1, -3}, {-2, -4}, {-1, -4}} {
		if got := data.Intensity(p); got != 0 {
			t.Errorf("shadowed cell %v: got %f, want 0", p, got)
		}
	}

	// Other rays are unaffected.
	for _, p := range []Point{{-3, -1}, {-3, -2}, {0, -3}, {3, -3}} {
		row, col := p.Y+4, p.X+4
		if got := data.Intensity(p); !near(got, emptyRoomResult[row][col]) {
			t.Errorf("unobstructed cell %v: got %f, want %f", p, got, emptyRoomResult[row][col])
		}
	}
}

func TestSelfIllumination(t *testing.T) {
	room := newRoom(9, 9)
	for _, intensity := range []float32{0, 0.3, 5, 40} {
		data := linearVision().Calculate(Definition{}, intensity, Point{4, 4}, room, room, nil)
		c, ok := data.TryGet(Point{})
		if !ok {
			t.Fatalf("intensity %f: origin not written", intensity)
		}
		if !c.Flags.Has(SelfIlluminating) {
			t.Errorf("intensity %f: origin not self-illuminating", intensity)
		}
		if c.Intensity != intensity {
			t.Errorf("origin intensity: got %f, want %f", c.Intensity, intensity)
		}
		if c.Direction != None {
			t.Errorf("origin direction: got %s, want none", c.Direction)
		}
	}
}

func TestZeroIntensity(t *testing.T) {
	room := newRoom(9, 9)
	for _, intensity := range []float32{0, -4, float32(math.NaN())} {
		data := linearVision().Calculate(Definition{}, intensity, Point{4, 4}, room, room, nil)
		if data.Radius() != 0 {
			t.Errorf("intensity %f: radius %d, want 0", intensity, data.Radius())
		}
		if data.Len() != 1 {
			t.Errorf("intensity %f: %d cells written, want 1", intensity, data.Len())
		}
		if got := data.Intensity(Point{}); got != 0 {
			t.Errorf("intensity %f: origin %f, want 0", intensity, got)
		}
	}
}

func TestSymmetry(t *testing.T) {
	room := newRoom(21, 21)
	data := linearVision().Calculate(Definition{}, 10, Point{10, 10}, room, room, nil)

	reflections := []func(p Point) Point{
		func(p Point) Point { return Point{-p.X, p.Y} },
		func(p Point) Point { return Point{p.X, -p.Y} },
		func(p Point) Point { return Point{-p.X, -p.Y} },
		func(p Point) Point { return Point{p.Y, p.X} },
		func(p Point) Point { return Point{-p.Y, -p.X} },
		func(p Point) Point { return Point{-p.Y, p.X} },
		func(p Point) Point { return Point{p.Y, -p.X} },
	}
	for y := -10; y <= 10; y++ {
		for x := -10; x <= 10; x++ {
			p := Point{x, y}
			v := data.Intensity(p)
			for i, f := range reflections {
				if w := data.Intensity(f(p)); !near(v, w) {
					t.Errorf("reflection %d of %v: got %f, want %f", i, p, w, v)
				}
			}
		}
	}
}

func TestMonotonicDecay(t *testing.T) {
	room := newRoom(31, 31)
	data := linearVision().Calculate(Definition{}, 14, Point{15, 15}, room, room, nil)

	for d := N; d <= NW; d++ {
		s := d.Step()
		prev := data.Intensity(Point{})
		for i := 1; i <= 14; i++ {
			p := Point{s.X * i, s.Y * i}
			v := data.Intensity(p)
			if v > prev {
				t.Errorf("ray %s: intensity rose at %v: %f > %f", d, p, v, prev)
			}
			prev = v
		}
	}
}

func TestFullOcclusion(t *testing.T) {
	room := newRoom(21, 21)
	room.set(10, 7, 1)
	data := linearVision().Calculate(Definition{}, 8, Point{10, 10}, room, room, nil)

	if !data.FlagsAt(Point{0, -3}).Has(Obstructed) {
		t.Error("blocker not obstructed")
	}
	for y := -4; y >= -8; y-- {
		if got := data.Intensity(Point{0, y}); got != 0 {
			t.Errorf("behind blocker (0,%d): got %f, want 0", y, got)
		}
	}
	for y := -1; y >= -2; y-- {
		want := 8 - float32(-y)
		if got := data.Intensity(Point{0, y}); !near(got, want) {
			t.Errorf("origin side (0,%d): got %f, want %f", y, got, want)
		}
	}
}

func TestSemiOpaqueAccumulates(t *testing.T) {
	room := newRoom(21, 21)
	room.set(10, 8, 0.5)
	room.set(10, 7, 0.5)
	data := linearVision().Calculate(Definition{}, 8, Point{10, 10}, room, room, nil)

	want := map[int]float32{-2: 6, -3: 2.5, -4: 1, -5: 0.75, -6: 0.5, -7: 0.25}
	for y, w := range want {
		if got := data.Intensity(Point{0, y}); !near(got, w) {
			t.Errorf("(0,%d): got %f, want %f", y, got, w)
		}
	}
	if data.FlagsAt(Point{0, -2}).Has(Obstructed) {
		t.Error("semi-opaque cell flagged obstructed")
	}
}

func TestDirectionalityAsymmetry(t *testing.T) {
	m := newTestMap(40, 40)
	a, b := Point{5, 5}, Point{6, 5}
	m.setMask(a.X, a.Y, AllDirections.Without(E))

	prop := linearVision()

	fromWest := prop.Calculate(Definition{}, 6, Point{3, 5}, m, m, nil)
	if got := fromWest.Intensity(Point{b.X - 3, 0}); got != 0 {
		t.Errorf("B from A's side: got %f, want 0", got)
	}
	if got := fromWest.Intensity(Point{a.X - 3, 0}); got <= 0 {
		t.Errorf("A from its own side should be lit, got %f", got)
	}

	fromEast := prop.Calculate(Definition{}, 6, Point{8, 5}, m, m, nil)
	if got := fromEast.Intensity(Point{a.X - 8, 0}); got <= 0 {
		t.Errorf("A from B's side: got %f, want > 0", got)
	}

	// Ignoring directionality lights B.
	open := prop.Calculate(Definition{}, 6, Point{3, 5}, m, nil, nil)
	if got := open.Intensity(Point{b.X - 3, 0}); got <= 0 {
		t.Errorf("B without directionality: got %f, want > 0", got)
	}
}

func TestOneWayEdgeKeepsWallSurface(t *testing.T) {
	m := newTestMap(20, 20)
	m.set(6, 5, 1)
	m.setMask(5, 5, AllDirections.Without(E))

	data := linearVision().Calculate(Definition{}, 6, Point{5, 5}, m, m, nil)
	cell, ok := data.TryGet(Point{1, 0})
	if !ok {
		t.Fatal("wall behind a one-way edge should still be written")
	}
	if !cell.Flags.Has(Obstructed) || cell.Intensity <= 0 {
		t.Errorf("wall cell: got %+v, want lit and Obstructed", cell)
	}
	if got := data.Intensity(Point{2, 0}); got != 0 {
		t.Errorf("behind wall: got %f, want 0", got)
	}
}

func TestFourWayDiagonalSqueeze(t *testing.T) {
	m := newTestMap(21, 21)
	m.set(11, 10, 1)
	m.set(10, 9, 1)
	prop := linearVision()
	corner := Point{1, -1}

	eight := prop.Calculate(Definition{Adjacency: EightWay}, 5, Point{10, 10}, m, m, nil)
	if got := eight.Intensity(corner); got <= 0 {
		t.Errorf("eight-way squeeze: got %f, want > 0", got)
	}
	four := prop.Calculate(Definition{Adjacency: FourWay}, 5, Point{10, 10}, m, m, nil)
	if got := four.Intensity(corner); got != 0 {
		t.Errorf("four-way squeeze: got %f, want 0", got)
	}
	// Open diagonals are still reachable four-way.
	if got := four.Intensity(Point{-1, 1}); got <= 0 {
		t.Errorf("four-way open diagonal: got %f, want > 0", got)
	}
}

func TestDirectionOfArrival(t *testing.T) {
	m := newTestMap(21, 21)
	data := linearVision().Calculate(Definition{}, 6, Point{10, 10}, m, m, nil)
	for _, tt := range []struct {
		p    Point
		want Direction
	}{
		{Point{3, 0}, E},
		{Point{0, -4}, N},
		{Point{-2, 2}, SW},
		{Point{1, 4}, S},
	} {
		if got := data.DirectionAt(tt.p); got != tt.want {
			t.Errorf("direction at %v: got %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestMetricsShapeField(t *testing.T) {
	m := newTestMap(21, 21)
	prop := NewShadowPropagation(LinearDecay{DecayPerCell: 1})

	cheb := prop.Calculate(Definition{Metric: Chebyshev}, 3, Point{10, 10}, m, m, nil)
	if got := cheb.Intensity(Point{2, -2}); !near(got, 1) {
		t.Errorf("chebyshev (2,-2): got %f, want 1", got)
	}
	manh := prop.Calculate(Definition{Metric: Manhattan}, 3, Point{10, 10}, m, m, nil)
	if got := manh.Intensity(Point{1, -1}); !near(got, 1) {
		t.Errorf("manhattan (1,-1): got %f, want 1", got)
	}
	if got := manh.Intensity(Point{2, -1}); got != 0 {
		t.Errorf("manhattan (2,-1): got %f, want 0", got)
	}
	eucl := prop.Calculate(Definition{}, 3, Point{10, 10}, m, m, nil)
	if got := eucl.Intensity(Point{2, -2}); !near(got, 3-3*float32(math.Sqrt(8))/3) {
		t.Errorf("euclidean (2,-2): got %f", got)
	}
}

func TestConeRestriction(t *testing.T) {
	m := newTestMap(21, 21)
	def := Definition{Angle: 90, Span: 0.25}
	data := linearVision().Calculate(def, 6, Point{10, 10}, m, m, nil)

	if got := data.Intensity(Point{3, 0}); got <= 0 {
		t.Errorf("inside cone: got %f, want > 0", got)
	}
	for _, p := range []Point{{-3, 0}, {0, -3}, {0, 3}, {1, -4}} {
		if got := data.Intensity(p); got != 0 {
			t.Errorf("outside cone %v: got %f, want 0", p, got)
		}
	}
	if !data.FlagsAt(Point{}).Has(SelfIlluminating) {
		t.Error("origin missing with cone")
	}
}

func TestRoundTripReuse(t *testing.T) {
	m := newRoom(25, 25)
	for i := 0; i < 25; i++ {
		m.set((i*7)%23+1, (i*11)%23+1, float32(i%5)*0.25)
	}
	m.setMask(12, 11, AllDirections.Without(N))

	prop := linearVision()
	scratch := NewScratchBuffer(0)
	out := prop.CalculateWith(scratch, Definition{}, 9, Point{12, 12}, m, m, nil)
	first := snapshot(out)

	out = prop.CalculateWith(scratch, Definition{Metric: Chebyshev}, 9, Point{5, 18}, m, m, out)
	out = prop.CalculateWith(scratch, Definition{}, 9, Point{12, 12}, m, m, out)
	second := snapshot(out)

	if len(first) != len(second) {
		t.Fatalf("cell count differs: %d vs %d", len(first), len(second))
	}
	for p, c := range first {
		if second[p] != c {
			t.Errorf("cell %v differs: %+v vs %+v", p, c, second[p])
		}
	}
}

func TestOutputReuse(t *testing.T) {
	m := newTestMap(21, 21)
	prop := linearVision()
	out := prop.Calculate(Definition{}, 4, Point{10, 10}, m, m, nil)

	same := prop.Calculate(Definition{}, 3.5, Point{10, 10}, m, m, out)
	if same != out {
		t.Error("matching radius should reuse the output")
	}
	grown := prop.Calculate(Definition{}, 7, Point{10, 10}, m, m, out)
	if grown == out {
		t.Error("different radius should allocate")
	}
	if grown.Radius() != 7 {
		t.Errorf("grown radius: got %d, want 7", grown.Radius())
	}
}

func TestMaxRadiusCap(t *testing.T) {
	m := newTestMap(21, 21)
	prop := NewShadowPropagation(FullStrength{CellsPerUnit: 1}, WithMaxRadius(6))
	data := prop.Calculate(Definition{}, float32(math.Inf(1)), Point{10, 10}, m, m, nil)
	if data.Radius() != 6 {
		t.Errorf("capped radius: got %d, want 6", data.Radius())
	}
	if got := data.Intensity(Point{0, -5}); got <= 0 {
		t.Errorf("full strength inside cap: got %f", got)
	}
}

func TestEpsilonPrunesFaintCells(t *testing.T) {
	m := newTestMap(21, 21)
	prop := NewShadowPropagation(LinearDecay{DecayPerCell: 1}, WithEpsilon(1.5))
	data := prop.Calculate(Definition{}, 5, Point{10, 10}, m, m, nil)
	if got := data.Intensity(Point{0, -4}); got != 0 {
		t.Errorf("cell below epsilon written: %f", got)
	}
	if got := data.Intensity(Point{0, -3}); !near(got, 2) {
		t.Errorf("cell above epsilon: got %f, want 2", got)
	}
}

func TestResistanceClamped(t *testing.T) {
	m := newTestMap(21, 21)
	m.set(10, 8, float32(-3))
	m.set(12, 10, 7)
	data := linearVision().Calculate(Definition{}, 6, Point{10, 10}, m, m, nil)
	if got := data.Intensity(Point{0, -3}); !near(got, 3) {
		t.Errorf("negative resistance treated as open: got %f, want 3", got)
	}
	if !data.FlagsAt(Point{2, 0}).Has(Obstructed) {
		t.Error("resistance above 1 should be fully blocking")
	}
	if got := data.Intensity(Point{3, 0}); got != 0 {
		t.Errorf("behind clamped wall: got %f, want 0", got)
	}
}

func TestConcurrentCalculate(t *testing.T) {
	room := newRoom(9, 9)
	prop := linearVision()

	var wg sync.WaitGroup
	results := make([]*SourceData, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = prop.Calculate(Definition{}, 5, Point{4, 4}, room, room, nil)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		checkGrid(t, r, emptyRoomResult)
	}
}

func BenchmarkShadowPropagation(b *testing.B) {
	m := newTestMap(128, 128)
	for i := 0; i < 300; i++ {
		m.set((i*37)%128, (i*53)%128, float32(i%4)*0.34)
	}
	prop := linearVision()
	scratch := NewScratchBuffer(0)
	var out *SourceData

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		out = prop.CalculateWith(scratch, Definition{}, 20, Point{64, 64}, m, m, out)
	}
}

func BenchmarkRestrictedPropagation(b *testing.B) {
	m := newTestMap(128, 128)
	for i := 0; i < 300; i++ {
		m.set((i*37)%128, (i*53)%128, float32(i%4)*0.34)
	}
	prop := NewRestrictedPropagation(LinearDecay{DecayPerCell: 1})
	var out *SourceData

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		out = prop.Calculate(Definition{}, 20, Point{64, 64}, m, nil, out)
	}
}
