package sense

import "testing"

func TestRestrictedEmptyRoom(t *testing.T) {
	room := newRoom(9, 9)
	prop := NewRestrictedPropagation(LinearDecay{DecayPerCell: 1})
	data := prop.Calculate(Definition{}, 5, Point{4, 4}, room, nil, nil)
	checkGrid(t, data, emptyRoomResult)

	if !data.FlagsAt(Point{0, -4}).Has(Obstructed) {
		t.Error("border not obstructed")
	}
	if !data.FlagsAt(Point{}).Has(SelfIlluminating) {
		t.Error("origin not self-illuminating")
	}
}

func TestRestrictedDoesNotAccumulate(t *testing.T) {
	room := newRoom(21, 21)
	room.set(10, 8, 0.5)
	room.set(10, 7, 0.5)
	prop := NewRestrictedPropagation(LinearDecay{DecayPerCell: 1})
	data := prop.Calculate(Definition{}, 8, Point{10, 10}, room, nil, nil)

	want := map[int]float32{-2: 3, -3: 2.5, -4: 4, -5: 3, -7: 1}
	for y, w := range want {
		if got := data.Intensity(Point{0, y}); !near(got, w) {
			t.Errorf("(0,%d): got %f, want %f", y, got, w)
		}
	}
}

func TestRestrictedOcclusion(t *testing.T) {
	room := newRoom(21, 21)
	room.set(10, 7, 1)
	prop := NewRestrictedPropagation(LinearDecay{DecayPerCell: 1})
	data := prop.Calculate(Definition{}, 8, Point{10, 10}, room, nil, nil)

	if got := data.Intensity(Point{0, -3}); !near(got, 5) {
		t.Errorf("wall surface: got %f, want 5", got)
	}
	for y := -4; y >= -8; y-- {
		if got := data.Intensity(Point{0, y}); got != 0 {
			t.Errorf("behind wall (0,%d): got %f, want 0", y, got)
		}
	}
}

func TestRestrictedIgnoresDirectionality(t *testing.T) {
	m := newTestMap(40, 40)
	m.setMask(5, 5, AllDirections.Without(E))
	prop := NewRestrictedPropagation(LinearDecay{DecayPerCell: 1})
	data := prop.Calculate(Definition{}, 6, Point{3, 5}, m, m, nil)
	if got := data.Intensity(Point{3, 0}); got <= 0 {
		t.Errorf("restricted variant should ignore masks, got %f", got)
	}
}

func TestRestrictedReuse(t *testing.T) {
	room := newRoom(9, 9)
	prop := NewRestrictedPropagation(LinearDecay{DecayPerCell: 1})
	first := prop.Calculate(Definition{}, 5, Point{4, 4}, room, nil, nil)
	want := snapshot(first)

	out := prop.CalculateWith(nil, Definition{}, 5, Point{2, 2}, room, nil, first)
	out = prop.CalculateWith(nil, Definition{}, 5, Point{4, 4}, room, nil, out)
	got := snapshot(out)
	if len(got) != len(want) {
		t.Fatalf("cell count differs: %d vs %d", len(got), len(want))
	}
	for p, c := range want {
		if got[p] != c {
			t.Errorf("cell %v differs: %+v vs %+v", p, c, got[p])
		}
	}
}

func TestPropagatorFor(t *testing.T) {
	p, err := PropagatorFor(VariantFull, LinearDecay{})
	if err != nil {
		t.Fatalf("full: %v", err)
	}
	if _, ok := p.(*ShadowPropagation); !ok {
		t.Errorf("full returned %T", p)
	}
	p, err = PropagatorFor(VariantRestricted, LinearDecay{})
	if err != nil {
		t.Fatalf("restricted: %v", err)
	}
	if _, ok := p.(*RestrictedPropagation); !ok {
		t.Errorf("restricted returned %T", p)
	}
	if _, err := PropagatorFor("fast", LinearDecay{}); err == nil {
		t.Error("expected error for unknown variant")
	}
}
