package grid

import "testing"

func TestGenerateDeterministic(t *testing.T) {
	a := NewLevel(96, 64)
	b := NewLevel(96, 64)
	Generate(a, DefaultTerrain(), 42)
	Generate(b, DefaultTerrain(), 42)

	for y := 0; y < 64; y++ {
		for x := 0; x < 96; x++ {
			if a.Material(x, y) != b.Material(x, y) {
				t.Fatalf("levels differ at (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerateBorderAndMix(t *testing.T) {
	l := NewLevel(128, 128)
	Generate(l, DefaultTerrain(), 7)

	for x := 0; x < 128; x++ {
		if l.Material(x, 0) != Rock || l.Material(x, 127) != Rock {
			t.Fatalf("border missing at column %d", x)
		}
	}
	open := l.Count(Open)
	if open == 0 {
		t.Error("no open ground generated")
	}
	if open == 126*126 {
		t.Error("terrain generated no features")
	}
}

func TestGenerateWithoutBorder(t *testing.T) {
	p := DefaultTerrain()
	p.Border = false
	p.RockThreshold = 2 // noise never exceeds 1
	p.FoliageThreshold = 2
	p.WaterThreshold = 2

	l := NewLevel(40, 40)
	l.SetWall(5, 5)
	Generate(l, p, 1)
	if got := l.Count(Open); got != 40*40 {
		t.Errorf("open cells: got %d, want %d", got, 40*40)
	}
}
