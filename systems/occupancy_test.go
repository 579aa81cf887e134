package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sensefield/components"
)

func TestOccupancy(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Position](world)
	a := mapper.NewEntity(&components.Position{X: 3, Y: 3})
	b := mapper.NewEntity(&components.Position{X: 20, Y: 3})
	c := mapper.NewEntity(&components.Position{X: 3, Y: 3, Level: 1})

	occ := NewOccupancy(32, 32, 2, 8)
	occ.Insert(a, components.Position{X: 3, Y: 3})
	occ.Insert(b, components.Position{X: 20, Y: 3})
	occ.Insert(c, components.Position{X: 3, Y: 3, Level: 1})

	if !occ.Occupied(3, 3, 0) || !occ.Occupied(3, 3, 1) {
		t.Error("(3, 3) should be occupied on both levels")
	}
	if occ.Occupied(4, 3, 0) {
		t.Error("(4, 3) should be free")
	}

	if got := occ.QueryInto(nil, 4, 4, 0, 1); len(got) != 1 || got[0] != a {
		t.Errorf("query near a: got %v", got)
	}
	if got := occ.QueryInto(nil, 10, 3, 0, 10); len(got) != 2 {
		t.Errorf("wide query: got %d entities, want 2", len(got))
	}
	if got := occ.QueryInto(nil, 3, 3, 5, 4); len(got) != 0 {
		t.Errorf("query on missing level: got %v", got)
	}

	occ.Move(a, components.Position{X: 3, Y: 3}, components.Position{X: 9, Y: 3})
	if occ.Occupied(3, 3, 0) || !occ.Occupied(9, 3, 0) {
		t.Error("move across buckets not reflected")
	}

	occ.Clear()
	if occ.Occupied(9, 3, 0) || occ.Occupied(20, 3, 0) {
		t.Error("clear left entities behind")
	}

	// Off-index positions are ignored rather than clamped.
	occ.Insert(a, components.Position{X: -1, Y: 40})
	if got := occ.QueryInto(nil, 0, 31, 0, 2); len(got) != 0 {
		t.Errorf("off-index insert leaked: %v", got)
	}
}
