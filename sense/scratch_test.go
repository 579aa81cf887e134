package sense

import "testing"

func TestScratchBufferVirtualCells(t *testing.T) {
	b := NewScratchBuffer(2)
	if got := b.at(3, 0); got != 1 {
		t.Errorf("virtual cell: got %f, want 1", got)
	}
	if got := b.at(0, 0); got != 0 {
		t.Errorf("fresh cell: got %f, want 0", got)
	}
	b.set(1, -1, 0.4)
	if got := b.at(1, -1); got != 0.4 {
		t.Errorf("set/at: got %f, want 0.4", got)
	}
	// Writes outside are ignored.
	b.set(9, 9, 0.2)
	if got := b.at(9, 9); got != 1 {
		t.Errorf("virtual cell after write: got %f, want 1", got)
	}
}

func TestScratchBufferGrowsMonotonically(t *testing.T) {
	b := NewScratchBuffer(4)
	big := b.Cap()
	b.set(2, 2, 0.9)

	b.prepare(1)
	if b.Cap() != big {
		t.Errorf("capacity shrank: got %d, want %d", b.Cap(), big)
	}
	if b.Radius() != 1 {
		t.Errorf("radius: got %d, want 1", b.Radius())
	}
	for y := -1; y <= 1; y++ {
		for x := -1; x <= 1; x++ {
			if got := b.at(x, y); got != 0 {
				t.Errorf("cell (%d,%d) not cleared: %f", x, y, got)
			}
		}
	}

	b.prepare(8)
	if b.Cap() < 17*17 {
		t.Errorf("capacity did not grow: %d", b.Cap())
	}
}

func TestScratchPool(t *testing.T) {
	p := NewScratchPool(3)
	if p.Len() != 3 {
		t.Fatalf("len: got %d, want 3", p.Len())
	}
	if p.Worker(0) == p.Worker(1) {
		t.Error("workers share a buffer")
	}
	if NewScratchPool(0).Len() != 1 {
		t.Error("pool should have at least one worker")
	}
}
