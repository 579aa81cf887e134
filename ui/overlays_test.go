package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.IsEnabled(OverlayField) {
		t.Error("field overlay should start enabled")
	}
	if reg.IsEnabled(OverlayArrivals) {
		t.Error("arrivals overlay should start disabled")
	}

	cats := reg.Categories()
	want := []string{"field", "world", "debug"}
	if len(cats) != len(want) {
		t.Fatalf("categories: got %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("category %d: got %q, want %q", i, cats[i], want[i])
		}
	}
	if n := len(reg.ByCategory("field")); n != 3 {
		t.Errorf("field overlays: got %d, want 3", n)
	}
}

func TestOverlayToggleAndKeys(t *testing.T) {
	reg := NewOverlayRegistry()

	id, on, ok := reg.HandleKeyPress(rl.KeyA)
	if !ok || id != OverlayArrivals || !on {
		t.Fatalf("key A: got (%q, %v, %v), want (arrivals, true, true)", id, on, ok)
	}
	if reg.Toggle(OverlayArrivals) {
		t.Error("second toggle should disable")
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}
	if _, _, ok := reg.HandleKeyPress(0); ok {
		t.Error("key 0 should not toggle anything")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay should report false")
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.Register(OverlayDescriptor{ID: "a", Category: "test", DefaultOn: true})
	reg.Register(OverlayDescriptor{ID: "b", Category: "test", Exclusive: []OverlayID{"a"}})

	reg.SetEnabled("b", true)
	if reg.IsEnabled("a") {
		t.Error("enabling b should disable a")
	}

	reg.Register(OverlayDescriptor{ID: "b", Name: "B2", Category: "test"})
	if n := len(reg.ByCategory("test")); n != 2 {
		t.Errorf("re-register duplicated descriptor: got %d entries, want 2", n)
	}
	if d, _ := reg.Get("b"); d.Name != "B2" {
		t.Errorf("re-register: got name %q, want B2", d.Name)
	}
	if reg.IsEnabled("b") {
		t.Error("re-register should reset state")
	}

	before := len(reg.EnabledOverlays())
	reg.SetEnabled(OverlayPerf, true)
	if got := len(reg.EnabledOverlays()); got != before+1 {
		t.Errorf("enabled overlays: got %d, want %d", got, before+1)
	}
}
