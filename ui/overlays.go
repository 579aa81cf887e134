package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayField      OverlayID = "field"
	OverlayArrivals   OverlayID = "arrivals"
	OverlayObstructed OverlayID = "obstructed"
	OverlayGridLines  OverlayID = "grid_lines"
	OverlayActors     OverlayID = "actors"
	OverlayPerf       OverlayID = "perf"
	OverlayHover      OverlayID = "hover"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "F")
	Category    string      // Grouping (e.g., "field", "debug")
	DefaultOn   bool        // Enabled when registered
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayField,
		Name:        "Field",
		Description: "Intensity of the selected source",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "field",
		DefaultOn:   true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayArrivals,
		Name:        "Arrivals",
		Description: "Direction the signal arrived from",
		Key:         rl.KeyA,
		KeyLabel:    "A",
		Category:    "field",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayObstructed,
		Name:        "Obstructed",
		Description: "Outline lit surfaces of opaque cells",
		Key:         rl.KeyO,
		KeyLabel:    "O",
		Category:    "field",
		DefaultOn:   true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayActors,
		Name:        "Actors",
		Description: "Draw sources with their heading",
		Key:         rl.KeyE,
		KeyLabel:    "E",
		Category:    "world",
		DefaultOn:   true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayGridLines,
		Name:        "Grid Lines",
		Description: "Separate cells when zoomed in",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "world",
		DefaultOn:   true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Tick phase timings",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayHover,
		Name:        "Cell Readout",
		Description: "Show the selected field at the cursor",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "debug",
		DefaultOn:   true,
	})
}

// Register adds an overlay to the registry. Registering an existing ID
// replaces its descriptor and resets its state.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	if _, ok := r.byID[desc.ID]; ok {
		for i := range r.descriptors {
			if r.descriptors[i].ID == desc.ID {
				r.descriptors[i] = desc
			}
		}
	} else {
		r.descriptors = append(r.descriptors, desc)
	}
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.DefaultOn
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// Get returns an overlay descriptor by ID.
func (r *OverlayRegistry) Get(id OverlayID) (OverlayDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	if key == 0 {
		return "", false, false
	}
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// EnabledOverlays returns currently enabled overlay IDs in registration order.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, desc := range r.descriptors {
		if r.enabled[desc.ID] {
			result = append(result, desc.ID)
		}
	}
	return result
}
