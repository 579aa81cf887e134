package telemetry

import "github.com/pthm-cable/sensefield/sense"

// EventType identifies a source lifecycle event.
type EventType uint8

const (
	EventCalculated EventType = iota
	EventReallocated
	EventToggled
	EventMoved
)

func (t EventType) String() string {
	switch t {
	case EventCalculated:
		return "calculated"
	case EventReallocated:
		return "reallocated"
	case EventToggled:
		return "toggled"
	case EventMoved:
		return "moved"
	}
	return "unknown"
}

// Event is a single source lifecycle event.
type Event struct {
	Tick     int32
	Type     EventType
	SourceID uint32
	Kind     sense.Kind
	Radius   int  // radius after the event, for calculations and reallocations
	Enabled  bool // new state, for toggles
}

// NewCalculatedEvent records a field recomputation that reused its grid.
func NewCalculatedEvent(tick int32, id uint32, kind sense.Kind, radius int) Event {
	return Event{Tick: tick, Type: EventCalculated, SourceID: id, Kind: kind, Radius: radius}
}

// NewReallocatedEvent records a field recomputation that needed a new grid.
func NewReallocatedEvent(tick int32, id uint32, kind sense.Kind, radius int) Event {
	return Event{Tick: tick, Type: EventReallocated, SourceID: id, Kind: kind, Radius: radius}
}

// NewToggledEvent records a source being switched on or off.
func NewToggledEvent(tick int32, id uint32, kind sense.Kind, enabled bool) Event {
	return Event{Tick: tick, Type: EventToggled, SourceID: id, Kind: kind, Enabled: enabled}
}

// NewMovedEvent records a source changing cell.
func NewMovedEvent(tick int32, id uint32) Event {
	return Event{Tick: tick, Type: EventMoved, SourceID: id}
}
