// Package sense computes how far a point sense (vision, heat, smell, sound,
// touch) reaches across a grid, accounting for opaque and semi-opaque
// obstacles and for one-way directional blocking.
package sense

// Point is a grid coordinate. Depending on context it is absolute (map
// space) or relative to a source origin.
type Point struct {
	X, Y int
}

// Add returns p offset by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// ResistanceView is a read-only accessor over per-cell resistance in
// absolute coordinates. 0 is fully transmissive, 1 is fully opaque.
// Off-map reads must return 1.
type ResistanceView interface {
	Resistance(x, y int) float32
}

// DirectionalityView is a read-only accessor over per-cell direction masks in
// absolute coordinates. A set bit means signal may leave the cell in that
// direction. Off-map reads must return 0.
type DirectionalityView interface {
	Directions(x, y int) DirectionMask
}

// Propagator computes the field of a single sense source.
//
// reuse may be nil; when its radius matches the required radius it is reset
// and returned, otherwise a new SourceData is allocated.
type Propagator interface {
	Calculate(def Definition, intensity float32, origin Point, res ResistanceView, dirs DirectionalityView, reuse *SourceData) *SourceData

	// CalculateWith is Calculate with a caller-owned scratch buffer. The
	// buffer must not be used by any other goroutine until the call returns.
	CalculateWith(scratch *ScratchBuffer, def Definition, intensity float32, origin Point, res ResistanceView, dirs DirectionalityView, reuse *SourceData) *SourceData

	Physics() Physics
}

// Kind identifies a sense type. Each kind has its own resistance and
// directionality layers and its own propagator.
type Kind uint8

const (
	Vision Kind = iota
	Heat
	Smell
	Sound
	Touch
	NumKinds
)

var kindNames = [NumKinds]string{"vision", "heat", "smell", "sound", "touch"}

func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a config name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}
