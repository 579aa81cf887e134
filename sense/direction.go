package sense

import "math"

// Direction is a discretized compass direction. Grid Y grows downward, so
// N is (0,-1).
type Direction uint8

const (
	None Direction = iota
	N
	NE
	E
	SE
	S
	SW
	W
	NW
)

// Direction vectors indexed by Direction.
var steps = [...]Point{
	None: {0, 0},
	N:    {0, -1},
	NE:   {1, -1},
	E:    {1, 0},
	SE:   {1, 1},
	S:    {0, 1},
	SW:   {-1, 1},
	W:    {-1, 0},
	NW:   {-1, -1},
}

var directionNames = [...]string{"none", "N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "invalid"
}

// Step returns the unit offset for d.
func (d Direction) Step() Point {
	if int(d) < len(steps) {
		return steps[d]
	}
	return Point{}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	if d == None || d > NW {
		return None
	}
	return Direction((int(d)-1+4)%8 + 1)
}

// IsDiagonal reports whether d is one of NE, SE, SW, NW.
func (d Direction) IsDiagonal() bool {
	return d == NE || d == SE || d == SW || d == NW
}

// tan(22.5°), the boundary between a cardinal sector and a diagonal one.
const sectorTan = 0.41421356237

// DirectionOf discretizes a relative offset into one of the 8 compass
// sectors (45° each, centred on the compass directions).
func DirectionOf(x, y int) Direction {
	if x == 0 && y == 0 {
		return None
	}
	ax := math.Abs(float64(x))
	ay := math.Abs(float64(y))
	switch {
	case ay <= ax*sectorTan:
		if x > 0 {
			return E
		}
		return W
	case ax <= ay*sectorTan:
		if y < 0 {
			return N
		}
		return S
	case x > 0 && y < 0:
		return NE
	case x > 0:
		return SE
	case y > 0:
		return SW
	default:
		return NW
	}
}

// DirectionMask is a bitset of the 8 compass directions.
type DirectionMask uint8

// AllDirections permits travel every way.
const AllDirections DirectionMask = 0xFF

func bit(d Direction) DirectionMask {
	return 1 << (d - 1)
}

// MaskOf builds a mask from a list of directions. None is ignored.
func MaskOf(dirs ...Direction) DirectionMask {
	var m DirectionMask
	for _, d := range dirs {
		if d != None && d <= NW {
			m |= bit(d)
		}
	}
	return m
}

// Has reports whether travel toward d is permitted. None (staying put) is
// always permitted.
func (m DirectionMask) Has(d Direction) bool {
	if d == None {
		return true
	}
	if d > NW {
		return false
	}
	return m&bit(d) != 0
}

// With returns m with d permitted.
func (m DirectionMask) With(d Direction) DirectionMask {
	return m | MaskOf(d)
}

// Without returns m with d forbidden.
func (m DirectionMask) Without(d Direction) DirectionMask {
	return m &^ MaskOf(d)
}
