package sense

import (
	"fmt"
	"math"
)

// Metric selects how distance from the source is measured, which decides the
// shape of the sensed area (circle, square or diamond).
type Metric uint8

const (
	Euclidean Metric = iota
	Chebyshev
	Manhattan
)

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Chebyshev:
		return "chebyshev"
	case Manhattan:
		return "manhattan"
	}
	return "unknown"
}

// ParseMetric maps a config name to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "euclidean", "":
		return Euclidean, nil
	case "chebyshev":
		return Chebyshev, nil
	case "manhattan":
		return Manhattan, nil
	}
	return 0, fmt.Errorf("unknown distance metric %q", s)
}

// Distance returns the length of the relative offset (x, y).
func (m Metric) Distance(x, y int) float32 {
	ax, ay := absInt(x), absInt(y)
	switch m {
	case Chebyshev:
		return float32(max(ax, ay))
	case Manhattan:
		return float32(ax + ay)
	default:
		return float32(math.Sqrt(float64(ax*ax + ay*ay)))
	}
}

// Adjacency decides which single steps a signal may take when directionality
// is checked.
type Adjacency uint8

const (
	// EightWay allows diagonal steps directly.
	EightWay Adjacency = iota
	// FourWay only allows cardinal steps; a diagonal step needs one of its
	// two L-shaped cardinal paths to be open.
	FourWay
)

func (a Adjacency) String() string {
	if a == FourWay {
		return "four"
	}
	return "eight"
}

// ParseAdjacency maps a config name to an Adjacency.
func ParseAdjacency(s string) (Adjacency, error) {
	switch s {
	case "eight", "8", "":
		return EightWay, nil
	case "four", "4":
		return FourWay, nil
	}
	return 0, fmt.Errorf("unknown adjacency %q", s)
}

// Definition describes a sense source. It is an immutable value.
type Definition struct {
	Metric    Metric
	Adjacency Adjacency

	// Intensity is the nominal source intensity in the sense's own unit
	// (lumens, kelvin delta, ...). The intensity passed to Calculate may
	// differ per tick.
	Intensity float32

	// Angle is the cone centre in degrees, 0 = north, clockwise.
	Angle float32
	// Span is the cone width as a fraction of a full circle. 0 or 1 means
	// the sense is not cone-restricted.
	Span float32
}

// Normalize clamps intensity to >= 0 and span to [0,1].
func (d Definition) Normalize() Definition {
	d.Intensity = clampIntensity(d.Intensity)
	switch {
	case !(d.Span > 0):
		d.Span = 0
	case d.Span > 1:
		d.Span = 1
	}
	return d
}

// Restricted reports whether the definition limits the sense to a cone.
func (d Definition) Restricted() bool {
	return d.Span > 0 && d.Span < 1
}

// InCone reports whether the relative cell (x, y) lies inside the cone.
// The origin is always inside.
func (d Definition) InCone(x, y int) bool {
	if !d.Restricted() || (x == 0 && y == 0) {
		return true
	}
	bearing := math.Atan2(float64(x), float64(-y)) * 180 / math.Pi
	diff := math.Mod(math.Abs(bearing-float64(d.Angle)), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff <= float64(d.Span)*180
}

func clampIntensity(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > math.MaxFloat32 {
		return math.MaxFloat32
	}
	return v
}

func clampResistance(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
