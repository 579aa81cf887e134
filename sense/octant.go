package sense

import "math"

// octant maps the canonical scan space onto one eighth of the plane. The
// canonical octant has dy = -distance and dx running from -distance to 0,
// i.e. from the diagonal towards the axis.
type octant struct {
	xx, xy, yx, yy int
}

func (o octant) apply(dx, dy int) (int, int) {
	return dx*o.xx + dy*o.xy, dx*o.yx + dy*o.yy
}

// octants holds two transforms per diagonal (NE, SE, SW, NW). Cells on the
// diagonals and axes are visited by both neighbouring octants and get the
// same value each time.
var octants = func() [8]octant {
	var out [8]octant
	for i, d := range []Direction{NE, SE, SW, NW} {
		s := d.Step()
		out[2*i] = octant{xx: -s.X, yy: -s.Y}
		out[2*i+1] = octant{xy: -s.X, yx: -s.Y}
	}
	return out
}()

// cellVisitor evaluates one cell of a scan and reports whether it stops the
// signal, for the shadow bookkeeping.
type cellVisitor interface {
	visit(o octant, dx, dy int) bool
}

// castShadow runs the recursive shadowcast over one octant from row outward,
// between slopes start (towards the diagonal) and end (towards the axis).
func castShadow(v cellVisitor, o octant, radius, row int, start, end float64) {
	if start < end {
		return
	}
	var newStart float64
	for distance := row; distance <= radius; distance++ {
		dy := -distance
		blocked := false
		for dx := -distance; dx <= 0; dx++ {
			left := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			right := (float64(dx) + 0.5) / (float64(dy) - 0.5)
			if start < right {
				continue
			}
			if end > left {
				break
			}

			opaque := v.visit(o, dx, dy)
			if blocked {
				if opaque {
					newStart = right
					continue
				}
				blocked = false
				start = newStart
			} else if opaque && distance < radius {
				blocked = true
				castShadow(v, o, radius, distance+1, start, left)
				newStart = right
			}
		}
		if blocked {
			break
		}
	}
}

// predecessorColumn returns the canonical dx of the cell one row nearer the
// origin on the ray through (dx, -distance), rounding half away from zero.
func predecessorColumn(dx, distance int) int {
	if distance <= 1 {
		return 0
	}
	n := -dx * (distance - 1)
	return -((2*n + distance) / (2 * distance))
}

// settings are shared by both propagators.
type settings struct {
	epsilon   float32
	maxRadius float32
}

func defaultSettings() settings {
	return settings{epsilon: DefaultEpsilon, maxRadius: DefaultMaxRadius}
}

const (
	// DefaultEpsilon is the strength below which a cell is neither written
	// nor propagated through.
	DefaultEpsilon = 0.0005
	// DefaultMaxRadius caps the radius of a single source.
	DefaultMaxRadius = 512
)

// Option configures a propagator.
type Option func(*settings)

// WithEpsilon sets the pruning threshold. Non-positive values disable
// pruning of faint cells but zero strength is still never written.
func WithEpsilon(eps float32) Option {
	return func(s *settings) {
		if eps < 0 {
			eps = 0
		}
		s.epsilon = eps
	}
}

// WithMaxRadius caps the radius a source may reach regardless of intensity.
func WithMaxRadius(r int) Option {
	return func(s *settings) {
		if r > 0 {
			s.maxRadius = float32(r)
		}
	}
}

// radius returns the scan radius and the unrounded signal radius used for
// falloff.
func (s settings) radius(p Physics, intensity float32) (int, float32) {
	raw := p.SignalRadiusForIntensity(intensity)
	if !(raw > 0) {
		return 0, 0
	}
	raw = min(raw, s.maxRadius)
	return int(math.Ceil(float64(raw))), raw
}

func prepareOutput(reuse *SourceData, radius int) *SourceData {
	if reuse != nil && reuse.Radius() == radius {
		reuse.Reset()
		return reuse
	}
	return NewSourceData(radius)
}
