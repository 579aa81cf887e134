package sense

import "fmt"

// RestrictedPropagation is the cheap propagator: strength depends only on the
// falloff and the resistance of the cell itself, with no accumulation along
// the ray and no direction masks. Fully opaque cells still block and are lit
// on their surface.
type RestrictedPropagation struct {
	physics  Physics
	settings settings
}

// NewRestrictedPropagation creates a restricted propagator.
func NewRestrictedPropagation(physics Physics, opts ...Option) *RestrictedPropagation {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &RestrictedPropagation{physics: physics, settings: s}
}

// Physics returns the propagator's physics.
func (p *RestrictedPropagation) Physics() Physics { return p.physics }

// Calculate ignores dirs.
func (p *RestrictedPropagation) Calculate(def Definition, intensity float32, origin Point, res ResistanceView, dirs DirectionalityView, reuse *SourceData) *SourceData {
	def = def.Normalize()
	intensity = clampIntensity(intensity)
	radius, signalRadius := p.settings.radius(p.physics, intensity)

	out := prepareOutput(reuse, radius)
	out.Write(Point{}, intensity, None, SelfIlluminating)
	if radius == 0 {
		return out
	}

	scan := restrictedScan{
		def:       def,
		physics:   p.physics,
		epsilon:   p.settings.epsilon,
		intensity: intensity,
		maxRadius: signalRadius,
		origin:    origin,
		res:       res,
		out:       out,
	}
	for _, o := range octants {
		castShadow(&scan, o, radius, 1, 1.0, 0.0)
	}
	return out
}

// CalculateWith does not need a scratch buffer; it is accepted so both
// propagators can be driven by the same worker code.
func (p *RestrictedPropagation) CalculateWith(_ *ScratchBuffer, def Definition, intensity float32, origin Point, res ResistanceView, dirs DirectionalityView, reuse *SourceData) *SourceData {
	return p.Calculate(def, intensity, origin, res, dirs, reuse)
}

type restrictedScan struct {
	def       Definition
	physics   Physics
	epsilon   float32
	intensity float32
	maxRadius float32
	origin    Point
	res       ResistanceView
	out       *SourceData
}

func (s *restrictedScan) visit(o octant, dx, dy int) bool {
	x, y := o.apply(dx, dy)
	dist := s.def.Metric.Distance(x, y)
	if dist > s.maxRadius || !s.def.InCone(x, y) {
		return true
	}
	falloff := s.physics.SignalStrengthAtDistance(dist, s.maxRadius)
	strength := s.intensity * falloff
	if strength <= s.epsilon {
		return true
	}

	resistance := clampResistance(s.res.Resistance(s.origin.X+x, s.origin.Y+y))
	if resistance >= 1 {
		s.out.Write(Point{X: x, Y: y}, strength, DirectionOf(x, y), Obstructed)
		return true
	}
	if strength *= 1 - resistance; strength > s.epsilon {
		s.out.Write(Point{X: x, Y: y}, strength, DirectionOf(x, y), 0)
	}
	return false
}

// Variant names accepted by PropagatorFor.
const (
	VariantFull       = "full"
	VariantRestricted = "restricted"
)

// PropagatorFor builds a propagator from its config name.
func PropagatorFor(variant string, physics Physics, opts ...Option) (Propagator, error) {
	switch variant {
	case VariantFull, "":
		return NewShadowPropagation(physics, opts...), nil
	case VariantRestricted:
		return NewRestrictedPropagation(physics, opts...), nil
	}
	return nil, fmt.Errorf("unknown propagation variant %q", variant)
}
