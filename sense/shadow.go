package sense

import "sync"

// ShadowPropagation is the full propagator: transmittance accumulates through
// semi-opaque cells along each ray and direction masks are honoured. It is
// immutable and safe for concurrent use.
type ShadowPropagation struct {
	physics  Physics
	settings settings
	scratch  *sync.Pool
}

// NewShadowPropagation creates a full propagator with the given physics.
func NewShadowPropagation(physics Physics, opts ...Option) *ShadowPropagation {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &ShadowPropagation{
		physics:  physics,
		settings: s,
		scratch: &sync.Pool{
			New: func() any { return &ScratchBuffer{} },
		},
	}
}

// Physics returns the propagator's physics.
func (p *ShadowPropagation) Physics() Physics { return p.physics }

// Calculate borrows a scratch buffer from an internal pool for the duration
// of the call.
func (p *ShadowPropagation) Calculate(def Definition, intensity float32, origin Point, res ResistanceView, dirs DirectionalityView, reuse *SourceData) *SourceData {
	scratch := p.scratch.Get().(*ScratchBuffer)
	out := p.CalculateWith(scratch, def, intensity, origin, res, dirs, reuse)
	p.scratch.Put(scratch)
	return out
}

func (p *ShadowPropagation) CalculateWith(scratch *ScratchBuffer, def Definition, intensity float32, origin Point, res ResistanceView, dirs DirectionalityView, reuse *SourceData) *SourceData {
	def = def.Normalize()
	intensity = clampIntensity(intensity)
	radius, signalRadius := p.settings.radius(p.physics, intensity)

	out := prepareOutput(reuse, radius)
	scratch.prepare(radius)

	out.Write(Point{}, intensity, None, SelfIlluminating)
	scratch.set(0, 0, 1)
	if radius == 0 {
		return out
	}

	scan := shadowScan{
		def:       def,
		physics:   p.physics,
		epsilon:   p.settings.epsilon,
		intensity: intensity,
		maxRadius: signalRadius,
		origin:    origin,
		res:       res,
		dirs:      dirs,
		scratch:   scratch,
		out:       out,
	}
	for _, o := range octants {
		castShadow(&scan, o, radius, 1, 1.0, 0.0)
	}
	return out
}

// shadowScan is the per-call state of a full propagation.
type shadowScan struct {
	def       Definition
	physics   Physics
	epsilon   float32
	intensity float32
	maxRadius float32
	origin    Point
	res       ResistanceView
	dirs      DirectionalityView
	scratch   *ScratchBuffer
	out       *SourceData
}

func (s *shadowScan) visit(o octant, dx, dy int) bool {
	x, y := o.apply(dx, dy)
	px, py := o.apply(predecessorColumn(dx, -dy), dy+1)

	resistance := clampResistance(s.res.Resistance(s.origin.X+x, s.origin.Y+y))
	fullyBlocked := resistance >= 1

	// A one-way edge hides passable cells behind it, but an opaque cell is
	// still written as an Obstructed surface. Its carried value is zero
	// either way.
	transmittance := s.scratch.at(px, py)
	if transmittance > 0 && !fullyBlocked && !s.permits(px, py, x, y) {
		transmittance = 0
	}

	var carried float32
	if transmittance > 0 {
		dist := s.def.Metric.Distance(x, y)
		if dist <= s.maxRadius && s.def.InCone(x, y) {
			strength := s.intensity * s.physics.SignalStrengthAtDistance(dist, s.maxRadius) * transmittance
			if strength > s.epsilon {
				var flags Flags
				if fullyBlocked {
					flags = Obstructed
				}
				s.out.Write(Point{X: x, Y: y}, strength, DirectionOf(x, y), flags)
				carried = transmittance * (1 - resistance)
			}
		}
	}
	s.scratch.set(x, y, carried)
	return fullyBlocked || carried <= 0
}

// permits reports whether signal may step from relative cell (px, py) to the
// adjacent cell (x, y).
func (s *shadowScan) permits(px, py, x, y int) bool {
	sx, sy := x-px, y-py
	step := DirectionOf(sx, sy)
	if s.def.Adjacency == EightWay || !step.IsDiagonal() {
		return s.mask(px, py).Has(step)
	}
	// Four-way: a diagonal step needs one of its two L-shaped paths.
	h, v := DirectionOf(sx, 0), DirectionOf(0, sy)
	return s.leg(px, py, px+sx, py, h, v) || s.leg(px, py, px, py+sy, v, h)
}

// leg checks the path from (px, py) through the intermediate cell (ix, iy)
// taking first then second.
func (s *shadowScan) leg(px, py, ix, iy int, first, second Direction) bool {
	if !s.mask(px, py).Has(first) {
		return false
	}
	if clampResistance(s.res.Resistance(s.origin.X+ix, s.origin.Y+iy)) >= 1 {
		return false
	}
	return s.mask(ix, iy).Has(second)
}

func (s *shadowScan) mask(x, y int) DirectionMask {
	if s.dirs == nil {
		return AllDirections
	}
	return s.dirs.Directions(s.origin.X+x, s.origin.Y+y)
}
