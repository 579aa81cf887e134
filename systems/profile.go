package systems

import (
	"fmt"

	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/sense"
)

// Profile is the configured propagation setup for one sense kind.
type Profile struct {
	Kind       sense.Kind
	Variant    string
	Propagator sense.Propagator
	Definition sense.Definition
	Flicker    float32
}

// Profiles holds one profile per kind; kinds without a sense entry are nil.
type Profiles [sense.NumKinds]*Profile

// Get returns the profile for k, or nil.
func (p *Profiles) Get(k sense.Kind) *Profile {
	if k >= sense.NumKinds {
		return nil
	}
	return p[k]
}

// ProfilesFromConfig builds a propagator and base definition per configured
// sense kind.
func ProfilesFromConfig(cfg *config.Config) (*Profiles, error) {
	var out Profiles
	opts := []sense.Option{
		sense.WithEpsilon(cfg.Derived.Epsilon32),
		sense.WithMaxRadius(cfg.Propagation.MaxRadius),
	}
	for _, sc := range cfg.Senses {
		p, err := NewProfile(sc, opts...)
		if err != nil {
			return nil, err
		}
		out[p.Kind] = p
	}
	return &out, nil
}

// NewProfile builds the profile for a single sense entry.
func NewProfile(sc config.SenseConfig, opts ...sense.Option) (*Profile, error) {
	kind, ok := sense.ParseKind(sc.Kind)
	if !ok {
		return nil, fmt.Errorf("sense %q: unknown kind", sc.Kind)
	}
	param := sc.DecayPerCell
	if sc.Physics == "full" {
		param = sc.CellsPerUnit
	}
	physics, err := sense.PhysicsFor(sc.Physics, float32(param))
	if err != nil {
		return nil, fmt.Errorf("sense %s: %w", sc.Kind, err)
	}
	prop, err := sense.PropagatorFor(sc.Variant, physics, opts...)
	if err != nil {
		return nil, fmt.Errorf("sense %s: %w", sc.Kind, err)
	}
	metric, err := sense.ParseMetric(sc.Metric)
	if err != nil {
		return nil, fmt.Errorf("sense %s: %w", sc.Kind, err)
	}
	adj, err := sense.ParseAdjacency(sc.Adjacency)
	if err != nil {
		return nil, fmt.Errorf("sense %s: %w", sc.Kind, err)
	}

	def := sense.Definition{
		Metric:    metric,
		Adjacency: adj,
		Intensity: float32(sc.Intensity),
		Angle:     float32(sc.Angle),
		Span:      float32(sc.Span),
	}.Normalize()

	return &Profile{
		Kind:       kind,
		Variant:    sc.Variant,
		Propagator: prop,
		Definition: def,
		Flicker:    float32(sc.Flicker),
	}, nil
}

// Oriented returns the profile's definition with the cone rotated by heading
// degrees.
func (p *Profile) Oriented(heading float32) sense.Definition {
	def := p.Definition
	if def.Restricted() {
		def.Angle = normalizeDegrees(def.Angle + heading)
	}
	return def
}

func normalizeDegrees(a float32) float32 {
	for a >= 360 {
		a -= 360
	}
	for a < 0 {
		a += 360
	}
	return a
}
