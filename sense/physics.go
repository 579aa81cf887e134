package sense

import "fmt"

// Physics maps a source intensity to a signal radius and a distance to a
// normalized falloff. Implementations are pure and safe for concurrent use.
type Physics interface {
	// SignalRadiusForIntensity is monotonically non-decreasing and 0 for
	// intensity <= 0.
	SignalRadiusForIntensity(intensity float32) float32

	// SignalStrengthAtDistance is in [0,1], 1 at distance 0 and 0 at
	// distance >= maxRadius.
	SignalStrengthAtDistance(distance, maxRadius float32) float32
}

// LinearDecay loses DecayPerCell units of intensity per cell travelled, so the
// falloff is 1 - distance/maxRadius.
type LinearDecay struct {
	DecayPerCell float32
}

func (p LinearDecay) decay() float32 {
	if p.DecayPerCell > 0 {
		return p.DecayPerCell
	}
	return 1
}

func (p LinearDecay) SignalRadiusForIntensity(intensity float32) float32 {
	if !(intensity > 0) {
		return 0
	}
	return intensity / p.decay()
}

func (p LinearDecay) SignalStrengthAtDistance(distance, maxRadius float32) float32 {
	if distance <= 0 {
		return 1
	}
	if !(maxRadius > distance) {
		return 0
	}
	return 1 - distance/maxRadius
}

// FullStrength does not attenuate with distance: the signal is full strength
// up to the radius and absent beyond it. Used for threshold senses such as
// infravision.
type FullStrength struct {
	CellsPerUnit float32
}

func (p FullStrength) SignalRadiusForIntensity(intensity float32) float32 {
	if !(intensity > 0) {
		return 0
	}
	scale := p.CellsPerUnit
	if !(scale > 0) {
		scale = 1
	}
	return intensity * scale
}

func (p FullStrength) SignalStrengthAtDistance(distance, maxRadius float32) float32 {
	if distance <= 0 {
		return 1
	}
	if distance >= maxRadius {
		return 0
	}
	return 1
}

// PhysicsFor builds a Physics from its config name. param is the decay per
// cell for "linear" and the cells per intensity unit for "full".
func PhysicsFor(name string, param float32) (Physics, error) {
	switch name {
	case "linear", "":
		return LinearDecay{DecayPerCell: param}, nil
	case "full":
		return FullStrength{CellsPerUnit: param}, nil
	}
	return nil, fmt.Errorf("unknown sense physics %q", name)
}
