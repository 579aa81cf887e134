package main

import (
	"github.com/pthm-cable/sensefield/config"
)

// ParamSpec defines a single tunable sense setting.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the settings being tuned for one sense entry.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector builds the tunable set for sc. The physics parameter is
// decay_per_cell or cells_per_unit depending on the physics; span is only
// tuned for coned senses.
func NewParamVector(sc config.SenseConfig) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "intensity", Path: "senses.intensity", Min: 1, Max: 32, Default: sc.Intensity},
		},
	}
	if sc.Physics == "full" {
		pv.Specs = append(pv.Specs, ParamSpec{Name: "cells_per_unit", Path: "senses.cells_per_unit", Min: 0.1, Max: 4, Default: sc.CellsPerUnit})
	} else {
		pv.Specs = append(pv.Specs, ParamSpec{Name: "decay_per_cell", Path: "senses.decay_per_cell", Min: 0.1, Max: 3, Default: sc.DecayPerCell})
	}
	if sc.Span > 0 && sc.Span < 1 {
		pv.Specs = append(pv.Specs, ParamSpec{Name: "span", Path: "senses.span", Min: 0.05, Max: 0.95, Default: sc.Span})
	}
	for i := range pv.Specs {
		s := &pv.Specs[i]
		s.Default = min(max(s.Default, s.Min), s.Max)
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the starting values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Apply returns sc with the clamped values written into it.
func (pv *ParamVector) Apply(sc config.SenseConfig, values []float64) config.SenseConfig {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		switch spec.Name {
		case "intensity":
			sc.Intensity = clamped[i]
		case "decay_per_cell":
			sc.DecayPerCell = clamped[i]
		case "cells_per_unit":
			sc.CellsPerUnit = clamped[i]
		case "span":
			sc.Span = clamped[i]
		}
	}
	return sc
}

// ApplyToConfig replaces the matching sense entry in cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, sc config.SenseConfig, values []float64) {
	tuned := pv.Apply(sc, values)
	for i := range cfg.Senses {
		if cfg.Senses[i].Kind == sc.Kind {
			cfg.Senses[i] = tuned
		}
	}
}
