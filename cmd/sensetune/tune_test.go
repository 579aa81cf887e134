package main

import (
	"context"
	"math"
	"testing"

	"github.com/pthm-cable/sensefield/bench"
	"github.com/pthm-cable/sensefield/config"
)

func baseSense(t *testing.T, kind string) (*config.Config, config.SenseConfig) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sc, ok := cfg.Sense(kind)
	if !ok {
		t.Fatalf("no %s sense", kind)
	}
	return cfg, sc
}

func TestParamVector(t *testing.T) {
	_, vision := baseSense(t, "vision")
	pv := NewParamVector(vision)
	if pv.Dim() != 3 {
		t.Fatalf("vision dim: got %d, want 3 (intensity, decay, span)", pv.Dim())
	}

	_, touch := baseSense(t, "touch")
	if pv := NewParamVector(touch); pv.Dim() != 2 || pv.Specs[1].Name != "cells_per_unit" {
		t.Errorf("touch params: got %+v", pv.Specs)
	}

	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("param %d: got %v, want %v", i, back[i], def[i])
		}
	}

	clamped := pv.Clamp([]float64{100, -1, 0.5})
	if clamped[0] != 32 || clamped[1] != 0.1 || clamped[2] != 0.5 {
		t.Errorf("clamp: got %v", clamped)
	}

	tuned := pv.Apply(vision, []float64{10, 0.5, 0.25})
	if tuned.Intensity != 10 || tuned.DecayPerCell != 0.5 || tuned.Span != 0.25 || tuned.Kind != "vision" {
		t.Errorf("apply: got %+v", tuned)
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg, heat := baseSense(t, "heat")
	pv := NewParamVector(heat)
	pv.ApplyToConfig(cfg, heat, []float64{7, 0.7})

	got, _ := cfg.Sense("heat")
	if got.Intensity != 7 || got.DecayPerCell != 0.7 {
		t.Errorf("heat after apply: got %+v", got)
	}
	if vision, _ := cfg.Sense("vision"); vision.Intensity != 12 {
		t.Errorf("vision should be untouched, intensity %v", vision.Intensity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("tuned config invalid: %v", err)
	}
}

func TestCoverageScore(t *testing.T) {
	if got := coverageScore(100, 100); got != 1 {
		t.Errorf("at target: got %v, want 1", got)
	}
	over := coverageScore(200, 100)
	under := coverageScore(50, 100)
	if math.Abs(over-under) > 1e-12 || over >= 1 {
		t.Errorf("log symmetry: over %v under %v", over, under)
	}
	if coverageScore(0, 100) != 0 {
		t.Error("no coverage should score 0")
	}
}

func TestEvaluate(t *testing.T) {
	_, heat := baseSense(t, "heat")
	pv := NewParamVector(heat)

	scenario := bench.DefaultScenario()
	scenario.Size = 32
	scenario.Seeds = []int64{1, 2}
	scenario.Sources = 4
	scenario.Repeats = 1

	fe := NewFitnessEvaluator(pv, heat, scenario, 200, 1e9, 0)
	small := fe.Evaluate(context.Background(), []float64{1, 1})
	smallLit, _ := fe.Last()
	large := fe.Evaluate(context.Background(), []float64{8, 0.5})
	largeLit, _ := fe.Last()

	if smallLit >= largeLit {
		t.Errorf("stronger source should light more: %v vs %v", smallLit, largeLit)
	}
	if large >= small {
		t.Errorf("closer to target should score lower: %v vs %v", large, small)
	}
	if fe.Failures() != 0 {
		t.Errorf("failures: got %d", fe.Failures())
	}
}
