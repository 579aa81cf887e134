package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/sensefield/bench"
	"github.com/pthm-cable/sensefield/config"
	"github.com/pthm-cable/sensefield/sense"
	"github.com/pthm-cable/sensefield/systems"
)

// FitnessEvaluator measures a sense entry on generated rooms and scores how
// close it lands to a coverage target for how much compute.
type FitnessEvaluator struct {
	params     *ParamVector
	base       config.SenseConfig
	scenario   bench.Scenario
	opts       []sense.Option
	targetLit  float64 // desired mean lit cells per source
	budgetUS   float64 // mean calculation time that costs one full point
	costWeight float64

	mu       sync.Mutex
	lastLit  float64
	lastUS   float64
	failures int
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, base config.SenseConfig, scenario bench.Scenario, targetLit, budgetUS, costWeight float64, opts ...sense.Option) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		base:       base,
		scenario:   scenario,
		opts:       opts,
		targetLit:  targetLit,
		budgetUS:   budgetUS,
		costWeight: costWeight,
	}
}

// Last returns the mean lit cells and mean microseconds of the most recent
// evaluation.
func (fe *FitnessEvaluator) Last() (lit, us float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastLit, fe.lastUS
}

// Failures returns how many evaluations could not build a profile.
func (fe *FitnessEvaluator) Failures() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.failures
}

// failedFitness is returned for settings that cannot be measured.
const failedFitness = 1e6

// seedResult holds the summary from one room.
type seedResult struct {
	summary bench.Summary
	err     error
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) float64 {
	sc := fe.params.Apply(fe.base, x)
	profile, err := systems.NewProfile(sc, fe.opts...)
	if err != nil {
		fe.mu.Lock()
		fe.failures++
		fe.mu.Unlock()
		return failedFitness
	}

	// One room per goroutine; profiles are safe for concurrent Calculate.
	results := make([]seedResult, len(fe.scenario.Seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.scenario.Seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			one := fe.scenario
			one.Seeds = []int64{s}
			res, err := bench.Run(ctx, profile, one)
			results[idx] = seedResult{summary: res.Summary(), err: err}
		}(i, seed)
	}
	wg.Wait()

	var lit, us float64
	n := 0
	for _, r := range results {
		if r.err != nil || r.summary.Calculations == 0 {
			continue
		}
		lit += r.summary.MeanLit
		us += r.summary.MeanNS / 1e3
		n++
	}
	if n == 0 {
		return failedFitness
	}
	lit /= float64(n)
	us /= float64(n)

	fe.mu.Lock()
	fe.lastLit = lit
	fe.lastUS = us
	fe.mu.Unlock()

	return fe.computeFitness(lit, us)
}

// computeFitness combines the coverage miss and the compute cost.
// Coverage is scored on a log scale so over- and undershooting by the same
// factor cost the same.
func (fe *FitnessEvaluator) computeFitness(lit, us float64) float64 {
	return (1 - coverageScore(lit, fe.targetLit)) + fe.costWeight*us/fe.budgetUS
}

// coverageScore is 1 at the target and falls off with the log ratio.
func coverageScore(lit, target float64) float64 {
	if lit <= 0 || target <= 0 {
		return 0
	}
	logErr := math.Log(lit / target)
	return math.Exp(-logErr * logErr / 0.5)
}
