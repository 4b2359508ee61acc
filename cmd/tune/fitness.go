package main

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/paperflock/config"
	"github.com/pthm-cable/paperflock/game"
	"github.com/pthm-cable/paperflock/telemetry"
)

// failedFitness is returned when a run could not be built.
const failedFitness = 1e9

// Measurement is the screen-activity profile of one or more runs.
type Measurement struct {
	Spread float64 // mean centre distance over half the shorter side
	Order  float64 // mean alignment of free agents
}

// Targets is the profile the tuner searches for.
type Targets struct {
	Spread float64
	Order  float64
}

// Fitness is the squared error of a measurement against the targets (lower = better).
func (t Targets) Fitness(m Measurement) float64 {
	ds := m.Spread - t.Spread
	do := m.Order - t.Order
	return ds*ds + do*do
}

// RunSettings controls a single headless evaluation.
type RunSettings struct {
	Ticks       int32
	Warmup      int32 // ticks skipped before sampling
	SampleEvery int32
	Width       float32
	Height      float32
}

// FitnessEvaluator runs headless flocks and scores them against the targets.
type FitnessEvaluator struct {
	params  *ParamVector
	base    *config.Config
	seeds   []int64
	run     RunSettings
	targets Targets

	mu   sync.Mutex
	last Measurement
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, base *config.Config, seeds []int64, run RunSettings, targets Targets) *FitnessEvaluator {
	if run.SampleEvery < 1 {
		run.SampleEvery = 1
	}
	return &FitnessEvaluator{
		params:  params,
		base:    base,
		seeds:   seeds,
		run:     run,
		targets: targets,
	}
}

// LastMeasurement returns the averaged profile from the most recent evaluation.
func (fe *FitnessEvaluator) LastMeasurement() Measurement {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Seeds run in parallel, each on its own game.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.base.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]Measurement, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx], errs[idx] = fe.measure(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var spreads, orders []float64
	for i, err := range errs {
		if err != nil {
			slog.Error("evaluation failed", "seed", fe.seeds[i], "error", err)
			return failedFitness
		}
		spreads = append(spreads, results[i].Spread)
		orders = append(orders, results[i].Order)
	}

	m := Measurement{Spread: stat.Mean(spreads, nil), Order: stat.Mean(orders, nil)}

	fe.mu.Lock()
	fe.last = m
	fe.mu.Unlock()

	return fe.targets.Fitness(m)
}

// measure runs one seed and averages the sampled flock profile.
func (fe *FitnessEvaluator) measure(cfg *config.Config, seed int64) (Measurement, error) {
	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Width:          fe.run.Width,
		Height:         fe.run.Height,
	})
	if err != nil {
		return Measurement{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Unload()

	var spreads, orders []float64
	for g.Tick() < fe.run.Ticks {
		g.Step()

		tick := g.Tick()
		if tick < fe.run.Warmup || tick%fe.run.SampleEvery != 0 {
			continue
		}
		s := g.Sample()
		if s.Free() == 0 {
			continue
		}
		spreads = append(spreads, stat.Mean(s.Spreads, nil))
		orders = append(orders, telemetry.OrderParameter(s.Headings))
	}

	if len(spreads) == 0 {
		// Nothing free to measure counts as the worst profile
		return Measurement{Spread: math.MaxFloat32, Order: 0}, nil
	}
	return Measurement{Spread: stat.Mean(spreads, nil), Order: stat.Mean(orders, nil)}, nil
}
