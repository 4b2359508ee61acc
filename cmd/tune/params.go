package main

import (
	"github.com/pthm-cable/paperflock/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // Column name in the log
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of tuned flocking parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
// Bounds match the tuning panel sliders.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "edge_drive", Path: "flock.edge_drive", Min: 0, Max: 20},
			{Name: "centering_factor", Path: "flock.centering_factor", Min: 0, Max: 0.01},
			{Name: "matching_factor", Path: "flock.matching_factor", Min: 0, Max: 0.1},
			{Name: "avoid_factor", Path: "flock.avoid_factor", Min: 0, Max: 0.05},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
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

// ApplyToConfig writes clamped parameter values into cfg.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Flock.EdgeDrive = clamped[0]
	cfg.Flock.CenteringFactor = clamped[1]
	cfg.Flock.MatchingFactor = clamped[2]
	cfg.Flock.AvoidFactor = clamped[3]
	cfg.Recompute()
}

// ExtractFromConfig reads current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Flock.EdgeDrive,
		cfg.Flock.CenteringFactor,
		cfg.Flock.MatchingFactor,
		cfg.Flock.AvoidFactor,
	}
}
