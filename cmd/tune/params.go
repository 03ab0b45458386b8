package main

import (
	"math"

	"github.com/pthm-cable/flapnet/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // rounded to the nearest integer when applied
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
// maxElites keeps the elite count below half of the population.
func NewParamVector(base *config.Config) *ParamVector {
	maxElites := float64((base.Population.Size - 1) / 2)
	if maxElites < 1 {
		maxElites = 1
	}
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "mutation_probability", Path: "mutation.probability", Min: 0.005, Max: 0.5, Default: base.Mutation.Probability},
			{Name: "mutation_range", Path: "mutation.range", Min: 0.05, Max: 2.0, Default: base.Mutation.Range},
			{Name: "elites", Path: "population.elites", Min: 1, Max: maxElites, Default: float64(base.Population.Elites), Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
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
		if spec.Max == spec.Min {
			continue
		}
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

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Min(math.Max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Mutation.Probability = clamped[0]
	cfg.Mutation.Range = clamped[1]
	cfg.Population.Elites = int(clamped[2])
}
