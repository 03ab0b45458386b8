package main

import (
	"context"
	"math"
	"testing"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector(config.Default())
	got := pv.Clamp([]float64{-1, 100, 3.6})
	want := []float64{pv.Specs[0].Min, pv.Specs[1].Max, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)
	pv.ApplyToConfig(cfg, []float64{0.2, 1.5, 1000})

	if cfg.Mutation.Probability != 0.2 || cfg.Mutation.Range != 1.5 {
		t.Errorf("mutation = %+v", cfg.Mutation)
	}
	// Elites are capped so the config stays valid
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestElitesBoundSmallPopulation(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Size = 3
	pv := NewParamVector(cfg)
	if hi := pv.Specs[2].Max; hi != 1 {
		t.Errorf("elites max = %v, want 1", hi)
	}
}

func TestComputeFitness(t *testing.T) {
	if f := computeFitness(telemetry.GenerationStats{}); f != 0 {
		t.Errorf("empty stats fitness = %v, want 0", f)
	}

	lucky := computeFitness(telemetry.GenerationStats{BestScore: 100, EliteMean: 20})
	steady := computeFitness(telemetry.GenerationStats{BestScore: 100, EliteMean: 100})
	if steady >= lucky {
		t.Errorf("consistent elites should score lower (better): steady=%v lucky=%v", steady, lucky)
	}
	if steady != -120 {
		t.Errorf("steady fitness = %v, want -120", steady)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Size = 10
	cfg.Population.Elites = 2
	cfg.Episode.MaxTicks = 200

	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(context.Background(), pv, 2, []int64{42}, cfg)

	f := fe.Evaluate(pv.DefaultVector())
	if f > 0 || math.IsNaN(f) {
		t.Errorf("fitness = %v, want finite and <= 0", f)
	}
	if fe.LastBest() <= 0 {
		t.Errorf("last best = %v, want positive", fe.LastBest())
	}
	// The base config is untouched
	if cfg.Population.Elites != 2 {
		t.Errorf("base elites changed to %d", cfg.Population.Elites)
	}
}
