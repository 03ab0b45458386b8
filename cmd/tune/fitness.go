package main

import (
	"context"
	"log"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/game"
	"github.com/pthm-cable/flapnet/telemetry"
)

// FitnessEvaluator runs headless training runs and scores the parameters that produced them.
type FitnessEvaluator struct {
	ctx         context.Context
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	lastBest float64 // mean final best score from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(ctx context.Context, params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		ctx:         ctx,
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
	}
}

// LastBest returns the mean final best score from the most recent evaluation.
func (fe *FitnessEvaluator) LastBest() float64 {
	return fe.lastBest
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run one after another; each is a full training run.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	var totalFitness, totalBest float64
	for _, seed := range fe.seeds {
		final := fe.runTraining(cfg, seed)
		totalFitness += computeFitness(final)
		totalBest += final.BestScore
	}

	n := float64(len(fe.seeds))
	fe.lastBest = totalBest / n
	return totalFitness / n
}

// runTraining trains for the configured number of generations and returns the
// last generation's stats. Invalid parameter combinations score zero.
func (fe *FitnessEvaluator) runTraining(cfg *config.Config, seed int64) telemetry.GenerationStats {
	var final telemetry.GenerationStats
	tr, err := game.NewTrainer(cfg, game.Options{
		Seed:        seed,
		Generations: fe.generations,
		OnGeneration: func(r game.GenerationResult) {
			final = r.Stats
		},
	})
	if err != nil {
		log.Printf("seed %d: %v", seed, err)
		return final
	}
	defer tr.Close()

	if err := tr.Run(fe.ctx); err != nil {
		log.Printf("seed %d: %v", seed, err)
	}
	return final
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(best × (1.0 + 0.2 × eliteMean/best))
// The final best score dominates; the elite ratio adds up to 20% for
// populations whose top agents are consistently good rather than one lucky one.
func computeFitness(s telemetry.GenerationStats) float64 {
	if s.BestScore <= 0 {
		return 0
	}
	consistency := s.EliteMean / s.BestScore
	return -(s.BestScore * (1.0 + 0.2*consistency))
}
