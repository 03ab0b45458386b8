// Package telemetry aggregates per-generation statistics and writes them to logs and CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one finished episode.
type GenerationStats struct {
	RunID      string `csv:"run_id"`
	Generation int    `csv:"generation"`
	Population int    `csv:"population"`

	// Episode outcome
	Ticks       int `csv:"ticks"`
	PipesPassed int `csv:"pipes_passed"`
	AliveAtEnd  int `csv:"alive_at_end"` // non-zero only when the tick cap ended the episode

	// Fitness distribution
	BestScore float64 `csv:"best"`
	MeanScore float64 `csv:"mean"`
	StdScore  float64 `csv:"std"`
	P10Score  float64 `csv:"p10"`
	P50Score  float64 `csv:"p50"`
	P90Score  float64 `csv:"p90"`
	EliteMean float64 `csv:"elite_mean"` // mean of the top-E scores

	WallSec float64 `csv:"wall_sec"`
}

// ScoreSummary holds the fitness distribution of a population.
type ScoreSummary struct {
	Best, Mean, Std, P10, P50, P90, EliteMean float64
}

// SummarizeScores computes the distribution of scores. elites is the number of
// top scores averaged into EliteMean. Returns zeros for an empty slice.
func SummarizeScores(scores []float64, elites int) ScoreSummary {
	n := len(scores)
	if n == 0 {
		return ScoreSummary{}
	}

	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	s := ScoreSummary{
		Best: floats.Max(sorted),
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}

	if elites > n {
		elites = n
	}
	if elites > 0 {
		s.EliteMean = stat.Mean(sorted[n-elites:], nil)
	}
	return s
}

// Apply copies the summary into the stats record.
func (s ScoreSummary) Apply(gs *GenerationStats) {
	gs.BestScore = s.Best
	gs.MeanScore = s.Mean
	gs.StdScore = s.Std
	gs.P10Score = s.P10
	gs.P50Score = s.P50
	gs.P90Score = s.P90
	gs.EliteMean = s.EliteMean
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int("generation", s.Generation),
		slog.Int("population", s.Population),
		slog.Int("ticks", s.Ticks),
		slog.Int("pipes_passed", s.PipesPassed),
		slog.Int("alive_at_end", s.AliveAtEnd),
		slog.Float64("best", s.BestScore),
		slog.Float64("mean", s.MeanScore),
		slog.Float64("std", s.StdScore),
		slog.Float64("p10", s.P10Score),
		slog.Float64("p50", s.P50Score),
		slog.Float64("p90", s.P90Score),
		slog.Float64("elite_mean", s.EliteMean),
		slog.Float64("wall_sec", s.WallSec),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation", "stats", s)
}
