package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/flapnet/telemetry"
)

// generationStats summarizes the episode that just ended.
func (t *Trainer) generationStats() telemetry.GenerationStats {
	agents := t.eval.Agents()
	stats := telemetry.GenerationStats{
		RunID:       t.runID,
		Generation:  t.generation,
		Population:  len(agents),
		Ticks:       t.eval.Tick(),
		PipesPassed: t.eval.PipesPassed(),
		AliveAtEnd:  t.eval.Alive(),
		WallSec:     time.Since(t.genStart).Seconds(),
	}
	telemetry.SummarizeScores(Scores(agents), t.cfg.Population.Elites).Apply(&stats)
	return stats
}

// flushGeneration hands a finished generation to the callback, the log and the CSV output.
func (t *Trainer) flushGeneration(stats telemetry.GenerationStats, perf telemetry.PerfStats) {
	// Call generation callback if provided
	if t.opts.OnGeneration != nil {
		agents := t.eval.Agents()
		copies := make([]Agent, len(agents))
		for i, a := range agents {
			copies[i] = *a
		}
		t.opts.OnGeneration(GenerationResult{Stats: stats, Agents: copies})
	}

	// Log stats if enabled (console output)
	every := t.cfg.Telemetry.LogEvery
	if t.opts.LogStats && (every <= 1 || t.generation%every == 0) {
		stats.LogStats()
		perf.LogStats()
	}

	// Write to CSV if output manager is enabled
	if t.outputManager != nil {
		if err := t.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := t.outputManager.WritePerf(perf); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
