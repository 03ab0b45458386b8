// Package game runs the neuroevolution loop: agents, episodes and breeding.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/telemetry"
)

// Options configures a training run.
type Options struct {
	Seed        int64
	Generations int    // stop after this many evaluated generations (0 = until cancelled)
	OutputDir   string // CSV and config snapshot directory (empty = disabled)
	LogStats    bool   // log generation and perf stats via slog

	// OnTick is called after every simulation tick with a fresh snapshot.
	OnTick func(*Snapshot)

	// OnGeneration is called when an episode ends, before the next population is built.
	OnGeneration func(GenerationResult)
}

// GenerationResult describes a finished episode.
type GenerationResult struct {
	Stats  telemetry.GenerationStats
	// Agents are copies of the evaluated population in population order, taken
	// before breeding resets the elites. Genomes are shared with the live
	// population and must not be modified.
	Agents []Agent
}

// Trainer drives the outer loop: build a population, evaluate it, record
// statistics, breed the next one.
type Trainer struct {
	cfg     *config.Config
	opts    Options
	rng     *rand.Rand
	runID   string
	breeder *Breeder

	generation int
	eval       *Evaluator
	genStart   time.Time
	finished   bool

	last *telemetry.GenerationStats

	outputManager *telemetry.OutputManager
	perfCollector *telemetry.PerfCollector
}

// NewTrainer seeds the first population and prepares its episode.
// Configurations built in code are validated here as well as at load time.
func NewTrainer(cfg *config.Config, opts Options) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	t := &Trainer{
		cfg:           cfg,
		opts:          opts,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		runID:         uuid.NewString(),
		perfCollector: telemetry.NewPerfCollector(),
	}
	t.breeder = NewBreeder(cfg, t.rng)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	t.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	stopBreeding := t.perfCollector.Time(telemetry.PhaseBreeding)
	agents, err := t.breeder.BuildGeneration(nil)
	stopBreeding()
	if err != nil {
		om.Close()
		return nil, fmt.Errorf("seeding population: %w", err)
	}
	t.startEpisode(agents)

	slog.Info("run started",
		"run_id", t.runID,
		"seed", opts.Seed,
		"population", cfg.Population.Size,
		"elites", cfg.Population.Elites,
		"dims", cfg.Network.Dims,
		"params_per_genome", agents[0].Genome.NumParams(),
		"output_dir", om.Dir(),
	)
	return t, nil
}

func (t *Trainer) startEpisode(agents []*Agent) {
	t.eval = NewEvaluator(t.cfg, t.rng, agents, t.generation)
	t.eval.SetPerfCollector(t.perfCollector)
	t.genStart = time.Now()
}

// Tick advances the run by one simulation tick, rolling over to the next
// generation when the episode ends. Returns false once the generation limit
// has been reached.
func (t *Trainer) Tick() (bool, error) {
	if t.finished {
		return false, nil
	}

	if !t.eval.Done() {
		t.eval.Step()
		if t.opts.OnTick != nil {
			t.opts.OnTick(t.eval.Snapshot())
		}
		return true, nil
	}

	if err := t.endGeneration(); err != nil {
		return false, err
	}
	return !t.finished, nil
}

// endGeneration records the finished episode and builds the next population.
// Breeding time is counted towards the generation it produces.
func (t *Trainer) endGeneration() error {
	stats := t.generationStats()
	perf := t.perfCollector.Finish()
	perf.RunID, perf.Generation = t.runID, t.generation
	t.last = &stats
	t.flushGeneration(stats, perf)

	t.generation++
	if t.opts.Generations > 0 && t.generation >= t.opts.Generations {
		t.finished = true
		return nil
	}

	stopBreeding := t.perfCollector.Time(telemetry.PhaseBreeding)
	agents, err := t.breeder.BuildGeneration(t.eval.Agents())
	stopBreeding()
	if err != nil {
		return fmt.Errorf("building generation %d: %w", t.generation, err)
	}

	t.startEpisode(agents)
	return nil
}

// Run ticks until the generation limit is reached or ctx is cancelled.
// Cancellation is observed between ticks and returned as ctx.Err().
func (t *Trainer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := t.Tick()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// RunGeneration ticks until the current episode has been recorded and the
// next population built. Returns false once the generation limit is reached.
func (t *Trainer) RunGeneration(ctx context.Context) (bool, error) {
	gen := t.generation
	for t.generation == gen && !t.finished {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if _, err := t.Tick(); err != nil {
			return false, err
		}
	}
	return !t.finished, nil
}

// SkipEpisode ends the current episode on the next tick; scores stand.
func (t *Trainer) SkipEpisode() {
	t.eval.Stop()
}

// RecordFrame marks a rendered frame so perf stats can report FPS.
func (t *Trainer) RecordFrame() {
	t.perfCollector.RecordFrame()
}

// Evaluator returns the current episode.
func (t *Trainer) Evaluator() *Evaluator { return t.eval }

// Generation returns the index of the generation currently being evaluated.
func (t *Trainer) Generation() int { return t.generation }

// RunID returns the run's unique identifier.
func (t *Trainer) RunID() string { return t.runID }

// LastStats returns the stats of the most recently finished generation, or nil.
func (t *Trainer) LastStats() *telemetry.GenerationStats { return t.last }

// Close flushes and closes run output.
func (t *Trainer) Close() error {
	return t.outputManager.Close()
}
