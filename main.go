package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flapnet/config"
	"github.com/pthm-cable/flapnet/game"
	"github.com/pthm-cable/flapnet/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output generation and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 0, "Stop after N generations (0 = unlimited)")
	maxTicks := flag.Int("max-ticks", -1, "Cap episode length in ticks (-1 = use config, 0 = until extinction)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *maxTicks >= 0 {
		cfg.Episode.MaxTicks = *maxTicks
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:        rngSeed,
		Generations: *generations,
		OutputDir:   *outputDir,
		LogStats:    *logStats,
	}

	var err error
	if *headless {
		err = runHeadless(ctx, cfg, opts)
	} else {
		err = runWindowed(ctx, cfg, opts)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("training failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless trains without graphics, logging a progress line per generation.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options) error {
	var totalTicks int64
	start := time.Now()
	opts.OnGeneration = func(r game.GenerationResult) {
		totalTicks += int64(r.Stats.Ticks)
		elapsed := time.Since(start).Seconds()
		rate := 0.0
		if elapsed > 0 {
			rate = float64(totalTicks) / elapsed
		}
		slog.Info("progress",
			"generation", r.Stats.Generation,
			"best", r.Stats.BestScore,
			"pipes", r.Stats.PipesPassed,
			"total_ticks", humanize.Comma(totalTicks),
			"ticks_per_sec", humanize.CommafWithDigits(rate, 0),
		)
	}

	tr, err := game.NewTrainer(cfg, opts)
	if err != nil {
		return err
	}
	defer tr.Close()

	slog.Info("starting headless training",
		"seed", opts.Seed,
		"generations", opts.Generations,
		"max_ticks", cfg.Episode.MaxTicks,
	)

	err = tr.Run(ctx)
	if last := tr.LastStats(); last != nil {
		slog.Info("training stopped", "generation", last.Generation, "best", last.BestScore)
	}
	return err
}

// runWindowed trains inside a raylib window. The HUD sets how many ticks run per frame.
func runWindowed(ctx context.Context, cfg *config.Config, opts game.Options) error {
	w, h := renderer.WindowSize(cfg)
	rl.InitWindow(w, h, "flapnet")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	tr, err := game.NewTrainer(cfg, opts)
	if err != nil {
		return err
	}
	defer tr.Close()

	viewer := renderer.NewViewer(cfg)
	ctl := renderer.Controls{Speed: renderer.MinSpeed}

	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}

		viewer.HandleInput(tr)
		if ctl.Skip {
			tr.SkipEpisode()
		}

		if !ctl.Paused {
			for i := 0; i < ctl.Speed; i++ {
				more, err := tr.Tick()
				if err != nil {
					return err
				}
				if !more {
					slog.Info("generation limit reached", "generations", tr.Generation())
					return nil
				}
			}
		}

		viewer.Sync(tr)
		ctl = viewer.Draw(tr)
		tr.RecordFrame()
	}
	return nil
}
