package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/paperflock/audio"
	"github.com/pthm-cable/paperflock/config"
	"github.com/pthm-cable/paperflock/game"
	"github.com/pthm-cable/paperflock/telemetry"
	"github.com/pthm-cable/paperflock/tui"
)

func main() {
	if err := run(); err != nil {
		slog.Error("flock stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("term", false, "Render in the terminal instead of a window")
	sound := flag.Bool("sound", false, "Play a chime on every teleport")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots and PNG frames")
	snapshotEvery := flag.Int("snapshot-every", 0, "Save a PNG frame every N ticks in headless mode (0 = off)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	resume := flag.String("resume", "", "Snapshot file to resume from")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	width := flag.Int("width", 0, "Viewport width (0 = config)")
	height := flag.Int("height", 0, "Viewport height (0 = config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		Width:          float32(*width),
		Height:         float32(*height),
		Headless:       *headless || *term,
		StepsPerUpdate: *stepsPerUpdate,
		LogStats:       *logStats,
		StatsWindow:    *statsWindow,
		OutputDir:      *outputDir,
		SnapshotDir:    *snapshotDir,
		SnapshotEvery:  *snapshotEvery,
	}

	if *resume != "" {
		snap, err := telemetry.LoadSnapshot(*resume)
		if err != nil {
			return fmt.Errorf("loading snapshot %s: %w", *resume, err)
		}
		opts.Resume = snap
	}

	if *sound && !*headless {
		chime := audio.NewChime()
		if err := chime.Initialize(); err != nil {
			slog.Warn("sound disabled", "error", err)
		} else {
			defer chime.Close()
			opts.Listener = chime
		}
	}

	switch {
	case *headless:
		return runHeadless(opts, int32(*maxTicks))
	case *term:
		return runTerminal(opts, cfg.Screen.TargetFPS)
	default:
		return runWindow(opts, cfg)
	}
}

func runHeadless(opts game.Options, maxTicks int32) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for maxTicks <= 0 || g.Tick() < maxTicks {
		g.UpdateHeadless()
	}

	slog.Info("simulation complete", "ticks", g.Tick(), "population", g.Population())
	return nil
}

func runTerminal(opts game.Options, fps int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tui.Run(ctx, screen, g, fps)
}

func runWindow(opts game.Options, cfg *config.Config) error {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "Paper Flock")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
	return nil
}
