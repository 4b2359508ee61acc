// Package game owns the flock: an ark ECS world holding every agent, the
// portal pair, the per-frame step, and the window front end.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/paperflock/components"
	"github.com/pthm-cable/paperflock/config"
	"github.com/pthm-cable/paperflock/renderer"
	"github.com/pthm-cable/paperflock/systems"
	"github.com/pthm-cable/paperflock/telemetry"
	"github.com/pthm-cable/paperflock/ui"
)

// MaxStepsPerUpdate bounds the speed-up keys.
const MaxStepsPerUpdate = 10

// TeleportListener is told about every completed teleport, keyed by exit portal kind.
type TeleportListener interface {
	Teleported(kind systems.PortalKind)
}

// Options configures a Game.
type Options struct {
	Config *config.Config // nil = config.Cfg()
	Seed   int64
	Rand   *rand.Rand // overrides Seed when set

	Width, Height float32 // 0 = config screen size

	Headless       bool
	StepsPerUpdate int
	LogStats       bool
	StatsWindow    int // ticks, 0 = config
	OutputDir      string
	SnapshotDir    string
	SnapshotEvery  int // ticks between PNG frames in headless mode, 0 = off

	Listener TeleportListener
	Resume   *telemetry.Snapshot
}

// Game holds the complete flock state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	seed  int64
	cfg   *config.Config
	base  *config.Config // values the tuning panel resets to

	agentMapper *ecs.Map7[
		components.Agent,
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Appearance,
		components.Lifespan,
		components.Transit,
	]
	agentFilter *ecs.Filter7[
		components.Agent,
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Appearance,
		components.Lifespan,
		components.Transit,
	]

	posMap *ecs.Map1[components.Position]
	velMap *ecs.Map1[components.Velocity]
	rotMap *ecs.Map1[components.Rotation]

	portals *systems.PortalRegistry
	flock   systems.FlockParams
	palette renderer.Palette

	// Scratch buffers reused across steps
	boids    []systems.Boid
	removals []ecs.Entity
	parallel *parallelState

	// State
	tick           int32
	nextID         uint32
	population     int
	paused         bool
	stepsPerUpdate int
	headless       bool

	// Viewport
	width, height float32

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	snapshotDir      string
	snapshotEvery    int
	raster           *renderer.Raster

	listener TeleportListener

	// Window UI, nil when headless
	hud   *ui.HUD
	panel *ui.TuningPanel
}

// NewGameWithOptions builds the world, sizes the portals to the viewport and
// spawns the initial population (or restores opts.Resume).
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	cfg = cfg.Clone()

	palette, err := renderer.NewPalette(cfg)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = cfg.Derived.ScreenW32, cfg.Derived.ScreenH32
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	statsWindow := opts.StatsWindow
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	world := ecs.NewWorld()

	g := &Game{
		world:          world,
		rng:            rng,
		seed:           opts.Seed,
		cfg:            cfg,
		base:           cfg.Clone(),
		palette:        palette,
		width:          width,
		height:         height,
		headless:       opts.Headless,
		stepsPerUpdate: stepsPerUpdate,
		listener:       opts.Listener,
		agentMapper: ecs.NewMap7[
			components.Agent,
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Appearance,
			components.Lifespan,
			components.Transit,
		](world),
		agentFilter: ecs.NewFilter7[
			components.Agent,
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Appearance,
			components.Lifespan,
			components.Transit,
		](world),
		posMap:           ecs.NewMap1[components.Position](world),
		velMap:           ecs.NewMap1[components.Velocity](world),
		rotMap:           ecs.NewMap1[components.Rotation](world),
		parallel:         newParallelState(),
		portals:          systems.NewPortalRegistry(width, height, systems.PortalParamsFromConfig(cfg)),
		flock:            systems.FlockParamsFromConfig(cfg),
		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		snapshotEvery:    opts.SnapshotEvery,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	if !opts.Headless {
		g.hud = ui.NewHUD()
		g.panel = ui.NewTuningPanel(320)
	}

	if opts.Resume != nil {
		if err := g.restore(opts.Resume); err != nil {
			om.Close()
			return nil, err
		}
	} else {
		g.spawnInitialPopulation()
	}

	slog.Info("flock ready",
		"seed", opts.Seed,
		"width", g.width,
		"height", g.height,
		"population", g.population,
		"point_entrance", cfg.Portals.PointEntrance,
	)

	return g, nil
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// Population returns the number of live agents.
func (g *Game) Population() int {
	return g.population
}

// Size returns the viewport size.
func (g *Game) Size() (float32, float32) {
	return g.width, g.height
}

// Portals exposes the portal registry.
func (g *Game) Portals() *systems.PortalRegistry {
	return g.portals
}

// Config returns the game's private copy of the configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Paused reports whether Update skips stepping.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes stepping.
func (g *Game) SetPaused(p bool) {
	g.paused = p
}

// StepsPerUpdate returns how many steps each Update runs.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate clamps n into [1, MaxStepsPerUpdate].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), MaxStepsPerUpdate)
}

// Resize changes the viewport used by the boundary check, edge drive and
// portal geometry. Agent positions are left alone.
func (g *Game) Resize(w, h float32) {
	if w <= 0 || h <= 0 || (w == g.width && h == g.height) {
		return
	}
	g.width, g.height = w, h
	g.portals.Resize(w, h)
	slog.Debug("viewport resized", "width", w, "height", h)
}

// ApplyConfig rebuilds hot-path parameters after cfg fields were edited.
func (g *Game) ApplyConfig() {
	g.cfg.Recompute()
	g.flock = systems.FlockParamsFromConfig(g.cfg)
	g.portals.SetParams(systems.PortalParamsFromConfig(g.cfg))
}

// ResetConfig restores the flock and portal parameters the game started with.
func (g *Game) ResetConfig() {
	g.cfg.Flock = g.base.Flock
	g.cfg.Portals = g.base.Portals
	g.ApplyConfig()
}

// Update advances the simulation by stepsPerUpdate steps unless paused.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// UpdateHeadless runs stepsPerUpdate steps without touching the window.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
