package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/paperflock/components"
	"github.com/pthm-cable/paperflock/renderer"
	"github.com/pthm-cable/paperflock/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.flockSample())
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// maybeSaveFrame rasterizes the current frame to PNG every snapshotEvery
// ticks in headless mode.
func (g *Game) maybeSaveFrame() {
	if !g.headless || g.snapshotEvery <= 0 || g.snapshotDir == "" {
		return
	}
	if g.tick%int32(g.snapshotEvery) != 0 {
		return
	}

	if g.raster == nil {
		g.raster = renderer.NewRaster(int(g.width), int(g.height))
	}
	path, err := g.raster.SavePNG(g.snapshotDir, g.tick, g.Frame())
	if err != nil {
		slog.Error("failed to save frame", "tick", g.tick, "error", err)
		return
	}
	slog.Debug("frame saved", "tick", g.tick, "path", path)
}

// Snapshot captures the complete flock state.
func (g *Game) Snapshot() *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: g.seed,
		Width:   g.width,
		Height:  g.height,
		Tick:    g.tick,
		NextID:  g.nextID,
		Agents:  make([]telemetry.AgentState, 0, g.population),
	}

	query := g.agentFilter.Query()
	for query.Next() {
		agent, pos, vel, rot, look, life, transit := query.Get()
		s.Agents = append(s.Agents, telemetry.AgentState{
			ID:        agent.ID,
			X:         pos.X,
			Y:         pos.Y,
			VelX:      vel.X,
			VelY:      vel.Y,
			Heading:   rot.Degrees,
			Type:      look.Type,
			Tint:      look.Tint,
			Scale:     look.Scale,
			Remaining: life.Remaining,
			Max:       life.Max,
			Portal:    transit.Portal,
			Progress:  transit.Progress,
		})
	}
	return s
}

// saveSnapshot writes the current state, tagged with the bookmark that triggered it.
func (g *Game) saveSnapshot(bm *telemetry.Bookmark) {
	s := g.Snapshot()
	s.Bookmark = bm

	path, err := telemetry.SaveSnapshot(s, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick, "population", g.population)
}

// restore rebuilds the agent store from a snapshot into an empty world.
func (g *Game) restore(s *telemetry.Snapshot) error {
	for _, a := range s.Agents {
		if a.Portal != "" {
			if _, ok := g.portals.Get(a.Portal); !ok {
				return fmt.Errorf("restoring agent %d: unknown portal %q", a.ID, a.Portal)
			}
		}
	}

	g.Resize(s.Width, s.Height)
	g.tick = s.Tick
	g.nextID = s.NextID
	g.collector.StartAt(s.Tick)

	for _, a := range s.Agents {
		if a.ID >= g.nextID {
			g.nextID = a.ID + 1
		}

		agent := components.Agent{ID: a.ID}
		pos := components.Position{X: a.X, Y: a.Y}
		vel := components.Velocity{X: a.VelX, Y: a.VelY}
		rot := components.Rotation{Degrees: a.Heading}
		look := components.Appearance{Type: a.Type, Tint: a.Tint, Scale: a.Scale}
		life := components.Lifespan{Remaining: a.Remaining, Max: a.Max}
		transit := components.Transit{Portal: a.Portal, Progress: a.Progress}

		g.agentMapper.NewEntity(&agent, &pos, &vel, &rot, &look, &life, &transit)
		g.population++
	}

	slog.Info("snapshot restored", "tick", g.tick, "population", g.population)
	return nil
}
