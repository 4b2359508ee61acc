package game

import (
	"math"

	"github.com/pthm-cable/paperflock/components"
	"github.com/pthm-cable/paperflock/renderer"
	"github.com/pthm-cable/paperflock/systems"
	"github.com/pthm-cable/paperflock/telemetry"
)

// AgentView is a read-only copy of one agent.
type AgentView struct {
	ID       uint32
	X, Y     float32
	VX, VY   float32
	Heading  float32
	Tint     components.Tint
	Portal    systems.PortalID
	Progress  float32
	Remaining int32
}

// InTransit reports whether the agent was inside a portal.
func (a AgentView) InTransit() bool {
	return a.Portal != ""
}

// Agents returns a copy of every agent in store order.
func (g *Game) Agents() []AgentView {
	out := make([]AgentView, 0, g.population)

	query := g.agentFilter.Query()
	for query.Next() {
		agent, pos, vel, rot, look, life, transit := query.Get()
		out = append(out, AgentView{
			ID:        agent.ID,
			X:         pos.X,
			Y:         pos.Y,
			VX:        vel.X,
			VY:        vel.Y,
			Heading:   rot.Degrees,
			Tint:      look.Tint,
			Portal:    transit.Portal,
			Progress:  transit.Progress,
			Remaining: life.Remaining,
		})
	}
	return out
}

// Frame builds the backend-neutral picture of the current state.
// Agents deep inside a portal are left out.
func (g *Game) Frame() renderer.Frame {
	d := g.cfg.Derived
	f := renderer.Frame{
		Width:      g.width,
		Height:     g.height,
		Background: g.palette.Background,
		Outline:    g.palette.Outline,
		Portals:    renderer.PortalShapes(g.portals.All(), g.palette, float32(g.cfg.Render.BorderStroke)),
		Sprites:    make([]renderer.Sprite, 0, g.population),
	}

	query := g.agentFilter.Query()
	for query.Next() {
		_, pos, _, rot, look, life, transit := query.Get()

		alpha := systems.LifespanOpacity(life.Remaining, life.Max, d.FadeFrames)
		if transit.InTransit() {
			if !systems.TransitVisible(transit.Progress) {
				continue
			}
			alpha *= systems.TransitOpacity(transit.Progress)
		}

		fill := g.palette.Dark
		if look.Tint == components.TintLight {
			fill = g.palette.Light
		}

		f.Sprites = append(f.Sprites, renderer.Sprite{
			X:       pos.X,
			Y:       pos.Y,
			Degrees: rot.Degrees,
			W:       d.PlaneW32 * look.Scale,
			H:       d.PlaneH32 * look.Scale,
			Fill:    fill,
			Outline: look.Tint == components.TintLight,
			Alpha:   alpha,
		})
	}
	return f
}

// flockSample gathers the per-agent measurements telemetry aggregates.
func (g *Game) flockSample() telemetry.FlockSample {
	s := telemetry.FlockSample{Population: g.population}

	cx, cy := float64(g.width)/2, float64(g.height)/2
	half := math.Min(cx, cy)

	query := g.agentFilter.Query()
	for query.Next() {
		_, pos, vel, _, _, _, transit := query.Get()
		if transit.InTransit() {
			s.InTransit++
			continue
		}
		vx, vy := float64(vel.X), float64(vel.Y)
		s.Speeds = append(s.Speeds, math.Hypot(vx, vy))
		s.Headings = append(s.Headings, math.Atan2(vy, vx))
		if half > 0 {
			s.Spreads = append(s.Spreads, math.Hypot(float64(pos.X)-cx, float64(pos.Y)-cy)/half)
		}
	}
	return s
}

// Sample returns the current flock measurements.
func (g *Game) Sample() telemetry.FlockSample {
	return g.flockSample()
}
