package game

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/paperflock/renderer"
	"github.com/pthm-cable/paperflock/systems"
	"github.com/pthm-cable/paperflock/ui"
)

const controlsLegend = "Click: spawn  Space: pause  < >: speed  Tab: tuning"

// Draw renders the current frame, the HUD and the tuning panel.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	f := g.Frame()

	rl.BeginDrawing()
	rl.ClearBackground(toRL(f.Background))

	for _, p := range f.Portals {
		drawPortal(p)
	}
	for _, s := range f.Sprites {
		drawSprite(s, f.Outline)
	}

	if g.hud != nil {
		g.hud.Draw(ui.HUDData{
			Population: g.population,
			InTransit:  g.countInTransit(),
			MaxAgents:  g.cfg.Population.Max,
			Tick:       g.tick,
			Speed:      g.stepsPerUpdate,
			FPS:        rl.GetFPS(),
			Paused:     g.paused,
		})
		g.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)
	}

	if g.panel != nil {
		res := g.panel.Draw(g.cfg, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		if res.Changed {
			g.ApplyConfig()
		}
		if res.Reset {
			g.ResetConfig()
		}
		if res.Burst {
			g.Burst()
		}
	}

	rl.EndDrawing()
}

// countInTransit counts agents currently inside a portal.
func (g *Game) countInTransit() int {
	n := 0
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, _, _, transit := query.Get()
		if transit.InTransit() {
			n++
		}
	}
	return n
}

func drawPortal(p renderer.PortalShape) {
	c := toRL(p.Color)
	switch p.Kind {
	case systems.PortalBorder:
		// Stroke is centred on the viewport edge
		half := p.Stroke / 2
		rl.DrawRectangleLinesEx(rl.Rectangle{
			X: p.X - half, Y: p.Y - half,
			Width: p.Width + p.Stroke, Height: p.Height + p.Stroke,
		}, p.Stroke, c)
	case systems.PortalPoint:
		rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, p.Radius, c)
	}
}

func drawSprite(s renderer.Sprite, outline color.NRGBA) {
	if s.Alpha <= 0 {
		return
	}
	pts := s.Polygon()
	v := [4]rl.Vector2{}
	for i, p := range pts {
		v[i] = rl.Vector2{X: p.X, Y: p.Y}
	}

	// The plane is two triangles sharing the nose-tail axis.
	// DrawTriangle requires counter-clockwise winding on screen
	fill := toRL(s.Color())
	rl.DrawTriangle(v[0], v[2], v[1], fill)
	rl.DrawTriangle(v[0], v[3], v[2], fill)

	if s.Outline {
		line := toRL(renderer.WithAlpha(outline, s.Alpha))
		for i := range v {
			rl.DrawLineV(v[i], v[(i+1)%len(v)], line)
		}
	}
}

func toRL(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
