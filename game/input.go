package game

import rl "github.com/gen2brain/raylib-go/raylib"

// burstBatches is how many spawn batches the Burst button scatters.
const burstBatches = 5

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.SetStepsPerUpdate(g.stepsPerUpdate - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.SetStepsPerUpdate(g.stepsPerUpdate + 1)
	}

	if rl.IsKeyPressed(rl.KeyTab) && g.panel != nil {
		g.panel.Toggle()
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		if g.panel == nil || !g.panel.Contains(m.X, m.Y, int32(rl.GetScreenWidth())) {
			g.SpawnAt(m.X, m.Y)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}

// Burst scatters several spawn batches across the viewport.
func (g *Game) Burst() int {
	n := 0
	for i := 0; i < burstBatches; i++ {
		n += g.SpawnAt(g.rng.Float32()*g.width, g.rng.Float32()*g.height)
	}
	return n
}
