package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Population int
	InTransit  int
	MaxAgents  int
	Tick       int32
	Speed      int
	FPS        int32
	Paused     bool
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := int32(16), int32(16)

	y = r.DrawFillBar(x, y, "Agents", data.Population, data.MaxAgents, 300)
	y = r.DrawLabelValue(x, y, "In portals", fmt.Sprintf("%d", data.InTransit))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d  (%dx, %d fps)", data.Tick, data.Speed, data.FPS))

	if data.Paused {
		rl.DrawText("PAUSED", x, y, r.Theme.HeaderFontSize, r.Theme.BarFull)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 16, screenHeight-24, h.renderer.Theme.FontSize, h.renderer.Theme.LabelColor)
}
