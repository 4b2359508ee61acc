package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/paperflock/config"
)

// SliderDescriptor binds one tunable config field to a slider.
type SliderDescriptor struct {
	Label  string
	Format string
	Min    float64
	Max    float64
	Get    func(*config.Config) float64
	Set    func(*config.Config, float64)
}

// Apply clamps v into the slider range, writes it, and reports whether the
// stored value changed.
func (d SliderDescriptor) Apply(cfg *config.Config, v float64) bool {
	v = min(max(v, d.Min), d.Max)
	if d.Get(cfg) == v {
		return false
	}
	d.Set(cfg, v)
	return true
}

// TuningSliders are the live-editable flocking and portal parameters.
var TuningSliders = []SliderDescriptor{
	{
		Label: "Speed limit", Format: "%.2f", Min: 0.5, Max: 6,
		Get: func(c *config.Config) float64 { return c.Flock.SpeedLimit },
		Set: func(c *config.Config, v float64) { c.Flock.SpeedLimit = v },
	},
	{
		Label: "Visual range", Format: "%.0f", Min: 50, Max: 800,
		Get: func(c *config.Config) float64 { return c.Flock.VisualRange },
		Set: func(c *config.Config, v float64) { c.Flock.VisualRange = v },
	},
	{
		Label: "Min distance", Format: "%.0f", Min: 10, Max: 150,
		Get: func(c *config.Config) float64 { return c.Flock.MinDistance },
		Set: func(c *config.Config, v float64) { c.Flock.MinDistance = v },
	},
	{
		Label: "Centering", Format: "%.4f", Min: 0, Max: 0.01,
		Get: func(c *config.Config) float64 { return c.Flock.CenteringFactor },
		Set: func(c *config.Config, v float64) { c.Flock.CenteringFactor = v },
	},
	{
		Label: "Avoid", Format: "%.3f", Min: 0, Max: 0.05,
		Get: func(c *config.Config) float64 { return c.Flock.AvoidFactor },
		Set: func(c *config.Config, v float64) { c.Flock.AvoidFactor = v },
	},
	{
		Label: "Matching", Format: "%.3f", Min: 0, Max: 0.1,
		Get: func(c *config.Config) float64 { return c.Flock.MatchingFactor },
		Set: func(c *config.Config, v float64) { c.Flock.MatchingFactor = v },
	},
	{
		Label: "Edge drive", Format: "%.1f", Min: 0, Max: 20,
		Get: func(c *config.Config) float64 { return c.Flock.EdgeDrive },
		Set: func(c *config.Config, v float64) { c.Flock.EdgeDrive = v },
	},
	{
		Label: "Portal pull", Format: "%.1f", Min: 0, Max: 40,
		Get: func(c *config.Config) float64 { return c.Portals.PullStrength },
		Set: func(c *config.Config, v float64) { c.Portals.PullStrength = v },
	},
}

// PanelResult reports what the user did this frame.
type PanelResult struct {
	Changed bool
	Reset   bool
	Burst   bool
}

// TuningPanel is a raygui slider panel docked to the right edge.
type TuningPanel struct {
	renderer *Renderer
	width    int32
	visible  bool
}

// NewTuningPanel creates a hidden panel.
func NewTuningPanel(width int32) *TuningPanel {
	return &TuningPanel{renderer: NewRenderer(), width: width}
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Contains reports whether a screen point falls on the panel, so clicks there
// do not spawn agents.
func (p *TuningPanel) Contains(x, y float32, screenWidth int32) bool {
	return p.visible && x >= float32(screenWidth-p.width)
}

// Draw renders the sliders and buttons and applies edits to cfg.
func (p *TuningPanel) Draw(cfg *config.Config, screenWidth, screenHeight int32) PanelResult {
	var res PanelResult
	if !p.visible {
		return res
	}

	r := p.renderer
	pad := r.Theme.Padding
	x := screenWidth - p.width
	r.DrawPanel(x, 0, p.width, screenHeight)

	y := r.DrawSectionHeader(x+pad, pad, "Tuning")
	sliderW := float32(p.width - pad*2 - 70)

	for _, d := range TuningSliders {
		rl.DrawText(d.Label, x+pad, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight

		cur := d.Get(cfg)
		next := gui.SliderBar(
			rl.Rectangle{X: float32(x + pad), Y: float32(y), Width: sliderW, Height: 16},
			"", "",
			float32(cur), float32(d.Min), float32(d.Max),
		)
		rl.DrawText(fmt.Sprintf(d.Format, cur), x+pad+int32(sliderW)+8, y, r.Theme.FontSize, r.Theme.ValueColor)
		if float64(next) != float64(float32(cur)) && d.Apply(cfg, float64(next)) {
			res.Changed = true
		}
		y += r.Theme.LineHeight + 8
	}

	y += pad
	half := float32(p.width-pad*3) / 2
	if gui.Button(rl.Rectangle{X: float32(x + pad), Y: float32(y), Width: half, Height: 28}, "Reset") {
		res.Reset = true
	}
	if gui.Button(rl.Rectangle{X: float32(x+pad*2) + half, Y: float32(y), Width: half, Height: 28}, "Burst") {
		res.Burst = true
	}

	return res
}
