// Package ui draws the window HUD and the live tuning panel.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFull        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns a light theme that sits on the paper background.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 255, G: 255, B: 255, A: 230},
		PanelBorder:    rl.Color{R: 200, G: 200, B: 200, A: 255},
		SectionHeader:  rl.Color{R: 30, G: 30, B: 30, A: 255},
		LabelColor:     rl.Gray,
		ValueColor:     rl.DarkGray,
		BarBg:          rl.Color{R: 230, G: 230, B: 230, A: 255},
		BarFill:        rl.Color{R: 60, G: 60, B: 60, A: 255},
		BarFull:        rl.Color{R: 200, G: 80, B: 80, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     110,
		BarHeight:      10,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 4
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawFillBar draws count/limit as a bar, switching colour when full.
func (r *Renderer) DrawFillBar(x, y int32, label string, count, limit int, width int32) int32 {
	ratio := float32(0)
	if limit > 0 {
		ratio = min(float32(count)/float32(limit), 1)
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 60

	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+3, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if count >= limit {
		fill = r.Theme.BarFull
	}
	rl.DrawRectangle(barX, y+3, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%d/%d", count, limit), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight
}
