// Package tui runs the flock in a terminal with tcell.
package tui

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/paperflock/renderer"
	"github.com/pthm-cable/paperflock/systems"
)

// Each terminal cell covers CellWidth x CellHeight viewport pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

// arrows are indexed by heading octant, clockwise from east on a y-down screen.
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

const (
	pointGlyph  = '●'
	borderGlyph = '░'
)

// Canvas is the part of tcell.Screen drawing needs.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// Glyph returns the arrow closest to a heading in degrees.
func Glyph(degrees float32) rune {
	octant := int(math.Round(float64(degrees)/45)) % 8
	if octant < 0 {
		octant += 8
	}
	return arrows[octant]
}

// ViewportSize converts a terminal size in cells to viewport pixels.
func ViewportSize(cols, rows int) (float32, float32) {
	return float32(cols * CellWidth), float32(rows * CellHeight)
}

// CellCenter returns the viewport position at the centre of a cell.
func CellCenter(col, row int) (float32, float32) {
	return (float32(col) + 0.5) * CellWidth, (float32(row) + 0.5) * CellHeight
}

// cellAt maps a viewport position to a cell, reporting false when off screen.
func cellAt(x, y float32, cols, rows int) (int, int, bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row := int(x/CellWidth), int(y/CellHeight)
	return col, row, col < cols && row < rows
}

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Draw paints a frame onto the canvas: background, portals, then agents.
func Draw(c Canvas, f renderer.Frame) {
	cols, rows := c.Size()
	base := tcell.StyleDefault.Background(rgb(f.Background)).Foreground(rgb(f.Outline))

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c.SetContent(col, row, ' ', nil, base)
		}
	}

	for _, p := range f.Portals {
		drawPortal(c, p, f.Background, cols, rows)
	}

	for _, s := range f.Sprites {
		if s.Alpha <= 0 {
			continue
		}
		col, row, ok := cellAt(s.X, s.Y, cols, rows)
		if !ok {
			continue
		}
		c.SetContent(col, row, Glyph(s.Degrees), nil, spriteStyle(s, f))
	}
}

// spriteStyle blends the sprite against the background by its alpha. Light
// sprites fill the cell and draw the arrow in the outline colour.
func spriteStyle(s renderer.Sprite, f renderer.Frame) tcell.Style {
	fill := renderer.Blend(s.Color(), f.Background)
	if s.Outline {
		line := renderer.Blend(renderer.WithAlpha(f.Outline, s.Alpha), f.Background)
		return tcell.StyleDefault.Background(rgb(fill)).Foreground(rgb(line))
	}
	return tcell.StyleDefault.Background(rgb(f.Background)).Foreground(rgb(fill))
}

func drawPortal(c Canvas, p renderer.PortalShape, bg color.NRGBA, cols, rows int) {
	switch p.Kind {
	case systems.PortalBorder:
		style := tcell.StyleDefault.Background(rgb(bg)).Foreground(rgb(p.Color))
		for col := 0; col < cols; col++ {
			c.SetContent(col, 0, borderGlyph, nil, style)
			c.SetContent(col, rows-1, borderGlyph, nil, style)
		}
		for row := 0; row < rows; row++ {
			c.SetContent(0, row, borderGlyph, nil, style)
			c.SetContent(cols-1, row, borderGlyph, nil, style)
		}
	case systems.PortalPoint:
		col, row, ok := cellAt(p.X, p.Y, cols, rows)
		if !ok {
			return
		}
		c.SetContent(col, row, pointGlyph, nil, tcell.StyleDefault.Background(rgb(bg)).Foreground(rgb(p.Color)))
	}
}
