// Package renderer turns flock state into a backend-neutral Frame and
// rasterizes frames offscreen.
package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/paperflock/systems"
)

// Point is a vertex in viewport pixels.
type Point struct {
	X, Y float32
}

// Sprite is one visible agent.
type Sprite struct {
	X, Y    float32
	Degrees float32
	W, H    float32 // plane size after scaling
	Fill    color.NRGBA
	Outline bool
	Alpha   float32
}

// Polygon returns the paper-plane outline (0,0) (-0.2w,-0.5h) (0.8w,0) (-0.2w,0.5h)
// rotated by the heading and moved to the sprite position.
func (s Sprite) Polygon() [4]Point {
	local := [4]Point{
		{0, 0},
		{-0.2 * s.W, -0.5 * s.H},
		{0.8 * s.W, 0},
		{-0.2 * s.W, 0.5 * s.H},
	}
	rad := float64(s.Degrees) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	c, sn := float32(cos), float32(sin)

	var out [4]Point
	for i, p := range local {
		out[i] = Point{
			X: s.X + p.X*c - p.Y*sn,
			Y: s.Y + p.X*sn + p.Y*c,
		}
	}
	return out
}

// Color returns the fill with the sprite's alpha applied.
func (s Sprite) Color() color.NRGBA {
	return WithAlpha(s.Fill, s.Alpha)
}

// PortalShape is a drawable portal.
type PortalShape struct {
	Kind          systems.PortalKind
	X, Y          float32
	Radius        float32
	Width, Height float32
	Stroke        float32
	Color         color.NRGBA
}

// Frame is everything needed to draw one tick.
type Frame struct {
	Width, Height float32
	Background    color.NRGBA
	Outline       color.NRGBA
	Portals       []PortalShape
	Sprites       []Sprite
}

// PortalShapes converts registry portals into shapes.
func PortalShapes(portals []systems.Portal, palette Palette, stroke float32) []PortalShape {
	out := make([]PortalShape, 0, len(portals))
	for _, p := range portals {
		shape := PortalShape{
			Kind:   p.Kind,
			X:      p.X,
			Y:      p.Y,
			Radius: p.Radius,
			Width:  p.Width,
			Height: p.Height,
		}
		if p.Kind == systems.PortalBorder {
			shape.Color = palette.Border
			shape.Stroke = stroke
		} else {
			shape.Color = palette.Point
		}
		out = append(out, shape)
	}
	return out
}
