package renderer

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/pthm-cable/paperflock/config"
)

// ParseHexColor parses "#RGB" or "#RRGGBB" into an opaque colour.
func ParseHexColor(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("colour %q: missing '#'", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.NRGBA{}, fmt.Errorf("colour %q: want 3 or 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// WithAlpha scales the colour's alpha by a in [0, 1].
func WithAlpha(c color.NRGBA, a float32) color.NRGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.A = uint8(float32(c.A)*a + 0.5)
	return c
}

// Blend composites fg over an opaque bg using fg's alpha.
func Blend(fg, bg color.NRGBA) color.NRGBA {
	a := float32(fg.A) / 255
	mix := func(f, b uint8) uint8 {
		return uint8(float32(f)*a + float32(b)*(1-a) + 0.5)
	}
	return color.NRGBA{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 0xff}
}

// Palette holds the parsed scene colours.
type Palette struct {
	Dark       color.NRGBA
	Light      color.NRGBA
	Outline    color.NRGBA
	Background color.NRGBA
	Border     color.NRGBA
	Point      color.NRGBA
}

// NewPalette parses the colours named in cfg.
func NewPalette(cfg *config.Config) (Palette, error) {
	var p Palette
	for _, c := range []struct {
		dst *color.NRGBA
		src string
	}{
		{&p.Dark, cfg.Render.DarkColor},
		{&p.Light, cfg.Render.LightColor},
		{&p.Background, cfg.Render.BackgroundColor},
		{&p.Border, cfg.Portals.BorderColor},
		{&p.Point, cfg.Portals.PointColor},
	} {
		col, err := ParseHexColor(c.src)
		if err != nil {
			return Palette{}, err
		}
		*c.dst = col
	}
	p.Outline = color.NRGBA{A: 0xff}
	return p, nil
}
