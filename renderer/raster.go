package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/vector"
)

const circleSegments = 32

// Raster draws frames into an offscreen image with anti-aliased polygons.
type Raster struct {
	img *image.NRGBA
	r   *vector.Rasterizer
}

// NewRaster creates a raster for w x h pixel frames.
func NewRaster(w, h int) *Raster {
	w, h = max(w, 1), max(h, 1)
	return &Raster{
		img: image.NewNRGBA(image.Rect(0, 0, w, h)),
		r:   vector.NewRasterizer(w, h),
	}
}

// Image returns the backing image.
func (rs *Raster) Image() *image.NRGBA {
	return rs.img
}

// Draw renders f: background, portals, then sprites in order.
func (rs *Raster) Draw(f Frame) *image.NRGBA {
	w, h := int(f.Width), int(f.Height)
	if b := rs.img.Bounds(); b.Dx() != w || b.Dy() != h {
		*rs = *NewRaster(w, h)
	}
	draw.Draw(rs.img, rs.img.Bounds(), image.NewUniform(f.Background), image.Point{}, draw.Src)

	for _, p := range f.Portals {
		if p.Stroke > 0 {
			rs.strokeRect(p.X, p.Y, p.Width, p.Height, p.Stroke, p.Color)
		} else {
			rs.fillCircle(p.X, p.Y, p.Radius, p.Color)
		}
	}

	for _, s := range f.Sprites {
		poly := s.Polygon()
		rs.fillPolygon(poly[:], s.Color())
		if s.Outline {
			rs.outline(poly[:], 1, WithAlpha(f.Outline, s.Alpha))
		}
	}
	return rs.img
}

func (rs *Raster) fillPolygon(pts []Point, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 {
		return
	}
	b := rs.img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	// The rasterizer expects vertices inside its bounds.
	clampPt := func(p Point) (float32, float32) {
		return min(max(p.X, 0), w), min(max(p.Y, 0), h)
	}
	rs.r.Reset(b.Dx(), b.Dy())
	rs.r.MoveTo(clampPt(pts[0]))
	for _, p := range pts[1:] {
		rs.r.LineTo(clampPt(p))
	}
	rs.r.ClosePath()
	rs.r.Draw(rs.img, b, image.NewUniform(c), image.Point{})
}

func (rs *Raster) fillCircle(cx, cy, radius float32, c color.NRGBA) {
	pts := make([]Point, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = Point{
			X: cx + radius*float32(math.Cos(a)),
			Y: cy + radius*float32(math.Sin(a)),
		}
	}
	rs.fillPolygon(pts, c)
}

// strokeRect strokes a rectangle centred on its edges, like a canvas strokeRect.
func (rs *Raster) strokeRect(x, y, w, h, stroke float32, c color.NRGBA) {
	half := stroke / 2
	rs.fillRect(x-half, y-half, w+stroke, stroke, c)   // top
	rs.fillRect(x-half, y+h-half, w+stroke, stroke, c) // bottom
	rs.fillRect(x-half, y+half, stroke, h-stroke, c)   // left
	rs.fillRect(x+w-half, y+half, stroke, h-stroke, c) // right
}

func (rs *Raster) fillRect(x, y, w, h float32, c color.NRGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	rs.fillPolygon([]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, c)
}

// outline draws each edge of a closed polygon as a thin quad.
func (rs *Raster) outline(pts []Point, width float32, c color.NRGBA) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*width/2, dx/l*width/2
		rs.fillPolygon([]Point{
			{a.X + nx, a.Y + ny},
			{b.X + nx, b.Y + ny},
			{b.X - nx, b.Y - ny},
			{a.X - nx, a.Y - ny},
		}, c)
	}
}

// WritePNG encodes the frame as a PNG.
func (rs *Raster) WritePNG(w io.Writer, f Frame) error {
	if err := png.Encode(w, rs.Draw(f)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the frame to dir/frame_<tick>.png and returns the path.
func (rs *Raster) SavePNG(dir string, tick int32, f Frame) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create frame dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame_%06d.png", tick))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create frame: %w", err)
	}
	if err := rs.WritePNG(file, f); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close frame: %w", err)
	}
	return path, nil
}
