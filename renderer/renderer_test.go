package renderer

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/pthm-cable/paperflock/config"
	"github.com/pthm-cable/paperflock/systems"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#000000", color.NRGBA{0, 0, 0, 255}, false},
		{"#FAFAFA", color.NRGBA{250, 250, 250, 255}, false},
		{"#f2f2f2", color.NRGBA{242, 242, 242, 255}, false},
		{"#fff", color.NRGBA{255, 255, 255, 255}, false},
		{"#1a2", color.NRGBA{0x11, 0xaa, 0x22, 255}, false},
		{"ffffff", color.NRGBA{}, true},
		{"#ggg", color.NRGBA{}, true},
		{"#12345", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithAlphaAndBlend(t *testing.T) {
	black := color.NRGBA{A: 255}
	white := color.NRGBA{255, 255, 255, 255}

	if got := WithAlpha(black, 0.5).A; got != 128 {
		t.Errorf("half alpha = %d, want 128", got)
	}
	if got := WithAlpha(black, 2).A; got != 255 {
		t.Errorf("alpha should clamp to 1, got %d", got)
	}
	if got := WithAlpha(black, -1).A; got != 0 {
		t.Errorf("alpha should clamp to 0, got %d", got)
	}

	mid := Blend(WithAlpha(black, 0.5), white)
	if mid.R < 126 || mid.R > 128 || mid.A != 255 {
		t.Errorf("blend = %v, want mid grey", mid)
	}
	if got := Blend(black, white); got != black {
		t.Errorf("opaque blend = %v", got)
	}
}

func TestNewPalette(t *testing.T) {
	p, err := NewPalette(config.Defaults())
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if p.Dark != (color.NRGBA{0, 0, 0, 255}) || p.Light != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("tints = %v / %v", p.Dark, p.Light)
	}
	if p.Border != (color.NRGBA{242, 242, 242, 255}) {
		t.Errorf("border = %v", p.Border)
	}

	cfg := config.Defaults()
	cfg.Render.LightColor = "white"
	if _, err := NewPalette(cfg); err == nil {
		t.Error("expected error for malformed colour")
	}
}

func TestSpritePolygon(t *testing.T) {
	const eps = 1e-4
	near := func(a, b Point) bool {
		return math.Abs(float64(a.X-b.X)) < eps && math.Abs(float64(a.Y-b.Y)) < eps
	}

	s := Sprite{X: 100, Y: 50, W: 12, H: 8}
	got := s.Polygon()
	want := [4]Point{{100, 50}, {97.6, 46}, {109.6, 50}, {97.6, 54}}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Errorf("vertex %d = %v, want %v", i, got[i], want[i])
		}
	}

	// Heading 90 degrees points the nose down the screen
	s.Degrees = 90
	got = s.Polygon()
	if !near(got[2], Point{100, 59.6}) {
		t.Errorf("rotated nose = %v, want (100, 59.6)", got[2])
	}
}

func TestPortalShapes(t *testing.T) {
	cfg := config.Defaults()
	palette, _ := NewPalette(cfg)
	reg := systems.NewPortalRegistry(800, 600, systems.PortalParamsFromConfig(cfg))

	shapes := PortalShapes(reg.All(), palette, 8)
	if len(shapes) != 2 {
		t.Fatalf("shapes = %d", len(shapes))
	}
	if shapes[0].Kind != systems.PortalBorder || shapes[0].Stroke != 8 || shapes[0].Width != 800 {
		t.Errorf("border shape = %+v", shapes[0])
	}
	if shapes[1].Kind != systems.PortalPoint || shapes[1].Stroke != 0 || shapes[1].Color != palette.Point {
		t.Errorf("point shape = %+v", shapes[1])
	}
}

func testFrame() Frame {
	bg := color.NRGBA{250, 250, 250, 255}
	return Frame{
		Width:      200,
		Height:     100,
		Background: bg,
		Outline:    color.NRGBA{A: 255},
		Portals: []PortalShape{
			{Kind: systems.PortalBorder, Width: 200, Height: 100, Stroke: 8, Color: color.NRGBA{242, 242, 242, 255}},
			{Kind: systems.PortalPoint, X: 100, Y: 50, Radius: 6, Color: color.NRGBA{A: 255}},
		},
		Sprites: []Sprite{
			{X: 40, Y: 50, W: 60, H: 40, Fill: color.NRGBA{10, 20, 30, 255}, Alpha: 1},
		},
	}
}

func TestRasterDraw(t *testing.T) {
	rs := NewRaster(1, 1)
	img := rs.Draw(testFrame())

	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("raster resized to %v", b)
	}
	if got := img.NRGBAAt(150, 80); got != (color.NRGBA{250, 250, 250, 255}) {
		t.Errorf("background pixel = %v", got)
	}
	if got := img.NRGBAAt(1, 50); got != (color.NRGBA{242, 242, 242, 255}) {
		t.Errorf("border stroke pixel = %v", got)
	}
	if got := img.NRGBAAt(100, 50); got.R > 5 {
		t.Errorf("point portal centre = %v, want black", got)
	}
	// Inside the plane body, a few px ahead of its tail point
	if got := img.NRGBAAt(55, 50); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("sprite pixel = %v", got)
	}
}

func TestRasterHiddenSpriteAlpha(t *testing.T) {
	f := testFrame()
	f.Sprites[0].Alpha = 0
	img := NewRaster(200, 100).Draw(f)
	if got := img.NRGBAAt(55, 50); got != f.Background {
		t.Errorf("fully transparent sprite drew %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRaster(200, 100).WritePNG(&buf, testFrame()); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("decoded size = %v", b)
	}
}
