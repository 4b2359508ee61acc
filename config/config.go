// Package config provides configuration loading and access for the flock.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Flock      FlockConfig      `yaml:"flock"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Population PopulationConfig `yaml:"population"`
	Appearance AppearanceConfig `yaml:"appearance"`
	Portals    PortalsConfig    `yaml:"portals"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FlockConfig holds the steering rule parameters.
type FlockConfig struct {
	VisualRange         float64 `yaml:"visual_range"`         // Cohesion/alignment neighbourhood radius
	MinDistance         float64 `yaml:"min_distance"`         // Separation threshold
	CenteringFactor     float64 `yaml:"centering_factor"`     // Cohesion strength
	AvoidFactor         float64 `yaml:"avoid_factor"`         // Separation strength
	CongestionNeighbors int     `yaml:"congestion_neighbors"` // Boost separation above this many close neighbours
	CongestionBoost     float64 `yaml:"congestion_boost"`     // Separation multiplier when congested
	MatchingFactor      float64 `yaml:"matching_factor"`      // Alignment strength
	EdgeDrive           float64 `yaml:"edge_drive"`           // Outward push at the exact centre
	SpeedLimit          float64 `yaml:"speed_limit"`          // Hard cap on |v| in px/frame
}

// BoundaryConfig holds the viewport edge band that feeds the border portal.
type BoundaryConfig struct {
	Margin float64 `yaml:"margin"`
}

// PopulationConfig holds spawning and lifespan parameters.
type PopulationConfig struct {
	Initial          int     `yaml:"initial"`
	InitialSmall     int     `yaml:"initial_small"`      // Used when the viewport is narrower than SmallScreenWidth
	SmallScreenWidth int     `yaml:"small_screen_width"`
	Max              int     `yaml:"max"`                // Click spawns are dropped at or above this
	SpawnCount       int     `yaml:"spawn_count"`        // Agents per click
	SpawnJitter      float64 `yaml:"spawn_jitter"`       // Per-axis jitter around the click point
	SpawnSpeed       float64 `yaml:"spawn_speed"`        // Per-axis initial velocity range
	Lifespan         int     `yaml:"lifespan"`           // Frames
}

// AppearanceConfig holds visual variation parameters.
type AppearanceConfig struct {
	ScaleMin    float64 `yaml:"scale_min"`
	ScaleSpread float64 `yaml:"scale_spread"`
}

// PortalsConfig holds portal geometry and transit parameters.
type PortalsConfig struct {
	TransitTime         float64 `yaml:"transit_time"`          // Frames spent inside a portal
	PullStrength        float64 `yaml:"pull_strength"`
	PullRange           float64 `yaml:"pull_range"`
	BorderWidth         float64 `yaml:"border_width"`
	PointRadiusFraction float64 `yaml:"point_radius_fraction"` // Of the shorter viewport side
	CaptureFraction     float64 `yaml:"capture_fraction"`      // Of the point portal radius
	ExitRadiusFraction  float64 `yaml:"exit_radius_fraction"`
	ExitSpeedMultiplier float64 `yaml:"exit_speed_multiplier"`
	PointEntrance       bool    `yaml:"point_entrance"` // Point portal also accepts agents
	BorderColor         string  `yaml:"border_color"`
	PointColor          string  `yaml:"point_color"`
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	FadeFrames      float64 `yaml:"fade_frames"`
	PlaneWidth      float64 `yaml:"plane_width"`
	PlaneHeight     float64 `yaml:"plane_height"`
	DarkColor       string  `yaml:"dark_color"`
	LightColor      string  `yaml:"light_color"`
	BackgroundColor string  `yaml:"background_color"`
	BorderStroke    float64 `yaml:"border_stroke"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32   float32
	ScreenH32   float32
	Margin32    float32
	FadeFrames  float32
	PlaneW32    float32
	PlaneH32    float32
	TransitStep float32 // 1 / TransitTime
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every out-of-range parameter.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("flock.speed_limit", c.Flock.SpeedLimit)
	positive("flock.visual_range", c.Flock.VisualRange)
	positive("flock.min_distance", c.Flock.MinDistance)
	positive("portals.transit_time", c.Portals.TransitTime)
	positive("portals.pull_range", c.Portals.PullRange)
	positive("render.fade_frames", c.Render.FadeFrames)
	positive("appearance.scale_min", c.Appearance.ScaleMin)

	if c.Population.Lifespan <= 0 {
		errs = append(errs, fmt.Errorf("population.lifespan must be positive, got %d", c.Population.Lifespan))
	}
	if c.Population.SpawnCount < 0 {
		errs = append(errs, fmt.Errorf("population.spawn_count must not be negative, got %d", c.Population.SpawnCount))
	}
	if c.Population.Max < c.Population.SpawnCount {
		errs = append(errs, fmt.Errorf("population.max (%d) below spawn_count (%d)", c.Population.Max, c.Population.SpawnCount))
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}

	for _, col := range []struct{ name, value string }{
		{"render.dark_color", c.Render.DarkColor},
		{"render.light_color", c.Render.LightColor},
		{"render.background_color", c.Render.BackgroundColor},
		{"portals.border_color", c.Portals.BorderColor},
		{"portals.point_color", c.Portals.PointColor},
	} {
		if !isHexColor(col.value) {
			errs = append(errs, fmt.Errorf("%s: malformed colour %q", col.name, col.value))
		}
	}

	return errors.Join(errs...)
}

// isHexColor accepts #RGB and #RRGGBB.
func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Margin32 = float32(c.Boundary.Margin)
	c.Derived.FadeFrames = float32(c.Render.FadeFrames)
	c.Derived.PlaneW32 = float32(c.Render.PlaneWidth)
	c.Derived.PlaneH32 = float32(c.Render.PlaneHeight)
	c.Derived.TransitStep = float32(1 / c.Portals.TransitTime)
}

// Recompute refreshes derived values after fields were edited in place.
func (c *Config) Recompute() {
	c.computeDerived()
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	dup := *c
	return &dup
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
