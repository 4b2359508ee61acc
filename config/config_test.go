package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Flock.SpeedLimit != 2 {
		t.Errorf("speed_limit = %v, want 2", cfg.Flock.SpeedLimit)
	}
	if cfg.Population.Max != 500 {
		t.Errorf("population.max = %d, want 500", cfg.Population.Max)
	}
	if cfg.Portals.PointEntrance {
		t.Error("point portal should be exit-only by default")
	}
	if cfg.Derived.TransitStep != 0.1 {
		t.Errorf("derived transit step = %v, want 0.1", cfg.Derived.TransitStep)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	overlay := "flock:\n  speed_limit: 3.5\nportals:\n  point_entrance: true\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Flock.SpeedLimit != 3.5 {
		t.Errorf("speed_limit = %v, want 3.5", cfg.Flock.SpeedLimit)
	}
	if !cfg.Portals.PointEntrance {
		t.Error("point_entrance override not applied")
	}
	// Untouched keys keep their defaults
	if cfg.Flock.VisualRange != 400 {
		t.Errorf("visual_range = %v, want default 400", cfg.Flock.VisualRange)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults ok", func(c *Config) {}, ""},
		{"zero speed limit", func(c *Config) { c.Flock.SpeedLimit = 0 }, "flock.speed_limit"},
		{"zero transit time", func(c *Config) { c.Portals.TransitTime = 0 }, "portals.transit_time"},
		{"max below spawn count", func(c *Config) { c.Population.Max = 1 }, "population.max"},
		{"bad colour", func(c *Config) { c.Render.LightColor = "white" }, "render.light_color"},
		{"short hex ok", func(c *Config) { c.Render.DarkColor = "#000" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Defaults()
	c.Flock.EdgeDrive = 6.25
	if err := c.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Flock.EdgeDrive != 6.25 {
		t.Errorf("edge_drive = %v, want 6.25", loaded.Flock.EdgeDrive)
	}
}
