package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/paperflock/config"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestOutputManager_HeaderWrittenOnce(t *testing.T) {
	var tel, perf, marks bytes.Buffer
	om := newOutputManagerWriters(nopCloser{&tel}, nopCloser{&perf}, nopCloser{&marks})

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Population: 20 + i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(tel.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), tel.String())
	}
	if !strings.HasPrefix(lines[0], "window_end,population,free,in_transit") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(tel.String(), "window_end") != 1 {
		t.Error("header repeated")
	}
	if !strings.HasPrefix(lines[3], "1800,23,") {
		t.Errorf("last row = %q", lines[3])
	}

	if err := om.WriteBookmark(Bookmark{Type: BookmarkSteadyFlock, Tick: 1800, Description: "steady"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(marks.String(), "steady_flock,1800,steady") {
		t.Errorf("bookmark csv = %q", marks.String())
	}

	if err := om.WritePerf(PerfStats{}, 600); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(perf.String(), "window_end,avg_tick_us") {
		t.Errorf("perf csv = %q", perf.String())
	}
}

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager has no directory")
	}
}

func TestOutputManager_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 600}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
