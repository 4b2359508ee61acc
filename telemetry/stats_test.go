package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/paperflock/systems"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"clamped above", []float64{1, 2, 3}, 1.5, 3.0},
		{"clamped below", []float64{1, 2, 3}, -1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean, std, p10, p50, p90 := ComputeSpeedStats(values)

	if math.Abs(mean-5) > 1e-9 {
		t.Errorf("mean = %v, want 5", mean)
	}
	// Sample standard deviation: sqrt(32/7)
	if math.Abs(std-math.Sqrt(32.0/7.0)) > 1e-9 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(32.0/7.0))
	}
	if !(p10 <= p50 && p50 <= p90) {
		t.Errorf("percentiles out of order: %v %v %v", p10, p50, p90)
	}
	if p10 != 2 || p90 != 9 {
		t.Errorf("p10 = %v, p90 = %v, want 2 and 9", p10, p90)
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeSpeedStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestComputeSpeedStatsSingle(t *testing.T) {
	mean, std, _, p50, _ := ComputeSpeedStats([]float64{1.5})
	if mean != 1.5 || std != 0 || p50 != 1.5 {
		t.Errorf("single value stats = %v %v %v", mean, std, p50)
	}
}

func TestOrderParameter(t *testing.T) {
	tests := []struct {
		name     string
		headings []float64
		want     float64
	}{
		{"empty", nil, 0},
		{"aligned", []float64{0.3, 0.3, 0.3}, 1},
		{"opposed", []float64{0, math.Pi}, 0},
		{"quarter", []float64{0, math.Pi / 2}, math.Sqrt2 / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrderParameter(tt.headings); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OrderParameter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeadingMean(t *testing.T) {
	if got := HeadingMean(nil); got != 0 {
		t.Errorf("empty mean = %v", got)
	}
	if got := HeadingMean([]float64{0, math.Pi / 2}); math.Abs(got-math.Pi/4) > 1e-9 {
		t.Errorf("mean = %v, want pi/4", got)
	}
}

func TestCollector_FlushResetsCounters(t *testing.T) {
	c := NewCollector(100)

	if c.ShouldFlush(50) {
		t.Error("should not flush mid-window")
	}

	c.RecordSpawn(3)
	c.RecordSpawn(20)
	c.RecordDroppedSpawn()
	c.RecordCull(2)
	c.RecordCapture(systems.PortalBorder)
	c.RecordCapture(systems.PortalBorder)
	c.RecordCapture(systems.PortalPoint)
	c.RecordTeleport()

	if !c.ShouldFlush(100) {
		t.Fatal("window should be due at tick 100")
	}

	sample := FlockSample{
		Population: 23,
		InTransit:  3,
		Speeds:     []float64{1, 2, 3},
		Spreads:    []float64{0.2, 0.4},
		Headings:   []float64{0, 0},
	}
	stats := c.Flush(100, sample)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 100 {
		t.Errorf("window = [%d, %d]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.Spawned != 23 || stats.Dropped != 1 || stats.Culled != 2 {
		t.Errorf("counters = %+v", stats)
	}
	if stats.BorderCapture != 2 || stats.PointCapture != 1 || stats.Teleports != 1 {
		t.Errorf("portal counters = %+v", stats)
	}
	if stats.Population != 23 || stats.Free != 20 || stats.InTransit != 3 {
		t.Errorf("population = %d/%d/%d", stats.Population, stats.Free, stats.InTransit)
	}
	if math.Abs(stats.SpeedMean-2) > 1e-9 || math.Abs(stats.Spread-0.3) > 1e-9 || math.Abs(stats.Order-1) > 1e-9 {
		t.Errorf("flock stats = %+v", stats)
	}

	if c.ShouldFlush(150) {
		t.Error("window should restart at the flush tick")
	}
	next := c.Flush(200, FlockSample{})
	if next.Spawned != 0 || next.Teleports != 0 || next.BorderCapture != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
