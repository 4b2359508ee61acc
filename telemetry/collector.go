// Package telemetry aggregates flock statistics per tick window, detects
// bookmark-worthy moments and writes CSV logs and snapshots.
package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/paperflock/systems"
)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawned       int
	dropped       int
	culled        int
	borderCapture int
	pointCapture  int
	teleports     int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// RecordSpawn records n agents added to the store.
func (c *Collector) RecordSpawn(n int) {
	c.spawned += n
}

// RecordDroppedSpawn records a spawn batch rejected by the population ceiling.
func (c *Collector) RecordDroppedSpawn() {
	c.dropped++
}

// RecordCull records n agents removed after their lifespan ran out.
func (c *Collector) RecordCull(n int) {
	c.culled += n
}

// RecordCapture records an agent entering a portal of the given kind.
func (c *Collector) RecordCapture(kind systems.PortalKind) {
	if kind == systems.PortalPoint {
		c.pointCapture++
	} else {
		c.borderCapture++
	}
}

// RecordTeleport records an agent leaving a portal.
func (c *Collector) RecordTeleport() {
	c.teleports++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the counters and the flock sample,
// then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample FlockSample) WindowStats {
	mean, std, p10, p50, p90 := ComputeSpeedStats(sample.Speeds)

	var spread float64
	if len(sample.Spreads) > 0 {
		spread = stat.Mean(sample.Spreads, nil)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: sample.Population,
		Free:       sample.Free(),
		InTransit:  sample.InTransit,

		Spawned:       c.spawned,
		Dropped:       c.dropped,
		Culled:        c.culled,
		BorderCapture: c.borderCapture,
		PointCapture:  c.pointCapture,
		Teleports:     c.teleports,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		Spread:      spread,
		HeadingMean: HeadingMean(sample.Headings),
		Order:       OrderParameter(sample.Headings),
	}

	c.windowStartTick = currentTick
	c.spawned = 0
	c.dropped = 0
	c.culled = 0
	c.borderCapture = 0
	c.pointCapture = 0
	c.teleports = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

// StartAt begins the current window at tick, used when resuming a run.
func (c *Collector) StartAt(tick int32) {
	c.windowStartTick = tick
}
