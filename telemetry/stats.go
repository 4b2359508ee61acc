package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Free       int `csv:"free"`
	InTransit  int `csv:"in_transit"`

	// Events during window
	Spawned       int `csv:"spawned"`
	Dropped       int `csv:"dropped_spawns"`
	Culled        int `csv:"culled"`
	BorderCapture int `csv:"border_captures"`
	PointCapture  int `csv:"point_captures"`
	Teleports     int `csv:"teleports"`

	// Speed distribution of free agents (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Flock shape
	Spread      float64 `csv:"spread"`       // mean centre distance / half shorter side
	HeadingMean float64 `csv:"heading_mean"` // circular mean, radians
	Order       float64 `csv:"order"`        // |mean unit velocity|, 1 = fully aligned
}

// FlockSample is a snapshot of the free agents taken when a window is flushed.
type FlockSample struct {
	Population int
	InTransit  int

	Speeds   []float64
	Spreads  []float64 // per-agent centre distance, normalized
	Headings []float64 // radians
}

// Free returns the number of free agents in the sample.
func (s FlockSample) Free() int {
	return s.Population - s.InTransit
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = math.Min(math.Max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeSpeedStats calculates mean, std and percentiles of agent speeds.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// OrderParameter returns the length of the mean unit heading vector.
// 0 for random headings, 1 when every agent points the same way.
func OrderParameter(headings []float64) float64 {
	if len(headings) == 0 {
		return 0
	}
	var sx, sy float64
	for _, h := range headings {
		sx += math.Cos(h)
		sy += math.Sin(h)
	}
	n := float64(len(headings))
	return math.Hypot(sx/n, sy/n)
}

// HeadingMean returns the circular mean heading in radians, 0 when empty.
func HeadingMean(headings []float64) float64 {
	if len(headings) == 0 {
		return 0
	}
	return stat.CircularMean(headings, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("population", s.Population),
		slog.Int("free", s.Free),
		slog.Int("in_transit", s.InTransit),
		slog.Int("spawned", s.Spawned),
		slog.Int("dropped_spawns", s.Dropped),
		slog.Int("culled", s.Culled),
		slog.Int("border_captures", s.BorderCapture),
		slog.Int("point_captures", s.PointCapture),
		slog.Int("teleports", s.Teleports),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("spread", s.Spread),
		slog.Float64("heading_mean", s.HeadingMean),
		slog.Float64("order", s.Order),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"in_transit", s.InTransit,
		"spawned", s.Spawned,
		"dropped_spawns", s.Dropped,
		"culled", s.Culled,
		"border_captures", s.BorderCapture,
		"point_captures", s.PointCapture,
		"teleports", s.Teleports,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"spread", s.Spread,
		"order", s.Order,
	)
}
