// Package systems provides the per-frame flock algorithms: steering rules,
// the portal registry, portal capture and transit, and opacity fades.
package systems

import "github.com/pthm-cable/paperflock/config"

// FlockParams holds steering rule parameters as float32 for the hot path.
type FlockParams struct {
	VisualRange         float32
	MinDistance         float32
	CenteringFactor     float32
	AvoidFactor         float32
	CongestionNeighbors int
	CongestionBoost     float32
	MatchingFactor      float32
	EdgeDrive           float32
	SpeedLimit          float32
}

// FlockParamsFromConfig converts the flock section of cfg.
func FlockParamsFromConfig(cfg *config.Config) FlockParams {
	f := cfg.Flock
	return FlockParams{
		VisualRange:         float32(f.VisualRange),
		MinDistance:         float32(f.MinDistance),
		CenteringFactor:     float32(f.CenteringFactor),
		AvoidFactor:         float32(f.AvoidFactor),
		CongestionNeighbors: f.CongestionNeighbors,
		CongestionBoost:     float32(f.CongestionBoost),
		MatchingFactor:      float32(f.MatchingFactor),
		EdgeDrive:           float32(f.EdgeDrive),
		SpeedLimit:          float32(f.SpeedLimit),
	}
}

// PortalParams holds portal geometry and transit parameters.
type PortalParams struct {
	TransitStep         float32 // progress per frame
	PullStrength        float32
	PullRange           float32
	BorderWidth         float32
	PointRadiusFraction float32
	CaptureFraction     float32
	ExitRadiusFraction  float32
	ExitSpeedMultiplier float32
	PointEntrance       bool
	BorderColor         string
	PointColor          string
}

// PortalParamsFromConfig converts the portals section of cfg.
func PortalParamsFromConfig(cfg *config.Config) PortalParams {
	p := cfg.Portals
	return PortalParams{
		TransitStep:         cfg.Derived.TransitStep,
		PullStrength:        float32(p.PullStrength),
		PullRange:           float32(p.PullRange),
		BorderWidth:         float32(p.BorderWidth),
		PointRadiusFraction: float32(p.PointRadiusFraction),
		CaptureFraction:     float32(p.CaptureFraction),
		ExitRadiusFraction:  float32(p.ExitRadiusFraction),
		ExitSpeedMultiplier: float32(p.ExitSpeedMultiplier),
		PointEntrance:       p.PointEntrance,
		BorderColor:         p.BorderColor,
		PointColor:          p.PointColor,
	}
}
