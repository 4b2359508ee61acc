package systems

import (
	"math"
	"math/rand"
)

// BreachesBoundary reports whether (x, y) lies within margin of any viewport edge.
func BreachesBoundary(x, y, w, h, margin float32) bool {
	return x < margin || x > w-margin || y < margin || y > h-margin
}

// PullTowardPortal adds the point-portal attraction to b's velocity,
// scaled by PullStrength * (1 - d/PullRange), and reports whether b is now
// close enough to be captured. Nothing happens outside the pull range.
func PullTowardPortal(b *Boid, portal *Portal, params PortalParams) bool {
	d := distance(b.X, b.Y, portal.X, portal.Y)
	if d >= params.PullRange {
		return false
	}

	pull := params.PullStrength * (1 - d/params.PullRange)
	dirX, dirY := unit(portal.X-b.X, portal.Y-b.Y)
	b.VX += dirX * pull
	b.VY += dirY * pull

	return d < portal.Radius*params.CaptureFraction
}

// CheckCapture evaluates the boundary band and every entrance point portal
// against b's current (previous-frame) position. It returns the portal b enters,
// if any. The border portal wins over point portals.
func CheckCapture(b *Boid, reg *PortalRegistry, w, h, margin float32) (PortalID, bool) {
	if border := reg.Border(); border.Entrance && BreachesBoundary(b.X, b.Y, w, h, margin) {
		return border.ID, true
	}

	params := reg.Params()
	for i := range reg.portals {
		portal := &reg.portals[i]
		if portal.Kind != PortalPoint || !portal.Entrance {
			continue
		}
		if PullTowardPortal(b, portal, params) {
			return portal.ID, true
		}
	}
	return "", false
}

// AdvanceTransit moves an in-transit agent one frame through the portal it entered.
//
// While progress stays below 1 the agent is pinned to the entrance anchor and the
// new progress is returned with a nil exit. When progress reaches 1 the agent leaves
// the paired portal on a uniformly random heading at ExitSpeedMultiplier times its
// retained speed, placed ExitRadiusFraction*radius from the exit anchor along that
// heading; the exit portal is returned and the caller clears the transit state.
// An unknown entrance or pair leaves the agent untouched.
func AdvanceTransit(b *Boid, entrance PortalID, progress float32, reg *PortalRegistry, rng *rand.Rand) (float32, *Portal) {
	in, ok := reg.Get(entrance)
	if !ok {
		return progress, nil
	}
	out, ok := reg.Get(in.Pair)
	if !ok {
		return progress, nil
	}

	params := reg.Params()
	progress += params.TransitStep
	if progress < 1 {
		b.X = in.X
		b.Y = in.Y
		return progress, nil
	}

	speed := velocityMagnitude(b.VX, b.VY)
	angle := rng.Float64() * 2 * math.Pi
	dx := float32(math.Cos(angle))
	dy := float32(math.Sin(angle))

	b.X = out.X + dx*out.Radius*params.ExitRadiusFraction
	b.Y = out.Y + dy*out.Radius*params.ExitRadiusFraction
	b.VX = dx * speed * params.ExitSpeedMultiplier
	b.VY = dy * speed * params.ExitSpeedMultiplier
	return progress, out
}
