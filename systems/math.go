package systems

import "math"

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq(x1, y1, x2, y2))))
}

// velocityMagnitude returns the magnitude of a velocity vector.
func velocityMagnitude(vx, vy float32) float32 {
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}

// unit normalizes (dx, dy). A zero-length vector divides by 1 instead,
// so the result is the zero vector rather than NaN.
func unit(dx, dy float32) (float32, float32) {
	d := velocityMagnitude(dx, dy)
	if d == 0 {
		d = 1
	}
	return dx / d, dy / d
}

// HeadingDegrees returns atan2(vy, vx) in degrees.
func HeadingDegrees(vx, vy float32) float32 {
	return float32(math.Atan2(float64(vy), float64(vx)) * 180 / math.Pi)
}

// Speed returns |v|.
func Speed(vx, vy float32) float32 {
	return velocityMagnitude(vx, vy)
}
