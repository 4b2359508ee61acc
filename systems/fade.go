package systems

// LifespanOpacity fades an agent in over its first fadeFrames frames and out
// over its last fadeFrames frames: min(1, remaining/fade, (max-remaining)/fade).
func LifespanOpacity(remaining, maxLifespan int32, fadeFrames float32) float32 {
	fadeOut := float32(remaining) / fadeFrames
	fadeIn := float32(maxLifespan-remaining) / fadeFrames
	return clamp01(min(1, fadeOut, fadeIn))
}

// TransitVisible reports whether an in-transit agent is drawn at all.
// Agents deep inside a portal (0.1 < progress < 0.9) are hidden.
func TransitVisible(progress float32) bool {
	return progress <= 0.1 || progress >= 0.9
}

// TransitOpacity dims an agent entering a portal and brightens it on the way out.
func TransitOpacity(progress float32) float32 {
	if progress < 0.5 {
		return clamp01(1 - progress*2)
	}
	return clamp01((progress - 0.5) * 2)
}
