package systems

// Boid is the kinematic view the steering rules read and write.
// Rules read neighbours from a snapshot of the previous frame, so the order
// agents are updated in does not leak into the forces they feel.
type Boid struct {
	ID        uint32
	X, Y      float32
	VX, VY    float32
	InTransit bool
}

// isNeighbor reports whether other is a free agent distinct from b.
func isNeighbor(b *Boid, other *Boid) bool {
	return other.ID != b.ID && !other.InTransit
}

// Cohesion steers toward the average position of free neighbours within visual range.
func Cohesion(b *Boid, flock []Boid, p FlockParams) {
	var cx, cy float32
	n := 0
	for i := range flock {
		other := &flock[i]
		if !isNeighbor(b, other) {
			continue
		}
		if distance(b.X, b.Y, other.X, other.Y) < p.VisualRange {
			cx += other.X
			cy += other.Y
			n++
		}
	}
	if n == 0 {
		return
	}
	cx /= float32(n)
	cy /= float32(n)
	b.VX += (cx - b.X) * p.CenteringFactor
	b.VY += (cy - b.Y) * p.CenteringFactor
}

// Separation pushes away from free neighbours closer than MinDistance, weighted
// by 1 - d/MinDistance. Coincident agents contribute a zero vector.
// Returns the number of neighbours that were too close.
func Separation(b *Boid, flock []Boid, p FlockParams) int {
	var mx, my float32
	numClose := 0
	for i := range flock {
		other := &flock[i]
		if !isNeighbor(b, other) {
			continue
		}
		d := distance(b.X, b.Y, other.X, other.Y)
		if d < p.MinDistance {
			factor := 1 - d/p.MinDistance
			mx += (b.X - other.X) * factor
			my += (b.Y - other.Y) * factor
			numClose++
		}
	}

	strength := p.AvoidFactor
	if numClose > p.CongestionNeighbors {
		strength *= p.CongestionBoost
	}
	b.VX += mx * strength
	b.VY += my * strength
	return numClose
}

// Alignment steers toward the average velocity of free neighbours within visual range.
func Alignment(b *Boid, flock []Boid, p FlockParams) {
	var avx, avy float32
	n := 0
	for i := range flock {
		other := &flock[i]
		if !isNeighbor(b, other) {
			continue
		}
		if distance(b.X, b.Y, other.X, other.Y) < p.VisualRange {
			avx += other.VX
			avy += other.VY
			n++
		}
	}
	if n == 0 {
		return
	}
	avx /= float32(n)
	avy /= float32(n)
	b.VX += (avx - b.VX) * p.MatchingFactor
	b.VY += (avy - b.VY) * p.MatchingFactor
}

// EdgeDrive pushes radially away from the viewport centre. The push is EdgeDrive
// at the exact centre and falls linearly to zero at half the shorter side.
func EdgeDrive(b *Boid, w, h float32, p FlockParams) {
	dx := b.X - w/2
	dy := b.Y - h/2
	d := velocityMagnitude(dx, dy)
	dirX, dirY := unit(dx, dy)

	falloff := 1 - d/(min(w, h)/2)
	if falloff < 0 {
		falloff = 0
	}
	force := p.EdgeDrive * falloff
	b.VX += dirX * force
	b.VY += dirY * force
}

// LimitSpeed rescales velocity to exactly limit when it exceeds it.
func LimitSpeed(b *Boid, limit float32) {
	speed := velocityMagnitude(b.VX, b.VY)
	if speed > limit {
		b.VX = b.VX / speed * limit
		b.VY = b.VY / speed * limit
	}
}

// Flock applies cohesion, separation, alignment, edge drive and the speed clamp in order.
func Flock(b *Boid, flock []Boid, w, h float32, p FlockParams) {
	Cohesion(b, flock, p)
	Separation(b, flock, p)
	Alignment(b, flock, p)
	EdgeDrive(b, w, h, p)
	LimitSpeed(b, p.SpeedLimit)
}

// Integrate advances position by one frame of velocity.
func Integrate(b *Boid) {
	b.X += b.VX
	b.Y += b.VY
}
