package components

// Position represents an agent's viewport position in pixels.
type Position struct {
	X, Y float32
}

// Velocity represents an agent's displacement per frame.
type Velocity struct {
	X, Y float32
}

// Rotation holds the heading derived from velocity, in degrees.
type Rotation struct {
	Degrees float32
}
