package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/paperflock/config"
)

func defaultFlockParams() FlockParams {
	return FlockParamsFromConfig(config.Defaults())
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ---------- Cohesion ----------

func TestCohesion_NoNeighborsNoOp(t *testing.T) {
	p := defaultFlockParams()
	b := Boid{ID: 1, X: 100, Y: 100, VX: 1, VY: 0}
	Cohesion(&b, []Boid{b}, p)
	if b.VX != 1 || b.VY != 0 {
		t.Errorf("velocity changed without neighbours: (%f, %f)", b.VX, b.VY)
	}
}

func TestCohesion_SteersTowardCentroid(t *testing.T) {
	p := defaultFlockParams()
	b := Boid{ID: 1, X: 100, Y: 100}
	flock := []Boid{
		b,
		{ID: 2, X: 200, Y: 100},
		{ID: 3, X: 200, Y: 300},
	}
	Cohesion(&b, flock, p)

	// centroid (200, 200) -> delta (100, 100) * 0.0015
	want := float32(100) * p.CenteringFactor
	if math.Abs(float64(b.VX-want)) > 1e-6 || math.Abs(float64(b.VY-want)) > 1e-6 {
		t.Errorf("velocity = (%f, %f), want (%f, %f)", b.VX, b.VY, want, want)
	}
}

func TestCohesion_IgnoresInTransitAndFarAgents(t *testing.T) {
	p := defaultFlockParams()
	b := Boid{ID: 1, X: 0, Y: 0}
	flock := []Boid{
		{ID: 2, X: 50, Y: 0, InTransit: true},
		{ID: 3, X: p.VisualRange + 1, Y: 0},
	}
	Cohesion(&b, flock, p)
	if b.VX != 0 || b.VY != 0 {
		t.Errorf("expected no steering, got (%f, %f)", b.VX, b.VY)
	}
}

// ---------- Separation ----------

func TestSeparation_CloserRepelsHarder(t *testing.T) {
	p := defaultFlockParams()

	near := Boid{ID: 1, X: 100, Y: 100}
	Separation(&near, []Boid{{ID: 2, X: 110, Y: 100}}, p)

	far := Boid{ID: 1, X: 100, Y: 100}
	Separation(&far, []Boid{{ID: 2, X: 140, Y: 100}}, p)

	if near.VX >= 0 || far.VX >= 0 {
		t.Fatalf("expected push to the left, got near=%f far=%f", near.VX, far.VX)
	}
	// Offsets are weighted by 1 - d/MinDistance.
	nearWeight := 1 - float32(10)/p.MinDistance
	farWeight := 1 - float32(40)/p.MinDistance
	if nearWeight <= farWeight {
		t.Fatalf("weight should fall with distance: near=%f far=%f", nearWeight, farWeight)
	}
	wantNear := -10 * nearWeight * p.AvoidFactor
	if math.Abs(float64(near.VX-wantNear)) > 1e-6 {
		t.Errorf("near VX = %f, want %f", near.VX, wantNear)
	}
}

func TestSeparation_CongestionBoost(t *testing.T) {
	p := defaultFlockParams()

	b := Boid{ID: 0, X: 100, Y: 100}
	flock := []Boid{
		{ID: 1, X: 110, Y: 100},
		{ID: 2, X: 110, Y: 100},
		{ID: 3, X: 110, Y: 100},
		{ID: 4, X: 110, Y: 100},
	}
	n := Separation(&b, flock, p)
	if n != 4 {
		t.Fatalf("numClose = %d, want 4", n)
	}

	weight := 1 - float32(10)/p.MinDistance
	want := 4 * -10 * weight * p.AvoidFactor * p.CongestionBoost
	if math.Abs(float64(b.VX-want)) > 1e-5 {
		t.Errorf("congested VX = %f, want %f", b.VX, want)
	}
}

func TestSeparation_CoincidentAgents(t *testing.T) {
	p := defaultFlockParams()
	a := Boid{ID: 1, X: 300, Y: 300, VX: 0.5, VY: -0.5}
	flock := []Boid{a, {ID: 2, X: 300, Y: 300, VX: -1, VY: 1}}

	n := Separation(&a, flock, p)
	if n != 1 {
		t.Errorf("coincident neighbour should count as close, got %d", n)
	}
	if !isFinite(a.VX) || !isFinite(a.VY) {
		t.Fatalf("non-finite velocity after separation: (%f, %f)", a.VX, a.VY)
	}
	if a.VX != 0.5 || a.VY != -0.5 {
		t.Errorf("zero offset should contribute nothing, got (%f, %f)", a.VX, a.VY)
	}

	Flock(&a, flock, 800, 600, p)
	if !isFinite(a.VX) || !isFinite(a.VY) {
		t.Fatalf("non-finite velocity after full flock: (%f, %f)", a.VX, a.VY)
	}
}

// ---------- Alignment ----------

func TestAlignment_MatchesNeighborVelocity(t *testing.T) {
	p := defaultFlockParams()
	b := Boid{ID: 1, X: 0, Y: 0, VX: 0, VY: 0}
	flock := []Boid{{ID: 2, X: 10, Y: 0, VX: 2, VY: -2}}
	Alignment(&b, flock, p)

	want := 2 * p.MatchingFactor
	if math.Abs(float64(b.VX-want)) > 1e-6 || math.Abs(float64(b.VY+want)) > 1e-6 {
		t.Errorf("velocity = (%f, %f), want (%f, %f)", b.VX, b.VY, want, -want)
	}
}

// ---------- EdgeDrive ----------

func TestEdgeDrive(t *testing.T) {
	p := defaultFlockParams()
	const w, h = 800, 600

	tests := []struct {
		name   string
		x, y   float32
		wantVX float32
		wantVY float32
	}{
		{"exact centre uses zero guard", 400, 300, 0, 0},
		{"halfway to falloff", 550, 300, p.EdgeDrive * 0.5, 0},
		{"beyond falloff", 50, 300, 0, 0},
		{"at falloff radius", 400, 600, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Boid{X: tt.x, Y: tt.y}
			EdgeDrive(&b, w, h, p)
			if !isFinite(b.VX) || !isFinite(b.VY) {
				t.Fatalf("non-finite velocity (%f, %f)", b.VX, b.VY)
			}
			if math.Abs(float64(b.VX-tt.wantVX)) > 1e-4 || math.Abs(float64(b.VY-tt.wantVY)) > 1e-4 {
				t.Errorf("velocity = (%f, %f), want (%f, %f)", b.VX, b.VY, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestEdgeDrive_PointsOutward(t *testing.T) {
	p := defaultFlockParams()
	b := Boid{X: 350, Y: 250}
	EdgeDrive(&b, 800, 600, p)
	if b.VX >= 0 || b.VY >= 0 {
		t.Errorf("expected push up-left from centre, got (%f, %f)", b.VX, b.VY)
	}
}

// ---------- LimitSpeed ----------

func TestLimitSpeed(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy float32
		limit  float32
		want   float32
	}{
		{"under limit untouched", 1, 1, 2, float32(math.Sqrt2)},
		{"over limit clamped", 30, 40, 2, 2},
		{"zero velocity", 0, 0, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Boid{VX: tt.vx, VY: tt.vy}
			LimitSpeed(&b, tt.limit)
			got := Speed(b.VX, b.VY)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("speed = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestLimitSpeed_PreservesDirection(t *testing.T) {
	b := Boid{VX: 30, VY: 40}
	LimitSpeed(&b, 2)
	if math.Abs(float64(b.VX-1.2)) > 1e-5 || math.Abs(float64(b.VY-1.6)) > 1e-5 {
		t.Errorf("velocity = (%f, %f), want (1.2, 1.6)", b.VX, b.VY)
	}
}

// ---------- Flock ----------

func TestFlock_SpeedNeverExceedsLimit(t *testing.T) {
	p := defaultFlockParams()
	flock := []Boid{
		{ID: 0, X: 400, Y: 300, VX: 5, VY: 5},
		{ID: 1, X: 401, Y: 300, VX: -5, VY: 4},
		{ID: 2, X: 399, Y: 301, VX: 3, VY: -5},
		{ID: 3, X: 402, Y: 299, VX: -1, VY: -1},
		{ID: 4, X: 398, Y: 302, VX: 4, VY: 0},
	}
	for i := range flock {
		b := flock[i]
		Flock(&b, flock, 800, 600, p)
		if s := Speed(b.VX, b.VY); s > p.SpeedLimit+1e-4 {
			t.Errorf("boid %d speed %f exceeds limit %f", b.ID, s, p.SpeedLimit)
		}
	}
}

func TestHeadingDegrees(t *testing.T) {
	tests := []struct {
		vx, vy float32
		want   float32
	}{
		{1, 0, 0},
		{0, 1, 90},
		{-1, 0, 180},
		{0, -1, -90},
	}
	for _, tt := range tests {
		got := HeadingDegrees(tt.vx, tt.vy)
		if math.Abs(float64(got-tt.want)) > 1e-4 {
			t.Errorf("HeadingDegrees(%v, %v) = %v, want %v", tt.vx, tt.vy, got, tt.want)
		}
	}
}
