package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/paperflock/systems"
)

func TestToneIsFiniteAndBounded(t *testing.T) {
	rate := beep.SampleRate(44100)

	for _, kind := range []systems.PortalKind{systems.PortalBorder, systems.PortalPoint} {
		tone, err := Tone(kind, rate)
		if err != nil {
			t.Fatalf("Tone(%s): %v", kind, err)
		}

		buf := make([][2]float64, 512)
		total := 0
		for {
			n, ok := tone.Stream(buf)
			for i := 0; i < n; i++ {
				if buf[i][0] < -1 || buf[i][0] > 1 {
					t.Fatalf("%s sample %d out of range: %f", kind, total+i, buf[i][0])
				}
			}
			total += n
			if !ok || n == 0 {
				break
			}
			if total > rate.N(time.Second) {
				t.Fatalf("%s tone did not end", kind)
			}
		}
		if want := rate.N(toneDuration); total != want {
			t.Errorf("%s tone length = %d samples, want %d", kind, total, want)
		}
	}
}

func TestToneStartsSilent(t *testing.T) {
	tone, err := Tone(systems.PortalBorder, beep.SampleRate(44100))
	if err != nil {
		t.Fatal(err)
	}
	buf := make([][2]float64, 1)
	tone.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0 under the attack ramp", buf[0][0])
	}
}

func TestChimeThrottle(t *testing.T) {
	c := NewChime()
	clock := time.Unix(1000, 0)
	c.now = func() time.Time { return clock }

	if !c.allow() {
		t.Fatal("first chime should play")
	}
	clock = clock.Add(MinInterval / 2)
	if c.allow() {
		t.Error("chime inside MinInterval should be dropped")
	}
	clock = clock.Add(MinInterval)
	if !c.allow() {
		t.Error("chime after MinInterval should play")
	}
}

func TestChimeUninitializedIsSilent(t *testing.T) {
	c := NewChime()
	// Must not touch the speaker
	c.Teleported(systems.PortalPoint)
	c.Close()
}
