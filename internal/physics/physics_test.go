package physics

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestIntegrateAccumulatesGravity(t *testing.T) {
	y, vy := 100.0, -15.0
	const gravity = 0.8
	for n := 1; n <= 20; n++ {
		y, vy = Integrate(y, vy, gravity)
		want := -15.0 + float64(n)*gravity
		if math.Abs(vy-want) > eps {
			t.Fatalf("vy after %d ticks = %f, want %f", n, vy, want)
		}
	}
}

func TestIntegrateMovesByNewVelocity(t *testing.T) {
	y, vy := Integrate(10, 0, 0.8)
	if math.Abs(vy-0.8) > eps || math.Abs(y-10.8) > eps {
		t.Fatalf("got y=%f vy=%f, want y=10.8 vy=0.8", y, vy)
	}
}

func TestGroundClamp(t *testing.T) {
	const groundY = 400.0
	tests := []struct {
		name     string
		y, vy    float64
		wantY    float64
		wantVY   float64
		grounded bool
	}{
		{"above ground keeps state", 300, 5, 300, 5, false},
		{"exactly on ground", 400, 3, 400, 0, true},
		{"below ground fast", 437.5, 22, 400, 0, true},
		{"below ground moving up", 410, -2, 400, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, vy, grounded := GroundClamp(tt.y, tt.vy, groundY)
			if y != tt.wantY || vy != tt.wantVY || grounded != tt.grounded {
				t.Fatalf("GroundClamp(%f, %f) = (%f, %f, %v), want (%f, %f, %v)",
					tt.y, tt.vy, y, vy, grounded, tt.wantY, tt.wantVY, tt.grounded)
			}
		})
	}
}

func TestOverlapsWithMarginBoundaries(t *testing.T) {
	const margin = 5.0
	obstacle := Rect{X: 200, Y: 340, W: 40, H: 60}

	tests := []struct {
		name   string
		player Rect
		want   bool
	}{
		// player right edge touches obstacle left edge + margin
		{"touch left", Rect{X: 205 - 40, Y: 360, W: 40, H: 40}, false},
		{"penetrate left by 1", Rect{X: 206 - 40, Y: 360, W: 40, H: 40}, true},
		// player left edge touches obstacle right edge - margin
		{"touch right", Rect{X: 235, Y: 360, W: 40, H: 40}, false},
		{"penetrate right by 1", Rect{X: 234, Y: 360, W: 40, H: 40}, true},
		// player bottom touches obstacle top + margin
		{"touch top", Rect{X: 200, Y: 345 - 40, W: 40, H: 40}, false},
		{"penetrate top by 1", Rect{X: 200, Y: 346 - 40, W: 40, H: 40}, true},
		{"far away", Rect{X: 0, Y: 0, W: 40, H: 40}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverlapsWithMargin(tt.player, obstacle, margin); got != tt.want {
				t.Fatalf("OverlapsWithMargin(%+v) = %v, want %v", tt.player, got, tt.want)
			}
		})
	}
}

func TestOverlapsWithoutMargin(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	if OverlapsWithMargin(a, Rect{X: 10, Y: 0, W: 10, H: 10}, 0) {
		t.Fatal("edge-touching rectangles must not overlap")
	}
	if !OverlapsWithMargin(a, Rect{X: 9, Y: 9, W: 10, H: 10}, 0) {
		t.Fatal("1-unit penetration must overlap")
	}
}

func TestSpeedForScore(t *testing.T) {
	if got := SpeedForScore(0, 6, 0.6); got != 6 {
		t.Fatalf("speed(0) = %f, want 6", got)
	}
	if got, want := SpeedForScore(10, 6, 0.6), 6+math.Pow(10, 0.6); math.Abs(got-want) > eps {
		t.Fatalf("speed(10) = %f, want %f", got, want)
	}
	prev := SpeedForScore(0, 6, 0.6)
	for s := 1; s <= 2000; s++ {
		cur := SpeedForScore(s, 6, 0.6)
		if cur < prev {
			t.Fatalf("speed not monotonic at score %d: %f < %f", s, cur, prev)
		}
		prev = cur
	}
}

func TestApproach(t *testing.T) {
	if got := Approach(0, 10, 0.15); math.Abs(got-1.5) > eps {
		t.Fatalf("Approach = %f, want 1.5", got)
	}
}
