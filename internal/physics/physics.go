// Package physics provides per-tick kinematics, collision detection and the
// difficulty curve.
package physics

import "math"

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Integrate advances a vertical body by one tick: velocity first, then position.
func Integrate(y, vy, gravity float64) (float64, float64) {
	vy += gravity
	y += vy
	return y, vy
}

// GroundClamp clamps y to groundY when the body reached or passed it.
// Returns the clamped position, the new velocity, and whether the body is grounded.
func GroundClamp(y, vy, groundY float64) (float64, float64, bool) {
	if y >= groundY {
		return groundY, 0, true
	}
	return y, vy, false
}

// OverlapsWithMargin reports whether a intersects b after shrinking b inward
// by margin on every side. Touching edges do not count.
func OverlapsWithMargin(a, b Rect, margin float64) bool {
	return a.X < b.X+b.W-margin &&
		a.X+a.W > b.X+margin &&
		a.Y < b.Y+b.H-margin &&
		a.Y+a.H > b.Y+margin
}

// SpeedForScore returns base + score^exponent.
func SpeedForScore(score int, base, exponent float64) float64 {
	if score <= 0 {
		return base
	}
	return base + math.Pow(float64(score), exponent)
}

// Approach moves current toward target by factor (exponential smoothing).
func Approach(current, target, factor float64) float64 {
	return current + (target-current)*factor
}
