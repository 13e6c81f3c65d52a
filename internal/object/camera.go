package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/physics"
)

// Camera is the vertical view offset plus screen shake.
type Camera struct {
	Offset float64 // Current vertical offset applied to the world layer
	Target float64 // Offset the camera eases toward
	Shake  float64 // Shake magnitude, decays every tick
}

// Update eases Offset toward Target and decays Shake.
func (c *Camera) Update() {
	c.Offset = physics.Approach(c.Offset, c.Target, config.CameraSmoothing)
	if math.Abs(c.Offset-c.Target) < config.CameraSnapThreshold {
		c.Target = 0
	}

	c.Shake *= config.ShakeDecay
	if c.Shake < config.ShakeCutoff {
		c.Shake = 0
	}
}

// StartShake sets the shake magnitude, replacing any shake in progress.
func (c *Camera) StartShake(magnitude float64) {
	c.Shake = magnitude
}

// Kick sets a new target offset.
func (c *Camera) Kick(target float64) {
	c.Target = target
}

// Reset returns the camera to rest.
func (c *Camera) Reset() {
	*c = Camera{}
}

// Roll returns a random horizontal and vertical shake displacement for one frame.
func (c *Camera) Roll(rng *rand.Rand) (dx, dy float64) {
	if c.Shake == 0 || rng == nil {
		return 0, 0
	}
	return (rng.Float64()*2 - 1) * c.Shake, (rng.Float64()*2 - 1) * c.Shake
}
