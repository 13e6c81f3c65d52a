package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/runner/internal/loop/config"
)

// ObstacleSpawner paces obstacles with a distance countdown that shrinks with score.
type ObstacleSpawner struct {
	distanceToNext float64
	rng            *rand.Rand
}

// NewObstacleSpawner creates a spawner drawing randomness from rng.
func NewObstacleSpawner(rng *rand.Rand) *ObstacleSpawner {
	return &ObstacleSpawner{
		distanceToNext: config.InitialSpawnDistance,
		rng:            rng,
	}
}

// Reset restores the initial countdown.
func (s *ObstacleSpawner) Reset() {
	s.distanceToNext = config.InitialSpawnDistance
}

// DistanceToNext returns the remaining countdown.
func (s *ObstacleSpawner) DistanceToNext() float64 {
	return s.distanceToNext
}

// Hold sets the countdown directly (e.g. to keep the field empty).
func (s *ObstacleSpawner) Hold(distance float64) {
	s.distanceToNext = distance
}

// Update advances the countdown by speed. When it runs out, one obstacle is
// created at spawnX and the next gap is rolled. Returns nil when nothing spawned.
func (s *ObstacleSpawner) Update(score int, speed, spawnX float64) *Obstacle {
	s.distanceToNext -= speed
	if s.distanceToNext > 0 {
		return nil
	}

	var o *Obstacle
	if s.rng.Intn(2) == 0 {
		o = NewBlock(spawnX)
	} else {
		spin := config.EmblemSpinSpeed * (0.5 + s.rng.Float64())
		if s.rng.Intn(2) == 0 {
			spin = -spin
		}
		o = NewEmblem(spawnX, spin)
	}

	s.distanceToNext = s.NextGap(score)
	return o
}

// NextGap rolls the distance to the following obstacle.
func (s *ObstacleSpawner) NextGap(score int) float64 {
	gap := uniform(s.rng, config.SpawnGapMin, config.SpawnGapMax) * DifficultyFactor(score)
	if s.rng.Float64() < config.SpawnPauseChance {
		gap += uniform(s.rng, config.SpawnPauseMin, config.SpawnPauseMax)
	}
	return gap
}

// DifficultyFactor scales spawn gaps: 1 − score/100, never below 0.5.
func DifficultyFactor(score int) float64 {
	return math.Max(config.SpawnDifficultyFloor, 1-float64(score)/config.SpawnDifficultyScale)
}

// MinGap is the smallest gap NextGap can return for score, before any pause bonus.
func MinGap(score int) float64 {
	return config.SpawnGapMin * DifficultyFactor(score)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
