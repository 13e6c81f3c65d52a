// Package config centralizes all tunable game parameters.
package config

import "time"

// View resolution - the visible viewport in logical units.
// The logical width follows the terminal aspect ratio; the height is fixed.
// Actual rendering scales to fit terminal size.
const (
	ViewHeight       = 540 // Logical viewport height
	DefaultViewWidth = 960 // Used until the first terminal size is known
	MinViewWidth     = 480
	MaxViewWidth     = 2400
)

// Max render resolution in terminal cells. Larger terminals get a centered
// render area with a border.
const (
	MaxTermWidth  = 220
	MaxTermHeight = 70
)

// Player
const (
	PlayerX      = 100.0
	PlayerWidth  = 40.0
	PlayerHeight = 40.0
	GroundHeight = 100.0
	BobSpeed     = 0.3 // Radians per tick while running
	BobAmplitude = 2.0
)

// Physics (per tick)
const (
	Gravity     = 0.8
	JumpImpulse = -15.0
)

// Difficulty: speed = BaseSpeed + score^SpeedExponent
const (
	BaseSpeed     = 6.0
	SpeedExponent = 0.6
)

// Collision
const (
	CollisionMargin = 5.0 // Inward margin on obstacle hitboxes
	CollisionShake  = 14.0
	BurstParticles  = 24
	BurstSpeed      = 5.0
	BurstLifetime   = 40 // Ticks
)

// Game over
const (
	// Terminals report no key release. Jump events closer together than this
	// belong to one held key, which must be let go before it can restart.
	KeyRepeatGapTicks = 32
)

// Obstacles
const (
	BlockWidth      = 40.0
	BlockHeight     = 60.0
	EmblemSize      = 50.0
	EmblemSpinSpeed = 0.08 // Radians per tick
	EmblemMaskSize  = 64   // Resolution of the emblem sprite mask
)

// Spawning
const (
	SpawnGapMin          = 350.0
	SpawnGapMax          = 1000.0
	SpawnDifficultyScale = 100.0 // Score at which the gap factor reaches its floor
	SpawnDifficultyFloor = 0.5
	SpawnPauseChance     = 0.2
	SpawnPauseMin        = 50.0
	SpawnPauseMax        = 300.0
	InitialSpawnDistance = 600.0
)

// Camera
const (
	CameraSmoothing     = 0.15
	CameraSnapThreshold = 0.5
	ShakeDecay          = 0.8
	ShakeCutoff         = 0.1
	JumpCameraLift      = 12.0
)

// Decoration
const (
	CloudCount       = 6
	ChampionCloudMax = 4
	ParallaxSpacing  = 60.0 // Distance between ground hatch marks
	SpeedLineChance  = 0.15 // Per tick, scaled by speed above base
)

// Leaderboard
const (
	LeaderboardTimeout = 3 * time.Second
	TopScoresLimit     = 5
	HallOfFameLimit    = 6
	MaxNameLength      = 16
	DefaultPlayerName  = "Player"
	PlayerNameKey      = "playerName"
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Leaderboard dispatcher
const (
	DispatchWorkers    = 4
	DispatchQueueSize  = 256
	CrownCheckInterval = time.Hour
)
