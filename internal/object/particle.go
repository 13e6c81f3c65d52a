package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/loop/config"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y     float64 // Position
	VX, VY   float64 // Velocity per tick
	Life     int     // Ticks remaining
	MaxLife  int     // Initial lifetime (for fade calculation)
	Drag     float64 // Velocity decay per tick (1.0 = no drag)
	Gravity  float64 // Added to VY each tick
	Length   float64 // Drawn as a horizontal streak when > 0
	Color    draw.Color
	Fade     bool // Whether to disappear early in its lifetime
	Screened bool // Drawn in screen space, ignoring the camera
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy float64, life int, color draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:       x,
		Y:       y,
		VX:      vx,
		VY:      vy,
		Life:    life,
		MaxLife: life,
		Drag:    0.95,
		Color:   color,
		Fade:    true,
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnBurst creates particles in a circular burst pattern.
func SpawnBurst(x, y float64, count int, speed float64, life int, rng *rand.Rand, spawner Spawner) {
	if spawner == nil || rng == nil {
		return
	}

	colors := []draw.Color{draw.ColorRed, draw.ColorOrange, draw.ColorGold, draw.ColorWhite}

	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())
		// Lifetime variation (50% to 100%)
		l := int(float64(life) * (0.5 + rng.Float64()*0.5))

		p := NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, l, colors[rng.Intn(len(colors))])
		p.Gravity = config.Gravity * 0.25
		spawner.Spawn(p)
	}
}

// SpawnDust kicks up a few particles where the player lands.
func SpawnDust(x, groundLine float64, rng *rand.Rand, spawner Spawner) {
	if spawner == nil || rng == nil {
		return
	}

	count := 3 + rng.Intn(3)
	for i := 0; i < count; i++ {
		vx := (rng.Float64()*2 - 1) * 3
		vy := -1 - rng.Float64()*2
		p := NewParticle(x+vx*4, groundLine-2, vx, vy, 10+rng.Intn(10), draw.ColorGray)
		p.Drag = 0.85
		spawner.Spawn(p)
	}
}

// SpawnSpeedLine adds a horizontal streak whose chance and length grow with speed.
func SpawnSpeedLine(view Screen, speed float64, rng *rand.Rand, spawner Spawner) {
	if spawner == nil || rng == nil {
		return
	}

	excess := speed - config.BaseSpeed
	if excess <= 0 || rng.Float64() > config.SpeedLineChance*excess/config.BaseSpeed {
		return
	}

	y := rng.Float64() * view.GroundLine()
	p := NewParticle(float64(view.Width), y, -speed*2, 0, 30, draw.ColorDarkGray)
	p.Drag = 1
	p.Length = 20 + excess*8
	p.Fade = false
	p.Screened = true
	spawner.Spawn(p)
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(_ UpdateContext) (bool, error) {
	p.Life--
	if p.Life <= 0 {
		return true, nil
	}

	p.VX *= p.Drag
	p.VY = p.VY*p.Drag + p.Gravity
	p.X += p.VX
	p.Y += p.VY

	// Streaks that left the viewport are done
	if p.Length > 0 && p.X+p.Length < 0 {
		return true, nil
	}
	return false, nil
}

// Draw renders the particle as a pixel, or a streak, on the canvas.
func (p *Particle) Draw(ctx DrawContext) error {
	// Skip faded particles (< 25% lifetime)
	if p.Fade && p.MaxLife > 0 && float64(p.Life)/float64(p.MaxLife) < 0.25 {
		return nil
	}

	x, y := p.X, p.Y
	if !p.Screened {
		x += ctx.OffsetX
		y += ctx.OffsetY
	}

	if p.Length > 0 {
		ctx.Canvas.DrawLine(draw.Point{X: x, Y: y}, draw.Point{X: x + p.Length, Y: y}, p.Color)
		return nil
	}
	ctx.Canvas.FillRect(x-2, y-2, 4, 4, p.Color)
	return nil
}
