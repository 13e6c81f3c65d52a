package object

import (
	"math"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/physics"
)

// Player is the jumping runner. X is fixed; only the vertical axis moves.
type Player struct {
	X, Y          float64 // Top-left corner
	VY            float64 // Vertical velocity, positive is down
	Width, Height float64
	Jumping       bool
	BobPhase      float64 // Running bob animation phase
}

// NewPlayer creates a player standing on the given ground line.
func NewPlayer(groundLine float64) *Player {
	p := &Player{}
	p.Reset(groundLine)
	return p
}

// Reset puts the player back on the ground line at rest.
func (p *Player) Reset(groundLine float64) {
	*p = Player{
		X:      config.PlayerX,
		Y:      groundLine - config.PlayerHeight,
		Width:  config.PlayerWidth,
		Height: config.PlayerHeight,
	}
}

// Jump applies the jump impulse. Returns false if the player is already airborne.
func (p *Player) Jump() bool {
	if p.Jumping {
		return false
	}
	p.VY = config.JumpImpulse
	p.Jumping = true
	return true
}

// Rect returns the player's hitbox.
func (p *Player) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// Update integrates gravity and clamps to the ground. Landing kicks up dust.
func (p *Player) Update(ctx UpdateContext) (bool, error) {
	p.Y, p.VY = physics.Integrate(p.Y, p.VY, config.Gravity)

	groundY := ctx.Screen.GroundLine() - p.Height
	wasJumping := p.Jumping
	var grounded bool
	p.Y, p.VY, grounded = physics.GroundClamp(p.Y, p.VY, groundY)
	if grounded {
		p.Jumping = false
		if wasJumping {
			SpawnDust(p.X+p.Width/2, ctx.Screen.GroundLine(), ctx.Rand, ctx.Spawner)
		}
		p.BobPhase += config.BobSpeed
	}

	return false, nil
}

// Draw renders the player as a square that bobs while running.
func (p *Player) Draw(ctx DrawContext) error {
	bob := 0.0
	if !p.Jumping {
		bob = math.Sin(p.BobPhase) * config.BobAmplitude
	}
	x := p.X + ctx.OffsetX
	y := p.Y + ctx.OffsetY + bob

	ctx.Canvas.FillRect(x, y, p.Width, p.Height, draw.ColorCyan)
	// Eye, facing the direction of travel
	ctx.Canvas.FillRect(x+p.Width*0.6, y+p.Height*0.2, p.Width*0.2, p.Height*0.2, draw.ColorWhite)
	return nil
}
