package object

import (
	"math"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/physics"
)

// ObstacleKind tags the obstacle variant.
type ObstacleKind int

const (
	KindBlock ObstacleKind = iota
	KindEmblem
)

func (k ObstacleKind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindEmblem:
		return "emblem"
	default:
		return "unknown"
	}
}

// Variant holds the variant-specific state of an obstacle.
// Only *Block and *Emblem implement it.
type Variant interface {
	Kind() ObstacleKind
	animate()
}

// Block is a plain pulsing rectangle.
type Block struct {
	Phase float64
}

func (b *Block) Kind() ObstacleKind { return KindBlock }
func (b *Block) animate()           { b.Phase += 0.1 }

// Emblem is a rotating image obstacle.
type Emblem struct {
	Angle float64 // Radians
	Spin  float64 // Radians per tick, sign gives direction
}

func (e *Emblem) Kind() ObstacleKind { return KindEmblem }
func (e *Emblem) animate()           { e.Angle = math.Mod(e.Angle+e.Spin, 2*math.Pi) }

// Obstacle scrolls from right to left and stands on the ground line.
type Obstacle struct {
	X             float64 // Left edge
	Width, Height float64
	Variant       Variant
}

// NewBlock creates a block obstacle with its left edge at x.
func NewBlock(x float64) *Obstacle {
	return &Obstacle{X: x, Width: config.BlockWidth, Height: config.BlockHeight, Variant: &Block{}}
}

// NewEmblem creates an emblem obstacle with its left edge at x.
func NewEmblem(x, spin float64) *Obstacle {
	return &Obstacle{X: x, Width: config.EmblemSize, Height: config.EmblemSize, Variant: &Emblem{Spin: spin}}
}

// Kind returns the variant tag.
func (o *Obstacle) Kind() ObstacleKind {
	return o.Variant.Kind()
}

// Rect returns the hitbox anchored on the ground line, extending upward.
func (o *Obstacle) Rect(groundLine float64) physics.Rect {
	return physics.Rect{X: o.X, Y: groundLine - o.Height, W: o.Width, H: o.Height}
}

// Passed reports whether the right edge has crossed the left viewport edge.
func (o *Obstacle) Passed() bool {
	return o.X+o.Width < 0
}

// Update scrolls the obstacle. Returns true once it has fully left the viewport.
func (o *Obstacle) Update(ctx UpdateContext) (bool, error) {
	o.X -= ctx.Speed
	o.Variant.animate()
	return o.Passed(), nil
}

// Draw renders the obstacle according to its variant.
func (o *Obstacle) Draw(ctx DrawContext) error {
	if o.X > float64(ctx.View.Width) || o.Passed() {
		return nil
	}
	r := o.Rect(ctx.View.GroundLine())
	r.X += ctx.OffsetX
	r.Y += ctx.OffsetY

	switch v := o.Variant.(type) {
	case *Block:
		ctx.Canvas.FillRect(r.X, r.Y, r.W, r.H, draw.ColorRed)
		// Pulsing core
		inset := 8 + 3*math.Sin(v.Phase)
		ctx.Canvas.FillRect(r.X+inset, r.Y+inset, r.W-2*inset, r.H-2*inset, draw.ColorOrange)
	case *Emblem:
		cx, cy := r.X+r.W/2, r.Y+r.H/2
		if ctx.Emblem != nil {
			ctx.Canvas.DrawSprite(ctx.Emblem, cx, cy, r.W, r.H, v.Angle, draw.ColorGold)
		} else {
			ctx.Canvas.FillEllipse(cx, cy, r.W/2, r.H/2, draw.ColorGold)
		}
	}
	return nil
}
