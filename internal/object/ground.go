package object

import (
	"math"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/loop/config"
)

// Ground is the scrolling floor.
type Ground struct {
	Scroll float64 // Parallax offset in [0, ParallaxSpacing)
}

// Update scrolls the ground by the current speed.
func (g *Ground) Update(ctx UpdateContext) (bool, error) {
	g.Scroll = math.Mod(g.Scroll+ctx.Speed, config.ParallaxSpacing)
	return false, nil
}

// Draw renders the surface line, the fill below it and the scrolling hatch marks.
func (g *Ground) Draw(ctx DrawContext) error {
	line := ctx.View.GroundLine() + ctx.OffsetY
	w := float64(ctx.View.Width)

	ctx.Canvas.FillRect(ctx.OffsetX-20, line, w+40, config.GroundHeight+40, draw.ColorDarkGray)
	ctx.Canvas.FillRect(ctx.OffsetX-20, line, w+40, 4, draw.ColorGreen)

	for x := -g.Scroll; x < w+config.ParallaxSpacing; x += config.ParallaxSpacing {
		top := draw.Point{X: x + ctx.OffsetX, Y: line + 16}
		bottom := draw.Point{X: x + ctx.OffsetX - 20, Y: line + 40}
		ctx.Canvas.DrawLine(top, bottom, draw.ColorGray)
	}
	return nil
}
