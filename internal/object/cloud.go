package object

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/leaderboard"
)

// Cloud is a background decoration drifting left and wrapping around the viewport.
type Cloud struct {
	X, Y          float64 // Center
	Width, Height float64
	Speed         float64 // Drift per tick

	rng *rand.Rand
}

// NewClouds scatters n clouds over the sky using rng.
func NewClouds(n int, view Screen, rng *rand.Rand) []*Cloud {
	clouds := make([]*Cloud, 0, n)
	for i := 0; i < n; i++ {
		c := &Cloud{rng: rng}
		c.place(view)
		c.X = rng.Float64() * float64(view.Width)
		clouds = append(clouds, c)
	}
	return clouds
}

// place rolls a new size, height and speed and parks the cloud just past the right edge.
func (c *Cloud) place(view Screen) {
	c.Width = 60 + c.rng.Float64()*80
	c.Height = c.Width * (0.35 + c.rng.Float64()*0.15)
	c.Y = 30 + c.rng.Float64()*view.GroundLine()*0.45
	c.Speed = 0.3 + c.rng.Float64()*0.7
	c.X = float64(view.Width) + c.Width/2 + c.rng.Float64()*100
}

// Update drifts the cloud and wraps it once it leaves the left edge.
func (c *Cloud) Update(ctx UpdateContext) (bool, error) {
	c.X -= c.Speed
	if c.X+c.Width/2 < 0 {
		c.place(ctx.Screen)
	}
	return false, nil
}

// Draw renders the cloud as three overlapping puffs.
func (c *Cloud) Draw(ctx DrawContext) error {
	drawPuffs(ctx, c.X, c.Y+ctx.OffsetY*0.3, c.Width, c.Height, draw.ColorGray)
	return nil
}

func drawPuffs(ctx DrawContext, cx, cy, w, h float64, color draw.Color) {
	ctx.Canvas.FillEllipse(cx, cy, w/2, h/2, color)
	ctx.Canvas.FillEllipse(cx-w/4, cy+h/6, w/3, h/3, color)
	ctx.Canvas.FillEllipse(cx+w/4, cy+h/6, w/3, h/3, color)
}

// ChampionCloud is a cloud carrying a past monthly winner.
type ChampionCloud struct {
	Cloud

	Name  string
	Score int
	Rank  int // 1 is the most recent champion
	Month string

	GlowPhase  float64
	PulsePhase float64
}

// NewChampionClouds builds at most limit clouds from hall-of-fame entries,
// spread across the upper sky. Entries are expected most recent first.
func NewChampionClouds(entries []leaderboard.HallOfFameEntry, limit int, view Screen, rng *rand.Rand) []*ChampionCloud {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	clouds := make([]*ChampionCloud, 0, len(entries))
	spacing := float64(view.Width) / float64(max(len(entries), 1))
	for i, e := range entries {
		c := &ChampionCloud{
			Cloud:      Cloud{rng: rng},
			Name:       e.Name,
			Score:      e.Score,
			Rank:       i + 1,
			Month:      e.Month,
			GlowPhase:  rng.Float64() * 2 * math.Pi,
			PulsePhase: rng.Float64() * 2 * math.Pi,
		}
		c.place(view)
		c.Width, c.Height = 120, 50
		c.Speed = 0.25 + 0.05*float64(i)
		c.X = spacing*float64(i) + spacing/2
		c.Y = 50 + float64(i%2)*60
		clouds = append(clouds, c)
	}
	return clouds
}

// Update drifts the cloud and advances the glow animation.
func (c *ChampionCloud) Update(ctx UpdateContext) (bool, error) {
	c.GlowPhase += 0.05
	c.PulsePhase += 0.03
	c.X -= c.Speed
	if c.X+c.Width/2 < 0 {
		c.X = float64(ctx.Screen.Width) + c.Width/2
	}
	return false, nil
}

// shape returns the pulsing cloud's center y, size and glow radius.
func (c *ChampionCloud) shape(ctx DrawContext) (y, w, h, glow float64) {
	y = c.Y + ctx.OffsetY*0.3
	pulse := 1 + 0.05*math.Sin(c.PulsePhase)
	glow = 6 + 3*math.Sin(c.GlowPhase)
	return y, c.Width * pulse, c.Height * pulse, glow
}

// Draw renders a glowing cloud. The name and score are text and go on top of
// the rendered canvas, see DrawLabels.
func (c *ChampionCloud) Draw(ctx DrawContext) error {
	y, w, h, glow := c.shape(ctx)
	ctx.Canvas.StrokeEllipse(c.X, y, w/2+glow, h/2+glow, draw.ColorGold)
	drawPuffs(ctx, c.X, y, w, h, draw.ColorWhite)
	return nil
}

// DrawLabels writes the champion's name above the cloud and score and month below.
func (c *ChampionCloud) DrawLabels(ctx DrawContext) {
	y, _, h, glow := c.shape(ctx)
	writeLabel(ctx, c.X, y-h/2-glow-8, c.Name, draw.ColorBold+"\033[33m")
	writeLabel(ctx, c.X, y+h/2+glow+8, fmt.Sprintf("%d · %s", c.Score, c.Month), "\033[93m")
}
