package object

import (
	"math/rand"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/loop/config"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
// One update is one tick; there is no delta time.
type UpdateContext struct {
	Screen  Screen
	Speed   float64    // Current scroll speed in logical units per tick
	Spawner Spawner    // Receives particles; may be nil
	Rand    *rand.Rand // Session randomness, seedable for tests
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // High-resolution canvas (2x vertical)
	Writer *draw.ChunkWriter // Direct terminal output for text labels
	View   Screen            // Viewport dimensions in logical units

	// World layer offset: camera offset plus this frame's shake roll.
	OffsetX, OffsetY float64

	Emblem *draw.Sprite // Emblem obstacle sprite
}

// Screen represents the logical viewport.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen returns a Screen with centers computed.
func NewScreen(width, height int) Screen {
	return Screen{Width: width, Height: height, CenterX: width / 2, CenterY: height / 2}
}

// GroundLine is the y coordinate of the ground surface: viewport height minus ground height.
func (s Screen) GroundLine() float64 {
	return float64(s.Height) - config.GroundHeight
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update advances the object by one tick. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Writer for text.
	Draw(ctx DrawContext) error
}

// Drawable is implemented by entities that render but do not move on their own.
type Drawable interface {
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// writeLabel writes text centered on the logical point (x, y) and marks the
// covered cells dirty so the canvas repaints them next frame.
func writeLabel(ctx DrawContext, x, y float64, text, style string) {
	if ctx.Writer == nil || ctx.Canvas == nil || text == "" {
		return
	}
	col, row := ctx.Canvas.LogicalToTerminal(x, y)
	n := len([]rune(text))
	col -= n / 2
	if row < 1 || row > ctx.Canvas.TerminalHeight() {
		return
	}
	// Clip to the canvas horizontally
	runes := []rune(text)
	if col < 1 {
		if 1-col >= len(runes) {
			return
		}
		runes = runes[1-col:]
		col = 1
	}
	if over := col + len(runes) - 1 - ctx.Canvas.TerminalWidth(); over > 0 {
		if over >= len(runes) {
			return
		}
		runes = runes[:len(runes)-over]
	}
	ctx.Writer.WriteAt(col, row, style+string(runes)+draw.ColorReset)
	ctx.Canvas.MarkTextDirty(col, row, len(runes))
}
