// Package draw renders to ANSI terminals using a half-block sub-pixel canvas.
package draw

import "strconv"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is an index into the terminal palette. ColorNone means "not drawn".
type Color uint8

// Palette entries used by the game.
const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorDarkGray
	ColorRed
	ColorGold
	ColorCyan
	ColorSky
	ColorGreen
	ColorOrange

	colorUnset Color = 255 // Render-internal: no SGR state emitted yet
)

// ansi256 maps palette entries to xterm-256 color codes.
var ansi256 = [...]int{
	ColorNone:     0,
	ColorWhite:    255,
	ColorGray:     245,
	ColorDarkGray: 238,
	ColorRed:      196,
	ColorGold:     220,
	ColorCyan:     51,
	ColorSky:      153,
	ColorGreen:    71,
	ColorOrange:   208,
}

// ANSI escape sequences for text overlays.
const (
	ColorReset      = "\033[0m"
	ColorBrightCyan = "\033[96m"
	ColorBold       = "\033[1m"
)

// sgr returns the escape sequence selecting fg on bg. ColorNone resets the channel.
func sgr(fg, bg Color) string {
	s := "\033[0"
	if fg != ColorNone && int(fg) < len(ansi256) {
		s += ";38;5;" + strconv.Itoa(ansi256[fg])
	}
	if bg != ColorNone && int(bg) < len(ansi256) {
		s += ";48;5;" + strconv.Itoa(ansi256[bg])
	}
	return s + "m"
}

// Sprite is a monochrome bitmap mask.
type Sprite struct {
	Width, Height int
	Mask          []bool // Row-major
}

// NewSprite allocates an empty sprite.
func NewSprite(width, height int) *Sprite {
	return &Sprite{Width: width, Height: height, Mask: make([]bool, width*height)}
}

// At reports whether the pixel at (x, y) is set. Out of range is unset.
func (s *Sprite) At(x, y int) bool {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	return s.Mask[y*s.Width+x]
}

// Set sets the pixel at (x, y).
func (s *Sprite) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return
	}
	s.Mask[y*s.Width+x] = on
}

// Filled returns the number of set pixels.
func (s *Sprite) Filled() int {
	n := 0
	for _, on := range s.Mask {
		if on {
			n++
		}
	}
	return n
}

// SpriteFromCanvas captures the sub-pixels of an offscreen canvas into a sprite.
func SpriteFromCanvas(c *Canvas) *Sprite {
	s := NewSprite(c.termWidth, c.subPixelHeight)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.Mask[y*s.Width+x] = c.Pixel(x, y) != ColorNone
		}
	}
	return s
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
