package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestFillRectScalesLogicalCoordinates(t *testing.T) {
	// 10 columns x 5 rows = 10x10 sub-pixels covering a 100x100 logical space
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(20, 30, 20, 20, ColorRed)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := x >= 2 && x < 4 && y >= 3 && y < 5
			got := c.Pixel(x, y) == ColorRed
			if got != want {
				t.Fatalf("pixel (%d,%d) set=%v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillRectClipsToCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(-10, -10, 100, 100, ColorWhite)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c.Pixel(x, y) != ColorWhite {
				t.Fatalf("pixel (%d,%d) not filled", x, y)
			}
		}
	}
}

func TestFillEllipseIsSymmetric(t *testing.T) {
	c := NewCanvas(20, 10)
	c.FillEllipse(10, 10, 6, 4, ColorGold)
	if c.Pixel(10, 10) != ColorGold {
		t.Fatal("ellipse center not filled")
	}
	if c.Pixel(0, 0) != ColorNone {
		t.Fatal("corner must stay empty")
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			if c.Pixel(x, y) != c.Pixel(19-x, y) {
				t.Fatalf("asymmetry at (%d,%d)", x, y)
			}
		}
	}
}

func TestRenderEmitsOnlyChangedCells(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(0, 0, 1, 2, ColorWhite) // one full block at column 1, row 1

	var first bytes.Buffer
	c.Render(&first)
	if !strings.ContainsRune(first.String(), BlockFull) {
		t.Fatalf("first render missing full block: %q", first.String())
	}

	var second bytes.Buffer
	c.Render(&second)
	if second.Len() != 0 {
		t.Fatalf("unchanged frame should render nothing, got %q", second.String())
	}

	c.MarkTextDirty(1, 1, 1)
	var third bytes.Buffer
	c.Render(&third)
	if !strings.ContainsRune(third.String(), BlockFull) {
		t.Fatalf("dirty cell not repainted: %q", third.String())
	}
}

func TestComposeCell(t *testing.T) {
	tests := []struct {
		top, bottom Color
		want        cell
	}{
		{ColorNone, ColorNone, cell{ch: ' '}},
		{ColorRed, ColorNone, cell{ch: BlockUpperHalf, fg: ColorRed}},
		{ColorNone, ColorRed, cell{ch: BlockLowerHalf, fg: ColorRed}},
		{ColorRed, ColorRed, cell{ch: BlockFull, fg: ColorRed}},
		{ColorRed, ColorGray, cell{ch: BlockUpperHalf, fg: ColorRed, bg: ColorGray}},
	}
	for _, tt := range tests {
		if got := composeCell(tt.top, tt.bottom); got != tt.want {
			t.Errorf("composeCell(%d, %d) = %+v, want %+v", tt.top, tt.bottom, got, tt.want)
		}
	}
}

func TestDrawSpriteUnrotated(t *testing.T) {
	s := NewSprite(2, 2)
	s.Set(0, 0, true)
	s.Set(1, 1, true)

	c := NewCanvas(4, 2) // 4x4 sub-pixels, 1:1
	c.DrawSprite(s, 2, 2, 4, 4, 0, ColorCyan)

	if c.Pixel(0, 0) != ColorCyan || c.Pixel(3, 3) != ColorCyan {
		t.Fatal("expected diagonal quadrants to be filled")
	}
	if c.Pixel(3, 0) != ColorNone || c.Pixel(0, 3) != ColorNone {
		t.Fatal("expected off-diagonal quadrants to stay empty")
	}
}

func TestSpriteFromCanvas(t *testing.T) {
	c := NewCanvas(3, 2)
	c.FillRect(1, 1, 1, 2, ColorWhite)
	s := SpriteFromCanvas(c)
	if s.Width != 3 || s.Height != 4 {
		t.Fatalf("sprite size = %dx%d, want 3x4", s.Width, s.Height)
	}
	if s.Filled() != 2 || !s.At(1, 1) || !s.At(1, 2) {
		t.Fatalf("unexpected sprite mask %v", s.Mask)
	}
}
