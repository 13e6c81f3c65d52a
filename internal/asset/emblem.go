// Package asset loads the emblem image used by emblem obstacles.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/tomz197/runner/internal/draw"
)

// maxImageBytes caps downloaded and read images.
const maxImageBytes = 8 << 20

// alphaThreshold is the minimum alpha (of 0xffff) for a pixel to be set.
const alphaThreshold = 0x8000

// LoadEmblem loads src as a size×size sprite. An empty src, or any failure,
// yields the fallback star.
func LoadEmblem(ctx context.Context, src string, size int) *draw.Sprite {
	if src == "" {
		return Fallback(size)
	}
	s, err := Load(ctx, src, size)
	if err != nil {
		log.Default().WithPrefix("asset").Warn("emblem unavailable, using fallback", "src", src, "err", err)
		return Fallback(size)
	}
	return s
}

// Load reads an image from an http(s) URL or a file path and converts it to a sprite.
func Load(ctx context.Context, src string, size int) (*draw.Sprite, error) {
	r, err := open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Decode(io.LimitReader(r, maxImageBytes), size)
}

func open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open emblem: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch emblem: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch emblem: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch emblem: %s", resp.Status)
	}
	return resp.Body, nil
}

// Decode decodes a PNG, JPEG, GIF or WebP image, scales it to size×size and
// keeps the pixels that are at least half opaque.
func Decode(r io.Reader, size int) (*draw.Sprite, error) {
	if size <= 0 {
		return nil, errors.New("decode emblem: size must be positive")
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode emblem: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	s := draw.NewSprite(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			_, _, _, a := dst.At(x, y).RGBA()
			s.Set(x, y, a >= alphaThreshold)
		}
	}
	if s.Filled() == 0 {
		return nil, fmt.Errorf("decode emblem: %s image is fully transparent", format)
	}
	return s, nil
}

// Fallback renders a five-point star on an offscreen canvas.
func Fallback(size int) *draw.Sprite {
	if size < 2 {
		size = 2
	}
	size += size % 2 // Canvas rows hold two pixels
	c := draw.NewCanvas(size, size/2)

	center := float64(size) / 2
	outer := center - 0.5
	inner := outer * 0.45
	points := c.BorrowPoints(10)
	for i := range points {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		points[i] = draw.Point{X: center + math.Cos(a)*r, Y: center + math.Sin(a)*r}
	}
	c.DrawPolygon(points, true, draw.ColorGold)
	return draw.SpriteFromCanvas(c)
}
