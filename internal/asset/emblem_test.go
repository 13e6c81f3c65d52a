package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// halfPNG returns a PNG with an opaque left half and a transparent right half.
func halfPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeThresholdsAlpha(t *testing.T) {
	s, err := Decode(bytes.NewReader(halfPNG(t, 64, 64)), 16)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Width != 16 || s.Height != 16 {
		t.Fatalf("size = %dx%d", s.Width, s.Height)
	}
	if !s.At(2, 8) {
		t.Fatal("opaque half should be set")
	}
	if s.At(13, 8) {
		t.Fatal("transparent half should be clear")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not an image")), 16); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeRejectsTransparent(t *testing.T) {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	if _, err := Decode(&buf, 8); err == nil {
		t.Fatal("expected error for fully transparent image")
	}
}

func TestLoadFromFileAndURL(t *testing.T) {
	data := halfPNG(t, 32, 32)

	path := filepath.Join(t.TempDir(), "emblem.png")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), path, 10); err != nil {
		t.Fatalf("Load file: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emblem.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	if _, err := Load(context.Background(), srv.URL+"/emblem.png", 10); err != nil {
		t.Fatalf("Load url: %v", err)
	}
	if _, err := Load(context.Background(), srv.URL+"/missing.png", 10); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestLoadEmblemFallsBack(t *testing.T) {
	s := LoadEmblem(context.Background(), filepath.Join(t.TempDir(), "nope.png"), 20)
	if s == nil || s.Filled() == 0 {
		t.Fatal("fallback sprite should not be empty")
	}
	if s.Width != 20 || s.Height != 20 {
		t.Fatalf("fallback size = %dx%d", s.Width, s.Height)
	}
}

func TestFallbackIsAStar(t *testing.T) {
	s := Fallback(40)
	if !s.At(20, 20) {
		t.Fatal("star center should be filled")
	}
	if s.At(0, 0) || s.At(39, 0) {
		t.Fatal("corners should be empty")
	}
	// Top point is on the vertical axis
	if !s.At(20, 4) {
		t.Fatal("top spike missing")
	}
	if frac := float64(s.Filled()) / float64(40*40); frac < 0.15 || frac > 0.5 {
		t.Fatalf("fill fraction %f not star-like", frac)
	}
}
