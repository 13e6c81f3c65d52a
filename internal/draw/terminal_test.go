package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestChunkWriterAppliesOrigin(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "\033[3;4Hhi" {
		t.Fatalf("output = %q", got)
	}

	out.Reset()
	cw.SetOffset(0, 0)
	cw.WriteAt(5, 7, "x")
	cw.Flush()
	if got := out.String(); got != "\033[7;5Hx" {
		t.Fatalf("after SetOffset output = %q", got)
	}
}

func TestChunkWriterBlock(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	w, h := cw.WriteBlock(10, 4, "ab\ncde")
	if w != 3 || h != 2 {
		t.Fatalf("size = %dx%d, want 3x2", w, h)
	}
	cw.Flush()
	if got := out.String(); got != "\033[4;10Hab\033[5;10Hcde"+ColorReset {
		t.Fatalf("output = %q", got)
	}
	if cw.Len() != 0 {
		t.Fatal("flush left bytes pending")
	}
}

func TestChunkWriterFlushesLargeFrames(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.ClearScreen()
	body := strings.Repeat("#", 3*maxChunkSize+17)
	cw.Write([]byte(body))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != seqClear+body {
		t.Fatalf("flushed %d bytes, want %d", len(got), len(seqClear)+len(body))
	}
}
