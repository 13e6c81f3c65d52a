package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// ChunkWriter collects the text layer of a frame (HUD, panels, labels) and
// sends it in network-sized chunks on Flush. Positions are canvas cells; the
// origin shifts them to where the canvas sits in the terminal.
type ChunkWriter struct {
	pending strings.Builder
	out     *bufio.Writer
	scratch [20]byte
	originX int
	originY int
}

// NewChunkWriter returns a writer to w with the canvas placed at
// (originX, originY) in the terminal.
func NewChunkWriter(w io.Writer, originX, originY int) *ChunkWriter {
	return &ChunkWriter{
		out:     bufio.NewWriterSize(w, 8192),
		originX: originX,
		originY: originY,
	}
}

// SetOffset moves the canvas origin, after a resize.
func (cw *ChunkWriter) SetOffset(originX, originY int) {
	cw.originX = originX
	cw.originY = originY
}

// Write queues raw bytes. Canvas.Render writes through it.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.pending.Write(p)
}

// WriteAt queues s at the 1-based canvas cell (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.pending.WriteString("\033[")
	cw.pending.Write(strconv.AppendInt(cw.scratch[:0], int64(row+cw.originY), 10))
	cw.pending.WriteByte(';')
	cw.pending.Write(strconv.AppendInt(cw.scratch[:0], int64(col+cw.originX), 10))
	cw.pending.WriteByte('H')
	cw.pending.WriteString(s)
}

// WriteBlock writes a multi-line (possibly styled) block with its top-left
// corner at (col, row). Returns the block's visible width and height.
func (cw *ChunkWriter) WriteBlock(col, row int, block string) (width, height int) {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		cw.WriteAt(col, row+i, line)
	}
	cw.pending.WriteString(ColorReset)
	return lipgloss.Width(block), len(lines)
}

// ClearScreen queues a full terminal clear ahead of the rest of the frame.
func (cw *ChunkWriter) ClearScreen() {
	cw.pending.WriteString(seqClear)
}

// Len returns the number of bytes waiting to be flushed.
func (cw *ChunkWriter) Len() int {
	return cw.pending.Len()
}

// Flush sends everything queued, at most maxChunkSize bytes per write.
func (cw *ChunkWriter) Flush() error {
	data := cw.pending.String()
	cw.pending.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

var _ io.Writer = (*ChunkWriter)(nil)

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// StdoutSize is the TermSizeFunc of the local terminal.
func StdoutSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { io.WriteString(w, seqClear) }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { io.WriteString(w, seqHideCursor) }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { io.WriteString(w, seqShowCursor) }
