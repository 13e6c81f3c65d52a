// Package input turns a raw terminal byte stream into key events.
package input

import (
	"bufio"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a key event.
type Kind int

const (
	KeyRune      Kind = iota // Printable character, see Event.Rune
	KeyJump                  // Up arrow
	KeyConfirm               // Enter
	KeyBackspace             // Backspace or Delete
	KeyEscape                // Lone escape
	KeyQuit                  // Ctrl-C or Ctrl-D
)

// Event is a single key press. Events are edge-triggered: holding a key
// produces whatever repeats the terminal sends.
type Event struct {
	Kind Kind
	Rune rune
}

// Input is everything read since the previous frame.
type Input struct {
	Events []Event
	Closed bool // The underlying reader ended
}

// Any reports whether at least one key was pressed.
func (in Input) Any() bool {
	return len(in.Events) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete escape or UTF-8 sequence from the last read
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them into events.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	events, rest := Parse(buf)
	if !s.closed {
		s.pending = rest
	}
	return Input{Events: events, Closed: s.closed}
}

// Parse converts bytes to events. Returns any trailing bytes that may be the
// start of an incomplete sequence.
func Parse(buf []byte) (events []Event, rest []byte) {
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == '\x1b':
			if i+1 == len(buf) {
				// Could be a lone escape or the start of a sequence
				if len(buf) == 1 {
					events = append(events, Event{Kind: KeyEscape})
					return events, nil
				}
				return events, buf[i:]
			}
			if buf[i+1] != '[' && buf[i+1] != 'O' {
				events = append(events, Event{Kind: KeyEscape})
				i++
				continue
			}
			if i+2 >= len(buf) {
				return events, buf[i:]
			}
			switch buf[i+2] {
			case 'A':
				events = append(events, Event{Kind: KeyJump})
			case '3':
				// Delete: ESC [ 3 ~
				if i+3 < len(buf) && buf[i+3] == '~' {
					events = append(events, Event{Kind: KeyBackspace})
					i++
				}
			}
			// Other CSI keys (down, left, right, ...) are ignored
			i += 3
		case b == 0x03 || b == 0x04:
			events = append(events, Event{Kind: KeyQuit})
			i++
		case b == '\r' || b == '\n':
			events = append(events, Event{Kind: KeyConfirm})
			i++
			// Treat CRLF as one press
			if b == '\r' && i < len(buf) && buf[i] == '\n' {
				i++
			}
		case b == '\b' || b == 0x7f:
			events = append(events, Event{Kind: KeyBackspace})
			i++
		case b < utf8.RuneSelf:
			if unicode.IsPrint(rune(b)) {
				events = append(events, Event{Kind: KeyRune, Rune: rune(b)})
			}
			i++
		default:
			if !utf8.FullRune(buf[i:]) {
				return events, buf[i:]
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError && unicode.IsPrint(r) {
				events = append(events, Event{Kind: KeyRune, Rune: r})
			}
			i += size
		}
	}
	return events, nil
}
