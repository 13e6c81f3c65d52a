package input

import (
	"bufio"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Event
		rest string
	}{
		{"space", " ", []Event{{Kind: KeyRune, Rune: ' '}}, ""},
		{"up arrow", "\x1b[A", []Event{{Kind: KeyJump}}, ""},
		{"other arrows ignored", "\x1b[B\x1b[C\x1b[D", nil, ""},
		{"enter", "\r", []Event{{Kind: KeyConfirm}}, ""},
		{"crlf is one confirm", "\r\n", []Event{{Kind: KeyConfirm}}, ""},
		{"backspace and delete", "\x7f\b\x1b[3~", []Event{{Kind: KeyBackspace}, {Kind: KeyBackspace}, {Kind: KeyBackspace}}, ""},
		{"ctrl-c", "\x03", []Event{{Kind: KeyQuit}}, ""},
		{"lone escape", "\x1b", []Event{{Kind: KeyEscape}}, ""},
		{"utf-8 rune", "é", []Event{{Kind: KeyRune, Rune: 'é'}}, ""},
		{"control bytes dropped", "\x01\x02", nil, ""},
		{"split csi", "a\x1b[", []Event{{Kind: KeyRune, Rune: 'a'}}, "\x1b["},
		{"split utf-8", "b\xc3", []Event{{Kind: KeyRune, Rune: 'b'}}, "\xc3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest := Parse([]byte(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("events = %+v, want %+v", got, tt.want)
			}
			if string(rest) != tt.rest {
				t.Fatalf("rest = %q, want %q", rest, tt.rest)
			}
		})
	}
}

func TestReadInputDrainsAndReportsClose(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("ab\x1b[A")))

	var events []Event
	closed := false
	deadline := time.Now().Add(time.Second)
	for !closed && time.Now().Before(deadline) {
		in := ReadInput(s)
		events = append(events, in.Events...)
		closed = in.Closed
		time.Sleep(time.Millisecond)
	}
	if !closed {
		t.Fatal("stream never reported closed")
	}
	want := []Event{{Kind: KeyRune, Rune: 'a'}, {Kind: KeyRune, Rune: 'b'}, {Kind: KeyJump}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %+v, want %+v", events, want)
	}
}
