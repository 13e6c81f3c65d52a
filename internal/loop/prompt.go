package loop

import (
	"unicode"

	"github.com/tomz197/runner/internal/input"
	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/loop/config"
)

// namePrompt is the overlay asking for a leaderboard name after the first crash.
type namePrompt struct {
	buf []rune
}

func newNamePrompt(initial string) *namePrompt {
	p := &namePrompt{}
	for _, r := range initial {
		if len(p.buf) == config.MaxNameLength {
			break
		}
		p.buf = append(p.buf, r)
	}
	return p
}

func (p *namePrompt) String() string {
	return string(p.buf)
}

// PromptingName reports whether the name prompt is open.
func (s *Session) PromptingName() bool {
	return s.prompt != nil
}

// PromptText returns the text typed so far.
func (s *Session) PromptText() string {
	if s.prompt == nil {
		return ""
	}
	return s.prompt.String()
}

func (s *Session) handlePrompt(ev input.Event) {
	p := s.prompt
	switch ev.Kind {
	case input.KeyRune:
		if unicode.IsPrint(ev.Rune) && len(p.buf) < config.MaxNameLength {
			p.buf = append(p.buf, ev.Rune)
		}
	case input.KeyBackspace:
		if len(p.buf) > 0 {
			p.buf = p.buf[:len(p.buf)-1]
		}
	case input.KeyConfirm:
		s.confirmName(leaderboard.SanitizeName(p.String()))
	case input.KeyEscape:
		s.prompt = nil
		s.SaveStatus = SaveSkipped
		s.highscoreSaved = true
	}
}

func (s *Session) confirmName(name string) {
	s.prompt = nil
	s.playerName = name
	s.nameLoaded = true
	if s.names != nil {
		if err := s.names.Set(config.PlayerNameKey, name); err != nil {
			s.logger.Warn("could not remember player name", "err", err)
		}
	}
	s.dispatchSave(name)
}
