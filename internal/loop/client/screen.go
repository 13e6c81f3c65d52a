package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/loop"
	"github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/object"
)

// panelWidth is the inner width of overlay panels. Fixed so shorter content
// overwrites longer content from the previous frame.
const panelWidth = 44

// styles are the overlay styles. The renderer is bound to the connection,
// not to the server process's stdout, so colors survive over SSH.
type styles struct {
	panel lipgloss.Style
	title lipgloss.Style
	gold  lipgloss.Style
	dim   lipgloss.Style
	warn  lipgloss.Style
	input lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
	return styles{
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 2).
			Width(panelWidth).
			Align(lipgloss.Center),
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		gold:  r.NewStyle().Foreground(lipgloss.Color("220")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("245")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("203")),
		input: r.NewStyle().Reverse(true),
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	s := c.session

	// On overlay transitions, do a full terminal clear so UI elements from
	// the previous screen don't persist.
	key := screenKey{
		state:     s.State,
		prompt:    s.PromptingName(),
		inactive:  c.state.isInactive,
		shutdown:  c.state.shuttingDown,
		saveState: s.SaveStatus,
		boards:    len(s.TopScores) + len(s.HallOfFame),
	}
	if key != c.state.prevScreen {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevScreen = key
	}

	c.canvas.Clear()

	// Shake is rolled fresh every frame and shifts the world layer only
	dx, dy := s.Camera.Roll(c.fx)
	ctx := object.DrawContext{
		Canvas:  c.canvas,
		View:    s.View,
		OffsetX: dx,
		OffsetY: s.Camera.Offset + dy,
		Emblem:  c.emblem,
	}

	for _, cl := range s.Clouds {
		if err := cl.Draw(ctx); err != nil {
			return err
		}
	}
	for _, cl := range s.ChampionClouds {
		if err := cl.Draw(ctx); err != nil {
			return err
		}
	}
	if err := s.Ground.Draw(ctx); err != nil {
		return err
	}
	for _, o := range s.Obstacles {
		if err := o.Draw(ctx); err != nil {
			return err
		}
	}
	if err := s.Player.Draw(ctx); err != nil {
		return err
	}
	for _, p := range s.Particles {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Text goes on top of the rendered cells
	ctx.Writer = c.chunkWriter
	for _, cl := range s.ChampionClouds {
		cl.DrawLabels(ctx)
	}

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the HUD and the overlay for the current screen.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	blink := time.Now().UnixMilli()/600%2 == 0

	if c.state.shuttingDown {
		c.drawPanel(termWidth, termHeight, c.shutdownPanel())
		return
	}
	if c.state.isInactive {
		c.drawPanel(termWidth, termHeight, c.inactivityPanel())
		return
	}

	c.drawHUD(termWidth, termHeight)

	switch c.session.State {
	case loop.StateMenu:
		c.drawPanel(termWidth, termHeight, c.menuPanel(blink))
	case loop.StateGameOver:
		c.drawPanel(termWidth, termHeight, c.gameOverPanel(blink))
	}
}

// drawPanel centers a rendered panel on the canvas.
func (c *Client) drawPanel(termWidth, termHeight int, panel string) {
	w, h := lipgloss.Size(panel)
	col := max(1, (termWidth-w)/2+1)
	row := max(1, (termHeight-h)/2+1)
	c.chunkWriter.WriteBlock(col, row, panel)
}

// drawHUD draws score, speed, month best and players.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(termWidth, termHeight int) {
	s := c.session
	cw := c.chunkWriter

	scoreText := fmt.Sprintf("Score: %-6d Speed: %-5.1f", s.Score, s.Speed)
	cw.WriteAt(2, 1, scoreText)

	best := s.Best
	if len(s.TopScores) > 0 && s.TopScores[0].Score > best {
		best = s.TopScores[0].Score
	}
	bestText := fmt.Sprintf("Month best: %-6d", best)
	cw.WriteAt(termWidth-len(bestText)-1, 1, bestText)

	playersText := fmt.Sprintf("Players: %-4d", c.server.Players())
	cw.WriteAt(termWidth-len(playersText)-1, termHeight, playersText)
}

// menuPanel renders the title screen with controls and both boards.
func (c *Client) menuPanel(blink bool) string {
	st := c.styles()
	lines := []string{
		st.title.Render("R U N N E R"),
		st.dim.Render("~ endless runner over SSH ~"),
		"",
		"SPACE / W / Up  . . . .  Jump",
		"Q  . . . . . . . . . . . Quit",
		"",
	}
	lines = append(lines, blinkLine(blink, ">>  Press SPACE to Start  <<"))
	lines = append(lines, "")
	lines = append(lines, c.topScoreLines(st)...)
	if len(c.session.HallOfFame) > 0 {
		lines = append(lines, "", st.gold.Render("Hall of Fame"))
		lines = append(lines, hallOfFameLines(c.session.HallOfFame)...)
	}
	return st.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// gameOverPanel renders the crash screen: score, the name prompt or save
// status, and this month's top scores.
func (c *Client) gameOverPanel(blink bool) string {
	s := c.session
	st := c.styles()
	lines := []string{
		st.warn.Render("G A M E   O V E R"),
		"",
		fmt.Sprintf("Score: %d   Best: %d", s.Score, s.Best),
		"",
	}

	if s.PromptingName() {
		cursor := " "
		if blink {
			cursor = "_"
		}
		field := fmt.Sprintf("%-*s", config.MaxNameLength+1, s.PromptText()+cursor)
		lines = append(lines,
			"Name for the leaderboard:",
			st.input.Render(field),
			st.dim.Render("ENTER to save  ·  ESC to skip"),
		)
		return st.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	}

	lines = append(lines, saveStatusLine(st, s.SaveStatus), "")
	lines = append(lines, c.topScoreLines(st)...)
	lines = append(lines, "")
	if s.CanRestart() {
		lines = append(lines, blinkLine(blink, ">>  Press SPACE to Restart  <<"))
	} else {
		lines = append(lines, "")
	}
	return st.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func saveStatusLine(st styles, status loop.SaveStatus) string {
	switch status {
	case loop.SavePending:
		return st.dim.Render("Saving score...")
	case loop.SaveDone:
		return st.gold.Render("Score saved")
	case loop.SaveFailed:
		return st.warn.Render("Leaderboard unavailable")
	case loop.SaveSkipped:
		return st.dim.Render("Score not saved")
	default:
		return ""
	}
}

func (c *Client) topScoreLines(st styles) []string {
	lines := []string{st.gold.Render("Top scores this month")}
	if len(c.session.TopScores) == 0 {
		return append(lines, st.dim.Render("no scores yet"))
	}
	return append(lines, scoreLines(c.session.TopScores)...)
}

func scoreLines(records []leaderboard.ScoreRecord) []string {
	lines := make([]string, 0, len(records))
	for i, r := range records {
		lines = append(lines, fmt.Sprintf("%d. %-*s %6d", i+1, config.MaxNameLength, r.Name, r.Score))
	}
	return lines
}

func hallOfFameLines(entries []leaderboard.HallOfFameEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s  %-*s %6d", e.Month, config.MaxNameLength, e.Name, e.Score))
	}
	return lines
}

func blinkLine(on bool, text string) string {
	if on {
		return text
	}
	return strings.Repeat(" ", len(text))
}

func (c *Client) inactivityPanel() string {
	st := c.styles()
	remaining := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	return st.panel.Render(lipgloss.JoinVertical(lipgloss.Center,
		st.warn.Render("INACTIVITY WARNING"),
		"",
		"You have been inactive for too long.",
		fmt.Sprintf("Disconnecting in %d seconds.", max(remaining, 0)),
		"",
		st.dim.Render("Press any key to continue"),
	))
}

func (c *Client) shutdownPanel() string {
	st := c.styles()
	remaining := int(c.state.shutdownTimer) + 1
	return st.panel.Render(lipgloss.JoinVertical(lipgloss.Center,
		st.warn.Render("SERVER SHUTTING DOWN"),
		"",
		"The server is restarting for maintenance.",
		"Please reconnect in a moment.",
		"",
		fmt.Sprintf("Disconnecting in %d seconds...", remaining),
		st.dim.Render("Press Q to disconnect now"),
	))
}

// styles returns the connection's overlay styles, creating them on first use.
func (c *Client) styles() styles {
	if c.st == nil {
		st := newStyles(c.writer)
		c.st = &st
	}
	return *c.st
}
