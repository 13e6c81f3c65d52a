package client

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/input"
	"github.com/tomz197/runner/internal/loop"
	"github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/loop/server"
	"github.com/tomz197/runner/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	session      *loop.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	emblem       *draw.Sprite
	fx           *rand.Rand // Shake rolls; kept apart from the game's randomness
	st           *styles
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string         // Pre-fills the name prompt
	Names        loop.NameStore // Where the leaderboard name is remembered
	Emblem       *draw.Sprite   // Emblem obstacle sprite; nil draws a disc
	Seed         int64          // Game seed; 0 picks one from the clock
	Logger       *log.Logger
}

// serverBoard adapts the shared server to the session's Leaderboard,
// binding requests to this client's handle.
type serverBoard struct {
	server   server.GameServer
	clientID int
}

func (b serverBoard) SaveScore(generation uint64, name string, score int) {
	b.server.SubmitScore(b.clientID, generation, name, score)
}

func (b serverBoard) LoadTopScores(generation uint64) {
	b.server.RequestTopScores(b.clientID, generation)
}

func (b serverBoard) LoadHallOfFame() {
	b.server.RequestHallOfFame(b.clientID)
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.StdoutSize
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	viewWidth := viewWidthFor(renderWidth, renderHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, float64(viewWidth), config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	session := loop.NewSession(loop.Options{
		Leaderboard: serverBoard{server: gs, clientID: handle.ID},
		Names:       opts.Names,
		DefaultName: opts.Username,
		Rand:        rand.New(rand.NewSource(seed)),
		View:        object.NewScreen(viewWidth, config.ViewHeight),
		Logger:      opts.Logger,
	})

	return &Client{
		server:       gs,
		handle:       handle,
		session:      session,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		emblem:       opts.Emblem,
		fx:           rand.New(rand.NewSource(seed + 1)),
	}
}

// Session returns the client's game session.
func (c *Client) Session() *loop.Session {
	return c.session
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	c.session.RequestBoards()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		if c.state.shuttingDown {
			c.updateShutdownState()
		}
		c.session.Update()

		// Draw frame
		if err := c.drawFrame(); err != nil {
			c.server.UnregisterClient(c.handle.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	// Unregister from server
	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and hands key events to the session.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)
	if in.Closed {
		c.state.Running = false
	}

	if in.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	for _, ev := range in.Events {
		if c.quits(ev) {
			c.state.Running = false
			return
		}
		if c.state.shuttingDown {
			continue
		}
		c.session.HandleInput(ev)
	}
}

// quits reports whether ev ends the connection. Ctrl-C always does; q only
// when it is not being typed into the name prompt.
func (c *Client) quits(ev input.Event) bool {
	if ev.Kind == input.KeyQuit {
		return true
	}
	return ev.Kind == input.KeyRune && (ev.Rune == 'q' || ev.Rune == 'Q') && !c.session.PromptingName()
}

// processServerEvents drains leaderboard results into the session.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventScoreSaved:
				c.session.ApplyScoreSaved(event.Generation, event.Score, event.Saved)
			case server.EventTopScores:
				c.session.ApplyTopScores(event.Generation, event.TopScores)
			case server.EventHallOfFame:
				c.session.ApplyHallOfFame(event.HallOfFame)
			case server.EventServerShutdown:
				c.state.shuttingDown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	viewWidth := viewWidthFor(renderWidth, renderHeight)
	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetLogicalSize(float64(viewWidth), config.ViewHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.session.Resize(viewWidth, config.ViewHeight)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// viewWidthFor returns the logical viewport width that keeps pixels square
// for a render area. Each cell holds two vertical pixels.
func viewWidthFor(renderWidth, renderHeight int) int {
	if renderWidth <= 0 || renderHeight <= 0 {
		return config.DefaultViewWidth
	}
	w := config.ViewHeight * renderWidth / (2 * renderHeight)
	return max(config.MinViewWidth, min(config.MaxViewWidth, w))
}

// updateShutdownState counts down the shutdown screen.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
