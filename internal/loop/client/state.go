package client

import (
	"time"

	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/loop"
)

// ClientState holds per-connection frame loop state. Game state lives in
// the loop.Session.
type ClientState struct {
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time
	shuttingDown  bool              // Server announced shutdown
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state

	// Previous frame, for full clears on screen transitions
	prevScreen screenKey
}

// screenKey identifies which overlay is shown. A change forces a full clear
// so text from the previous overlay does not linger.
type screenKey struct {
	state     loop.State
	prompt    bool
	inactive  bool
	shutdown  bool
	saveState loop.SaveStatus
	boards    int // Top score and hall of fame rows shown
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Running:    true,
		prevScreen: screenKey{state: -1},
	}
}
