// Package loop holds the per-player game session: the Menu → Playing →
// GameOver state machine, the tick pipeline and the leaderboard triggers.
package loop

// State is the current game phase of a session.
type State int

const (
	StateMenu     State = iota // Title screen
	StatePlaying               // Active gameplay
	StateGameOver              // Crashed, waiting for restart
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// SaveStatus tracks the leaderboard save of the current game.
type SaveStatus int

const (
	SaveIdle    SaveStatus = iota // Nothing sent yet
	SavePending                   // Request in flight
	SaveDone                      // Store acknowledged the record
	SaveFailed                    // Store unreachable; the game goes on
	SaveSkipped                   // Player dismissed the name prompt
)

// Leaderboard is the asynchronous leaderboard the session talks to. Calls
// must not block; results come back through the session's Apply methods
// tagged with the generation passed in.
type Leaderboard interface {
	SaveScore(generation uint64, name string, score int)
	LoadTopScores(generation uint64)
	LoadHallOfFame()
}

// NameStore persists the player's leaderboard name.
type NameStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}
