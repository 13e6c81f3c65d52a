package loop

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/runner/internal/input"
	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/object"
	"github.com/tomz197/runner/internal/physics"
)

// Options configures a new Session.
type Options struct {
	Leaderboard Leaderboard // May be nil to play offline
	Names       NameStore   // May be nil; the name is then asked for every session
	DefaultName string      // Pre-filled in the name prompt
	Rand        *rand.Rand  // Nil seeds from the clock
	View        object.Screen
	Logger      *log.Logger
}

// Session is one player's game. It is owned by a single goroutine; the
// leaderboard results are handed in through the Apply methods on that goroutine.
type Session struct {
	State State
	Score int
	Best  int // Best score since the session was created
	Speed float64
	Tick  uint64

	View           object.Screen
	Player         *object.Player
	Obstacles      []*object.Obstacle
	Clouds         []*object.Cloud
	ChampionClouds []*object.ChampionCloud
	Particles      []object.Object
	Ground         object.Ground
	Camera         object.Camera
	Spawner        *object.ObstacleSpawner

	// Leaderboard state
	Generation uint64 // Bumped on every start; tags async requests
	SaveStatus SaveStatus
	LastSaved  int // Score of the last acknowledged save
	TopScores  []leaderboard.ScoreRecord
	HallOfFame []leaderboard.HallOfFameEntry

	highscoreSaved bool // At most one save per game
	prompt         *namePrompt

	lastJump    uint64 // Tick of the latest jump event
	jumpSeen    bool
	heldAtCrash bool // A jump key held through the crash is still repeating

	playerName string
	nameLoaded bool

	lb          Leaderboard
	names       NameStore
	defaultName string
	rng         *rand.Rand
	logger      *log.Logger
	spawned     []object.Object
}

// NewSession creates a session in the menu state.
func NewSession(opts Options) *Session {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	view := opts.View
	if view.Width == 0 || view.Height == 0 {
		view = object.NewScreen(config.DefaultViewWidth, config.ViewHeight)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	defaultName := opts.DefaultName
	if defaultName == "" {
		defaultName = config.DefaultPlayerName
	}

	s := &Session{
		State:       StateMenu,
		Speed:       config.BaseSpeed,
		View:        view,
		Player:      object.NewPlayer(view.GroundLine()),
		Clouds:      object.NewClouds(config.CloudCount, view, rng),
		Spawner:     object.NewObstacleSpawner(rng),
		lb:          opts.Leaderboard,
		names:       opts.Names,
		defaultName: defaultName,
		rng:         rng,
		logger:      logger,
	}
	return s
}

// RequestBoards asks for the current top scores and the hall of fame.
func (s *Session) RequestBoards() {
	if s.lb == nil {
		return
	}
	s.lb.LoadTopScores(s.Generation)
	s.lb.LoadHallOfFame()
}

// jumpRepeating records a jump event and reports whether it continues a run
// of events from a held key.
func (s *Session) jumpRepeating() bool {
	repeating := s.jumpSeen && s.Tick-s.lastJump <= config.KeyRepeatGapTicks
	s.lastJump = s.Tick
	s.jumpSeen = true
	return repeating
}

// HandleInput applies one key event. It is the only place the state changes.
func (s *Session) HandleInput(ev input.Event) {
	if s.prompt != nil {
		s.handlePrompt(ev)
		return
	}
	if !isJump(ev) {
		return
	}
	repeating := s.jumpRepeating()

	switch s.State {
	case StateMenu:
		s.start()
	case StatePlaying:
		if s.Player.Jump() {
			s.Camera.Kick(config.JumpCameraLift)
		}
	case StateGameOver:
		if s.heldAtCrash && repeating {
			return
		}
		s.start()
	}
}

func isJump(ev input.Event) bool {
	switch ev.Kind {
	case input.KeyJump, input.KeyConfirm:
		return true
	case input.KeyRune:
		return ev.Rune == ' ' || ev.Rune == 'w' || ev.Rune == 'W'
	}
	return false
}

// start resets the game and enters Playing. Used for both the first start
// and every restart.
func (s *Session) start() {
	s.Generation++
	s.State = StatePlaying
	s.Score = 0
	s.Speed = config.BaseSpeed
	s.Player.Reset(s.View.GroundLine())
	s.Obstacles = s.Obstacles[:0]
	for _, p := range s.Particles {
		object.ReleaseObject(p)
	}
	s.Particles = s.Particles[:0]
	s.spawned = s.spawned[:0]
	s.Spawner.Reset()
	s.Camera.Reset()
	s.highscoreSaved = false
	s.SaveStatus = SaveIdle
	s.heldAtCrash = false
	s.prompt = nil

	// A result for the menu's request is dropped once the generation moves on
	if s.TopScores == nil && s.lb != nil {
		s.lb.LoadTopScores(s.Generation)
	}
}

// Update advances the session by one tick.
func (s *Session) Update() {
	s.Tick++
	ctx := object.UpdateContext{
		Screen:  s.View,
		Speed:   s.Speed,
		Spawner: s,
		Rand:    s.rng,
	}

	switch s.State {
	case StatePlaying:
		s.updatePlaying(ctx)
	case StateGameOver:
		if s.heldAtCrash && s.Tick-s.lastJump > config.KeyRepeatGapTicks {
			s.heldAtCrash = false
		}
	}

	for _, c := range s.Clouds {
		c.Update(ctx)
	}
	for _, c := range s.ChampionClouds {
		c.Update(ctx)
	}
	if s.State != StateGameOver {
		s.Ground.Update(ctx)
	}

	kept := s.Particles[:0]
	for _, p := range s.Particles {
		if remove, _ := p.Update(ctx); remove {
			object.ReleaseObject(p)
			continue
		}
		kept = append(kept, p)
	}
	s.Particles = append(kept, s.spawned...)
	s.spawned = s.spawned[:0]

	s.Camera.Update()
}

func (s *Session) updatePlaying(ctx object.UpdateContext) {
	s.Player.Update(ctx)

	kept := s.Obstacles[:0]
	for _, o := range s.Obstacles {
		if passed, _ := o.Update(ctx); passed {
			s.Score++
			s.Speed = physics.SpeedForScore(s.Score, config.BaseSpeed, config.SpeedExponent)
			continue
		}
		kept = append(kept, o)
	}
	s.Obstacles = kept

	if o := s.Spawner.Update(s.Score, s.Speed, float64(s.View.Width)); o != nil {
		s.Obstacles = append(s.Obstacles, o)
	}
	object.SpawnSpeedLine(s.View, s.Speed, s.rng, s)

	ground := s.View.GroundLine()
	player := s.Player.Rect()
	for _, o := range s.Obstacles {
		if physics.OverlapsWithMargin(player, o.Rect(ground), config.CollisionMargin) {
			s.gameOver()
			return
		}
	}
}

func (s *Session) gameOver() {
	s.State = StateGameOver
	s.heldAtCrash = s.jumpSeen && s.Tick-s.lastJump <= config.KeyRepeatGapTicks
	s.Camera.StartShake(config.CollisionShake)

	r := s.Player.Rect()
	object.SpawnBurst(r.X+r.W/2, r.Y+r.H/2, config.BurstParticles, config.BurstSpeed, config.BurstLifetime, s.rng, s)

	if s.Score > s.Best {
		s.Best = s.Score
	}
	s.triggerSave()
}

// triggerSave sends the score once per game, or asks for a name first.
func (s *Session) triggerSave() {
	if s.highscoreSaved || s.lb == nil {
		return
	}
	if name, ok := s.storedName(); ok {
		s.dispatchSave(name)
		return
	}
	s.prompt = newNamePrompt(s.defaultName)
}

// storedName reads the saved name once per session instance.
func (s *Session) storedName() (string, bool) {
	if !s.nameLoaded {
		s.nameLoaded = true
		if s.names != nil {
			s.playerName, _ = s.names.Get(config.PlayerNameKey)
		}
	}
	return s.playerName, s.playerName != ""
}

func (s *Session) dispatchSave(name string) {
	s.highscoreSaved = true
	s.SaveStatus = SavePending
	s.lb.SaveScore(s.Generation, name, s.Score)
}

// CanRestart reports whether a jump would restart the game now.
func (s *Session) CanRestart() bool {
	return s.State == StateGameOver && s.prompt == nil && !s.heldAtCrash
}

// Resize changes the viewport. Positions of entities on screen are kept;
// the ground line follows from the next tick on.
func (s *Session) Resize(width, height int) {
	if width == s.View.Width && height == s.View.Height {
		return
	}
	s.View = object.NewScreen(width, height)
	if s.State != StatePlaying {
		s.Player.Reset(s.View.GroundLine())
	}
}

// Spawn queues a particle. Implements object.Spawner.
func (s *Session) Spawn(obj object.Object) {
	s.spawned = append(s.spawned, obj)
}

// ApplyScoreSaved handles the result of a save. Results from an older game
// are dropped. Returns whether the result was applied.
func (s *Session) ApplyScoreSaved(generation uint64, score int, ok bool) bool {
	if generation != s.Generation {
		return false
	}
	if !ok {
		s.SaveStatus = SaveFailed
		return true
	}
	s.SaveStatus = SaveDone
	s.LastSaved = score
	if s.lb != nil {
		s.lb.LoadTopScores(generation)
	}
	return true
}

// ApplyTopScores replaces the top scores unless they belong to an older game.
func (s *Session) ApplyTopScores(generation uint64, records []leaderboard.ScoreRecord) bool {
	if generation != s.Generation {
		return false
	}
	s.TopScores = records
	return true
}

// ApplyHallOfFame sets the hall of fame and rebuilds the champion clouds.
// The hall of fame belongs to the connection, not to one game, so it is
// accepted in any generation.
func (s *Session) ApplyHallOfFame(entries []leaderboard.HallOfFameEntry) {
	s.HallOfFame = entries
	s.ChampionClouds = object.NewChampionClouds(entries, config.ChampionCloudMax, s.View, s.rng)
}

var _ object.Spawner = (*Session)(nil)
