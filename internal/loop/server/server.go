package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/loop/config"
)

// GameServer is the interface clients use to reach the shared leaderboard.
// Decouples the Client from the concrete Server implementation, enabling
// testing and other transports.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SubmitScore(clientID int, generation uint64, name string, score int)
	RequestTopScores(clientID int, generation uint64)
	RequestHallOfFame(clientID int)
	Players() int
}

// Board is the leaderboard the workers run requests against.
type Board interface {
	CurrentMonth() string
	SaveScore(ctx context.Context, name string, score int) (leaderboard.ScoreRecord, error)
	LoadTopScores(ctx context.Context, month string, limit int) ([]leaderboard.ScoreRecord, error)
	LoadHallOfFame(ctx context.Context, limit int) ([]leaderboard.HallOfFameEntry, error)
	CrownMonthlyChampion(ctx context.Context) (*leaderboard.HallOfFameEntry, error)
}

// Server owns the connected clients and executes their leaderboard requests
// on a fixed pool of workers. Results go back on each client's event channel.
type Server struct {
	board        Board
	clients      map[int]*ClientHandle
	nextClientID int
	requests     chan request
	unregisterCh chan int
	mu           sync.RWMutex

	hallOfFame atomic.Pointer[[]leaderboard.HallOfFameEntry] // Nil until the first successful load

	workers       int
	crownInterval time.Duration
	logger        *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // SSH user or local name
	EventsCh chan ClientEvent // Events sent to client (results, shutdown)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type       ClientEventType
	Generation uint64 // Game the request was issued for
	Score      int    // EventScoreSaved
	Saved      bool   // EventScoreSaved
	TopScores  []leaderboard.ScoreRecord
	HallOfFame []leaderboard.HallOfFameEntry
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventScoreSaved ClientEventType = iota
	EventTopScores
	EventHallOfFame
	EventServerShutdown
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for swallowed leaderboard errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers sets the number of request workers.
func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCrownInterval sets how often the previous month's champion is checked.
func WithCrownInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.crownInterval = d
		}
	}
}

// NewServer creates a new leaderboard server.
func NewServer(board Board, opts ...Option) *Server {
	s := &Server{
		board:         board,
		clients:       make(map[int]*ClientHandle),
		nextClientID:  1,
		requests:      make(chan request, config.DispatchQueueSize),
		unregisterCh:  make(chan int, 16),
		workers:       config.DispatchWorkers,
		crownInterval: config.CrownCheckInterval,
		logger:        log.Default().WithPrefix("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the workers, the crowning ticker and the registration loop.
// Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			s.work(ctx)
			return nil
		})
	}
	g.Go(func() error {
		s.crownLoop(ctx)
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case id := <-s.unregisterCh:
				s.processUnregister(id)
			}
		}
	})

	return g.Wait()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown})

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
// The handle is live on return, so requests sent right away get answered.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	return handle
}

// UnregisterClient removes a client from the server. Its event channel is
// closed by the run loop.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

func (s *Server) processUnregister(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.clients[clientID]; ok {
		close(handle.EventsCh)
		delete(s.clients, clientID)
	}
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// SubmitScore queues a score save for the client's game generation.
func (s *Server) SubmitScore(clientID int, generation uint64, name string, score int) {
	s.enqueue(request{kind: requestSave, clientID: clientID, generation: generation, name: name, score: score})
}

// RequestTopScores queues a load of the current month's top scores.
func (s *Server) RequestTopScores(clientID int, generation uint64) {
	s.enqueue(request{kind: requestTopScores, clientID: clientID, generation: generation})
}

// RequestHallOfFame answers from the cache when it is warm, otherwise queues a load.
func (s *Server) RequestHallOfFame(clientID int) {
	if entries := s.hallOfFame.Load(); entries != nil {
		s.deliver(clientID, ClientEvent{Type: EventHallOfFame, HallOfFame: *entries})
		return
	}
	s.enqueue(request{kind: requestHallOfFame, clientID: clientID})
}

func (s *Server) enqueue(req request) {
	select {
	case s.requests <- req:
	default:
		// Queue full, drop request
		s.logger.Warn("request queue full, dropping", "kind", req.kind, "client", req.clientID)
	}
}

func (s *Server) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.requests:
			s.handle(ctx, req)
		}
	}
}

// handle executes one request. Store errors are logged and swallowed; the
// client gets an empty result instead.
func (s *Server) handle(ctx context.Context, req request) {
	switch req.kind {
	case requestSave:
		_, err := s.board.SaveScore(ctx, req.name, req.score)
		if err != nil {
			s.logger.Warn("save score failed", "client", req.clientID, "score", req.score, "err", err)
		}
		s.deliver(req.clientID, ClientEvent{
			Type:       EventScoreSaved,
			Generation: req.generation,
			Score:      req.score,
			Saved:      err == nil,
		})

	case requestTopScores:
		month := s.board.CurrentMonth()
		records, err := s.board.LoadTopScores(ctx, month, config.TopScoresLimit)
		if err != nil {
			s.logger.Warn("load top scores failed", "month", month, "err", err)
			records = nil
		}
		s.deliver(req.clientID, ClientEvent{Type: EventTopScores, Generation: req.generation, TopScores: records})

	case requestHallOfFame:
		entries, err := s.loadHallOfFame(ctx)
		if err != nil {
			s.logger.Warn("load hall of fame failed", "err", err)
		}
		s.deliver(req.clientID, ClientEvent{Type: EventHallOfFame, HallOfFame: entries})
	}
}

// loadHallOfFame fetches the hall of fame and caches it on success.
func (s *Server) loadHallOfFame(ctx context.Context) ([]leaderboard.HallOfFameEntry, error) {
	entries, err := s.board.LoadHallOfFame(ctx, config.HallOfFameLimit)
	if err != nil {
		return nil, err
	}
	s.hallOfFame.Store(&entries)
	return entries, nil
}

// crownLoop crowns last month's champion at start and then on every tick.
func (s *Server) crownLoop(ctx context.Context) {
	ticker := time.NewTicker(s.crownInterval)
	defer ticker.Stop()

	for {
		s.crown(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) crown(ctx context.Context) {
	entry, err := s.board.CrownMonthlyChampion(ctx)
	if err != nil {
		s.logger.Warn("crowning monthly champion failed", "err", err)
		return
	}
	if entry == nil {
		return
	}
	s.logger.Info("crowned monthly champion", "month", entry.Month, "name", entry.Name, "score", entry.Score)

	entries, err := s.loadHallOfFame(ctx)
	if err != nil {
		s.logger.Warn("refresh hall of fame failed", "err", err)
		return
	}
	s.broadcast(ClientEvent{Type: EventHallOfFame, HallOfFame: entries})
}

// deliver sends an event to one client without blocking. Events for clients
// that have left, or whose buffer is full, are dropped.
func (s *Server) deliver(clientID int, ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if handle, ok := s.clients[clientID]; ok {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}
