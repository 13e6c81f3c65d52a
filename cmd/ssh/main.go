package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/runner/internal/asset"
	"github.com/tomz197/runner/internal/config"
	"github.com/tomz197/runner/internal/draw"
	"github.com/tomz197/runner/internal/leaderboard/backend"
	"github.com/tomz197/runner/internal/loop"
	"github.com/tomz197/runner/internal/loop/client"
	lconfig "github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/loop/server"
	"github.com/tomz197/runner/internal/namestore"
)

// app holds what every SSH session shares.
type app struct {
	gameServer *server.Server
	names      *namestore.FileStore // Nil when the name file is unusable
	emblem     *draw.Sprite
	seed       int64
}

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	settings.ConfigureLogging()

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		log.Warn("failed to get working directory", "err", workErr)
	}
	log.Info("ssh config", "host", settings.SSH.Host, "port", settings.SSH.Port,
		"hostKeyPath", settings.SSH.HostKey, "workingDir", workingDir, "leaderboard", settings.Leaderboard.Backend)

	ctx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()

	board, err := backend.OpenClient(ctx, settings.Leaderboard)
	if err != nil {
		log.Fatal("failed to open leaderboard", "err", err)
	}

	a := &app{
		gameServer: server.NewServer(board),
		emblem:     asset.LoadEmblem(ctx, settings.EmblemSrc, lconfig.EmblemMaskSize),
		seed:       settings.Seed,
	}
	if fs, err := namestore.Open(settings.NamesPath); err != nil {
		log.Warn("name store unavailable, names will not be remembered", "path", settings.NamesPath, "err", err)
	} else {
		a.names = fs
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSH.Host, settings.SSH.Port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if settings.SSH.HostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSH.HostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.gameServer.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting SSH server", "host", settings.SSH.Host, "port", settings.SSH.Port)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	})

	select {
	case <-done:
	case <-gctx.Done():
	}
	log.Info("shutting down server")

	// Gracefully shut down the game server: notify players and wait for them to disconnect
	log.Info("notifying connected players about shutdown", "players", a.gameServer.Players())
	a.gameServer.Shutdown(15 * time.Second)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "err", err)
	}
	cancelServer()

	if err := g.Wait(); err != nil {
		log.Fatal("server error", "err", err)
	}
	log.Info("game server stopped")
}

// gameMiddleware handles SSH sessions and runs the game client.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		log.Info("new game session", "user", sess.User(), "terminal", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		var names loop.NameStore = namestore.NewMemory()
		if a.names != nil {
			names = a.names.Scoped(sess.User())
		}

		reader := bufio.NewReader(sess)
		clientOpts := client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Names:        names,
			Emblem:       a.emblem,
			Seed:         a.seed,
			Logger:       log.Default().WithPrefix(sess.User()),
		}

		// Create a new client connected to the shared game server
		c := client.NewClient(a.gameServer, reader, sess, clientOpts)
		if err := c.Run(); err != nil {
			log.Error("game error", "user", sess.User(), "err", err)
		}

		log.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
