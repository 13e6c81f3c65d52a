package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/runner/internal/asset"
	"github.com/tomz197/runner/internal/config"
	"github.com/tomz197/runner/internal/leaderboard/backend"
	"github.com/tomz197/runner/internal/loop"
	"github.com/tomz197/runner/internal/loop/client"
	lconfig "github.com/tomz197/runner/internal/loop/config"
	"github.com/tomz197/runner/internal/loop/server"
	"github.com/tomz197/runner/internal/namestore"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	settings.ConfigureLogging()

	// The terminal belongs to the game; logs go to a file
	logPath := filepath.Join(os.TempDir(), "runner.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
		defer f.Close()
		log.SetOutput(f)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board, err := backend.OpenClient(ctx, settings.Leaderboard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "leaderboard: %v\n", err)
		os.Exit(1)
	}
	gameServer := server.NewServer(board)
	go gameServer.Run(ctx)

	var names loop.NameStore = namestore.NewMemory()
	if fs, err := namestore.Open(settings.NamesPath); err != nil {
		log.Warn("name store unavailable, names will not be remembered", "path", settings.NamesPath, "err", err)
	} else {
		names = fs.Scoped("local")
	}

	emblem := asset.LoadEmblem(ctx, settings.EmblemSrc, lconfig.EmblemMaskSize)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(gameServer, reader, os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", ""),
		Names:    names,
		Emblem:   emblem,
		Seed:     settings.Seed,
	})
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
