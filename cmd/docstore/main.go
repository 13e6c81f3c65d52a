// Command docstore serves an in-memory document store over the REST protocol
// the rest leaderboard backend speaks. Data is lost on restart.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/runner/internal/config"
	"github.com/tomz197/runner/internal/leaderboard/docserver"
	"github.com/tomz197/runner/internal/leaderboard/memstore"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	settings.ConfigureLogging()

	handler := docserver.New(memstore.New(),
		docserver.WithAuth(settings.Leaderboard.Auth),
		docserver.WithLogger(log.Default().WithPrefix("docstore")),
	)
	srv := &http.Server{
		Addr:              settings.Docstore.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		log.Info("shutting down docstore")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Info("starting docstore", "addr", settings.Docstore.Addr, "auth", settings.Leaderboard.Auth != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", "err", err)
	}
}
