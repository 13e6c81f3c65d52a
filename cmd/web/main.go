package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/tomz197/runner/internal/config"
	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/leaderboard/backend"
	lconfig "github.com/tomz197/runner/internal/loop/config"
)

//go:embed index.html
var htmlPage string

// boardReader is the part of the leaderboard the page reads.
type boardReader interface {
	CurrentMonth() string
	LoadTopScores(ctx context.Context, month string, limit int) ([]leaderboard.ScoreRecord, error)
	LoadHallOfFame(ctx context.Context, limit int) ([]leaderboard.HallOfFameEntry, error)
}

// leaderboardResponse is the body of GET /api/leaderboard.
type leaderboardResponse struct {
	Month      string                        `json:"month"`
	TopScores  []leaderboard.ScoreRecord     `json:"top_scores"`
	HallOfFame []leaderboard.HallOfFameEntry `json:"hall_of_fame"`
}

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	settings.ConfigureLogging()

	board, err := backend.OpenClient(context.Background(), settings.Leaderboard)
	if err != nil {
		log.Fatal("failed to open leaderboard", "err", err)
	}

	addr := net.JoinHostPort(settings.Web.Host, settings.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(board, settings.SSH.DisplayHost, log.Default().WithPrefix("web")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Info("starting web server", "url", fmt.Sprintf("http://%s", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", "err", err)
	}
}

// newRouter serves the landing page and the leaderboard API.
func newRouter(board boardReader, sshHost string, logger *log.Logger) *mux.Router {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		resp := leaderboardResponse{
			Month:      board.CurrentMonth(),
			TopScores:  []leaderboard.ScoreRecord{},
			HallOfFame: []leaderboard.HallOfFameEntry{},
		}
		if month := r.URL.Query().Get("month"); month != "" {
			if _, err := time.Parse("2006-01", month); err != nil {
				http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
				return
			}
			resp.Month = month
		}

		// Store failures leave the lists empty, as in the game
		if top, err := board.LoadTopScores(r.Context(), resp.Month, lconfig.TopScoresLimit); err != nil {
			logger.Warn("load top scores failed", "month", resp.Month, "err", err)
		} else if top != nil {
			resp.TopScores = top
		}
		if hall, err := board.LoadHallOfFame(r.Context(), lconfig.HallOfFameLimit); err != nil {
			logger.Warn("load hall of fame failed", "err", err)
		} else if hall != nil {
			resp.HallOfFame = hall
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("encode response", "err", err)
		}
	}).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	return r
}
