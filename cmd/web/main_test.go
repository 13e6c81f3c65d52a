package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/leaderboard/memstore"
)

type downBoard struct{}

func (downBoard) CurrentMonth() string { return "2026-10" }
func (downBoard) LoadTopScores(context.Context, string, int) ([]leaderboard.ScoreRecord, error) {
	return nil, errors.New("down")
}
func (downBoard) LoadHallOfFame(context.Context, int) ([]leaderboard.HallOfFameEntry, error) {
	return nil, errors.New("down")
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexShowsSSHHost(t *testing.T) {
	r := newRouter(downBoard{}, "play.example.com", quietLogger())
	rec := get(t, r, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "play.example.com") || strings.Contains(body, "{{.SSHHost}}") {
		t.Fatal("ssh host not substituted")
	}
}

func TestLeaderboardAPI(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	store := memstore.New()
	board := leaderboard.NewClient(store, leaderboard.WithClock(func() time.Time { return now }))
	ctx := context.Background()
	board.SaveScore(ctx, "ada", 10)
	board.SaveScore(ctx, "bob", 20)
	store.PushUnique(ctx, leaderboard.HallOfFamePath, leaderboard.HallOfFameEntry{Name: "cy", Score: 50, Month: "2026-09", Timestamp: 1})

	rec := get(t, newRouter(board, "h", quietLogger()), "/api/leaderboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp leaderboardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Month != "2026-10" {
		t.Fatalf("month = %q", resp.Month)
	}
	if len(resp.TopScores) != 2 || resp.TopScores[0].Name != "bob" {
		t.Fatalf("top scores = %+v", resp.TopScores)
	}
	if len(resp.HallOfFame) != 1 || resp.HallOfFame[0].Name != "cy" {
		t.Fatalf("hall of fame = %+v", resp.HallOfFame)
	}
}

func TestLeaderboardAPIStoreDown(t *testing.T) {
	rec := get(t, newRouter(downBoard{}, "h", quietLogger()), "/api/leaderboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"month":"2026-10","top_scores":[],"hall_of_fame":[]}` {
		t.Fatalf("body = %s", body)
	}
}

func TestLeaderboardAPIMonthParam(t *testing.T) {
	r := newRouter(downBoard{}, "h", quietLogger())
	if rec := get(t, r, "/api/leaderboard?month=2026-13"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad month status = %d", rec.Code)
	}
	rec := get(t, r, "/api/leaderboard?month=2026-08")
	if !strings.Contains(rec.Body.String(), `"month":"2026-08"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
