package leaderboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/leaderboard/memstore"
)

var errDown = errors.New("store down")

type downStore struct{}

func (downStore) Put(context.Context, string, any) error { return errDown }
func (downStore) Get(context.Context, string) (leaderboard.Snapshot, bool, error) {
	return leaderboard.Snapshot{}, false, errDown
}
func (downStore) PushUnique(context.Context, string, any) (string, error) { return "", errDown }

// slowStore blocks every call until the context is done or release is closed.
type slowStore struct {
	release chan struct{}
}

func (s slowStore) wait(ctx context.Context) error {
	select {
	case <-s.release:
		return nil
	case <-time.After(time.Second):
		return nil
	}
}

func (s slowStore) Put(ctx context.Context, _ string, _ any) error { return s.wait(ctx) }
func (s slowStore) Get(ctx context.Context, _ string) (leaderboard.Snapshot, bool, error) {
	return leaderboard.Snapshot{}, false, s.wait(ctx)
}
func (s slowStore) PushUnique(ctx context.Context, _ string, _ any) (string, error) {
	return "id", s.wait(ctx)
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), "2026-01"},
		{time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC), "2026-12"},
		// 00:30 on Oct 1st in UTC+2 is still September in UTC
		{time.Date(2026, 10, 1, 0, 30, 0, 0, time.FixedZone("x", 2*3600)), "2026-09"},
	}
	for _, tt := range tests {
		if got := leaderboard.MonthKey(tt.in); got != tt.want {
			t.Errorf("MonthKey(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPreviousMonthKey(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), "2026-02"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2025-12"},
	}
	for _, tt := range tests {
		if got := leaderboard.PreviousMonthKey(tt.in); got != tt.want {
			t.Errorf("PreviousMonthKey(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveScoreWritesCurrentBucket(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := leaderboard.NewClient(store, leaderboard.WithClock(fixedClock("2026-10-18T12:00:00Z")))

	rec, err := c.SaveScore(ctx, "  ada  ", 17)
	if err != nil {
		t.Fatalf("SaveScore: %v", err)
	}
	if rec.Name != "ada" || rec.Score != 17 {
		t.Fatalf("record = %+v", rec)
	}
	if n := store.Len("monthly_highscores/2026-10/scores"); n != 1 {
		t.Fatalf("bucket has %d records, want 1", n)
	}
}

func TestLoadTopScoresSortsAndTruncates(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	path := leaderboard.ScoresPath("2026-10")
	for _, r := range []leaderboard.ScoreRecord{
		{Name: "c", Score: 3, Timestamp: 1},
		{Name: "a", Score: 10, Timestamp: 5},
		{Name: "e", Score: 1, Timestamp: 1},
		{Name: "b", Score: 7, Timestamp: 2},
		{Name: "a2", Score: 10, Timestamp: 9},
		{Name: "d", Score: 5, Timestamp: 3},
	} {
		if _, err := store.PushUnique(ctx, path, r); err != nil {
			t.Fatal(err)
		}
	}
	// Malformed children are skipped
	if _, err := store.PushUnique(ctx, path, "garbage"); err != nil {
		t.Fatal(err)
	}

	c := leaderboard.NewClient(store)
	got, err := c.LoadTopScores(ctx, "2026-10", 4)
	if err != nil {
		t.Fatalf("LoadTopScores: %v", err)
	}
	wantNames := []string{"a", "a2", "b", "d"}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d records, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Fatalf("position %d = %q, want %q (%+v)", i, got[i].Name, name, got)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("scores not descending: %+v", got)
		}
	}
}

func TestLoadTopScoresEmptyBucket(t *testing.T) {
	c := leaderboard.NewClient(memstore.New())
	got, err := c.LoadTopScores(context.Background(), "1999-01", 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v; want empty, nil", got, err)
	}
}

func TestLoadHallOfFameMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	for _, e := range []leaderboard.HallOfFameEntry{
		{Name: "old", Month: "2026-07", Timestamp: 100},
		{Name: "new", Month: "2026-09", Timestamp: 300},
		{Name: "mid", Month: "2026-08", Timestamp: 200},
	} {
		store.PushUnique(ctx, leaderboard.HallOfFamePath, e)
	}

	got, err := leaderboard.NewClient(store).LoadHallOfFame(ctx, 2)
	if err != nil {
		t.Fatalf("LoadHallOfFame: %v", err)
	}
	if len(got) != 2 || got[0].Name != "new" || got[1].Name != "mid" {
		t.Fatalf("got %+v", got)
	}
}

func TestCrownMonthlyChampionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	prev := leaderboard.ScoresPath("2026-09")
	store.PushUnique(ctx, prev, leaderboard.ScoreRecord{Name: "ada", Score: 30, Timestamp: 1})
	store.PushUnique(ctx, prev, leaderboard.ScoreRecord{Name: "bob", Score: 42, Timestamp: 2})

	c := leaderboard.NewClient(store, leaderboard.WithClock(fixedClock("2026-10-02T08:00:00Z")))

	entry, err := c.CrownMonthlyChampion(ctx)
	if err != nil {
		t.Fatalf("CrownMonthlyChampion: %v", err)
	}
	if entry == nil || entry.Name != "bob" || entry.Score != 42 || entry.Month != "2026-09" {
		t.Fatalf("entry = %+v", entry)
	}

	snap, ok, err := store.Get(ctx, leaderboard.WinnerPath("2026-09"))
	if !ok || err != nil {
		t.Fatalf("winner marker missing: ok %v, err %v", ok, err)
	}
	var winner leaderboard.HallOfFameEntry
	if err := snap.Decode(&winner); err != nil || winner.Name != "bob" {
		t.Fatalf("winner = %+v, %v", winner, err)
	}

	again, err := c.CrownMonthlyChampion(ctx)
	if err != nil || again != nil {
		t.Fatalf("second crowning = %+v, %v; want nil, nil", again, err)
	}
	if n := store.Len(leaderboard.HallOfFamePath); n != 1 {
		t.Fatalf("hall of fame has %d entries, want 1", n)
	}
}

// flakyStore fails the first write to failPath and passes everything else
// through to the memstore.
type flakyStore struct {
	*memstore.Store
	failPath string
	failed   bool
}

func (s *flakyStore) Put(ctx context.Context, path string, v any) error {
	if path == s.failPath && !s.failed {
		s.failed = true
		return errDown
	}
	return s.Store.Put(ctx, path, v)
}

func (s *flakyStore) PushUnique(ctx context.Context, path string, v any) (string, error) {
	if path == s.failPath && !s.failed {
		s.failed = true
		return "", errDown
	}
	return s.Store.PushUnique(ctx, path, v)
}

func TestCrownMonthlyChampionRetriesAfterFailure(t *testing.T) {
	tests := []struct {
		name     string
		failPath string
	}{
		{"hall of fame push fails", leaderboard.HallOfFamePath},
		{"winner marker write fails", leaderboard.WinnerPath("2026-09")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := &flakyStore{Store: memstore.New(), failPath: tt.failPath}
			store.Store.PushUnique(ctx, leaderboard.ScoresPath("2026-09"), leaderboard.ScoreRecord{Name: "ada", Score: 30, Timestamp: 1})
			c := leaderboard.NewClient(store, leaderboard.WithClock(fixedClock("2026-10-02T08:00:00Z")))

			if _, err := c.CrownMonthlyChampion(ctx); !errors.Is(err, errDown) {
				t.Fatalf("first crowning err = %v, want %v", err, errDown)
			}
			entry, err := c.CrownMonthlyChampion(ctx)
			if err != nil || entry == nil || entry.Name != "ada" {
				t.Fatalf("retry = %+v, %v", entry, err)
			}
			if n := store.Len(leaderboard.HallOfFamePath); n != 1 {
				t.Fatalf("hall of fame has %d entries, want 1", n)
			}
			if _, ok, _ := store.Get(ctx, leaderboard.WinnerPath("2026-09")); !ok {
				t.Fatal("winner marker missing after retry")
			}
			if again, err := c.CrownMonthlyChampion(ctx); again != nil || err != nil {
				t.Fatalf("third crowning = %+v, %v; want nil, nil", again, err)
			}
		})
	}
}

func TestCrownMonthlyChampionNoScores(t *testing.T) {
	store := memstore.New()
	c := leaderboard.NewClient(store, leaderboard.WithClock(fixedClock("2026-10-02T08:00:00Z")))
	entry, err := c.CrownMonthlyChampion(context.Background())
	if err != nil || entry != nil {
		t.Fatalf("got %+v, %v; want nil, nil", entry, err)
	}
	if _, ok, _ := store.Get(context.Background(), leaderboard.WinnerPath("2026-09")); ok {
		t.Fatal("winner must not be written for an empty month")
	}
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	c := leaderboard.NewClient(downStore{})

	if _, err := c.SaveScore(ctx, "x", 1); !errors.Is(err, errDown) {
		t.Fatalf("SaveScore err = %v", err)
	}
	if _, err := c.LoadTopScores(ctx, "2026-10", 5); !errors.Is(err, errDown) {
		t.Fatalf("LoadTopScores err = %v", err)
	}
	if _, err := c.LoadHallOfFame(ctx, 5); !errors.Is(err, errDown) {
		t.Fatalf("LoadHallOfFame err = %v", err)
	}
	if _, err := c.CrownMonthlyChampion(ctx); !errors.Is(err, errDown) {
		t.Fatalf("CrownMonthlyChampion err = %v", err)
	}
}

func TestTimeoutAbandonsSlowCall(t *testing.T) {
	s := slowStore{release: make(chan struct{})}
	defer close(s.release)
	c := leaderboard.NewClient(s, leaderboard.WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := c.SaveScore(context.Background(), "x", 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("call took %v, timeout not enforced", time.Since(start))
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ada", "ada"},
		{"   ", "Player"},
		{"", "Player"},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnop"},
	}
	for _, tt := range tests {
		if got := leaderboard.SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSnapshotDecodeAbsent(t *testing.T) {
	var v int
	if err := leaderboard.NewSnapshot([]byte("null")).Decode(&v); !errors.Is(err, leaderboard.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
