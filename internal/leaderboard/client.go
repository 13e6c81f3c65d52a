package leaderboard

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/runner/internal/loop/config"
)

// Client runs the leaderboard operations against a Store. Every store call is
// bounded by the client's timeout. Errors are returned to the caller; there
// are no retries.
type Client struct {
	store   Store
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a client for store.
func NewClient(store Store, opts ...Option) *Client {
	c := &Client{
		store:   store,
		timeout: config.LeaderboardTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentMonth returns the month key scores are saved under right now.
func (c *Client) CurrentMonth() string {
	return MonthKey(c.now())
}

// SaveScore appends a timestamped record to the current month bucket.
func (c *Client) SaveScore(ctx context.Context, name string, score int) (ScoreRecord, error) {
	now := c.now()
	rec := ScoreRecord{
		Name:      SanitizeName(name),
		Score:     score,
		Timestamp: now.UnixMilli(),
	}

	err := c.call(ctx, func(ctx context.Context) error {
		_, err := c.store.PushUnique(ctx, ScoresPath(MonthKey(now)), rec)
		return err
	})
	if err != nil {
		return ScoreRecord{}, fmt.Errorf("save score: %w", err)
	}
	return rec, nil
}

// LoadTopScores returns the best scores of month, highest first. Ties go to
// the earlier timestamp. At most limit records are returned.
func (c *Client) LoadTopScores(ctx context.Context, month string, limit int) ([]ScoreRecord, error) {
	records, err := c.loadScores(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("load top scores: %w", err)
	}
	SortScores(records)
	return truncate(records, limit), nil
}

// LoadHallOfFame returns crowned champions, most recent first.
func (c *Client) LoadHallOfFame(ctx context.Context, limit int) ([]HallOfFameEntry, error) {
	var snap Snapshot
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		snap, _, err = c.store.Get(ctx, HallOfFamePath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load hall of fame: %w", err)
	}

	entries, err := decodeChildren[HallOfFameEntry](snap)
	if err != nil {
		return nil, fmt.Errorf("load hall of fame: %w", err)
	}
	slices.SortStableFunc(entries, func(a, b HallOfFameEntry) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return truncate(entries, limit), nil
}

// CrownMonthlyChampion records the winner of the previous month. It does
// nothing if that month already has a winner or had no scores. Returns the
// entry when the month was crowned by this call.
func (c *Client) CrownMonthlyChampion(ctx context.Context) (*HallOfFameEntry, error) {
	now := c.now()
	month := PreviousMonthKey(now)

	var exists bool
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		_, exists, err = c.store.Get(ctx, WinnerPath(month))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("crown %s: check winner: %w", month, err)
	}
	if exists {
		return nil, nil
	}

	records, err := c.loadScores(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("crown %s: %w", month, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	SortScores(records)
	best := records[0]

	entry := HallOfFameEntry{
		Name:      best.Name,
		Score:     best.Score,
		Month:     month,
		Timestamp: now.UnixMilli(),
	}
	// The winner marker is written last so a failed run is retried in full.
	// A hall of fame entry left by such a run is reused instead of duplicated.
	hall, err := c.LoadHallOfFame(ctx, -1)
	if err != nil {
		return nil, fmt.Errorf("crown %s: %w", month, err)
	}
	if i := slices.IndexFunc(hall, func(e HallOfFameEntry) bool { return e.Month == month }); i >= 0 {
		entry = hall[i]
	} else {
		err = c.call(ctx, func(ctx context.Context) error {
			_, err := c.store.PushUnique(ctx, HallOfFamePath, entry)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("crown %s: add hall of fame: %w", month, err)
		}
	}
	err = c.call(ctx, func(ctx context.Context) error {
		return c.store.Put(ctx, WinnerPath(month), entry)
	})
	if err != nil {
		return nil, fmt.Errorf("crown %s: write winner: %w", month, err)
	}
	return &entry, nil
}

func (c *Client) loadScores(ctx context.Context, month string) ([]ScoreRecord, error) {
	var snap Snapshot
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		snap, _, err = c.store.Get(ctx, ScoresPath(month))
		return err
	})
	if err != nil {
		return nil, err
	}
	return decodeChildren[ScoreRecord](snap)
}

// call runs fn under the client timeout.
func (c *Client) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The store call is abandoned; its result is discarded when it arrives.
		return ctx.Err()
	}
}

// decodeChildren decodes every child of a list snapshot. Malformed children
// are skipped. Children are ordered by id so results are stable.
func decodeChildren[T any](snap Snapshot) ([]T, error) {
	children, err := snap.Children()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for id := range children {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(children))
	for _, id := range ids {
		var v T
		if err := json.Unmarshal(children[id], &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// SortScores orders records by score descending, then by timestamp ascending.
func SortScores(records []ScoreRecord) {
	slices.SortStableFunc(records, func(a, b ScoreRecord) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
}

// SanitizeName trims and shortens a player name, falling back to the default.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > config.MaxNameLength {
		name = string([]rune(name)[:config.MaxNameLength])
	}
	if name == "" {
		return config.DefaultPlayerName
	}
	return name
}

func truncate[T any](s []T, limit int) []T {
	if limit >= 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
