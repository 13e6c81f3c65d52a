// Package leaderboard reads and writes monthly high scores and the hall of
// fame on a remote document store.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when decoding a snapshot of an absent document.
var ErrNotFound = errors.New("leaderboard: document not found")

// Store is the capability set of the remote document store.
// Paths are slash-separated, without leading slash or extension.
type Store interface {
	// Put replaces the document at path.
	Put(ctx context.Context, path string, record any) error
	// Get returns the document at path. ok is false if nothing is stored there.
	Get(ctx context.Context, path string) (snap Snapshot, ok bool, err error)
	// PushUnique appends record as a new child of path under a generated id.
	PushUnique(ctx context.Context, path string, record any) (id string, err error)
}

// Snapshot is the raw JSON of a document as returned by the store.
type Snapshot struct {
	raw json.RawMessage
}

// NewSnapshot wraps raw JSON.
func NewSnapshot(raw []byte) Snapshot {
	return Snapshot{raw: raw}
}

// Raw returns the document bytes.
func (s Snapshot) Raw() json.RawMessage {
	return s.raw
}

// Exists reports whether the snapshot carries a non-null document.
func (s Snapshot) Exists() bool {
	return len(s.raw) > 0 && string(s.raw) != "null"
}

// Decode unmarshals the document into v.
func (s Snapshot) Decode(v any) error {
	if !s.Exists() {
		return ErrNotFound
	}
	return json.Unmarshal(s.raw, v)
}

// Children decodes a list document into its id → child map.
func (s Snapshot) Children() (map[string]json.RawMessage, error) {
	children := map[string]json.RawMessage{}
	if !s.Exists() {
		return children, nil
	}
	if err := json.Unmarshal(s.raw, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// ScoreRecord is one finished game. Timestamp is Unix milliseconds.
type ScoreRecord struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Timestamp int64  `json:"timestamp"`
}

// HallOfFameEntry is a crowned monthly champion. The same shape is used for
// the per-month winner marker.
type HallOfFameEntry struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Month     string `json:"month"`
	Timestamp int64  `json:"timestamp"`
}

// HallOfFamePath is the list of all crowned champions.
const HallOfFamePath = "hall_of_fame"

// ScoresPath is the list of scores for one month bucket.
func ScoresPath(month string) string {
	return "monthly_highscores/" + month + "/scores"
}

// WinnerPath is the winner marker of one month bucket.
func WinnerPath(month string) string {
	return "monthly_highscores/" + month + "/winner"
}

// MonthKey formats the UTC calendar month of t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// PreviousMonthKey returns the month key of the calendar month before t.
func PreviousMonthKey(t time.Time) string {
	t = t.UTC()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthKey(first.AddDate(0, 0, -1))
}
