// Package backend picks the leaderboard store named in the settings.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomz197/runner/internal/config"
	"github.com/tomz197/runner/internal/leaderboard"
	"github.com/tomz197/runner/internal/leaderboard/memstore"
	"github.com/tomz197/runner/internal/leaderboard/restdb"
	"github.com/tomz197/runner/internal/leaderboard/s3store"
)

// Open returns the store for settings.Backend: memory, rest or s3.
func Open(ctx context.Context, settings config.LeaderboardSettings) (leaderboard.Store, error) {
	switch strings.ToLower(settings.Backend) {
	case "", "memory":
		return memstore.New(), nil
	case "rest":
		if settings.URL == "" {
			return nil, fmt.Errorf("backend rest: LEADERBOARD_URL is required")
		}
		s, err := restdb.New(settings.URL, restdb.WithAuth(settings.Auth))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := s3store.Open(ctx, settings.Region, settings.Bucket, settings.Prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown leaderboard backend %q", settings.Backend)
	}
}

// OpenClient opens the configured store and wraps it in a leaderboard client
// using the configured timeout.
func OpenClient(ctx context.Context, settings config.LeaderboardSettings) (*leaderboard.Client, error) {
	store, err := Open(ctx, settings)
	if err != nil {
		return nil, err
	}
	return leaderboard.NewClient(store, leaderboard.WithTimeout(settings.Timeout)), nil
}
