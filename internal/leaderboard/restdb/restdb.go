// Package restdb is a leaderboard.Store speaking the REST document protocol:
// every path is addressable as {base}/{path}.json, GET reads (a JSON null
// means absent), PUT replaces, POST appends a child and answers {"name": id}.
package restdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tomz197/runner/internal/leaderboard"
)

// maxBody caps response bodies read from the server.
const maxBody = 4 << 20

// ErrTooLarge is returned when a response body exceeds maxBody.
var ErrTooLarge = errors.New("document too large")

// Store talks to a REST document server.
type Store struct {
	base string
	auth string
	http *http.Client
}

// Option configures a Store.
type Option func(*Store)

// WithAuth sets the token sent as the auth query parameter.
func WithAuth(token string) Option {
	return func(s *Store) {
		s.auth = token
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.http = c
	}
}

// New creates a store rooted at baseURL.
func New(baseURL string, opts ...Option) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("restdb: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("restdb: unsupported scheme %q", u.Scheme)
	}
	s := &Store{
		base: strings.TrimRight(u.String(), "/"),
		http: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) url(path string) string {
	u := s.base + "/" + strings.Trim(path, "/") + ".json"
	if s.auth != "" {
		u += "?auth=" + url.QueryEscape(s.auth)
	}
	return u
}

// Put replaces the document at path.
func (s *Store) Put(ctx context.Context, path string, record any) error {
	_, err := s.do(ctx, http.MethodPut, path, record)
	return err
}

// Get reads the document at path.
func (s *Store) Get(ctx context.Context, path string) (leaderboard.Snapshot, bool, error) {
	body, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return leaderboard.Snapshot{}, false, err
	}
	snap := leaderboard.NewSnapshot(body)
	return snap, snap.Exists(), nil
}

// PushUnique appends record to path and returns the server-generated id.
func (s *Store) PushUnique(ctx context.Context, path string, record any) (string, error) {
	body, err := s.do(ctx, http.MethodPost, path, record)
	if err != nil {
		return "", err
	}
	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("restdb: decode push response: %w", err)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("restdb: push to %s: empty id", path)
	}
	return resp.Name, nil
}

func (s *Store) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("restdb: encode %s: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("restdb: %s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restdb: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("restdb: %s %s: read body: %w", method, path, err)
	}
	if len(data) > maxBody {
		return nil, fmt.Errorf("restdb: %s %s: %w", method, path, ErrTooLarge)
	}
	if method == http.MethodGet && resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("restdb: %s %s: %s", method, path, resp.Status)
	}
	return data, nil
}

var _ leaderboard.Store = (*Store)(nil)
