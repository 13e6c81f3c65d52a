// Package docserver serves any leaderboard.Store over the REST document protocol.
package docserver

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/tomz197/runner/internal/leaderboard"
)

const maxBody = 1 << 20

// Server is an http.Handler exposing a Store.
type Server struct {
	store  leaderboard.Store
	auth   string
	logger *log.Logger
	router *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithAuth requires the auth query parameter to equal token.
func WithAuth(token string) Option {
	return func(s *Server) {
		s.auth = token
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// New creates a server for store.
func New(store leaderboard.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: log.Default().WithPrefix("docstore"),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.Use(s.authorize)
	r.HandleFunc("/{path:.+}.json", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/{path:.+}.json", s.handlePut).Methods(http.MethodPut)
	r.HandleFunc("/{path:.+}.json", s.handlePost).Methods(http.MethodPost)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth != "" {
			got := r.URL.Query().Get("auth")
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.auth)) != 1 {
				writeError(w, http.StatusUnauthorized, "permission denied")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	snap, ok, err := s.store.Get(r.Context(), path)
	if err != nil {
		s.logger.Error("get failed", "path", path, "err", err)
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		io.WriteString(w, "null")
		return
	}
	w.Write(snap.Raw())
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	body, ok := readJSON(w, r)
	if !ok {
		return
	}
	if err := s.store.Put(r.Context(), path, body); err != nil {
		s.logger.Error("put failed", "path", path, "err", err)
		writeError(w, http.StatusInternalServerError, "put failed")
		return
	}
	s.logger.Debug("put", "path", path, "bytes", len(body))
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	body, ok := readJSON(w, r)
	if !ok {
		return
	}
	id, err := s.store.PushUnique(r.Context(), path, body)
	if err != nil {
		s.logger.Error("push failed", "path", path, "err", err)
		writeError(w, http.StatusInternalServerError, "push failed")
		return
	}
	s.logger.Debug("push", "path", path, "id", id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"name": id})
}

func readJSON(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return nil, false
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid json")
		return nil, false
	}
	return json.RawMessage(body), true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
