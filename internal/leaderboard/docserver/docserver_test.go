package docserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomz197/runner/internal/leaderboard/memstore"
)

func TestRejectsInvalidJSON(t *testing.T) {
	s := New(memstore.New())
	req := httptest.NewRequest(http.MethodPut, "/a/b.json", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetAbsentReturnsNull(t *testing.T) {
	s := New(memstore.New())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/monthly_highscores/2026-10/scores.json", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("got %d %q, want 200 null", rec.Code, rec.Body.String())
	}
}

func TestPostThenGetList(t *testing.T) {
	s := New(memstore.New())

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hall_of_fame.json", strings.NewReader(`{"name":"ada","score":3}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name"`) {
		t.Fatalf("post = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hall_of_fame.json", nil))
	if !strings.Contains(rec.Body.String(), `"ada"`) {
		t.Fatalf("list = %q", rec.Body.String())
	}
}

func TestUnsupportedMethod(t *testing.T) {
	s := New(memstore.New())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/x.json", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
