package namestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "names.yaml")

	fs, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	alice := fs.Scoped("alice")
	if _, ok := alice.Get("playerName"); ok {
		t.Fatal("new store should be empty")
	}
	if err := alice.Set("playerName", "  Ally "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := fs.Scoped("bob").Set("playerName", "Bobby"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok := reopened.Scoped("alice").Get("playerName"); !ok || v != "Ally" {
		t.Fatalf("alice = %q, %v", v, ok)
	}
	if v, _ := reopened.Scoped("bob").Get("playerName"); v != "Bobby" {
		t.Fatalf("bob = %q", v)
	}
	if _, ok := reopened.Scoped("carol").Get("playerName"); ok {
		t.Fatal("scopes must not leak")
	}
}

func TestFileStoreRejectsEmpty(t *testing.T) {
	fs, err := Open(filepath.Join(t.TempDir(), "names.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Scoped("x").Set("playerName", "   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.yaml")
	if err := os.WriteFile(path, []byte("alice: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if err := m.Set("playerName", ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v", err)
	}
	m.Set("playerName", "ada")
	if v, ok := m.Get("playerName"); !ok || v != "ada" {
		t.Fatalf("got %q, %v", v, ok)
	}
}
