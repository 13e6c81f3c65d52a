package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("RUNNER_TEST_KEY", "value")
	if got := GetEnv("RUNNER_TEST_KEY", "fallback"); got != "value" {
		t.Fatalf("GetEnv = %q, want value", got)
	}
	if got := GetEnv("RUNNER_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv = %q, want fallback", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	s, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Defaults()
	if s != want {
		t.Fatalf("got %+v, want defaults %+v", s, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "runner.yaml")
	err := os.WriteFile(yamlPath, []byte(`
ssh:
  port: "2300"
leaderboard:
  backend: rest
  url: http://yaml.example
  timeout: 5s
names_path: /data/names.yaml
`), 0o600)
	if err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("RUNNER_CONFIG="+yamlPath+"\nLEADERBOARD_URL=http://dotenv.example\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// godotenv sets variables with os.Setenv; register them for cleanup.
	t.Setenv("RUNNER_CONFIG", "")
	os.Unsetenv("RUNNER_CONFIG")
	t.Setenv("LEADERBOARD_URL", "")
	os.Unsetenv("LEADERBOARD_URL")
	t.Setenv("GAME_SEED", "42")

	s, err := load(envPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if s.SSH.Port != "2300" {
		t.Errorf("ssh port = %q, want value from yaml", s.SSH.Port)
	}
	if s.SSH.Host != "::" {
		t.Errorf("ssh host = %q, want default", s.SSH.Host)
	}
	if s.Leaderboard.Backend != "rest" || s.Leaderboard.Timeout != 5*time.Second {
		t.Errorf("leaderboard = %+v", s.Leaderboard)
	}
	if s.Leaderboard.URL != "http://dotenv.example" {
		t.Errorf("url = %q, want .env to override yaml", s.Leaderboard.URL)
	}
	if s.NamesPath != "/data/names.yaml" {
		t.Errorf("names path = %q", s.NamesPath)
	}
	if s.Seed != 42 {
		t.Errorf("seed = %d, want 42", s.Seed)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("LEADERBOARD_TIMEOUT", "soon")
	if _, err := load(missing); err == nil {
		t.Fatal("expected error for bad timeout")
	}

	t.Setenv("LEADERBOARD_TIMEOUT", "")
	os.Unsetenv("LEADERBOARD_TIMEOUT")
	t.Setenv("GAME_SEED", "abc")
	if _, err := load(missing); err == nil {
		t.Fatal("expected error for bad seed")
	}
}

func TestLoadMissingYAML(t *testing.T) {
	t.Setenv("RUNNER_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
