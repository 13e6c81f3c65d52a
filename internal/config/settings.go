package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the runtime configuration shared by the entry points.
type Settings struct {
	SSH         SSHSettings         `yaml:"ssh"`
	Web         WebSettings         `yaml:"web"`
	Docstore    DocstoreSettings    `yaml:"docstore"`
	Leaderboard LeaderboardSettings `yaml:"leaderboard"`

	NamesPath string `yaml:"names_path"` // Local player-name file
	EmblemSrc string `yaml:"emblem_src"` // URL or file path of the emblem image
	LogLevel  string `yaml:"log_level"`
	Seed      int64  `yaml:"seed"` // 0 picks a random seed per session
}

type SSHSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	HostKey     string `yaml:"host_key"`
	DisplayHost string `yaml:"display_host"` // Advertised on the web page
}

type WebSettings struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type DocstoreSettings struct {
	Addr string `yaml:"addr"`
}

// LeaderboardSettings selects and configures the leaderboard store.
type LeaderboardSettings struct {
	Backend string        `yaml:"backend"` // memory, rest or s3
	URL     string        `yaml:"url"`
	Auth    string        `yaml:"auth"`
	Bucket  string        `yaml:"bucket"`
	Prefix  string        `yaml:"prefix"`
	Region  string        `yaml:"region"`
	Timeout time.Duration `yaml:"timeout"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		SSH: SSHSettings{
			Host:        "::",
			Port:        "2222",
			HostKey:     "/app/keys/host_key",
			DisplayHost: "your-server.com",
		},
		Web: WebSettings{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Docstore: DocstoreSettings{
			Addr: ":8090",
		},
		Leaderboard: LeaderboardSettings{
			Backend: "memory",
			Prefix:  "runner",
			Region:  "eu-central-1",
			Timeout: 3 * time.Second,
		},
		NamesPath: "names.yaml",
		LogLevel:  "info",
	}
}

// Load resolves settings: defaults, then the YAML file named by RUNNER_CONFIG,
// then environment variables. A .env file in the working directory is loaded
// into the environment first; it never overrides variables already set.
func Load() (Settings, error) {
	return load(".env")
}

func load(envFile string) (Settings, error) {
	s := Defaults()

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s, fmt.Errorf("load %s: %w", envFile, err)
	}

	if path := GetEnv("RUNNER_CONFIG", ""); path != "" {
		if err := s.loadFile(path); err != nil {
			return s, err
		}
	}

	if err := s.applyEnv(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyEnv() error {
	s.SSH.Host = GetEnv("SSH_HOST", s.SSH.Host)
	s.SSH.Port = GetEnv("SSH_PORT", s.SSH.Port)
	s.SSH.HostKey = GetEnv("SSH_HOST_KEY", s.SSH.HostKey)
	s.SSH.DisplayHost = GetEnv("SSH_DISPLAY_HOST", s.SSH.DisplayHost)
	s.Web.Host = GetEnv("WEB_HOST", s.Web.Host)
	s.Web.Port = GetEnv("WEB_PORT", s.Web.Port)
	s.Docstore.Addr = GetEnv("DOCSTORE_ADDR", s.Docstore.Addr)
	s.Leaderboard.Backend = GetEnv("LEADERBOARD_BACKEND", s.Leaderboard.Backend)
	s.Leaderboard.URL = GetEnv("LEADERBOARD_URL", s.Leaderboard.URL)
	s.Leaderboard.Auth = GetEnv("LEADERBOARD_AUTH", s.Leaderboard.Auth)
	s.Leaderboard.Bucket = GetEnv("LEADERBOARD_BUCKET", s.Leaderboard.Bucket)
	s.Leaderboard.Prefix = GetEnv("LEADERBOARD_PREFIX", s.Leaderboard.Prefix)
	s.Leaderboard.Region = GetEnv("AWS_REGION", s.Leaderboard.Region)
	s.NamesPath = GetEnv("NAMES_PATH", s.NamesPath)
	s.EmblemSrc = GetEnv("EMBLEM_SRC", s.EmblemSrc)
	s.LogLevel = GetEnv("LOG_LEVEL", s.LogLevel)

	if v := GetEnv("LEADERBOARD_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LEADERBOARD_TIMEOUT: %w", err)
		}
		s.Leaderboard.Timeout = d
	}
	if v := GetEnv("GAME_SEED", ""); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GAME_SEED: %w", err)
		}
		s.Seed = seed
	}
	return nil
}

// ConfigureLogging sets the default logger's level from LogLevel.
// Unknown levels fall back to info.
func (s Settings) ConfigureLogging() {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		log.Warn("unknown log level, using info", "level", s.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)
}
