package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Settings represents the gateway configuration persisted to disk.
type Settings struct {
	Server    ServerSettings   `json:"server"`
	Agent     AgentSettings    `json:"agent"`
	Providers ProviderSettings `json:"providers"`
	Log       LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// AgentSettings describe how the gateway identifies itself in the manifest.
type AgentSettings struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Version    string `json:"version"`
}

// ProviderSettings carries the upstream catalog credentials. Environment
// variables override file values so deployments can keep secrets out of the
// settings file.
type ProviderSettings struct {
	TMDBAPIKey          string `json:"tmdbApiKey"`
	GoogleBooksAPIKey   string `json:"googleBooksApiKey"`
	SpotifyClientID     string `json:"spotifyClientId"`
	SpotifyClientSecret string `json:"spotifyClientSecret"`
	Region              string `json:"region"` // home region for certifications, e.g. "US"
}

// LogConfig controls file logging with rotation.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first run.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 8486},
		Agent: AgentSettings{
			Identifier: "tv.metarelay.agent",
			Name:       "Metarelay",
			Version:    "1.0",
		},
		Providers: ProviderSettings{Region: "US"},
		Log: LogConfig{
			File:       "cache/logs/metarelay.log",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Manager loads and saves the settings file.
type Manager struct {
	mu   sync.Mutex
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) Path() string { return m.path }

func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads the settings file or creates it with defaults if missing.
// Credential environment variables always win over file values.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.save(defaults); err != nil {
			return Settings{}, err
		}
		return applyEnv(defaults), nil
	}

	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	// Backfill defaults when the config predates a setting.
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = defaults.Server.Host
	}
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if strings.TrimSpace(s.Agent.Identifier) == "" {
		s.Agent.Identifier = defaults.Agent.Identifier
	}
	if strings.TrimSpace(s.Agent.Name) == "" {
		s.Agent.Name = defaults.Agent.Name
	}
	if strings.TrimSpace(s.Agent.Version) == "" {
		s.Agent.Version = defaults.Agent.Version
	}
	if strings.TrimSpace(s.Providers.Region) == "" {
		s.Providers.Region = defaults.Providers.Region
	}
	if strings.TrimSpace(s.Log.File) == "" {
		s.Log.File = defaults.Log.File
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = defaults.Log.MaxSize
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = defaults.Log.MaxBackups
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = defaults.Log.MaxAge
	}

	return applyEnv(s), nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(s)
}

func (m *Manager) save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}

func applyEnv(s Settings) Settings {
	if v := strings.TrimSpace(os.Getenv("TMDB_API_KEY")); v != "" {
		s.Providers.TMDBAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_BOOKS_API_KEY")); v != "" {
		s.Providers.GoogleBooksAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_ID")); v != "" {
		s.Providers.SpotifyClientID = v
	}
	if v := strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_SECRET")); v != "" {
		s.Providers.SpotifyClientSecret = v
	}
	return s
}
