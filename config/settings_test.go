package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := NewManager(path)

	s, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Server.Port != 8486 {
		t.Errorf("port = %d", s.Server.Port)
	}
	if s.Agent.Identifier == "" {
		t.Error("agent identifier must default")
	}
	if s.Providers.Region != "US" {
		t.Errorf("region = %q", s.Providers.Region)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("settings file not written: %v", err)
	}
}

func TestLoadBackfillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"server":{"port":9000}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Server.Port != 9000 {
		t.Errorf("port = %d, want configured 9000", s.Server.Port)
	}
	if s.Server.Host == "" || s.Agent.Name == "" || s.Log.File == "" {
		t.Errorf("missing fields not backfilled: %+v", s)
	}
}

func TestEnvOverridesCredentials(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"providers":{"tmdbApiKey":"file-key"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Providers.TMDBAPIKey != "env-key" {
		t.Errorf("tmdb key = %q, env must win", s.Providers.TMDBAPIKey)
	}
	if s.Providers.SpotifyClientID != "env-id" {
		t.Errorf("spotify id = %q", s.Providers.SpotifyClientID)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	m := NewManager(path)

	s := DefaultSettings()
	s.Providers.GoogleBooksAPIKey = "books-key"
	if err := m.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Providers.GoogleBooksAPIKey != "books-key" {
		t.Errorf("round trip lost credentials: %+v", got.Providers)
	}
}
