package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path == "" {
		t.Error("database path should have a default")
	}
	if cfg.Leaderboard.RefreshIntervalSec <= 0 {
		t.Errorf("refresh interval = %d, want a positive default", cfg.Leaderboard.RefreshIntervalSec)
	}
	if cfg.Leaderboard.Size <= 0 {
		t.Errorf("leaderboard size = %d, want a positive default", cfg.Leaderboard.Size)
	}
	if cfg.Game.DefaultLanguage == "" {
		t.Error("default language should be set")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PHRASEHUNT_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("PHRASEHUNT_LEADERBOARD_SIZE", "25")
	t.Setenv("PHRASEHUNT_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("database path = %q, want the PHRASEHUNT_DATABASE_PATH override", cfg.Database.Path)
	}
	if cfg.Leaderboard.Size != 25 {
		t.Errorf("leaderboard size = %d, want the PHRASEHUNT_LEADERBOARD_SIZE override", cfg.Leaderboard.Size)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want the PHRASEHUNT_LOG_LEVEL override", cfg.Log.Level)
	}
}
