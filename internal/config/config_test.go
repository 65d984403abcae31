package config

import (
	"testing"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOARDSYNC_WS_URL", "ws://localhost:8080")
	t.Setenv("BOARDSYNC_ROOM", "demo")
	t.Setenv("BOARDSYNC_SESSION_ID", "session-1")
	t.Setenv("BOARDSYNC_CACHE_PATH", "/tmp/rooms.db")
	t.Setenv("BOARDSYNC_RECONNECT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WSURL != "ws://localhost:8080" || cfg.Room != "demo" {
		t.Fatalf("config fields wrong: %+v", cfg)
	}
	if cfg.SessionID != "session-1" || cfg.CachePath != "/tmp/rooms.db" {
		t.Fatalf("optional fields wrong: %+v", cfg)
	}
	if !cfg.Reconnect {
		t.Fatalf("expected reconnect enabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOARDSYNC_WS_URL", "ws://localhost:8080")
	t.Setenv("BOARDSYNC_ROOM", "demo")
	t.Setenv("BOARDSYNC_SESSION_ID", "")
	t.Setenv("BOARDSYNC_CACHE_PATH", "")
	t.Setenv("BOARDSYNC_RECONNECT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reconnect {
		t.Fatalf("reconnect must default to off")
	}
	if cfg.SessionID != "" || cfg.CachePath != "" {
		t.Fatalf("expected empty optional fields: %+v", cfg)
	}
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	t.Setenv("BOARDSYNC_WS_URL", "")
	t.Setenv("BOARDSYNC_ROOM", "demo")
	t.Setenv("BOARDSYNC_RECONNECT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing ws url")
	}
}

func TestLoadRejectsBadReconnectFlag(t *testing.T) {
	t.Setenv("BOARDSYNC_WS_URL", "ws://localhost:8080")
	t.Setenv("BOARDSYNC_ROOM", "demo")
	t.Setenv("BOARDSYNC_RECONNECT", "maybe")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unparseable reconnect flag")
	}
}
