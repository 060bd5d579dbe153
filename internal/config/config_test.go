package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "REDIS_URL", "ADMIN_EMAILS", "MIGRATE_ON_START", "YOUTUBE_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
	if len(cfg.AdminEmails) != 0 {
		t.Errorf("AdminEmails = %v, want none", cfg.AdminEmails)
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart should default to true")
	}
	if cfg.YouTubeTimeout != 5*time.Second {
		t.Errorf("YouTubeTimeout = %v", cfg.YouTubeTimeout)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_EMAILS", "a@example.com, b@example.com,,")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("YOUTUBE_TIMEOUT", "250ms")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if want := []string{"a@example.com", "b@example.com"}; !reflect.DeepEqual(cfg.AdminEmails, want) {
		t.Errorf("AdminEmails = %v, want %v", cfg.AdminEmails, want)
	}
	if cfg.MigrateOnStart {
		t.Error("MigrateOnStart should be false")
	}
	if cfg.YouTubeTimeout != 250*time.Millisecond {
		t.Errorf("YouTubeTimeout = %v", cfg.YouTubeTimeout)
	}
}
