package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.StorageDriver != StorageMemory || cfg.AuthProvider != AuthDev {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimitPerMinute != 60 || cfg.AITimeout != 30*time.Second || cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("unexpected chat defaults: %+v", cfg)
	}
	if cfg.AIModel != "gemini-2.0-flash" || cfg.AITemperature != 0.7 {
		t.Fatalf("unexpected ai defaults: %+v", cfg)
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without GEMINI_API_KEY")
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DB_DSN")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("STORAGE_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestLoadPrompts(t *testing.T) {
	p, err := LoadPrompts("")
	if err != nil || p.System != "" {
		t.Fatalf("empty path should yield zero prompts, got %+v err=%v", p, err)
	}

	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "system: |\n  You are a vet assistant.\ngreeting_general: Hola!\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err = LoadPrompts(path)
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	if p.System != "You are a vet assistant.\n" || p.GreetingGeneral != "Hola!" {
		t.Fatalf("unexpected prompts: %+v", p)
	}
}
