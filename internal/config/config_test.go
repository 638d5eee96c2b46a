package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "PUBLIC_URL", "CORS_ALLOWED_ORIGINS",
		"GENERATION_BACKEND", "V0_API_KEY", "V0_BASE_URL", "V0_TIMEOUT", "PREVIEW_BASE_URL",
		"BOOTSTRAP_MODE", "THEME", "THEMES_FILE",
		"ARK_API_KEY", "ARK_MODEL", "ARK_TEMPERATURE", "ARK_MAX_TOKENS", "PROMPT_REFINE_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsToMemoryBackend(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Generation.Backend != BackendMemory {
		t.Fatalf("expected memory backend, got %s", cfg.Generation.Backend)
	}
	if cfg.Generation.PreviewBase != "http://localhost:8080/preview" {
		t.Fatalf("unexpected preview base: %s", cfg.Generation.PreviewBase)
	}
	if cfg.Generation.Timeout != 120*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Generation.Timeout)
	}
	if cfg.Theme.Active != "restaurant" {
		t.Fatalf("unexpected theme: %s", cfg.Theme.Active)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadSelectsV0WhenKeyPresent(t *testing.T) {
	clearEnv(t)
	t.Setenv("V0_API_KEY", "key")
	t.Setenv("V0_TIMEOUT", "30")
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Generation.Backend != BackendV0 {
		t.Fatalf("expected v0 backend, got %s", cfg.Generation.Backend)
	}
	if cfg.Generation.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Generation.Timeout)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
}

func TestLoadRejectsV0WithoutKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GENERATION_BACKEND", "v0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when V0_API_KEY missing")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                  "80 80",
		"V0_TIMEOUT":            "soon",
		"PROMPT_REFINE_ENABLED": "maybe",
		"GENERATION_BACKEND":    "openai",
	}
	for key, value := range cases {
		clearEnv(t)
		t.Setenv(key, value)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for %s=%q", key, value)
		}
	}
}

func TestCORSOriginsList(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
}

func TestAIConfigEnabled(t *testing.T) {
	if (AIConfig{Model: "m"}).Enabled() {
		t.Fatal("expected disabled without credentials")
	}
	if !(AIConfig{Model: "m", APIKey: "k"}).Enabled() {
		t.Fatal("expected enabled with api key")
	}
	if !(AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}).Enabled() {
		t.Fatal("expected enabled with AK/SK")
	}
}
