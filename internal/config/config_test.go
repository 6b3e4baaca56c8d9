package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.AccessTokenTTL)
	}
	if cfg.ResetTokenTTL != 10*time.Minute {
		t.Errorf("ResetTokenTTL = %v, want 10m", cfg.ResetTokenTTL)
	}
	if cfg.JWTSecret == "" {
		t.Error("development should fall back to a secret")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.ufc.br,https://b.ufc.br")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("PROFESSOR_EMAIL_DOMAIN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.ufc.br" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("AccessTokenTTL = %v, want 1h", cfg.AccessTokenTTL)
	}
	if cfg.ProfessorEmailDomain != "" {
		t.Errorf("ProfessorEmailDomain = %q, want empty", cfg.ProfessorEmailDomain)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret in production", map[string]string{"APP_ENV": "production", "JWT_SECRET": ""}},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "ACCESS_TOKEN_TTL": "soon"}},
		{"unknown storage driver", map[string]string{"JWT_SECRET": "x", "STORAGE_DRIVER": "s3"}},
		{"no workers", map[string]string{"JWT_SECRET": "x", "NOTIFY_WORKERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
