package config

import (
	"strings"
	"testing"
)

func TestLoadDefaultsForDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.JWTSecret == "" {
		t.Fatal("expected a development fallback JWT secret")
	}
	if !cfg.UseInMemoryStore() {
		t.Fatal("expected in-memory store")
	}
	if cfg.HTTPAddress() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.HTTPAddress())
	}
}

func TestLoadRequiresJWTSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when JWT_SECRET missing outside development")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRequiresGoogleClientIDOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when GOOGLE_CLIENT_ID missing outside development")
	}
	if !strings.Contains(err.Error(), "GOOGLE_CLIENT_ID is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "postgres")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when DATABASE_URL missing for postgres store")
	}
}

func TestLoadRequiresMailgunSettingsForMailgunProvider(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MAIL_PROVIDER", "mailgun")
	t.Setenv("MAILGUN_DOMAIN", "")
	t.Setenv("MAILGUN_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when mailgun provider lacks credentials")
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestLoadTrimsFrontendURL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("FRONTEND_URL", "https://shopcrawl.example/")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.FrontendURL != "https://shopcrawl.example" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", cfg.FrontendURL)
	}
}
