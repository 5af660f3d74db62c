package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates runtime configuration for the Shopcrawl API.
type Config struct {
	Environment    string
	HTTPPort       int
	DatabaseURL    string
	DataStore      string
	LogLevel       string
	AllowedOrigins []string

	JWTSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendURL        string

	MailProvider  string
	MailFrom      string
	MailgunDomain string
	MailgunAPIKey string
}

// Load reads configuration from environment variables with sensible defaults for local development.
func Load() (Config, error) {
	databaseURL, err := getEnvOrFile("DATABASE_URL", "/run/secrets/shopcrawl_database_url")
	if err != nil {
		return Config{}, err
	}

	jwtSecret, err := getEnvOrFile("JWT_SECRET", "/run/secrets/shopcrawl_jwt_secret")
	if err != nil {
		return Config{}, err
	}

	googleClientSecret, err := getEnvOrFile("GOOGLE_CLIENT_SECRET", "/run/secrets/shopcrawl_google_client_secret")
	if err != nil {
		return Config{}, err
	}

	mailgunAPIKey, err := getEnvOrFile("MAILGUN_API_KEY", "/run/secrets/shopcrawl_mailgun_api_key")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment:        getEnv("APP_ENV", "development"),
		DatabaseURL:        databaseURL,
		DataStore:          strings.ToLower(getEnv("DATA_STORE", "memory")),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins:     parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:4200,http://localhost:8080")),
		JWTSecret:          strings.TrimSpace(jwtSecret),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: strings.TrimSpace(googleClientSecret),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/google_login/callback"),
		FrontendURL:        strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:4200"), "/"),
		MailProvider:       strings.ToLower(getEnv("MAIL_PROVIDER", "log")),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@shopcrawl.local"),
		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      strings.TrimSpace(mailgunAPIKey),
	}

	portValue := getEnv("PORT", getEnv("HTTP_PORT", "8080"))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", portValue, err)
	}
	cfg.HTTPPort = port

	isDev := strings.EqualFold(cfg.Environment, "development")

	if cfg.JWTSecret == "" {
		if !isDev {
			return Config{}, fmt.Errorf("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "dev-insecure-jwt-secret"
	}

	if !isDev && cfg.GoogleClientID == "" {
		return Config{}, fmt.Errorf("GOOGLE_CLIENT_ID is required outside development")
	}

	if cfg.DataStore == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATA_STORE is postgres but DATABASE_URL is not set")
	}

	if cfg.MailProvider == "mailgun" && (cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "") {
		return Config{}, fmt.Errorf("MAIL_PROVIDER is mailgun but MAILGUN_DOMAIN or MAILGUN_API_KEY is not set")
	}

	return cfg, nil
}

// HTTPAddress returns the address the HTTP server should bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseInMemoryStore returns true if the in-memory repositories should be used.
func (c Config) UseInMemoryStore() bool {
	return c.DataStore == "memory"
}

// OAuthEnabled reports whether Google login is configured.
func (c Config) OAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrFile(key, defaultPath string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		return readSecret(path, fileKey)
	}

	if defaultPath != "" {
		return readSecret(defaultPath, key)
	}

	return "", nil
}

func readSecret(path, name string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config: reading %s (%s): %w", name, path, err)
	}

	value := strings.TrimSpace(string(contents))
	if value == "" {
		return "", fmt.Errorf("config: %s (%s) is empty", name, path)
	}
	return value, nil
}
