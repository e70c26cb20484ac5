package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
// LLM provider settings are read separately by llm.ConfigFromEnv.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Storage
	RedisURL     string // sessions and quota counters; in-memory when empty
	UsageStore   string // "csv" or "postgres"
	UsageLogPath string
	DatabaseURL  string

	// Archived generations older than this are pruned (PostgreSQL only)
	ArchiveRetentionDays int

	// Quota
	AttemptLimit int

	// Admin
	AdminSecret string // admin view disabled when empty

	// OIDC (optional sign-in)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting of generation endpoints, per client IP
	RateLimitPerMinute int

	// Questionnaire overlay
	QuestionnaireFile string

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Atelier Créatif — EDU"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                  getEnv("ENV", "development"),
		ServerAddr:           getEnv("SERVER_ADDR", ":3000"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:3000"),
		RedisURL:             getEnv("REDIS_URL", ""),
		UsageStore:           strings.ToLower(getEnv("USAGE_STORE", "csv")),
		UsageLogPath:         getEnv("USAGE_LOG_PATH", "usage_log.csv"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ArchiveRetentionDays: getEnvInt("ARCHIVE_RETENTION_DAYS", 30),
		AttemptLimit:         getEnvInt("ATTEMPT_LIMIT", 5),
		AdminSecret:          getEnv("ADMIN_SECRET", ""),
		OIDCIssuer:           getEnv("OIDC_ISSUER", ""),
		OIDCClientID:         getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret:     getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:      getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:        getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:          getEnv("CORS_ORIGINS", ""),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
		QuestionnaireFile:    getEnv("QUESTIONNAIRE_FILE", "questionnaire.yaml"),

		SiteTitle:   getEnv("SITE_TITLE", "Atelier Créatif — EDU"),
		SiteTagline: getEnv("SITE_TAGLINE", "Des histoires, poèmes et chansons pour la classe"),
		SiteFooter:  getEnv("SITE_FOOTER", "Atelier Créatif — textes générés pour les 6-14 ans"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// UsePostgres reports whether the usage ledger lives in PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.UsageStore == "postgres" && c.DatabaseURL != ""
}

// IsOIDCEnabled reports whether sign-in is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// IsAdminEnabled reports whether the admin view is reachable.
func (c *Config) IsAdminEnabled() bool {
	return c.AdminSecret != ""
}
