// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Shared secret for the step-up confirmation gate. PasswordHash, when
	// set, is a bcrypt hash and takes precedence over the plain Password.
	Password     string
	PasswordHash string

	// Session cookie signing secret and server-side session lifetime.
	SessionSecret string
	SessionTTL    time.Duration

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Optional S3-compatible image store for race images. Uploads are
	// skipped entirely when AssetBucket is empty.
	AssetBucket    string
	AssetRegion    string
	AssetEndpoint  string
	AssetPathStyle bool
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "padraic")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "carreras")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "carreras.app,www.carreras.app")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("ASSET_REGION", "eu-west-1")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBUser:         v.GetString("DB_USER"),
		DBPass:         v.GetString("DB_PASS"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		Password:       v.GetString("PASSWORD"),
		PasswordHash:   v.GetString("PASSWORD_HASH"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		Debug:          v.GetBool("DEBUG"),
		Port:           v.GetString("PORT"),
		TLSDomains:     splitTrimmed(v.GetString("TLS_DOMAINS")),
		AssetBucket:    v.GetString("ASSET_BUCKET"),
		AssetRegion:    v.GetString("ASSET_REGION"),
		AssetEndpoint:  v.GetString("ASSET_ENDPOINT"),
		AssetPathStyle: v.GetBool("ASSET_PATH_STYLE"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// SessionKey returns the session cookie signing key as a byte slice.
func (c *Config) SessionKey() []byte {
	return []byte(c.SessionSecret)
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.Password == "" && c.PasswordHash == "" {
		log.Fatal("config: PASSWORD or PASSWORD_HASH must be set")
	}
	if c.SessionSecret == "" {
		log.Fatal("config: SESSION_SECRET must be set")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
