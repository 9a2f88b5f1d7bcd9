// Package config reads runtime settings from the environment.
//
// Values come from the process environment first and from a dotenv file
// second, so a deployed process can override anything in .env. Load never
// modifies the process environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/pet-adoption/internal/server"
	"github.com/sakif/pet-adoption/internal/service"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultEnvFile is read when Load is called without a path. It is
	// optional; an explicit path must exist.
	DefaultEnvFile = ".env"
)

type Config struct {
	Port int

	DBDriver    string // sqlite | postgres
	DBPath      string // sqlite file, or ":memory:"
	DatabaseURL string // postgres DSN
	ForeignKeys bool   // sqlite only; postgres always enforces them

	JWTSecret      string
	TokenTTL       time.Duration
	SecureCookies  bool
	AdoptionPolicy service.AdoptionPolicy

	LogLevel  slog.Level
	LogFormat string // text | json
}

// Load reads envFile (DefaultEnvFile if empty) and the environment, applies
// defaults and validates the result.
func Load(envFile string) (*Config, error) {
	optional := envFile == ""
	if optional {
		envFile = DefaultEnvFile
	}

	fileEnv, err := godotenv.Read(envFile)
	if err != nil {
		if !(optional && errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("config: reading %s: %w", envFile, err)
		}
		fileEnv = map[string]string{}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	})
}

// FromLookup builds a Config from an arbitrary key lookup. Unset and empty
// values both fall back to the default.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var errs []error
	cfg := &Config{
		DBDriver:    strings.ToLower(get("DB_DRIVER", DriverSQLite)),
		DBPath:      get("DB_PATH", "data/petadoption.db"),
		DatabaseURL: get("DATABASE_URL", ""),
		JWTSecret:   get("JWT_SECRET", ""),
		LogFormat:   strings.ToLower(get("LOG_FORMAT", "text")),
	}

	port, err := strconv.Atoi(get("PORT", "8080"))
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", get("PORT", "")))
	}
	cfg.Port = port

	if cfg.ForeignKeys, err = strconv.ParseBool(get("DB_FOREIGN_KEYS", "true")); err != nil {
		errs = append(errs, fmt.Errorf("DB_FOREIGN_KEYS: %w", err))
	}
	if cfg.SecureCookies, err = strconv.ParseBool(get("COOKIE_SECURE", "false")); err != nil {
		errs = append(errs, fmt.Errorf("COOKIE_SECURE: %w", err))
	}
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "24h")); err != nil || cfg.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be a positive duration such as 24h, got %q", get("TOKEN_TTL", "")))
	}
	if cfg.AdoptionPolicy, err = service.ParsePolicy(get("ADOPTION_POLICY", string(service.PolicyOpen))); err != nil {
		errs = append(errs, fmt.Errorf("ADOPTION_POLICY: %w", err))
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DBDriver))
	}

	switch {
	case cfg.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required (generate one with: openssl rand -hex 32)"))
	case len(cfg.JWTSecret) < 16:
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Server returns the HTTP server settings.
func (c *Config) Server() server.Config {
	return server.Config{
		Port:           c.Port,
		JWTSecret:      c.JWTSecret,
		TokenTTL:       c.TokenTTL,
		AdoptionPolicy: c.AdoptionPolicy,
		SecureCookies:  c.SecureCookies,
	}
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
