// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Rooftop API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// TokenSecret signs every JWT the platform issues (HS256).
	TokenSecret string `env:"TOKEN_SECRET,required"`

	// ClientURL is the public origin of the web client, used to build the
	// confirmation and reset links embedded in outgoing emails.
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	// Outgoing Email (SMTP)
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"noreply@rooftop.homes"`

	// Object Storage (S3-compatible)
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	// RentPeriods is the comma-separated set of rental periods listings may
	// advertise (e.g. "month" or "day,week,month").
	RentPeriods string `env:"RENT_PERIODS" envDefault:"month"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the full set of origins permitted by CORS in
// production: the client origin plus any comma-separated extras.
func (c *Config) AllowedOrigins() []string {
	origins := []string{strings.TrimRight(c.ClientURL, "/")}
	for _, extra := range strings.Split(c.ExtraOrigins, ",") {
		if extra = strings.TrimSpace(extra); extra != "" {
			origins = append(origins, strings.TrimRight(extra, "/"))
		}
	}
	return origins
}

// RentPeriodSet returns the recognized rental periods as a slice.
func (c *Config) RentPeriodSet() []string {
	var periods []string
	for _, p := range strings.Split(c.RentPeriods, ",") {
		if p = strings.TrimSpace(p); p != "" {
			periods = append(periods, p)
		}
	}
	return periods
}
