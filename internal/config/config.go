package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all environment-based configuration for the service.
type Config struct {
	// GitLab application credentials (registered application)
	ClientID     string `env:"GITLAB_CLIENT_ID"`
	ClientSecret string `env:"GITLAB_CLIENT_SECRET"`
	RedirectURL  string `env:"GITLAB_REDIRECT_URL"`

	// Provider instance; the API surface is fixed relative to this base.
	GitLabBaseURL string `env:"GITLAB_BASE_URL" envDefault:"https://gitlab.com"`

	// Scopes requested during authorization, space separated.
	Scopes []string `env:"GITLAB_SCOPES" envDefault:"read_user api" envSeparator:" "`

	// Server settings
	AppName string `env:"APP_NAME" envDefault:"GitLab Activity"`
	Port    string `env:"PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Environment controls log format and dev route logging
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Per-call timeout for outbound provider requests.
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. Group or world readable files risk
// exposing the client secret to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Warn().Str("permissions", fmt.Sprintf("%04o", mode)).Msg(".env file has insecure permissions; recommended 0600")
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.GitLabBaseURL = strings.TrimRight(cfg.GitLabBaseURL, "/")

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("GITLAB_CLIENT_ID is required")
	}

	if c.ClientSecret == "" {
		return fmt.Errorf("GITLAB_CLIENT_SECRET is required")
	}

	if c.RedirectURL == "" {
		return fmt.Errorf("GITLAB_REDIRECT_URL is required")
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
