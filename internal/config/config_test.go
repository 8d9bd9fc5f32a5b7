package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv unsets all config env vars so tests start clean.
func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"GITLAB_CLIENT_ID",
		"GITLAB_CLIENT_SECRET",
		"GITLAB_REDIRECT_URL",
		"GITLAB_BASE_URL",
		"GITLAB_SCOPES",
		"APP_NAME",
		"PORT",
		"BASE_URL",
		"ENVIRONMENT",
		"PROVIDER_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// setRequiredEnv sets the minimum env vars for a valid config.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITLAB_CLIENT_ID", "app-id")
	t.Setenv("GITLAB_CLIENT_SECRET", "app-secret")
	t.Setenv("GITLAB_REDIRECT_URL", "http://localhost:8080/callback")
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.com", cfg.GitLabBaseURL)
	assert.Equal(t, []string{"read_user", "api"}, cfg.Scopes)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"missing client id", "GITLAB_CLIENT_ID"},
		{"missing client secret", "GITLAB_CLIENT_SECRET"},
		{"missing redirect url", "GITLAB_REDIRECT_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			setRequiredEnv(t)
			t.Setenv(tt.omit, "")
			os.Unsetenv(tt.omit)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.omit)
		})
	}
}

func TestLoad_TrimsBaseURL(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("GITLAB_BASE_URL", "https://gitlab.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.example.com", cfg.GitLabBaseURL)
}

func TestLoad_CustomScopes(t *testing.T) {
	clearConfigEnv(t)
	setRequiredEnv(t)
	t.Setenv("GITLAB_SCOPES", "read_user read_api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"read_user", "read_api"}, cfg.Scopes)
}

func TestAddr_AlreadyPrefixed(t *testing.T) {
	cfg := &Config{Port: ":9090"}
	assert.Equal(t, ":9090", cfg.Addr())
}
