package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subwatch.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, cfg.Address)
	assert.Equal(t, 50, cfg.Monitor.PostLimit)
	assert.Equal(t, 660*time.Second, cfg.ReplyInterval())
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
Address: 0.0.0.0:9000
DatabasePath: /tmp/subwatch-test.db
Monitor:
  PostLimit: 25
  PollIntervalSec: 5
  ReplyIntervalSec: 1
Reddit:
  ClientID: from-file
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Address)
	assert.Equal(t, "/tmp/subwatch-test.db", cfg.DatabasePath)
	assert.Equal(t, 25, cfg.Monitor.PostLimit)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, "from-file", cfg.Reddit.ClientID)
	assert.Equal(t, DefaultUserAgent, cfg.Reddit.UserAgent, "unset fields keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "Reddit:\n  ClientID: from-file\n")
	t.Setenv("REDDIT_CLIENT_ID", "from-env")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("SUBWATCH_CONSOLE_ADDRESS", "0.0.0.0:6001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Reddit.ClientID)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, "0.0.0.0:6001", cfg.ConsoleAddress)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "Monitor: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "Monitor:\n  PostLimit: 500\n"))
	assert.Error(t, err)
}

func TestValidatePollInterval(t *testing.T) {
	tests := []struct {
		name      string
		seconds   int
		wantError bool
	}{
		{"zero", 0, true},
		{"negative", -5, true},
		{"one second", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Monitor.PollIntervalSec = tt.seconds
			err := cfg.Validate()
			assert.Equal(t, tt.wantError, err != nil, "Validate() error = %v", err)
		})
	}

	_, err := Load(writeConfig(t, "Monitor:\n  PollIntervalSec: 0\n"))
	assert.Error(t, err)
}
