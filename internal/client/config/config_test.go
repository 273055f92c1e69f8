package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8080/files/", c.Endpoint)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "fileshare.db", c.LedgerPath)
	assert.Equal(t, "downloads", c.DownloadDir)
	assert.False(t, c.RollbackRejected)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	want := defaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-e", "http://files.example/api/", "-t", "5s", "-l", "", "-d", "/tmp/dl", "-r", "-log-level", "debug", "-log-format=json"},
			want: func(c *Config) {
				c.Endpoint = "http://files.example/api/"
				c.RequestTimeout = 5 * time.Second
				c.LedgerPath = ""
				c.DownloadDir = "/tmp/dl"
				c.RollbackRejected = true
				c.LogLevel = "debug"
				c.LogFormat = "json"
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-x", "1", "-c", "cfg.json", "upload", "-t", "1m"},
			want: func(c *Config) { c.RequestTimeout = time.Minute },
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			err := parseFlags(&got, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(&want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	t.Run("overlays present keys only", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint":          "https://share.example/files/",
			"request_timeout":   "10s",
			"rollback_rejected": true,
		})

		got := defaults()
		require.NoError(t, parseJSON(&got, []string{"-config", path}))

		want := defaults()
		want.Endpoint = "https://share.example/files/"
		want.RequestTimeout = 10 * time.Second
		want.RollbackRejected = true
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("no config flag", func(t *testing.T) {
		got := defaults()
		require.NoError(t, parseJSON(&got, []string{"-e", "http://x/"}))
		assert.Equal(t, defaults(), got)
	})

	t.Run("missing file", func(t *testing.T) {
		got := defaults()
		err := parseJSON(&got, []string{"-c", filepath.Join(t.TempDir(), "absent.json")})
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		got := defaults()
		require.Error(t, parseJSON(&got, []string{"-c", bad}))
	})
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint":    "http://from-json/files/",
		"ledger_path": "json.db",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-e", "http://from-flag/files/"})
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag/files/", cfg.Endpoint)
	assert.Equal(t, "json.db", cfg.LedgerPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative endpoint", func(c *Config) { c.Endpoint = "files/" }},
		{"ftp endpoint", func(c *Config) { c.Endpoint = "ftp://host/files/" }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"no download dir", func(c *Config) { c.DownloadDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	_, err := LoadConfig([]string{"-e", "not a url"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
