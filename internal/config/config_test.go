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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 15*time.Minute, cfg.Feed.PollInterval)
	assert.Equal(t, "twilio", cfg.Notifier.Type)
	assert.Equal(t, "TWILIO_WHATSAPP_TO", cfg.Notifier.Twilio.ToEnv)
	assert.False(t, cfg.Monitor.NotifyOnStart)
	assert.False(t, cfg.Monitor.RunOnce)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
feed:
  url: https://example.com/feed.json
  poll_interval: 30s
monitor:
  notify_on_start: true
notifier:
  type: telegram
  telegram:
    chat_id_env: ALERT_CHAT
storage:
  type: file
  output_dir: /tmp/journal
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://example.com/feed.json", cfg.Feed.URL)
	assert.Equal(t, 30*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.Feed.Timeout, "unset fields keep defaults")
	assert.True(t, cfg.Monitor.NotifyOnStart)
	assert.Equal(t, "telegram", cfg.Notifier.Type)
	assert.Equal(t, "ALERT_CHAT", cfg.Notifier.Telegram.ChatIDEnv)
	assert.Equal(t, "TELEGRAM_BOT_TOKEN", cfg.Notifier.Telegram.BotTokenEnv)
	assert.Equal(t, "/tmp/journal", cfg.Storage.OutputDir)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "feed: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "relative url",
			modify:  func(c *Config) { c.Feed.URL = "/feed" },
			wantErr: "invalid feed url",
		},
		{
			name:    "unsupported scheme",
			modify:  func(c *Config) { c.Feed.URL = "ftp://example.com/feed" },
			wantErr: "invalid feed url",
		},
		{
			name:    "zero poll interval",
			modify:  func(c *Config) { c.Feed.PollInterval = 0 },
			wantErr: "poll_interval",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Feed.Timeout = 0 },
			wantErr: "feed.timeout",
		},
		{
			name:    "unknown notifier",
			modify:  func(c *Config) { c.Notifier.Type = "pigeon" },
			wantErr: "invalid notifier type",
		},
		{
			name:    "websocket without url",
			modify:  func(c *Config) { c.Notifier.Type = "websocket" },
			wantErr: "notifier.websocket.url",
		},
		{
			name:    "unknown storage",
			modify:  func(c *Config) { c.Storage.Type = "s3" },
			wantErr: "invalid storage type",
		},
		{
			name: "file storage without directory",
			modify: func(c *Config) {
				c.Storage.Type = "file"
				c.Storage.OutputDir = ""
			},
			wantErr: "output_dir required",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("FEDWATCH_TEST_SECRET", "s3cret")
	assert.Equal(t, "s3cret", Env("FEDWATCH_TEST_SECRET"))
	assert.Equal(t, "", Env(""))
}

func TestOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Monitor.NotifyOnStart = true

	url := "https://example.com/other.json"
	interval := 90 * time.Second
	runOnce := true
	Overrides{URL: &url, PollInterval: &interval, RunOnce: &runOnce}.Apply(cfg)

	assert.Equal(t, url, cfg.Feed.URL)
	assert.Equal(t, interval, cfg.Feed.PollInterval)
	assert.True(t, cfg.Monitor.RunOnce)
	assert.True(t, cfg.Monitor.NotifyOnStart, "unset override keeps file value")

	off := false
	Overrides{NotifyOnStart: &off}.Apply(cfg)
	assert.False(t, cfg.Monitor.NotifyOnStart)
}
