// Package config provides configuration loading for the notifier.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johan/fedwatch-notifier/internal/feed"
)

// Config represents the notifier configuration.
type Config struct {
	// Feed settings
	Feed FeedConfig `yaml:"feed"`

	// Monitor settings
	Monitor MonitorConfig `yaml:"monitor"`

	// Notification channel settings
	Notifier NotifierConfig `yaml:"notifier"`

	// Observation journal settings
	Storage StorageConfig `yaml:"storage"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Metrics settings
	Metrics MetricsConfig `yaml:"metrics"`
}

// FeedConfig contains settings for the polled feed.
type FeedConfig struct {
	// Feed URL
	URL string `yaml:"url"`

	// Time between two ticks
	PollInterval time.Duration `yaml:"poll_interval"`

	// Timeout for a single fetch
	Timeout time.Duration `yaml:"timeout"`

	// User-Agent header sent with each fetch
	UserAgent string `yaml:"user_agent"`
}

// MonitorConfig contains settings for the polling loop.
type MonitorConfig struct {
	// Alert on the first successful observation
	NotifyOnStart bool `yaml:"notify_on_start"`

	// Run exactly one tick and exit
	RunOnce bool `yaml:"run_once"`

	// Stop the loop when a notification cannot be delivered
	FatalOnNotifyError bool `yaml:"fatal_on_notify_error"`
}

// NotifierConfig selects and configures the notification channel.
type NotifierConfig struct {
	// Channel type: "twilio", "telegram", "websocket" or "log"
	Type string `yaml:"type"`

	// Timeout for a single send
	Timeout time.Duration `yaml:"timeout"`

	Twilio    TwilioConfig    `yaml:"twilio"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// TwilioConfig names the environment variables holding Twilio credentials.
type TwilioConfig struct {
	AccountSIDEnv string `yaml:"account_sid_env"`
	AuthTokenEnv  string `yaml:"auth_token_env"`
	FromEnv       string `yaml:"from_env"`
	ToEnv         string `yaml:"to_env"`
}

// TelegramConfig names the environment variables holding Telegram credentials.
type TelegramConfig struct {
	BotTokenEnv string `yaml:"bot_token_env"`
	ChatIDEnv   string `yaml:"chat_id_env"`

	// Custom Bot API base URL (optional)
	BaseURL string `yaml:"base_url"`
}

// WebSocketConfig contains settings for the websocket relay channel.
type WebSocketConfig struct {
	// Relay URL (ws:// or wss://)
	URL string `yaml:"url"`
}

// StorageConfig contains observation journal settings.
type StorageConfig struct {
	// Storage type: "file" or "none"
	Type string `yaml:"type"`

	// Output directory for file storage
	OutputDir string `yaml:"output_dir"`

	// File rotation interval
	RotationInterval time.Duration `yaml:"rotation_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `yaml:"level"`

	// Log format: text or json
	Format string `yaml:"format"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Listen address for /metrics, e.g. ":9090". Empty disables the server.
	Listen string `yaml:"listen"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:          feed.DefaultURL,
			PollInterval: 15 * time.Minute,
			Timeout:      10 * time.Second,
			UserAgent:    feed.DefaultUserAgent,
		},
		Notifier: NotifierConfig{
			Type:    "twilio",
			Timeout: 15 * time.Second,
			Twilio: TwilioConfig{
				AccountSIDEnv: "TWILIO_ACCOUNT_SID",
				AuthTokenEnv:  "TWILIO_AUTH_TOKEN",
				FromEnv:       "TWILIO_WHATSAPP_FROM",
				ToEnv:         "TWILIO_WHATSAPP_TO",
			},
			Telegram: TelegramConfig{
				BotTokenEnv: "TELEGRAM_BOT_TOKEN",
				ChatIDEnv:   "TELEGRAM_CHAT_ID",
			},
		},
		Storage: StorageConfig{
			Type:             "none",
			OutputDir:        "data",
			RotationInterval: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Feed.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid feed url: %q", c.Feed.URL)
	}
	if c.Feed.PollInterval <= 0 {
		return fmt.Errorf("feed.poll_interval must be positive")
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("feed.timeout must be positive")
	}

	switch c.Notifier.Type {
	case "twilio", "telegram", "log":
	case "websocket":
		if c.Notifier.WebSocket.URL == "" {
			return fmt.Errorf("notifier.websocket.url required for websocket notifier")
		}
	default:
		return fmt.Errorf("invalid notifier type: %s", c.Notifier.Type)
	}
	if c.Notifier.Timeout <= 0 {
		return fmt.Errorf("notifier.timeout must be positive")
	}

	if c.Storage.Type != "file" && c.Storage.Type != "none" {
		return fmt.Errorf("invalid storage type: %s", c.Storage.Type)
	}
	if c.Storage.Type == "file" && c.Storage.OutputDir == "" {
		return fmt.Errorf("output_dir required for file storage")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}

// Env resolves the environment variable named by name. An empty name
// resolves to the empty string.
func Env(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

// Overrides holds command-line values that replace file settings. Nil
// fields leave the file value untouched.
type Overrides struct {
	URL           *string
	PollInterval  *time.Duration
	NotifyOnStart *bool
	RunOnce       *bool
}

// Apply copies every set override into c.
func (o Overrides) Apply(c *Config) {
	if o.URL != nil {
		c.Feed.URL = *o.URL
	}
	if o.PollInterval != nil {
		c.Feed.PollInterval = *o.PollInterval
	}
	if o.NotifyOnStart != nil {
		c.Monitor.NotifyOnStart = *o.NotifyOnStart
	}
	if o.RunOnce != nil {
		c.Monitor.RunOnce = *o.RunOnce
	}
}
