package core

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings shared by the server and client
// commands. Values come from taskboard.yaml, TASKBOARD_* environment
// variables, and defaults, in that order of precedence.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string
	// DatabasePath is the sqlite file backing the record store. Empty means
	// an in-memory store that does not survive a restart.
	DatabasePath string
	// EventLogPath is the JSONL operator event log. Empty disables it.
	EventLogPath string
	// ServerURL is the base URL client commands talk to.
	ServerURL string
	// RequestTimeout bounds every client HTTP request. Always finite.
	RequestTimeout time.Duration
	// ReconnectDelay is the pause between realtime channel reconnect
	// attempts after a transport loss.
	ReconnectDelay time.Duration
	// ReconnectAttempts caps how many consecutive reconnects are tried
	// before the client gives up and disconnects.
	ReconnectAttempts int
}

// defaultConfig returns a Config populated with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8080",
		DatabasePath:      "taskboard.sqlite3",
		EventLogPath:      "taskboard-events.jsonl",
		ServerURL:         "http://localhost:8080",
		RequestTimeout:    10 * time.Second,
		ReconnectDelay:    2 * time.Second,
		ReconnectAttempts: 5,
	}
}

// LoadConfig reads taskboard.yaml from the given directory (or the current
// directory when empty) using Viper. A missing file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("taskboard")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)
	v.SetEnvPrefix("TASKBOARD")
	v.AutomaticEnv()

	v.SetDefault("server.listen", cfg.ListenAddr)
	v.SetDefault("server.database", cfg.DatabasePath)
	v.SetDefault("server.event_log", cfg.EventLogPath)
	v.SetDefault("client.server_url", cfg.ServerURL)
	v.SetDefault("client.request_timeout", cfg.RequestTimeout)
	v.SetDefault("client.reconnect_delay", cfg.ReconnectDelay)
	v.SetDefault("client.reconnect_attempts", cfg.ReconnectAttempts)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading taskboard.yaml: %w", err)
		}
	}

	cfg.ListenAddr = v.GetString("server.listen")
	cfg.DatabasePath = v.GetString("server.database")
	cfg.EventLogPath = v.GetString("server.event_log")
	cfg.ServerURL = v.GetString("client.server_url")
	cfg.RequestTimeout = v.GetDuration("client.request_timeout")
	cfg.ReconnectDelay = v.GetDuration("client.reconnect_delay")
	cfg.ReconnectAttempts = v.GetInt("client.reconnect_attempts")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig rejects settings that would hang or loop forever.
func validateConfig(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("validating config: server.listen must not be empty")
	}
	if cfg.ServerURL == "" {
		return fmt.Errorf("validating config: client.server_url must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("validating config: client.request_timeout must be positive")
	}
	if cfg.ReconnectDelay <= 0 {
		return fmt.Errorf("validating config: client.reconnect_delay must be positive")
	}
	if cfg.ReconnectAttempts < 1 {
		return fmt.Errorf("validating config: client.reconnect_attempts must be at least 1")
	}
	return nil
}
