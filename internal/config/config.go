package config

import "time"

// DashboardConfig is the root configuration for a dashboard instance.
type DashboardConfig struct {
	API           APIConfig           `yaml:"api"`
	Channels      []string            `yaml:"channels"`
	Connection    ConnectionConfig    `yaml:"connection"`
	Polling       PollingConfig       `yaml:"polling"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// APIConfig holds backend endpoint settings.
type APIConfig struct {
	RestURL    string        `yaml:"rest_url"`
	WSURL      string        `yaml:"ws_url"`
	TokenEnv   string        `yaml:"token_env"` // env var holding the session token
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// ConnectionConfig holds websocket connection manager settings.
type ConnectionConfig struct {
	HeartbeatInterval    time.Duration `yaml:"heartbeat_interval"`
	ReconnectInterval    time.Duration `yaml:"reconnect_interval"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	MessageBufferSize    int           `yaml:"message_buffer_size"`
}

// PollingConfig holds REST polling intervals per entity type.
type PollingConfig struct {
	Orders     time.Duration `yaml:"orders"`
	Trades     time.Duration `yaml:"trades"`
	Positions  time.Duration `yaml:"positions"`
	MarketData time.Duration `yaml:"market_data"`
	Symbols    []string      `yaml:"symbols"` // symbols to poll quotes for
}

// NotificationsConfig holds the notification preference defaults and the
// reconciler hardening switch.
type NotificationsConfig struct {
	Enabled    bool            `yaml:"enabled"`
	Categories map[string]bool `yaml:"categories"`
	Priorities map[string]bool `yaml:"priorities"`
	Channels   map[string]bool `yaml:"channels"`
	ToastLimit int             `yaml:"toast_limit"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = stdout only

	// Rotation settings, used only when File is set.
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
}
