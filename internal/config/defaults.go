package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL              = "https://api.tradedesk.local/v1"
	DefaultWSURL                = "wss://stream.tradedesk.local/v1/ws"
	DefaultTokenEnv             = "TRADEDESK_TOKEN"
	DefaultAPITimeout           = 30 * time.Second
	DefaultMaxRetries           = 3
	DefaultHeartbeatInterval    = 30 * time.Second
	DefaultReconnectInterval    = 3 * time.Second
	DefaultMaxReconnectAttempts = 5
	DefaultWriteTimeout         = 5 * time.Second
	DefaultMessageBufferSize    = 1000
	DefaultOrdersInterval       = 10 * time.Second
	DefaultTradesInterval       = 15 * time.Second
	DefaultPositionsInterval    = 10 * time.Second
	DefaultMarketDataInterval   = 5 * time.Second
	DefaultToastLimit           = 5
	DefaultLogMaxSizeMB         = 100
	DefaultLogMaxBackups        = 3
	DefaultLogMaxAgeDays        = 28
)

// DefaultChannels are the logical channel paths subscribed when none are
// configured.
var DefaultChannels = []string{"orders", "trades", "positions", "marketdata", "notifications"}

func (c *DashboardConfig) applyDefaults() {
	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.WSURL == "" {
		c.API.WSURL = DefaultWSURL
	}
	if c.API.TokenEnv == "" {
		c.API.TokenEnv = DefaultTokenEnv
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Channel defaults
	if len(c.Channels) == 0 {
		c.Channels = append([]string(nil), DefaultChannels...)
	}

	// Connection defaults
	if c.Connection.HeartbeatInterval == 0 {
		c.Connection.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Connection.ReconnectInterval == 0 {
		c.Connection.ReconnectInterval = DefaultReconnectInterval
	}
	if c.Connection.MaxReconnectAttempts == 0 {
		c.Connection.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.MessageBufferSize == 0 {
		c.Connection.MessageBufferSize = DefaultMessageBufferSize
	}

	// Polling defaults
	if c.Polling.Orders == 0 {
		c.Polling.Orders = DefaultOrdersInterval
	}
	if c.Polling.Trades == 0 {
		c.Polling.Trades = DefaultTradesInterval
	}
	if c.Polling.Positions == 0 {
		c.Polling.Positions = DefaultPositionsInterval
	}
	if c.Polling.MarketData == 0 {
		c.Polling.MarketData = DefaultMarketDataInterval
	}

	// Notification defaults: everything enabled unless configured otherwise.
	if c.Notifications.Categories == nil && c.Notifications.Priorities == nil &&
		c.Notifications.Channels == nil && !c.Notifications.Enabled {
		c.Notifications.Enabled = true
	}
	if c.Notifications.ToastLimit == 0 {
		c.Notifications.ToastLimit = DefaultToastLimit
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = DefaultLogMaxAgeDays
	}
}
