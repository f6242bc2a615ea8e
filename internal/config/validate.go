package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *DashboardConfig) Validate() error {
	if c.API.RestURL == "" {
		return errors.New("api.rest_url is required")
	}
	if c.API.WSURL == "" {
		return errors.New("api.ws_url is required")
	}
	if !strings.HasPrefix(c.API.WSURL, "ws://") && !strings.HasPrefix(c.API.WSURL, "wss://") {
		return fmt.Errorf("api.ws_url must be a ws:// or wss:// URL, got %q", c.API.WSURL)
	}

	if len(c.Channels) == 0 {
		return errors.New("channels must list at least one channel path")
	}
	for _, ch := range c.Channels {
		if ch == "" {
			return errors.New("channels must not contain empty entries")
		}
	}

	if c.Connection.MaxReconnectAttempts < 1 {
		return errors.New("connection.max_reconnect_attempts must be >= 1")
	}
	if c.Connection.ReconnectInterval <= 0 {
		return errors.New("connection.reconnect_interval must be > 0")
	}
	if c.Connection.HeartbeatInterval <= 0 {
		return errors.New("connection.heartbeat_interval must be > 0")
	}
	if c.Connection.MessageBufferSize < 1 {
		return errors.New("connection.message_buffer_size must be >= 1")
	}

	if c.Polling.Orders <= 0 || c.Polling.Trades <= 0 ||
		c.Polling.Positions <= 0 || c.Polling.MarketData <= 0 {
		return errors.New("polling intervals must be > 0")
	}

	if c.Notifications.ToastLimit < 1 {
		return errors.New("notifications.toast_limit must be >= 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	return nil
}
