package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected  = errors.New("not connected")
	ErrAlreadyClosed = errors.New("already closed")
	ErrMaxReconnects = errors.New("max reconnect attempts exhausted")
)

// State is the observable connection state of a Manager.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// ClientConfig configures a single websocket client.
type ClientConfig struct {
	URL               string        // Full websocket URL including the channel path
	Token             string        // Session token passed as a connection parameter
	HeartbeatInterval time.Duration // Interval between outbound ping envelopes
	WriteTimeout      time.Duration // Write deadline for sends
	HandshakeTimeout  time.Duration // Dial handshake timeout
	BufferSize        int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HeartbeatInterval: 30 * time.Second,
		WriteTimeout:      5 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		BufferSize:        1000,
	}
}

// ManagerConfig configures a connection Manager.
type ManagerConfig struct {
	WSBaseURL            string        // Base websocket URL; the channel path is appended
	Channel              string        // Logical channel path (e.g. "orders")
	HeartbeatInterval    time.Duration // Interval between outbound pings
	ReconnectInterval    time.Duration // Fixed wait between reconnect attempts
	MaxReconnectAttempts int           // Attempts before the manager goes terminal
	WriteTimeout         time.Duration // Write deadline for sends
	MessageBufferSize    int           // Buffer size for the outbound event channel
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		HeartbeatInterval:    30 * time.Second,
		ReconnectInterval:    3 * time.Second,
		MaxReconnectAttempts: 5,
		WriteTimeout:         5 * time.Second,
		MessageBufferSize:    1000,
	}
}
