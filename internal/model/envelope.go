package model

import (
	"encoding/json"
	"time"
)

// Reserved envelope types. Ping/pong are keepalive control frames and are
// consumed inside the transport; subscribe/unsubscribe carry a topic.
const (
	TypePing        = "ping"
	TypePong        = "pong"
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
)

// Data event types delivered on subscribed topics.
const (
	TypeOrderUpdate    = "order_update"
	TypeOrderRemoved   = "order_removed"
	TypeTrade          = "trade"
	TypePositionUpdate = "position_update"
	TypeQuote          = "quote"
	TypeNotification   = "notification"
)

// Envelope is the wire format for every websocket message in both
// directions: {type, data, timestamp, topic?}.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Topic     string          `json:"topic,omitempty"`
}

// NewEnvelope builds an outbound envelope with the current timestamp.
func NewEnvelope(msgType string, data any) (Envelope, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Envelope{}, err
		}
		raw = b
	}
	return Envelope{
		Type:      msgType,
		Data:      raw,
		Timestamp: time.Now().UTC(),
	}, nil
}
