package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/klinefeld/tradedesk/internal/model"
)

// DialFunc creates a Client for a connection attempt. Overridable in tests.
type DialFunc func(cfg ClientConfig, logger *slog.Logger) Client

// Manager owns one logical channel: the websocket client, the heartbeat
// and reconnect timers, and the topic subscriptions replayed after every
// reconnect.
//
// State machine: Disconnected -> Connecting -> Connected. A transport
// failure while connected schedules a retry after a fixed interval until
// MaxReconnectAttempts is exhausted, at which point the manager goes
// terminally Disconnected until Connect is called again. Manual
// Disconnect moves straight to Disconnected from any state and suppresses
// reconnection.
type Manager struct {
	cfg    ManagerConfig
	logger *slog.Logger
	dial   DialFunc

	registry *Registry
	events   chan model.Envelope
	status   chan State

	mu              sync.Mutex
	state           State
	client          Client
	stop            chan struct{}
	token           string
	shouldReconnect bool
	attempts        int
	retryTimer      *time.Timer
	terminalErr     error
}

// NewManager creates a Manager for one channel path.
func NewManager(cfg ManagerConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		cfg:      cfg,
		logger:   logger.With("channel", cfg.Channel),
		dial:     func(c ClientConfig, l *slog.Logger) Client { return NewClient(c, l) },
		registry: NewRegistry(),
		events:   make(chan model.Envelope, cfg.MessageBufferSize),
		status:   make(chan State, 16),
	}
}

// Connect begins connecting with the given session token. Transport
// failures never surface here; they feed the retry loop and are observed
// through Status. Calling Connect while already connecting or connected
// is a no-op.
func (m *Manager) Connect(token string) {
	m.mu.Lock()
	if m.state != StateDisconnected && m.shouldReconnect {
		m.mu.Unlock()
		return
	}
	m.token = token
	m.shouldReconnect = true
	m.attempts = 0
	m.terminalErr = nil
	m.setStateLocked(StateConnecting)
	m.mu.Unlock()

	go m.attempt()
}

// Disconnect performs a scoped teardown: the should-reconnect flag is
// cleared before the transport closes so the close handler cannot race a
// new reconnect, the pending retry timer is cancelled, and the client
// (with its heartbeat) is closed. Idempotent, and safe before any
// connection exists.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.shouldReconnect = false
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	cli := m.client
	m.client = nil
	stop := m.stop
	m.stop = nil
	m.setStateLocked(StateDisconnected)
	m.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if cli != nil {
		cli.Close()
	}
}

// Subscribe records topic interest and, when connected, sends a subscribe
// control message. Subscribing twice to the same topic produces at most
// one wire message. Returns false when the transport is not connected;
// membership is still recorded for replay on the next connect.
func (m *Manager) Subscribe(topic string) bool {
	added := m.registry.Add(topic)

	m.mu.Lock()
	cli := m.client
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || cli == nil {
		return false
	}
	if !added {
		return true
	}

	env := model.Envelope{
		Type:      model.TypeSubscribe,
		Topic:     topic,
		Timestamp: time.Now().UTC(),
	}
	if err := cli.Send(env); err != nil {
		m.logger.Warn("failed to send subscribe", "topic", topic, "error", err)
		return false
	}

	m.logger.Debug("subscribed", "topic", topic)
	return true
}

// Unsubscribe clears topic interest and, when connected, sends an
// unsubscribe control message.
func (m *Manager) Unsubscribe(topic string) bool {
	removed := m.registry.Remove(topic)

	m.mu.Lock()
	cli := m.client
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || cli == nil {
		return false
	}
	if !removed {
		return true
	}

	env := model.Envelope{
		Type:      model.TypeUnsubscribe,
		Topic:     topic,
		Timestamp: time.Now().UTC(),
	}
	if err := cli.Send(env); err != nil {
		m.logger.Warn("failed to send unsubscribe", "topic", topic, "error", err)
		return false
	}

	m.logger.Debug("unsubscribed", "topic", topic)
	return true
}

// Send writes an arbitrary envelope to the active connection.
func (m *Manager) Send(env model.Envelope) error {
	m.mu.Lock()
	cli := m.client
	connected := m.state == StateConnected
	m.mu.Unlock()

	if !connected || cli == nil {
		return ErrNotConnected
	}
	return cli.Send(env)
}

// Events returns the stream of decoded data envelopes for this channel.
func (m *Manager) Events() <-chan model.Envelope {
	return m.events
}

// Status returns the current connection state.
func (m *Manager) Status() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// StatusChanges returns a signal of state transitions. Slow consumers
// lose the oldest transitions, never the newest: the last value read
// always reflects the current state.
func (m *Manager) StatusChanges() <-chan State {
	return m.status
}

// Err returns the terminal error after reconnect attempts are exhausted,
// or nil.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.terminalErr
}

// Topics returns the currently recorded topic subscriptions.
func (m *Manager) Topics() []string {
	return m.registry.Topics()
}

// attempt performs a single connection attempt.
func (m *Manager) attempt() {
	m.mu.Lock()
	if !m.shouldReconnect {
		m.mu.Unlock()
		return
	}
	m.retryTimer = nil
	cfg := ClientConfig{
		URL:               m.cfg.WSBaseURL + "/" + m.cfg.Channel,
		Token:             m.token,
		HeartbeatInterval: m.cfg.HeartbeatInterval,
		WriteTimeout:      m.cfg.WriteTimeout,
		HandshakeTimeout:  10 * time.Second,
		BufferSize:        m.cfg.MessageBufferSize,
	}
	m.mu.Unlock()

	cli := m.dial(cfg, m.logger)

	if err := cli.Connect(context.Background()); err != nil {
		cli.Close()
		m.logger.Warn("connect failed", "error", err)
		m.scheduleRetry()
		return
	}

	m.mu.Lock()
	if !m.shouldReconnect {
		// Disconnect raced the dial; drop the fresh connection.
		m.mu.Unlock()
		cli.Close()
		return
	}
	m.client = cli
	m.attempts = 0
	stop := make(chan struct{})
	m.stop = stop
	m.setStateLocked(StateConnected)
	m.mu.Unlock()

	m.logger.Info("channel connected")

	// Replay all recorded topics before data is expected to resume.
	m.replaySubscriptions(cli)

	go m.pump(cli, stop)
}

// replaySubscriptions re-sends subscribe messages for every recorded topic.
func (m *Manager) replaySubscriptions(cli Client) {
	topics := m.registry.Topics()
	for _, topic := range topics {
		env := model.Envelope{
			Type:      model.TypeSubscribe,
			Topic:     topic,
			Timestamp: time.Now().UTC(),
		}
		if err := cli.Send(env); err != nil {
			m.logger.Warn("failed to replay subscription", "topic", topic, "error", err)
		}
	}
	if len(topics) > 0 {
		m.logger.Info("replayed subscriptions", "count", len(topics))
	}
}

// pump forwards decoded envelopes from one client until the connection
// drops or the manager is torn down.
func (m *Manager) pump(cli Client, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case err := <-cli.Errors():
			m.mu.Lock()
			manual := !m.shouldReconnect
			if m.client == cli {
				m.client = nil
				m.stop = nil
			}
			m.mu.Unlock()

			cli.Close()
			if manual {
				return
			}

			m.logger.Warn("connection lost", "error", err)
			m.scheduleRetry()
			return

		case env, ok := <-cli.Messages():
			if !ok {
				return
			}
			select {
			case m.events <- env:
			default:
				m.logger.Warn("event buffer full, dropping envelope", "type", env.Type)
			}
		}
	}
}

// scheduleRetry arms the fixed-interval reconnect timer, or goes terminal
// once attempts are exhausted.
func (m *Manager) scheduleRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.shouldReconnect {
		return
	}

	m.attempts++
	if m.attempts >= m.cfg.MaxReconnectAttempts {
		m.terminalErr = ErrMaxReconnects
		m.shouldReconnect = false
		m.setStateLocked(StateDisconnected)
		m.logger.Error("reconnect attempts exhausted",
			"attempts", m.attempts,
			"max", m.cfg.MaxReconnectAttempts,
		)
		return
	}

	m.setStateLocked(StateConnecting)
	m.logger.Info("scheduling reconnect",
		"attempt", m.attempts,
		"wait", m.cfg.ReconnectInterval,
	)
	m.retryTimer = time.AfterFunc(m.cfg.ReconnectInterval, m.attempt)
}

// setStateLocked transitions state and emits a status signal. Caller
// holds m.mu. When the buffer is full the oldest queued transition is
// dropped so the channel always ends on the current state.
func (m *Manager) setStateLocked(s State) {
	if m.state == s {
		return
	}
	m.state = s
	for {
		select {
		case m.status <- s:
			return
		default:
		}
		select {
		case <-m.status:
		default:
		}
	}
}
