// Package engine assembles the sync core: one connection manager per
// logical channel, the subscription registries, the reconciler, and the
// polling path, all over a dependency-injected store set. Connection
// lifetime is tied to the session token: SetToken brings channels up,
// ClearToken tears them down along with every pending timer.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/klinefeld/tradedesk/internal/api"
	"github.com/klinefeld/tradedesk/internal/connection"
	"github.com/klinefeld/tradedesk/internal/model"
	"github.com/klinefeld/tradedesk/internal/poller"
	"github.com/klinefeld/tradedesk/internal/reconcile"
	"github.com/klinefeld/tradedesk/internal/store"
)

// SessionFeed is the REST collaborator: the polling contract plus the
// credential setter.
type SessionFeed interface {
	api.Feed
	SetToken(token string)
}

// Config holds engine wiring.
type Config struct {
	WSBaseURL  string
	Channels   []string
	Connection connection.ManagerConfig // per-channel template; WSBaseURL/Channel are filled in
	Polling    poller.Config
	Reconcile  reconcile.Config
}

// Engine is the facade the UI layer talks to. It exposes read-only
// store snapshots, per-channel status signals, and imperative
// subscribe/unsubscribe/send operations.
type Engine struct {
	cfg    Config
	store  *store.Store
	feed   SessionFeed
	rec    *reconcile.Reconciler
	logger *slog.Logger

	managers map[string]*connection.Manager

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	token   string
	poller  *poller.Poller
	started bool
}

// New creates an engine over the given store and feed. Managers are
// created for every configured channel but stay disconnected until a
// token arrives.
func New(cfg Config, st *store.Store, feed SessionFeed, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:      cfg,
		store:    st,
		feed:     feed,
		rec:      reconcile.New(cfg.Reconcile, st, logger),
		logger:   logger,
		managers: make(map[string]*connection.Manager, len(cfg.Channels)),
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())

	for _, ch := range cfg.Channels {
		mcfg := cfg.Connection
		mcfg.WSBaseURL = cfg.WSBaseURL
		mcfg.Channel = ch
		m := connection.NewManager(mcfg, logger)
		e.managers[ch] = m

		e.wg.Add(1)
		go e.pump(m)
	}

	return e
}

// pump feeds one channel's decoded events into the reconciler.
func (e *Engine) pump(m *connection.Manager) {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case env := <-m.Events():
			e.rec.ApplyEvent(env)
		}
	}
}

// SetToken installs a session credential: the feed is authenticated,
// every channel connects, and the polling path starts. An empty token is
// equivalent to ClearToken. A different token while a session is active
// rotates the credential: every channel reconnects with the new token so
// no connection, including future reconnects, carries the old one.
func (e *Engine) SetToken(token string) {
	if token == "" {
		e.ClearToken()
		return
	}

	e.mu.Lock()
	if e.started && e.token == token {
		e.mu.Unlock()
		return
	}
	rotating := e.started
	e.token = token
	e.started = true

	p := poller.New(e.cfg.Polling, e.feed, e.rec, e.logger)
	p.OnAuthError = e.ClearToken
	old := e.poller
	e.poller = p
	e.mu.Unlock()

	if old != nil {
		go old.Stop(context.Background())
	}

	e.feed.SetToken(token)
	for _, m := range e.managers {
		if rotating {
			m.Disconnect()
		}
		m.Connect(token)
	}
	p.Start(e.ctx)

	e.logger.Info("session started", "channels", len(e.managers), "rotated", rotating)
}

// ClearToken tears the session down: polling stops, every manager
// disconnects (cancelling its reconnect and heartbeat timers), and the
// feed credential is cleared. Stores keep their last state for display.
// Safe to call from the poller's auth-error path.
func (e *Engine) ClearToken() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	e.token = ""
	p := e.poller
	e.poller = nil
	e.mu.Unlock()

	e.feed.SetToken("")
	for _, m := range e.managers {
		m.Disconnect()
	}
	if p != nil {
		// Stop waits on poll goroutines; detach in case we were called
		// from one of them.
		go p.Stop(context.Background())
	}

	e.logger.Info("session cleared")
}

// Close shuts the engine down completely.
func (e *Engine) Close() {
	e.ClearToken()
	e.cancel()
	e.wg.Wait()
}

// Store exposes the read-only entity snapshots.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Status returns the connection state for one channel.
func (e *Engine) Status(channel string) (connection.State, bool) {
	m, ok := e.managers[channel]
	if !ok {
		return connection.StateDisconnected, false
	}
	return m.Status(), true
}

// Statuses returns the state of every channel.
func (e *Engine) Statuses() map[string]connection.State {
	out := make(map[string]connection.State, len(e.managers))
	for ch, m := range e.managers {
		out[ch] = m.Status()
	}
	return out
}

// StatusChanges returns the status signal for one channel.
func (e *Engine) StatusChanges(channel string) (<-chan connection.State, bool) {
	m, ok := e.managers[channel]
	if !ok {
		return nil, false
	}
	return m.StatusChanges(), true
}

// Subscribe records topic interest on a channel and subscribes on the
// wire when connected. Returns false when the channel is unknown or the
// transport is not connected; membership is still recorded for replay.
func (e *Engine) Subscribe(channel, topic string) bool {
	m, ok := e.managers[channel]
	if !ok {
		return false
	}
	return m.Subscribe(topic)
}

// Unsubscribe clears topic interest on a channel.
func (e *Engine) Unsubscribe(channel, topic string) bool {
	m, ok := e.managers[channel]
	if !ok {
		return false
	}
	return m.Unsubscribe(topic)
}

// SendMessage writes an envelope to a channel's active connection.
func (e *Engine) SendMessage(channel string, env model.Envelope) error {
	m, ok := e.managers[channel]
	if !ok {
		return connection.ErrNotConnected
	}
	return m.Send(env)
}
