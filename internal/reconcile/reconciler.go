// Package reconcile merges push-delivered deltas and poll-fetched
// snapshots into the entity stores. Deltas map to upsert/remove, full
// snapshots to replaceAll. The merge policy is last write wins by
// arrival order: neither path carries a merge priority, so a poll
// response landing after a push update for the same id overwrites it.
// DropStaleOrderUpdates is an optional hardening switch that gates order
// upserts on the server UpdatedAt timestamp instead.
package reconcile

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/klinefeld/tradedesk/internal/model"
	"github.com/klinefeld/tradedesk/internal/store"
)

// Config holds reconciler options.
type Config struct {
	// DropStaleOrderUpdates rejects order updates whose UpdatedAt is
	// older than the stored one. Off by default: the observed behavior
	// is plain last-write-wins.
	DropStaleOrderUpdates bool
}

// Reconciler applies inbound events and snapshots to the store set. It
// holds no entity state of its own, only references during a merge.
type Reconciler struct {
	cfg    Config
	store  *store.Store
	logger *slog.Logger
}

// New creates a Reconciler over the given store set.
func New(cfg Config, st *store.Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{cfg: cfg, store: st, logger: logger}
}

// removedPayload is the body of an order_removed event.
type removedPayload struct {
	ID string `json:"id"`
}

// ApplyEvent routes one decoded push envelope to the matching store
// operation. Unknown types and undecodable payloads are logged and
// dropped; they are never fatal.
func (r *Reconciler) ApplyEvent(env model.Envelope) {
	switch env.Type {
	case model.TypeOrderUpdate:
		var o model.Order
		if !r.decode(env, &o) {
			return
		}
		if r.cfg.DropStaleOrderUpdates && r.isStaleOrder(o) {
			return
		}
		r.store.Orders.Upsert(o)

	case model.TypeOrderRemoved:
		var p removedPayload
		if !r.decode(env, &p) {
			return
		}
		r.store.Orders.Remove(p.ID)

	case model.TypeTrade:
		var t model.Trade
		if !r.decode(env, &t) {
			return
		}
		r.store.Trades.Add(t)

	case model.TypePositionUpdate:
		var p model.Position
		if !r.decode(env, &p) {
			return
		}
		r.store.Positions.Upsert(p)

	case model.TypeQuote:
		var q model.Quote
		if !r.decode(env, &q) {
			return
		}
		r.store.Quotes.Upsert(q)

	case model.TypeNotification:
		var n model.Notification
		if !r.decode(env, &n) {
			return
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = env.Timestamp
		}
		r.store.Notifications.Add(n)

	default:
		r.logger.Debug("skipping event type", "type", env.Type)
	}
}

// ApplyOrdersSnapshot replaces the order set from a poll response.
func (r *Reconciler) ApplyOrdersSnapshot(orders []model.Order) {
	r.store.Orders.ReplaceAll(orders)
}

// ApplyTradesSnapshot replaces the trade set from a poll response.
func (r *Reconciler) ApplyTradesSnapshot(trades []model.Trade) {
	r.store.Trades.ReplaceAll(trades)
}

// ApplyPositionsSnapshot replaces the position set from a poll response.
func (r *Reconciler) ApplyPositionsSnapshot(positions []model.Position) {
	r.store.Positions.ReplaceAll(positions)
}

// ApplyQuote merges one polled quote.
func (r *Reconciler) ApplyQuote(q model.Quote) {
	r.store.Quotes.Upsert(q)
}

// isStaleOrder reports whether a stored order already carries a newer
// server timestamp.
func (r *Reconciler) isStaleOrder(o model.Order) bool {
	existing, ok := r.store.Orders.Get(o.ID)
	if !ok {
		return false
	}
	if existing.UpdatedAt.After(o.UpdatedAt) {
		r.logger.Debug("dropping stale order update",
			"id", o.ID,
			"stored", existing.UpdatedAt.Format(time.RFC3339Nano),
			"incoming", o.UpdatedAt.Format(time.RFC3339Nano),
		)
		return true
	}
	return false
}

// decode unmarshals an envelope payload, logging and dropping failures.
func (r *Reconciler) decode(env model.Envelope, v any) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		r.logger.Warn("dropping undecodable event payload",
			"type", env.Type,
			"error", err,
		)
		return false
	}
	return true
}
