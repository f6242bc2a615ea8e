package reconcile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klinefeld/tradedesk/internal/model"
	"github.com/klinefeld/tradedesk/internal/store"
)

func newTestReconciler(cfg Config) (*Reconciler, *store.Store) {
	st := store.New(store.DefaultPreferences(), 5)
	return New(cfg, st, nil), st
}

func event(t *testing.T, msgType string, payload any) model.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return model.Envelope{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func TestReconciler_OrderUpdate(t *testing.T) {
	r, st := newTestReconciler(Config{})

	r.ApplyEvent(event(t, model.TypeOrderUpdate, model.Order{
		ID:     "O1",
		Symbol: "AAPL",
		Status: model.OrderPending,
	}))

	o, ok := st.Orders.Get("O1")
	if !ok {
		t.Fatal("order not stored")
	}
	if o.Symbol != "AAPL" || o.Status != model.OrderPending {
		t.Errorf("stored order = %+v", o)
	}
}

func TestReconciler_OrderRemoved(t *testing.T) {
	r, st := newTestReconciler(Config{})
	st.Orders.Upsert(model.Order{ID: "O1", Status: model.OrderPending})

	r.ApplyEvent(event(t, model.TypeOrderRemoved, map[string]string{"id": "O1"}))

	if _, ok := st.Orders.Get("O1"); ok {
		t.Error("order survived order_removed event")
	}
}

func TestReconciler_TradeAndPositionAndQuote(t *testing.T) {
	r, st := newTestReconciler(Config{})

	r.ApplyEvent(event(t, model.TypeTrade, model.Trade{ID: "T1", Symbol: "AAPL"}))
	if _, ok := st.Trades.Get("T1"); !ok {
		t.Error("trade not stored")
	}

	r.ApplyEvent(event(t, model.TypePositionUpdate, model.Position{
		Symbol:      "AAPL",
		AccountID:   "acct-1",
		MarketValue: decimal.NewFromInt(1000),
	}))
	key := model.PositionKey{Symbol: "AAPL", AccountID: "acct-1"}
	if _, ok := st.Positions.Get(key); !ok {
		t.Error("position not stored")
	}
	if !st.Positions.Summary().TotalValue.Equal(decimal.NewFromInt(1000)) {
		t.Error("summary not recomputed after position event")
	}

	r.ApplyEvent(event(t, model.TypeQuote, model.Quote{Symbol: "AAPL"}))
	if _, ok := st.Quotes.Get("AAPL"); !ok {
		t.Error("quote not stored")
	}
}

func TestReconciler_NotificationTimestampFallback(t *testing.T) {
	r, st := newTestReconciler(Config{})

	env := event(t, model.TypeNotification, model.Notification{
		ID:       "N1",
		Category: model.CategoryOrder,
		Channels: model.ChannelFlags{Toast: true},
	})
	r.ApplyEvent(env)

	n, ok := st.Notifications.Get("N1")
	if !ok {
		t.Fatal("notification not stored")
	}
	if !n.CreatedAt.Equal(env.Timestamp) {
		t.Errorf("CreatedAt = %v, want envelope timestamp %v", n.CreatedAt, env.Timestamp)
	}
}

func TestReconciler_LastWriteWins(t *testing.T) {
	r, st := newTestReconciler(Config{})
	now := time.Now().UTC()

	// A push update carrying a newer server timestamp arrives first.
	r.ApplyEvent(event(t, model.TypeOrderUpdate, model.Order{
		ID:        "O1",
		Status:    model.OrderFilled,
		UpdatedAt: now,
	}))

	// A poll snapshot fetched earlier lands afterwards. Arrival order
	// wins: the older snapshot overwrites the newer push state.
	r.ApplyOrdersSnapshot([]model.Order{{
		ID:        "O1",
		Status:    model.OrderPartiallyFilled,
		UpdatedAt: now.Add(-time.Second),
	}})

	o, _ := st.Orders.Get("O1")
	if o.Status != model.OrderPartiallyFilled {
		t.Errorf("status = %s, want partially_filled (last write wins by arrival)", o.Status)
	}
}

func TestReconciler_DropStaleOrderUpdates(t *testing.T) {
	r, st := newTestReconciler(Config{DropStaleOrderUpdates: true})
	now := time.Now().UTC()

	st.Orders.Upsert(model.Order{ID: "O1", Status: model.OrderFilled, UpdatedAt: now})

	// Older server timestamp: dropped.
	r.ApplyEvent(event(t, model.TypeOrderUpdate, model.Order{
		ID:        "O1",
		Status:    model.OrderPending,
		UpdatedAt: now.Add(-time.Second),
	}))
	o, _ := st.Orders.Get("O1")
	if o.Status != model.OrderFilled {
		t.Errorf("stale update applied: status = %s", o.Status)
	}

	// Newer server timestamp: applied.
	r.ApplyEvent(event(t, model.TypeOrderUpdate, model.Order{
		ID:        "O1",
		Status:    model.OrderCancelled,
		UpdatedAt: now.Add(time.Second),
	}))
	o, _ = st.Orders.Get("O1")
	if o.Status != model.OrderCancelled {
		t.Errorf("fresh update dropped: status = %s", o.Status)
	}
}

func TestReconciler_UndecodablePayloadDropped(t *testing.T) {
	r, st := newTestReconciler(Config{})
	st.Orders.Upsert(model.Order{ID: "O1", Status: model.OrderPending})

	r.ApplyEvent(model.Envelope{
		Type:      model.TypeOrderUpdate,
		Data:      json.RawMessage(`{broken`),
		Timestamp: time.Now().UTC(),
	})

	// Nothing changed, nothing panicked.
	if len(st.Orders.All()) != 1 {
		t.Errorf("order count = %d, want 1", len(st.Orders.All()))
	}
}

func TestReconciler_UnknownTypeIgnored(t *testing.T) {
	r, st := newTestReconciler(Config{})

	r.ApplyEvent(model.Envelope{
		Type:      "telemetry",
		Data:      json.RawMessage(`{}`),
		Timestamp: time.Now().UTC(),
	})

	if len(st.Orders.All()) != 0 || st.Trades.Len() != 0 {
		t.Error("unknown event type mutated the store")
	}
}

func TestReconciler_SnapshotsReplace(t *testing.T) {
	r, st := newTestReconciler(Config{})
	st.Trades.Add(model.Trade{ID: "stale"})
	st.Positions.Upsert(model.Position{Symbol: "OLD", AccountID: "acct-1"})

	r.ApplyTradesSnapshot([]model.Trade{{ID: "T1"}})
	r.ApplyPositionsSnapshot([]model.Position{{Symbol: "AAPL", AccountID: "acct-1"}})
	r.ApplyQuote(model.Quote{Symbol: "AAPL", Last: decimal.NewFromFloat(187.25)})

	if _, ok := st.Trades.Get("stale"); ok {
		t.Error("trade snapshot kept a stale entry")
	}
	if _, ok := st.Positions.Get(model.PositionKey{Symbol: "OLD", AccountID: "acct-1"}); ok {
		t.Error("position snapshot kept a stale entry")
	}
	if q, ok := st.Quotes.Get("AAPL"); !ok || !q.Last.Equal(decimal.NewFromFloat(187.25)) {
		t.Errorf("quote not merged: %+v", q)
	}
}
