package store

import (
	"sync"

	"github.com/klinefeld/tradedesk/internal/model"
)

// RecentTradeLimit caps the recent-trades projection.
const RecentTradeLimit = 50

// TradeStore keeps the full trade history plus a capped recent view.
// Trades are immutable once created; re-adding an existing id is a
// no-op. The recent view is a derived projection of the most recently
// inserted trades in insertion order, not a separate source of truth.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[string]model.Trade
	order  []string // insertion order, oldest first
}

// NewTradeStore creates an empty trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{trades: make(map[string]model.Trade)}
}

// Add inserts a trade. Returns false if the id is already present.
func (s *TradeStore) Add(t model.Trade) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trades[t.ID]; exists {
		return false
	}
	s.trades[t.ID] = t
	s.order = append(s.order, t.ID)
	return true
}

// ReplaceAll atomically replaces the full trade set. Insertion order
// follows the slice order; duplicate ids keep their first occurrence.
func (s *TradeStore) ReplaceAll(trades []model.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = make(map[string]model.Trade, len(trades))
	s.order = s.order[:0]
	for _, t := range trades {
		if _, exists := s.trades[t.ID]; exists {
			continue
		}
		s.trades[t.ID] = t
		s.order = append(s.order, t.ID)
	}
}

// Remove deletes a trade by id.
func (s *TradeStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trades[id]; !exists {
		return false
	}
	delete(s.trades, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear resets the store to empty.
func (s *TradeStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades = make(map[string]model.Trade)
	s.order = nil
}

// Get returns the trade with the given id.
func (s *TradeStore) Get(id string) (model.Trade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trades[id]
	return t, ok
}

// All returns every trade in insertion order.
func (s *TradeStore) All() []model.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Trade, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.trades[id])
	}
	return out
}

// Recent returns the most recently inserted trades, at most
// RecentTradeLimit, in insertion order.
func (s *TradeStore) Recent() []model.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if len(s.order) > RecentTradeLimit {
		start = len(s.order) - RecentTradeLimit
	}
	out := make([]model.Trade, 0, len(s.order)-start)
	for _, id := range s.order[start:] {
		out = append(out, s.trades[id])
	}
	return out
}

// Len returns the total number of trades.
func (s *TradeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
