package store

import (
	"sort"
	"sync"

	"github.com/klinefeld/tradedesk/internal/model"
)

// PositionStore keeps per-(symbol, account) positions and the portfolio
// aggregates derived from them. Aggregates are recomputed synchronously
// inside every mutation; they are never lazy and never stale.
type PositionStore struct {
	mu        sync.RWMutex
	positions map[model.PositionKey]model.Position
	summary   model.PortfolioSummary
}

// NewPositionStore creates an empty position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{positions: make(map[model.PositionKey]model.Position)}
}

// ReplaceAll atomically replaces the position set and recomputes the
// portfolio summary.
func (s *PositionStore) ReplaceAll(positions []model.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions = make(map[model.PositionKey]model.Position, len(positions))
	for _, p := range positions {
		s.positions[p.Key()] = p
	}
	s.recomputeLocked()
}

// Upsert inserts or updates one position and recomputes the summary.
func (s *PositionStore) Upsert(p model.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions[p.Key()] = p
	s.recomputeLocked()
}

// Remove deletes a position and recomputes the summary.
func (s *PositionStore) Remove(key model.PositionKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.positions[key]; !ok {
		return false
	}
	delete(s.positions, key)
	s.recomputeLocked()
	return true
}

// Clear resets positions and aggregates.
func (s *PositionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions = make(map[model.PositionKey]model.Position)
	s.recomputeLocked()
}

// Get returns one position by key.
func (s *PositionStore) Get(key model.PositionKey) (model.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.positions[key]
	return p, ok
}

// All returns every position ordered by symbol then account.
func (s *PositionStore) All() []model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Position, 0, len(s.positions))
	for _, p := range s.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

// Summary returns the current portfolio aggregates.
func (s *PositionStore) Summary() model.PortfolioSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Len returns the number of positions.
func (s *PositionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}

// recomputeLocked rebuilds the portfolio summary from the position set.
// Caller holds the write lock.
func (s *PositionStore) recomputeLocked() {
	var sum model.PortfolioSummary
	for _, p := range s.positions {
		sum.TotalValue = sum.TotalValue.Add(p.MarketValue)
		sum.UnrealizedPnL = sum.UnrealizedPnL.Add(p.UnrealizedPnL)
		sum.RealizedPnL = sum.RealizedPnL.Add(p.RealizedPnL)
		sum.DayPnL = sum.DayPnL.Add(p.DayPnL)
	}
	sum.TotalPnL = sum.UnrealizedPnL.Add(sum.RealizedPnL)
	s.summary = sum
}
