package store

import (
	"sort"
	"sync"

	"github.com/klinefeld/tradedesk/internal/model"
)

// QuoteStore keeps the latest market data per symbol.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]model.Quote
}

// NewQuoteStore creates an empty quote store.
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]model.Quote)}
}

// ReplaceAll atomically replaces all quotes.
func (s *QuoteStore) ReplaceAll(quotes []model.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = make(map[string]model.Quote, len(quotes))
	for _, q := range quotes {
		s.quotes[q.Symbol] = q
	}
}

// Upsert stores the latest quote for a symbol.
func (s *QuoteStore) Upsert(q model.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Symbol] = q
}

// Remove deletes the quote for a symbol.
func (s *QuoteStore) Remove(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quotes[symbol]; !ok {
		return false
	}
	delete(s.quotes, symbol)
	return true
}

// Clear resets the store to empty.
func (s *QuoteStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = make(map[string]model.Quote)
}

// Get returns the quote for a symbol.
func (s *QuoteStore) Get(symbol string) (model.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[symbol]
	return q, ok
}

// All returns every quote ordered by symbol.
func (s *QuoteStore) All() []model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
