package store

import (
	"sort"
	"sync"

	"github.com/klinefeld/tradedesk/internal/model"
)

// OrderStore keeps every observed order partitioned into active and
// history views. An order is active iff its status is pending or
// partially_filled; the two partitions are disjoint and their union is
// always the full order set.
type OrderStore struct {
	mu       sync.RWMutex
	orders   map[string]model.Order
	active   map[string]struct{}
	history  map[string]struct{}
	selected string // id of the order currently open in the UI, "" if none
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:  make(map[string]model.Order),
		active:  make(map[string]struct{}),
		history: make(map[string]struct{}),
	}
}

// ReplaceAll atomically replaces the full order set and reclassifies
// both partitions. The selected order reference survives if its id is
// still present, otherwise it is cleared.
func (s *OrderStore) ReplaceAll(orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[string]model.Order, len(orders))
	s.active = make(map[string]struct{})
	s.history = make(map[string]struct{})

	for _, o := range orders {
		s.orders[o.ID] = o
		s.classifyLocked(o)
	}

	if _, ok := s.orders[s.selected]; !ok {
		s.selected = ""
	}
}

// Upsert inserts the order or updates it in place, re-evaluating
// partition membership in the same operation. An order moving from
// active to history leaves the active view and enters history
// atomically.
func (s *OrderStore) Upsert(o model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.ID] = o
	s.classifyLocked(o)
}

// Remove deletes an order from the set and its partition. The selected
// reference is cleared if it pointed at the removed order.
func (s *OrderStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return false
	}
	delete(s.orders, id)
	delete(s.active, id)
	delete(s.history, id)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Clear resets the store to empty.
func (s *OrderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[string]model.Order)
	s.active = make(map[string]struct{})
	s.history = make(map[string]struct{})
	s.selected = ""
}

// Get returns the order with the given id.
func (s *OrderStore) Get(id string) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	return o, ok
}

// All returns every order, newest first.
func (s *OrderStore) All() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sortOrders(out)
	return out
}

// Active returns the open-order partition, newest first.
func (s *OrderStore) Active() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(s.active)
}

// History returns the closed-order partition, newest first.
func (s *OrderStore) History() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(s.history)
}

// Counts returns the partition sizes.
func (s *OrderStore) Counts() (active, history int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active), len(s.history)
}

// Select marks an order as the one open in the UI. Selecting an unknown
// id returns false and leaves the previous selection in place.
func (s *OrderStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return false
	}
	s.selected = id
	return true
}

// Selected returns the currently selected order, if any. Field updates
// for the same id are visible here without re-selecting.
func (s *OrderStore) Selected() (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == "" {
		return model.Order{}, false
	}
	o, ok := s.orders[s.selected]
	return o, ok
}

// classifyLocked places an order in exactly one partition. Caller holds
// the write lock.
func (s *OrderStore) classifyLocked(o model.Order) {
	if o.IsOpen() {
		s.active[o.ID] = struct{}{}
		delete(s.history, o.ID)
	} else {
		s.history[o.ID] = struct{}{}
		delete(s.active, o.ID)
	}
}

// collectLocked materialises a partition as a sorted slice. Caller holds
// at least the read lock.
func (s *OrderStore) collectLocked(ids map[string]struct{}) []model.Order {
	out := make([]model.Order, 0, len(ids))
	for id := range ids {
		out = append(out, s.orders[id])
	}
	sortOrders(out)
	return out
}

func sortOrders(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}
