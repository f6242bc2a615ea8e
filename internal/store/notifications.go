package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/klinefeld/tradedesk/internal/model"
)

// NotificationCap bounds the retained notification collection; the
// oldest entries are evicted first.
const NotificationCap = 1000

// NotificationStore keeps delivered notifications, their unread count,
// and a bounded queue of pending toasts. The preference gate runs before
// anything enters the store, so a filtered notification never affects
// unreadCount or any retained collection.
type NotificationStore struct {
	mu         sync.RWMutex
	prefs      Preferences
	items      map[string]model.Notification
	order      []string // insertion order, oldest first
	unread     int
	toasts     []model.Notification
	toastLimit int
}

// NewNotificationStore creates an empty notification store.
func NewNotificationStore(prefs Preferences, toastLimit int) *NotificationStore {
	if toastLimit < 1 {
		toastLimit = 5
	}
	return &NotificationStore{
		prefs:      prefs,
		items:      make(map[string]model.Notification),
		toastLimit: toastLimit,
	}
}

// SetPreferences swaps the active preference gates. Already-stored
// notifications are unaffected; the gate is a delivery precondition,
// not a post-filter.
func (s *NotificationStore) SetPreferences(p Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
}

// Preferences returns the active preference gates.
func (s *NotificationStore) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Add delivers a notification. Returns false if the preference gate
// rejected it or the id already exists. Notifications without an id are
// assigned one.
func (s *NotificationStore) Add(n model.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.prefs.Allow(n) {
		return false
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if _, exists := s.items[n.ID]; exists {
		return false
	}

	s.items[n.ID] = n
	s.order = append(s.order, n.ID)
	if !n.Read {
		s.unread++
	}
	s.evictLocked()

	if s.prefs.AllowToast(n) {
		s.toasts = append(s.toasts, n)
		if len(s.toasts) > s.toastLimit {
			s.toasts = s.toasts[len(s.toasts)-s.toastLimit:]
		}
	}
	return true
}

// ReplaceAll atomically replaces the retained set from a snapshot. Every
// entry passes the same delivery gate; unreadCount is rebuilt in the
// same operation. The toast queue is untouched: snapshots are not new
// deliveries.
func (s *NotificationStore) ReplaceAll(notifications []model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]model.Notification, len(notifications))
	s.order = s.order[:0]
	s.unread = 0

	for _, n := range notifications {
		if !s.prefs.Allow(n) {
			continue
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if _, exists := s.items[n.ID]; exists {
			continue
		}
		s.items[n.ID] = n
		s.order = append(s.order, n.ID)
		if !n.Read {
			s.unread++
		}
	}
	s.evictLocked()
}

// MarkAsRead marks one notification read.
func (s *NotificationStore) MarkAsRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.items[id]
	if !ok {
		return false
	}
	if !n.Read {
		n.Read = true
		s.items[id] = n
		s.unread--
	}
	return true
}

// MarkAllAsRead marks every notification read.
func (s *NotificationStore) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.items {
		if !n.Read {
			n.Read = true
			s.items[id] = n
		}
	}
	s.unread = 0
}

// Dismiss marks a notification dismissed (and read).
func (s *NotificationStore) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.items[id]
	if !ok {
		return false
	}
	if !n.Read {
		n.Read = true
		s.unread--
	}
	n.Dismissed = true
	s.items[id] = n
	return true
}

// Remove deletes a notification and updates the unread count.
func (s *NotificationStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.items[id]
	if !ok {
		return false
	}
	if !n.Read {
		s.unread--
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear resets notifications, the unread count, and the toast queue.
func (s *NotificationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]model.Notification)
	s.order = nil
	s.unread = 0
	s.toasts = nil
}

// Get returns one notification by id.
func (s *NotificationStore) Get(id string) (model.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.items[id]
	return n, ok
}

// All returns every retained notification, oldest first.
func (s *NotificationStore) All() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// UnreadCount returns the number of unread notifications. It always
// equals the count of retained notifications with Read == false.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Len returns the number of retained notifications.
func (s *NotificationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// PopToasts drains and returns the pending toast queue.
func (s *NotificationStore) PopToasts() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.toasts
	s.toasts = nil
	return out
}

// evictLocked drops the oldest entries beyond NotificationCap. Caller
// holds the write lock.
func (s *NotificationStore) evictLocked() {
	for len(s.order) > NotificationCap {
		oldest := s.order[0]
		s.order = s.order[1:]
		if n, ok := s.items[oldest]; ok {
			if !n.Read {
				s.unread--
			}
			delete(s.items, oldest)
		}
	}
}
