package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/klinefeld/tradedesk/internal/model"
)

func makeNotification(id string, cat model.NotificationCategory) model.Notification {
	return model.Notification{
		ID:        id,
		Category:  cat,
		Priority:  model.PriorityMedium,
		Title:     "test",
		Message:   "test notification",
		Channels:  model.ChannelFlags{Toast: true, Badge: true},
		CreatedAt: time.Now(),
	}
}

// checkUnread verifies unreadCount equals the count of retained
// notifications with Read == false.
func checkUnread(t *testing.T, s *NotificationStore) {
	t.Helper()

	want := 0
	for _, n := range s.All() {
		if !n.Read {
			want++
		}
	}
	if got := s.UnreadCount(); got != want {
		t.Errorf("UnreadCount() = %d, want %d", got, want)
	}
}

func TestNotificationStore_UnreadInvariant(t *testing.T) {
	s := NewNotificationStore(DefaultPreferences(), 5)

	for i := 0; i < 5; i++ {
		s.Add(makeNotification(fmt.Sprintf("N%d", i), model.CategoryOrder))
		checkUnread(t, s)
	}

	if !s.MarkAsRead("N0") {
		t.Fatal("MarkAsRead(N0) failed")
	}
	checkUnread(t, s)
	if s.UnreadCount() != 4 {
		t.Errorf("UnreadCount() = %d, want 4", s.UnreadCount())
	}

	// Marking the same one again must not double-decrement.
	s.MarkAsRead("N0")
	checkUnread(t, s)

	if !s.Dismiss("N1") {
		t.Fatal("Dismiss(N1) failed")
	}
	checkUnread(t, s)
	n, _ := s.Get("N1")
	if !n.Dismissed || !n.Read {
		t.Errorf("Dismiss left notification %+v", n)
	}

	// Removing an unread entry decrements; removing a read one does not.
	s.Remove("N2")
	checkUnread(t, s)
	s.Remove("N0")
	checkUnread(t, s)

	s.MarkAllAsRead()
	checkUnread(t, s)
	if s.UnreadCount() != 0 {
		t.Errorf("UnreadCount() after MarkAllAsRead = %d, want 0", s.UnreadCount())
	}
}

func TestNotificationStore_DisabledCategoryGate(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Categories = map[model.NotificationCategory]bool{
		model.CategoryRisk: false,
	}
	s := NewNotificationStore(prefs, 5)

	s.Add(makeNotification("keep", model.CategoryOrder))
	before, unreadBefore := s.Len(), s.UnreadCount()
	s.PopToasts()

	// A notification in a disabled category is discarded before it
	// touches any collection.
	if s.Add(makeNotification("drop", model.CategoryRisk)) {
		t.Fatal("Add should reject a disabled category")
	}
	if s.Len() != before {
		t.Errorf("Len() = %d, want %d", s.Len(), before)
	}
	if s.UnreadCount() != unreadBefore {
		t.Errorf("UnreadCount() = %d, want %d", s.UnreadCount(), unreadBefore)
	}
	if toasts := s.PopToasts(); len(toasts) != 0 {
		t.Errorf("filtered notification queued %d toasts", len(toasts))
	}
	if _, ok := s.Get("drop"); ok {
		t.Error("filtered notification present in store")
	}
}

func TestNotificationStore_DisabledPriorityGate(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Priorities = map[model.NotificationPriority]bool{
		model.PriorityLow: false,
	}
	s := NewNotificationStore(prefs, 5)

	low := makeNotification("N1", model.CategorySystem)
	low.Priority = model.PriorityLow
	if s.Add(low) {
		t.Error("Add should reject a disabled priority")
	}

	// Absent keys count as enabled.
	high := makeNotification("N2", model.CategorySystem)
	high.Priority = model.PriorityCritical
	if !s.Add(high) {
		t.Error("Add rejected a priority with no explicit gate")
	}
}

func TestNotificationStore_MasterSwitch(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Enabled = false
	s := NewNotificationStore(prefs, 5)

	if s.Add(makeNotification("N1", model.CategoryOrder)) {
		t.Error("Add should reject everything when notifications are disabled")
	}
	if s.Len() != 0 || s.UnreadCount() != 0 {
		t.Errorf("store not empty: len=%d unread=%d", s.Len(), s.UnreadCount())
	}
}

func TestNotificationStore_ToastChannelGate(t *testing.T) {
	s := NewNotificationStore(DefaultPreferences(), 5)

	// Channel flags never block store membership, only the toast queue.
	silent := makeNotification("N1", model.CategoryOrder)
	silent.Channels = model.ChannelFlags{Badge: true}
	if !s.Add(silent) {
		t.Fatal("Add rejected a notification without the toast flag")
	}
	if toasts := s.PopToasts(); len(toasts) != 0 {
		t.Errorf("toast queued without the toast flag: %d", len(toasts))
	}

	loud := makeNotification("N2", model.CategoryOrder)
	if !s.Add(loud) {
		t.Fatal("Add failed")
	}
	toasts := s.PopToasts()
	if len(toasts) != 1 || toasts[0].ID != "N2" {
		t.Errorf("PopToasts() = %v, want [N2]", toasts)
	}
	// Drained.
	if len(s.PopToasts()) != 0 {
		t.Error("PopToasts did not drain the queue")
	}
}

func TestNotificationStore_ToastQueueCapped(t *testing.T) {
	s := NewNotificationStore(DefaultPreferences(), 3)

	for i := 0; i < 6; i++ {
		s.Add(makeNotification(fmt.Sprintf("N%d", i), model.CategoryTrade))
	}

	toasts := s.PopToasts()
	if len(toasts) != 3 {
		t.Fatalf("toast queue length = %d, want 3", len(toasts))
	}
	for i, n := range toasts {
		want := fmt.Sprintf("N%d", i+3)
		if n.ID != want {
			t.Errorf("toasts[%d].ID = %s, want %s", i, n.ID, want)
		}
	}
}

func TestNotificationStore_CapEvictsOldest(t *testing.T) {
	s := NewNotificationStore(DefaultPreferences(), 5)

	for i := 0; i < NotificationCap+25; i++ {
		s.Add(makeNotification(fmt.Sprintf("N%04d", i), model.CategorySystem))
	}

	if s.Len() != NotificationCap {
		t.Fatalf("Len() = %d, want %d", s.Len(), NotificationCap)
	}
	if _, ok := s.Get("N0000"); ok {
		t.Error("oldest notification survived eviction")
	}
	if _, ok := s.Get("N0024"); ok {
		t.Error("notification N0024 should have been evicted")
	}
	if _, ok := s.Get("N0025"); !ok {
		t.Error("notification N0025 should have survived")
	}
	checkUnread(t, s)
}

func TestNotificationStore_AddAssignsID(t *testing.T) {
	s := NewNotificationStore(DefaultPreferences(), 5)

	n := makeNotification("", model.CategoryOrder)
	if !s.Add(n) {
		t.Fatal("Add failed")
	}
	all := s.All()
	if len(all) != 1 || all[0].ID == "" {
		t.Errorf("notification stored without an id: %+v", all)
	}
}

func TestNotificationStore_DuplicateIDRejected(t *testing.T) {
	s := NewNotificationStore(DefaultPreferences(), 5)

	s.Add(makeNotification("N1", model.CategoryOrder))
	if s.Add(makeNotification("N1", model.CategoryOrder)) {
		t.Error("Add should reject a duplicate id")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	checkUnread(t, s)
}

func TestNotificationStore_ReplaceAll(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.Categories = map[model.NotificationCategory]bool{
		model.CategoryRisk: false,
	}
	s := NewNotificationStore(prefs, 5)
	s.Add(makeNotification("old", model.CategoryOrder))
	s.PopToasts()

	read := makeNotification("N2", model.CategoryTrade)
	read.Read = true
	s.ReplaceAll([]model.Notification{
		makeNotification("N1", model.CategoryOrder),
		read,
		makeNotification("N3", model.CategoryRisk), // gated out
	})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if _, ok := s.Get("old"); ok {
		t.Error("ReplaceAll kept an entry not present in the snapshot")
	}
	if s.UnreadCount() != 1 {
		t.Errorf("UnreadCount() = %d, want 1", s.UnreadCount())
	}
	// Snapshots are not new deliveries.
	if toasts := s.PopToasts(); len(toasts) != 0 {
		t.Errorf("ReplaceAll queued %d toasts", len(toasts))
	}
	checkUnread(t, s)
}
