package store

import "github.com/klinefeld/tradedesk/internal/model"

// Preferences are the user-configured notification gates. Allow is a
// delivery precondition: a notification failing it is discarded before it
// ever enters the store. Channel flags only control side-channel delivery
// such as toasts, never store membership.
//
// Category and priority maps are opt-out: a key that is absent counts as
// enabled.
type Preferences struct {
	Enabled    bool
	Categories map[model.NotificationCategory]bool
	Priorities map[model.NotificationPriority]bool
	Channels   model.ChannelFlags
}

// DefaultPreferences enables everything.
func DefaultPreferences() Preferences {
	return Preferences{
		Enabled: true,
		Channels: model.ChannelFlags{
			Toast: true,
			Badge: true,
		},
	}
}

// Allow reports whether the notification passes the overall, category,
// and priority gates.
func (p Preferences) Allow(n model.Notification) bool {
	if !p.Enabled {
		return false
	}
	if enabled, ok := p.Categories[n.Category]; ok && !enabled {
		return false
	}
	if enabled, ok := p.Priorities[n.Priority]; ok && !enabled {
		return false
	}
	return true
}

// AllowToast reports whether the notification should also be queued for
// ephemeral toast display. Evaluated separately from Allow.
func (p Preferences) AllowToast(n model.Notification) bool {
	return p.Channels.Toast && n.Channels.Toast
}
