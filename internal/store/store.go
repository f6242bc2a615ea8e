package store

// Store bundles the entity stores behind a single explicitly constructed
// instance. It is dependency-injected into the connection and UI layers,
// never a package-level singleton, so teardown and tests stay
// deterministic.
type Store struct {
	Orders        *OrderStore
	Trades        *TradeStore
	Positions     *PositionStore
	Quotes        *QuoteStore
	Notifications *NotificationStore
}

// New creates an empty store set with the given notification preferences.
func New(prefs Preferences, toastLimit int) *Store {
	return &Store{
		Orders:        NewOrderStore(),
		Trades:        NewTradeStore(),
		Positions:     NewPositionStore(),
		Quotes:        NewQuoteStore(),
		Notifications: NewNotificationStore(prefs, toastLimit),
	}
}

// Clear resets every entity store and its dependent aggregates.
func (s *Store) Clear() {
	s.Orders.Clear()
	s.Trades.Clear()
	s.Positions.Clear()
	s.Quotes.Clear()
	s.Notifications.Clear()
}
