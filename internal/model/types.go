package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Orders
// -----------------------------------------------------------------------------

// OrderStatus is the lifecycle state of an order as reported by the backend.
type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderPartiallyFilled OrderStatus = "partially_filled"
	OrderFilled          OrderStatus = "filled"
	OrderCancelled       OrderStatus = "cancelled"
	OrderRejected        OrderStatus = "rejected"
	OrderExpired         OrderStatus = "expired"
)

// Side is the direction of an order or trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType is the execution type of an order.
type OrderType string

const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStop      OrderType = "stop"
	OrderTypeStopLimit OrderType = "stop_limit"
)

// Order represents a working or historical order.
type Order struct {
	ID                string          `json:"id"`
	AccountID         string          `json:"accountId"`
	Symbol            string          `json:"symbol"`
	Side              Side            `json:"side"`
	Type              OrderType       `json:"type"`
	Quantity          decimal.Decimal `json:"quantity"`
	FilledQuantity    decimal.Decimal `json:"filledQuantity"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	LimitPrice        decimal.Decimal `json:"limitPrice"`
	AveragePrice      decimal.Decimal `json:"averagePrice"`
	Status            OrderStatus     `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// IsOpen reports whether the order belongs to the active partition.
// Every other status places it in history.
func (o Order) IsOpen() bool {
	return o.Status == OrderPending || o.Status == OrderPartiallyFilled
}

// -----------------------------------------------------------------------------
// Trades
// -----------------------------------------------------------------------------

// Trade represents a single execution. Trades are immutable once created.
type Trade struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"orderId"`
	AccountID  string          `json:"accountId"`
	Symbol     string          `json:"symbol"`
	Side       Side            `json:"side"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// -----------------------------------------------------------------------------
// Positions
// -----------------------------------------------------------------------------

// Position represents holdings in one symbol for one account.
// Identity is the (Symbol, AccountID) pair.
type Position struct {
	Symbol        string          `json:"symbol"`
	AccountID     string          `json:"accountId"`
	Quantity      decimal.Decimal `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
	MarketValue   decimal.Decimal `json:"marketValue"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnL"`
	RealizedPnL   decimal.Decimal `json:"realizedPnL"`
	DayPnL        decimal.Decimal `json:"dayPnL"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// PositionKey identifies a position.
type PositionKey struct {
	Symbol    string
	AccountID string
}

// Key returns the composite identity of the position.
func (p Position) Key() PositionKey {
	return PositionKey{Symbol: p.Symbol, AccountID: p.AccountID}
}

// PortfolioSummary holds the derived aggregates over a position set.
// Each field always equals the sum of the corresponding per-position field.
type PortfolioSummary struct {
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalPnL      decimal.Decimal `json:"totalPnL"`
	DayPnL        decimal.Decimal `json:"dayPnL"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnL"`
	RealizedPnL   decimal.Decimal `json:"realizedPnL"`
}

// -----------------------------------------------------------------------------
// Market data
// -----------------------------------------------------------------------------

// Quote is the latest market data for one symbol.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	Last      decimal.Decimal `json:"last"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

// NotificationCategory classifies a notification for preference gating.
type NotificationCategory string

const (
	CategoryOrder    NotificationCategory = "order"
	CategoryTrade    NotificationCategory = "trade"
	CategoryPosition NotificationCategory = "position"
	CategoryRisk     NotificationCategory = "risk"
	CategorySystem   NotificationCategory = "system"
)

// NotificationPriority ranks a notification for preference gating.
type NotificationPriority string

const (
	PriorityLow      NotificationPriority = "low"
	PriorityMedium   NotificationPriority = "medium"
	PriorityHigh     NotificationPriority = "high"
	PriorityCritical NotificationPriority = "critical"
)

// ChannelFlags selects the side channels a notification is delivered on.
// These control ephemeral delivery only, never store membership.
type ChannelFlags struct {
	Toast bool `json:"toast"`
	Badge bool `json:"badge"`
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// NotificationAction is an optional action the UI can attach to a notification.
type NotificationAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Notification is a user-facing event message.
type Notification struct {
	ID        string               `json:"id"`
	Category  NotificationCategory `json:"category"`
	Priority  NotificationPriority `json:"priority"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Channels  ChannelFlags         `json:"channels"`
	Actions   []NotificationAction `json:"actions,omitempty"`
	Read      bool                 `json:"read"`
	Dismissed bool                 `json:"dismissed"`
	CreatedAt time.Time            `json:"createdAt"`
}
