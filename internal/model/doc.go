// Package model defines the entity types the dashboard mirrors from the
// trading backend: orders, trades, positions, quotes, and notifications,
// plus the websocket envelope they travel in.
//
// Conventions:
//   - Prices and quantities: shopspring/decimal
//   - Timestamps: time.Time, RFC 3339 on the wire
//   - IDs: opaque strings assigned by the backend
package model
