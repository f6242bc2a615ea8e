package api

import (
	"context"
	"net/url"

	"github.com/klinefeld/tradedesk/internal/model"
)

// GetOrders fetches all orders for the session account.
func (c *Client) GetOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.get(ctx, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetTrades fetches the trade history for the session account.
func (c *Client) GetTrades(ctx context.Context) ([]model.Trade, error) {
	var trades []model.Trade
	if err := c.get(ctx, "/trades", nil, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// GetPositions fetches all open positions for the session account.
func (c *Client) GetPositions(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	if err := c.get(ctx, "/positions", nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetMarketData fetches the latest quote for one symbol.
func (c *Client) GetMarketData(ctx context.Context, symbol string) (model.Quote, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var quote model.Quote
	if err := c.get(ctx, "/marketdata", query, &quote); err != nil {
		return model.Quote{}, err
	}
	return quote, nil
}
