package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/klinefeld/tradedesk/internal/api"
	"github.com/klinefeld/tradedesk/internal/reconcile"
)

// Config holds poller intervals per entity type.
type Config struct {
	Orders     time.Duration
	Trades     time.Duration
	Positions  time.Duration
	MarketData time.Duration
	Symbols    []string      // symbols to poll quotes for
	Timeout    time.Duration // per-request timeout
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Orders:     10 * time.Second,
		Trades:     15 * time.Second,
		Positions:  10 * time.Second,
		MarketData: 5 * time.Second,
		Timeout:    10 * time.Second,
	}
}

// Poller periodically fetches entity snapshots and feeds them to the
// reconciler. A 401/403 from the feed invalidates the session: the
// OnAuthError callback fires once and the poller keeps running only
// until its owner tears it down.
type Poller struct {
	cfg    Config
	feed   api.Feed
	rec    *reconcile.Reconciler
	logger *slog.Logger

	// OnAuthError is invoked at most once per Start when the feed
	// reports the session as invalid.
	OnAuthError func()

	authOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, feed api.Feed, rec *reconcile.Reconciler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Poller{
		cfg:    cfg,
		feed:   feed,
		rec:    rec,
		logger: logger,
	}
}

// Start begins the polling loops. Each loop polls immediately for
// initial hydration, then on its fixed interval.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.authOnce = sync.Once{}

	p.startLoop(p.cfg.Orders, p.pollOrders)
	p.startLoop(p.cfg.Trades, p.pollTrades)
	p.startLoop(p.cfg.Positions, p.pollPositions)
	if len(p.cfg.Symbols) > 0 {
		p.startLoop(p.cfg.MarketData, p.pollMarketData)
	}

	p.logger.Info("poller started",
		"orders_interval", p.cfg.Orders,
		"trades_interval", p.cfg.Trades,
		"positions_interval", p.cfg.Positions,
		"marketdata_interval", p.cfg.MarketData,
		"symbols", len(p.cfg.Symbols),
	)

	return nil
}

// Stop gracefully shuts down the polling loops.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startLoop runs one poll function immediately and then on a ticker.
func (p *Poller) startLoop(interval time.Duration, poll func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.pollOnce(poll)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticker.C:
				p.pollOnce(poll)
			}
		}
	}()
}

// pollOnce runs one poll with a request timeout and routes errors.
func (p *Poller) pollOnce(poll func(context.Context) error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	err := poll(ctx)
	if err == nil {
		return
	}

	if errors.Is(err, api.ErrUnauthorized) {
		p.logger.Warn("session invalidated by feed")
		p.authOnce.Do(func() {
			if p.OnAuthError != nil {
				p.OnAuthError()
			}
		})
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	p.logger.Warn("poll failed", "error", err)
}

func (p *Poller) pollOrders(ctx context.Context) error {
	orders, err := p.feed.GetOrders(ctx)
	if err != nil {
		return err
	}
	p.rec.ApplyOrdersSnapshot(orders)
	return nil
}

func (p *Poller) pollTrades(ctx context.Context) error {
	trades, err := p.feed.GetTrades(ctx)
	if err != nil {
		return err
	}
	p.rec.ApplyTradesSnapshot(trades)
	return nil
}

func (p *Poller) pollPositions(ctx context.Context) error {
	positions, err := p.feed.GetPositions(ctx)
	if err != nil {
		return err
	}
	p.rec.ApplyPositionsSnapshot(positions)
	return nil
}

func (p *Poller) pollMarketData(ctx context.Context) error {
	var firstErr error
	for _, symbol := range p.cfg.Symbols {
		quote, err := p.feed.GetMarketData(ctx, symbol)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if errors.Is(err, api.ErrUnauthorized) {
				return err
			}
			continue
		}
		p.rec.ApplyQuote(quote)
	}
	return firstErr
}
