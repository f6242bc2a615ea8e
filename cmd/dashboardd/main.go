package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/klinefeld/tradedesk/internal/api"
	"github.com/klinefeld/tradedesk/internal/config"
	"github.com/klinefeld/tradedesk/internal/connection"
	"github.com/klinefeld/tradedesk/internal/engine"
	"github.com/klinefeld/tradedesk/internal/model"
	"github.com/klinefeld/tradedesk/internal/poller"
	"github.com/klinefeld/tradedesk/internal/reconcile"
	"github.com/klinefeld/tradedesk/internal/store"
	"github.com/klinefeld/tradedesk/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/dashboard.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local development; ignore when absent.
	godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting dashboardd",
		"version", version.String(),
		"config", *configPath,
		"channels", cfg.Channels,
	)

	feed := api.NewClient(
		cfg.API.RestURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	st := store.New(preferencesFromConfig(cfg.Notifications), cfg.Notifications.ToastLimit)

	eng := engine.New(engine.Config{
		WSBaseURL: cfg.API.WSURL,
		Channels:  cfg.Channels,
		Connection: connection.ManagerConfig{
			HeartbeatInterval:    cfg.Connection.HeartbeatInterval,
			ReconnectInterval:    cfg.Connection.ReconnectInterval,
			MaxReconnectAttempts: cfg.Connection.MaxReconnectAttempts,
			WriteTimeout:         cfg.Connection.WriteTimeout,
			MessageBufferSize:    cfg.Connection.MessageBufferSize,
		},
		Polling: poller.Config{
			Orders:     cfg.Polling.Orders,
			Trades:     cfg.Polling.Trades,
			Positions:  cfg.Polling.Positions,
			MarketData: cfg.Polling.MarketData,
			Symbols:    cfg.Polling.Symbols,
		},
		Reconcile: reconcile.Config{},
	}, st, feed, logger)
	defer eng.Close()

	// Log status transitions for every channel.
	for _, ch := range cfg.Channels {
		if statusCh, ok := eng.StatusChanges(ch); ok {
			go logStatus(logger, ch, statusCh)
		}
	}

	token := os.Getenv(cfg.API.TokenEnv)
	if token == "" {
		logger.Warn("no session token present, staying disconnected",
			"env", cfg.API.TokenEnv,
		)
	} else {
		eng.SetToken(token)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)
}

// newLogger builds a slog logger writing to stdout and, when configured,
// a rotated log file.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// logStatus mirrors a channel's status signal into the log.
func logStatus(logger *slog.Logger, channel string, ch <-chan connection.State) {
	for state := range ch {
		logger.Info("channel status", "channel", channel, "state", state)
	}
}

// preferencesFromConfig maps the config gates onto store preferences.
func preferencesFromConfig(cfg config.NotificationsConfig) store.Preferences {
	prefs := store.DefaultPreferences()
	prefs.Enabled = cfg.Enabled

	if len(cfg.Categories) > 0 {
		prefs.Categories = make(map[model.NotificationCategory]bool, len(cfg.Categories))
		for k, v := range cfg.Categories {
			prefs.Categories[model.NotificationCategory(k)] = v
		}
	}
	if len(cfg.Priorities) > 0 {
		prefs.Priorities = make(map[model.NotificationPriority]bool, len(cfg.Priorities))
		for k, v := range cfg.Priorities {
			prefs.Priorities[model.NotificationPriority(k)] = v
		}
	}
	if len(cfg.Channels) > 0 {
		prefs.Channels = model.ChannelFlags{
			Toast: cfg.Channels["toast"],
			Badge: cfg.Channels["badge"],
			Email: cfg.Channels["email"],
			SMS:   cfg.Channels["sms"],
			Push:  cfg.Channels["push"],
		}
	}
	return prefs
}
