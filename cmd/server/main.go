package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/uptimemon/internal/config"
	"github.com/hamed0406/uptimemon/internal/httpapi"
	"github.com/hamed0406/uptimemon/internal/logging"
	"github.com/hamed0406/uptimemon/internal/metrics"
	"github.com/hamed0406/uptimemon/internal/notify"
	"github.com/hamed0406/uptimemon/internal/probe"
	"github.com/hamed0406/uptimemon/internal/repo"
	"github.com/hamed0406/uptimemon/internal/repo/file"
	"github.com/hamed0406/uptimemon/internal/repo/postgres"
	"github.com/hamed0406/uptimemon/internal/repo/redis"
	"github.com/hamed0406/uptimemon/internal/scheduler"
)

const httpShutdownTimeout = 5 * time.Second

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store_open_error", zap.Error(err))
	}
	defer closeStore()

	var notifiers notify.Multi
	if tw := notify.NewTwilio(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom); tw != nil {
		notifiers = append(notifiers, tw)
	}
	if cfg.SlackWebhook != "" {
		notifiers = append(notifiers, notify.NewSlack(cfg.SlackWebhook))
	}
	var notifier notify.Notifier
	if len(notifiers) > 0 {
		notifier = notifiers
	} else {
		logger.Warn("no_notifier_configured", zap.String("hint", "set TWILIO_* or SLACK_WEBHOOK"))
	}

	mc := metrics.NewCollector()

	sweeper := scheduler.NewSweeper(
		logger, store, probe.NewHTTPProber(), notifier, mc,
		cfg.SweepInterval, cfg.Concurrency,
	)
	go sweeper.Run(ctx)

	api := httpapi.NewServer(logger, store, mc, cfg.MaxChecks)
	router := api.Router()

	errc := make(chan error, 2)
	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	var tlsSrv *http.Server
	if cfg.TLSAddr != "" && cfg.TLSCert != "" && cfg.TLSKey != "" {
		tlsSrv = &http.Server{Addr: cfg.TLSAddr, Handler: router}
		go func() {
			logger.Info("api_listen_tls", zap.String("addr", cfg.TLSAddr))
			errc <- tlsSrv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting_down")
	case err := <-errc:
		logger.Error("listener_error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if tlsSrv != nil {
		_ = tlsSrv.Shutdown(shutdownCtx)
	}
}

// openStore picks the record store backend from the environment: postgres
// when DATABASE_URL is set, redis when REDIS_ADDR is set, the JSON file
// store otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.RecordStore, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		s, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store_backend", zap.String("kind", "postgres"))
		return s, s.Close, nil
	case cfg.RedisAddr != "":
		s, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, 0)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store_backend", zap.String("kind", "redis"), zap.String("addr", cfg.RedisAddr))
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store_backend", zap.String("kind", "file"), zap.String("dir", cfg.DataDir))
		return s, func() {}, nil
	}
}
