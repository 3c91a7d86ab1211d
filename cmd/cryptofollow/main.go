package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoFollow/internal/alert"
	"CryptoFollow/internal/collector"
	"CryptoFollow/internal/config"
	"CryptoFollow/internal/fund"
	"CryptoFollow/internal/logging"
	"CryptoFollow/internal/metrics"
	"CryptoFollow/internal/notifier"
	"CryptoFollow/internal/scheduler"
	"CryptoFollow/internal/server"
	"CryptoFollow/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := logging.New("info", false)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Msg("CryptoFollow starting")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("CryptoFollow exited")
	}
	log.Info().Msg("CryptoFollow stopped")
}

// run owns every resource with a deferred cleanup so errors unwind them before main exits.
func run(cfg *config.Config, log zerolog.Logger) error {
	// Init fetcher
	var fetcher collector.Fetcher
	if os.Getenv("MOCK_MARKET") == "true" {
		fetcher = &collector.MockFetcher{}
	} else {
		fetcher = collector.NewCoinGeckoFetcher(cfg.Market.BaseURL, cfg.Market.VsCurrency, cfg.Market.PerPage, cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Msg("market data source")
	col := collector.NewCollector(fetcher, cfg.Market.HistoryDays, log)

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite store failed, using memory store")
			st = store.NewMemoryStore()
		} else {
			st = ss
		}
	} else {
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// Init cash wallet
	fm, err := fund.NewManager(cfg.Fund.StateFile, log)
	if err != nil {
		return fmt.Errorf("init fund manager: %w", err)
	}

	// Init notifiers
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	dn := notifier.NewDiscordNotifier(cfg.Discord.WebhookURL)
	dispatcher := notifier.NewDispatcher(log, tn, dn)

	rec := metrics.New()
	checker := alert.NewChecker(st, col, dispatcher, rec, log)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, scheduler.Options{
		Collector:   col,
		Checker:     checker,
		Store:       st,
		Fund:        fm,
		Notifier:    tn,
		Metrics:     rec,
		Watchlist:   cfg.Market.Watchlist,
		DefaultUser: cfg.DefaultUser,
	}, log)
	if err := sched.RegisterAll(cfg.Schedule.AlertCron, cfg.Schedule.CollectCron, cfg.Schedule.ReportCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// HTTP API
	srv := server.New(server.Config{
		Addr:       cfg.Server.Addr,
		CronSecret: cfg.Server.CronSecret,
		Log:        log,
		Collector:  col,
		Store:      st,
		Fund:       fm,
		Checker:    checker,
		Metrics:    rec,
	})
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, sending watchlist report now")
		go sched.RunReportNow()
	}

	log.Info().Msg("CryptoFollow is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	return runErr
}
