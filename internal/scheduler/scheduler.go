package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CryptoFollow/internal/alert"
	"CryptoFollow/internal/calculator"
	"CryptoFollow/internal/collector"
	"CryptoFollow/internal/fund"
	"CryptoFollow/internal/metrics"
	"CryptoFollow/internal/notifier"
	"CryptoFollow/internal/portfolio"
	"CryptoFollow/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler manages all cron tasks and answers bot commands.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Checker     *alert.Checker
	Store       store.Store
	Fund        *fund.Manager
	Notifier    *notifier.TelegramNotifier
	Metrics     *metrics.Recorder
	Watchlist   []string
	DefaultUser string
	Ctx         context.Context

	log zerolog.Logger
}

// Options carries the Scheduler's collaborators.
type Options struct {
	Collector   *collector.Collector
	Checker     *alert.Checker
	Store       store.Store
	Fund        *fund.Manager
	Notifier    *notifier.TelegramNotifier
	Metrics     *metrics.Recorder
	Watchlist   []string
	DefaultUser string
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, opts Options, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   opts.Collector,
		Checker:     opts.Checker,
		Store:       opts.Store,
		Fund:        opts.Fund,
		Notifier:    opts.Notifier,
		Metrics:     opts.Metrics,
		Watchlist:   opts.Watchlist,
		DefaultUser: opts.DefaultUser,
		Ctx:         ctx,
		log:         log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the alert check, market snapshot and watchlist report tasks.
func (s *Scheduler) RegisterAll(alertCron, collectCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(alertCron, s.alertTask); err != nil {
		return fmt.Errorf("register alert task: %w", err)
	}
	if _, err := s.Cron.AddFunc(collectCron, s.collectTask); err != nil {
		return fmt.Errorf("register collect task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunAlertCheckNow runs one alert sweep immediately.
func (s *Scheduler) RunAlertCheckNow(ctx context.Context) (alert.Result, error) {
	return s.Checker.Check(ctx)
}

// RunReportNow executes the watchlist report immediately (for RUN_ON_START).
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) alertTask() {
	if _, err := s.Checker.Check(s.Ctx); err != nil {
		s.log.Error().Err(err).Msg("alert check failed")
	}
}

func (s *Scheduler) collectTask() {
	markets, err := s.Collector.Markets(s.Ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("market collect failed")
		return
	}
	if err := s.Store.RecordSnapshot(s.Ctx, markets); err != nil {
		s.log.Error().Err(err).Msg("record snapshot failed")
	}
	for _, m := range markets {
		s.Metrics.RecordLastPrice(strings.ToUpper(m.Symbol), m.CurrentPrice)
	}
	s.log.Info().Int("coins", len(markets)).Msg("market snapshot recorded")
}

func (s *Scheduler) reportTask() {
	s.log.Info().Strs("watchlist", s.Watchlist).Msg("running watchlist report")
	for _, coin := range s.Watchlist {
		report, err := s.analysisReport(s.Ctx, coin, calculator.DefaultHorizon)
		if err != nil {
			s.log.Error().Err(err).Str("coin", coin).Msg("watchlist analysis failed")
			s.trySend(fmt.Sprintf("❌ Analysis for %s failed: %v", coin, err))
			continue
		}
		s.trySend(report)
	}
}

func (s *Scheduler) analysisReport(ctx context.Context, coinID string, horizon int) (string, error) {
	start := time.Now()
	a, err := s.Collector.Analyze(ctx, coinID, horizon)
	if err != nil {
		return "", err
	}
	s.Metrics.ObserveAnalysis(time.Since(start).Seconds())
	return notifier.FormatAnalysisReport(a), nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "/portfolio":
		return s.portfolioReply(ctx)
	case "/predict":
		if len(args) == 0 {
			return "Usage: /predict <coin> [days]"
		}
		horizon := calculator.DefaultHorizon
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 || n > calculator.MaxHorizon {
				return fmt.Sprintf("Usage: /predict <coin> [days], days between 1 and %d", calculator.MaxHorizon)
			}
			horizon = n
		}
		coinID := s.Collector.ResolveCoinID(ctx, args[0])
		report, err := s.analysisReport(ctx, coinID, horizon)
		if errors.Is(err, calculator.ErrInsufficientData) {
			return fmt.Sprintf("Not enough price history for %s.", coinID)
		}
		if err != nil {
			s.log.Error().Err(err).Str("coin", coinID).Msg("predict command failed")
			return fmt.Sprintf("❌ Analysis for %s failed.", coinID)
		}
		return report
	case "/alerts":
		alerts, err := s.Store.ListAlerts(ctx, s.DefaultUser)
		if err != nil {
			s.log.Error().Err(err).Msg("list alerts failed")
			return "❌ Could not load alerts."
		}
		return notifier.FormatAlertList(alerts)
	case "/check":
		res, err := s.RunAlertCheckNow(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("manual alert check failed")
			return "❌ Alert check failed."
		}
		return fmt.Sprintf("Checked %d alerts, %d triggered.", res.Checked, res.Triggered)
	case "/balance":
		return fmt.Sprintf("💵 Cash balance: %s", notifier.FormatCurrency(s.Fund.Balance()))
	case "/deposit":
		if len(args) == 0 {
			return "Usage: /deposit <amount>"
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return "Amount must be a number."
		}
		balance, err := s.Fund.Deposit(amount)
		if errors.Is(err, fund.ErrInvalidAmount) {
			return "Amount must be greater than zero."
		}
		if err != nil {
			s.log.Error().Err(err).Msg("deposit failed")
			return "❌ Deposit could not be saved."
		}
		return fmt.Sprintf("✅ Deposited %s. Cash balance: %s", notifier.FormatCurrency(amount), notifier.FormatCurrency(balance))
	default:
		return helpText
	}
}

const helpText = `Available commands:
• /portfolio
• /predict <coin> [days]
• /alerts
• /check
• /balance
• /deposit <amount>`

func (s *Scheduler) portfolioReply(ctx context.Context) string {
	txs, err := s.Store.ListTransactions(ctx, s.DefaultUser)
	if err != nil {
		s.log.Error().Err(err).Msg("list transactions failed")
		return "❌ Could not load transactions."
	}
	prices := map[string]float64{}
	if len(txs) > 0 {
		if prices, err = s.Collector.CurrentPrices(ctx); err != nil {
			s.log.Warn().Err(err).Msg("price fetch failed, valuing holdings at zero")
			prices = map[string]float64{}
		}
	}
	summary := portfolio.CalculatePortfolioSummary(txs, prices)
	return notifier.FormatPortfolioReport(&summary, s.Fund.Balance())
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification failed")
	}
}
