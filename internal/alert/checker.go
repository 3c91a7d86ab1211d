// Package alert evaluates stored price alerts against live prices.
package alert

import (
	"context"
	"fmt"
	"sync"

	"CryptoFollow/internal/model"
	"CryptoFollow/internal/store"

	"github.com/rs/zerolog"
)

// PriceSource supplies the latest price per upper-cased symbol.
type PriceSource interface {
	CurrentPrices(ctx context.Context) (map[string]float64, error)
}

// Dispatcher delivers a triggered alert and reports per-channel success.
type Dispatcher interface {
	Dispatch(ctx context.Context, n model.AlertNotification) map[string]bool
}

// Metrics receives sweep counters. May be nil.
type Metrics interface {
	RecordAlertCheck(checked, triggered int)
	RecordNotifyFailure(channel string)
}

// Result summarises one sweep.
type Result struct {
	Checked   int `json:"checked"`
	Triggered int `json:"triggered"`
}

// Checker runs alert sweeps. Sweeps are serialised so a slow run cannot double-fire alerts.
type Checker struct {
	store      store.Store
	prices     PriceSource
	dispatcher Dispatcher
	metrics    Metrics
	log        zerolog.Logger

	mu sync.Mutex
}

func NewChecker(st store.Store, prices PriceSource, dispatcher Dispatcher, metrics Metrics, log zerolog.Logger) *Checker {
	return &Checker{
		store:      st,
		prices:     prices,
		dispatcher: dispatcher,
		metrics:    metrics,
		log:        log.With().Str("component", "alert_checker").Logger(),
	}
}

// Evaluate reports whether price satisfies the alert's condition. The comparison is strict.
func Evaluate(a model.Alert, price float64) bool {
	switch a.Condition {
	case model.ConditionAbove:
		return price > a.TargetPrice
	case model.ConditionBelow:
		return price < a.TargetPrice
	default:
		return false
	}
}

// Check evaluates every active alert once. Triggered alerts are notified and then deactivated,
// whether or not delivery succeeded.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	alerts, err := c.store.ActiveAlerts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load active alerts: %w", err)
	}
	if len(alerts) == 0 {
		return Result{}, nil
	}

	prices, err := c.prices.CurrentPrices(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch prices: %w", err)
	}

	var triggered []model.Alert
	var current []float64
	for _, a := range alerts {
		price, ok := prices[a.Symbol]
		if !ok || price <= 0 {
			c.log.Debug().Str("symbol", a.Symbol).Msg("no price for alert symbol, skipping")
			continue
		}
		if Evaluate(a, price) {
			triggered = append(triggered, a)
			current = append(current, price)
		}
	}

	var wg sync.WaitGroup
	for i, a := range triggered {
		wg.Add(1)
		go func(a model.Alert, price float64) {
			defer wg.Done()
			results := c.dispatcher.Dispatch(ctx, model.AlertNotification{
				Symbol:       a.Symbol,
				TargetPrice:  a.TargetPrice,
				CurrentPrice: price,
				Condition:    a.Condition,
				UserEmail:    a.UserEmail,
			})
			for channel, ok := range results {
				if !ok && c.metrics != nil {
					c.metrics.RecordNotifyFailure(channel)
				}
			}
		}(a, current[i])
	}
	wg.Wait()

	if len(triggered) > 0 {
		ids := make([]string, len(triggered))
		for i, a := range triggered {
			ids[i] = a.ID
		}
		// Notifications already went out; report them even if the flag write fails.
		if err := c.store.DeactivateAlerts(ctx, ids); err != nil {
			c.log.Error().Err(err).Strs("alert_ids", ids).Msg("deactivate triggered alerts failed")
		}
	}

	res := Result{Checked: len(alerts), Triggered: len(triggered)}
	if c.metrics != nil {
		c.metrics.RecordAlertCheck(res.Checked, res.Triggered)
	}
	c.log.Info().Int("checked", res.Checked).Int("triggered", res.Triggered).Msg("alert check complete")
	return res, nil
}
