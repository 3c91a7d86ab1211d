// Package notifier delivers alerts and reports to chat channels and formats the
// values shown in them.
package notifier

import (
	"context"
	"errors"
	"sync"

	"CryptoFollow/internal/model"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when a channel has no credentials or webhook.
var ErrNotConfigured = errors.New("notifier not configured")

// Notifier delivers a triggered alert over one channel.
type Notifier interface {
	Name() string
	Configured() bool
	SendAlert(ctx context.Context, n model.AlertNotification) error
}

// Dispatcher fans alerts out to every channel.
type Dispatcher struct {
	channels []Notifier
	log      zerolog.Logger
}

func NewDispatcher(log zerolog.Logger, channels ...Notifier) *Dispatcher {
	return &Dispatcher{channels: channels, log: log.With().Str("component", "dispatcher").Logger()}
}

// Dispatch sends n on all configured channels concurrently and reports which ones succeeded.
// Unconfigured channels are skipped and absent from the result.
func (d *Dispatcher) Dispatch(ctx context.Context, n model.AlertNotification) map[string]bool {
	results := make(map[string]bool, len(d.channels))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, ch := range d.channels {
		if !ch.Configured() {
			continue
		}
		wg.Add(1)
		go func(ch Notifier) {
			defer wg.Done()
			err := ch.SendAlert(ctx, n)
			if err != nil {
				d.log.Error().Err(err).Str("channel", ch.Name()).Str("symbol", n.Symbol).Msg("alert delivery failed")
			}
			mu.Lock()
			results[ch.Name()] = err == nil
			mu.Unlock()
		}(ch)
	}
	wg.Wait()
	return results
}
