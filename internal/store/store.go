// Package store persists the transaction ledger, price alerts and market snapshots.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"CryptoFollow/internal/model"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist for the given user.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary used by the bot and the HTTP API.
type Store interface {
	AddTransaction(ctx context.Context, tx *model.Transaction) error
	ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error

	AddAlert(ctx context.Context, a *model.Alert) error
	ListAlerts(ctx context.Context, userID string) ([]model.Alert, error)
	ActiveAlerts(ctx context.Context) ([]model.Alert, error)
	DeactivateAlerts(ctx context.Context, ids []string) error
	DeleteAlert(ctx context.Context, userID, id string) error

	RecordSnapshot(ctx context.Context, markets []model.CoinMarket) error
	Close() error
}

// prepareTransaction fills the id and timestamp and normalises the symbol.
func prepareTransaction(tx *model.Transaction) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}
	tx.Symbol = strings.ToUpper(tx.Symbol)
}

func prepareAlert(a *model.Alert) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.Symbol = strings.ToUpper(a.Symbol)
}
