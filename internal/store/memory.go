package store

import (
	"context"
	"sort"
	"sync"

	"CryptoFollow/internal/model"
)

// MemoryStore is an in-process Store used when SQLite is not configured.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions []model.Transaction
	alerts       []model.Alert
	snapshots    int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) AddTransaction(_ context.Context, tx *model.Transaction) error {
	prepareTransaction(tx)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *MemoryStore) ListTransactions(_ context.Context, userID string) ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MemoryStore) DeleteTransaction(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, tx := range m.transactions {
		if tx.ID == id && tx.UserID == userID {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) AddAlert(_ context.Context, a *model.Alert) error {
	prepareAlert(a)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *MemoryStore) ListAlerts(_ context.Context, userID string) ([]model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Alert, 0)
	for _, a := range m.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryStore) ActiveAlerts(_ context.Context) ([]model.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Alert, 0)
	for _, a := range m.alerts {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeactivateAlerts(_ context.Context, ids []string) error {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if _, ok := set[m.alerts[i].ID]; ok {
			m.alerts[i].Active = false
		}
	}
	return nil
}

func (m *MemoryStore) DeleteAlert(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.alerts {
		if a.ID == id && a.UserID == userID {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) RecordSnapshot(_ context.Context, markets []model.CoinMarket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots += len(markets)
	return nil
}

// SnapshotCount returns the number of recorded market rows.
func (m *MemoryStore) SnapshotCount(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots, nil
}

func (m *MemoryStore) Close() error { return nil }
