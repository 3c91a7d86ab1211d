// Package fund keeps the simulated cash balance used for paper trading.
package fund

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"CryptoFollow/internal/model"

	"github.com/rs/zerolog"
)

// ErrInvalidAmount is returned for deposits that are not a positive number.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// Manager guards the wallet state and persists every change.
type Manager struct {
	mu       sync.Mutex
	state    *model.WalletState
	filePath string
	log      zerolog.Logger
}

// NewManager creates a Manager, loading state from disk when a file path is given.
// An empty path keeps the wallet in memory only.
func NewManager(filePath string, log zerolog.Logger) (*Manager, error) {
	state := &model.WalletState{}
	if filePath != "" {
		var err error
		if state, err = LoadState(filePath); err != nil {
			return nil, fmt.Errorf("load wallet state: %w", err)
		}
	}
	return &Manager{
		state:    state,
		filePath: filePath,
		log:      log.With().Str("component", "fund").Logger(),
	}, nil
}

// GetState returns a copy of the current wallet state.
func (m *Manager) GetState() model.WalletState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// Balance returns the current cash balance.
func (m *Manager) Balance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Balance
}

// Deposit adds amount to the balance and returns the new balance.
func (m *Manager) Deposit(amount float64) (float64, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Balance += amount
	m.state.TotalDeposits += amount
	m.state.DepositCount++
	if err := m.save(); err != nil {
		return m.state.Balance, err
	}
	m.log.Info().Float64("amount", amount).Float64("balance", m.state.Balance).Msg("deposit")
	return m.state.Balance, nil
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	if err := SaveState(m.filePath, m.state); err != nil {
		return fmt.Errorf("save wallet state: %w", err)
	}
	return nil
}
