package fund

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DepositPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wallet.json")

	m, err := NewManager(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Balance())

	bal, err := m.Deposit(1000)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, bal)
	_, err = m.Deposit(5000)
	require.NoError(t, err)

	reloaded, err := NewManager(path, zerolog.Nop())
	require.NoError(t, err)
	state := reloaded.GetState()
	assert.Equal(t, 6000.0, state.Balance)
	assert.Equal(t, 6000.0, state.TotalDeposits)
	assert.Equal(t, 2, state.DepositCount)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestManager_RejectsInvalidAmounts(t *testing.T) {
	m, err := NewManager("", zerolog.Nop())
	require.NoError(t, err)

	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		_, err := m.Deposit(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}
	assert.Equal(t, 0.0, m.Balance())
}
