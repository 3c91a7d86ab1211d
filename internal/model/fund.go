package model

import "time"

// WalletState is the simulated cash balance used for paper trading.
type WalletState struct {
	Balance       float64   `json:"balance"`
	TotalDeposits float64   `json:"total_deposits"`
	DepositCount  int       `json:"deposit_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}
