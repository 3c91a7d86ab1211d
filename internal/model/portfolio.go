package model

import "time"

// TxKind is the side of a ledger entry.
type TxKind string

const (
	TxBuy  TxKind = "BUY"
	TxSell TxKind = "SELL"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Symbol       string    `json:"symbol"`
	Kind         TxKind    `json:"kind"`
	Amount       float64   `json:"amount"`
	PricePerUnit float64   `json:"price_per_unit"`
	Timestamp    time.Time `json:"timestamp"`
}

// Holding is the derived position in one symbol.
type Holding struct {
	Symbol          string  `json:"symbol"`
	Amount          float64 `json:"amount"`
	AverageBuyPrice float64 `json:"average_buy_price"`
	TotalInvested   float64 `json:"total_invested"`
	CurrentPrice    float64 `json:"current_price"`
	CurrentValue    float64 `json:"current_value"`
	PnL             float64 `json:"pnl"`
	PnLPercentage   float64 `json:"pnl_percentage"`
}

// PortfolioSummary aggregates all holdings.
type PortfolioSummary struct {
	TotalInvested      float64   `json:"total_invested"`
	CurrentValue       float64   `json:"current_value"`
	TotalPnL           float64   `json:"total_pnl"`
	TotalPnLPercentage float64   `json:"total_pnl_percentage"`
	Holdings           []Holding `json:"holdings"`
	TotalTransactions  int       `json:"total_transactions"`
}

// Formatted is a display string plus its sign, for UI colouring.
type Formatted struct {
	Text       string `json:"text"`
	IsPositive bool   `json:"is_positive"`
}
