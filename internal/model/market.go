package model

import "time"

// PricePoint is a single dated price sample. Date is an ISO-8601 calendar date.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// CoinMarket is one row of the market listing.
type CoinMarket struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Rank         int       `json:"rank"`
	CurrentPrice float64   `json:"current_price"`
	MarketCap    float64   `json:"market_cap"`
	Volume24h    float64   `json:"volume_24h"`
	ChangePct24h float64   `json:"change_pct_24h"`
	Sparkline    []float64 `json:"sparkline,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// GlobalStats is the market-wide summary across all listed coins.
type GlobalStats struct {
	TotalMarketCap         float64   `json:"total_market_cap"`
	MarketCapChangePct24h  float64   `json:"market_cap_change_pct_24h"`
	TotalVolume24h         float64   `json:"total_volume_24h"`
	BTCDominance           float64   `json:"btc_dominance"`
	ActiveCryptocurrencies int       `json:"active_cryptocurrencies"`
	FetchedAt              time.Time `json:"fetched_at"`
}
