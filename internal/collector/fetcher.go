package collector

import (
	"context"

	"CryptoFollow/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchMarkets returns the top coins by market cap.
	FetchMarkets(ctx context.Context) ([]model.CoinMarket, error)
	// FetchHistory returns one price per calendar day for the last days days, oldest first.
	FetchHistory(ctx context.Context, coinID string, days int) ([]model.PricePoint, error)
	FetchGlobalStats(ctx context.Context) (*model.GlobalStats, error)
	Name() string
}
