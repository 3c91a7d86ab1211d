package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CryptoFollow/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Markets []model.CoinMarket
	// History maps coin id to its daily series. Missing ids get a generated series around BasePrice.
	History   map[string][]model.PricePoint
	BasePrice float64
	Global    *model.GlobalStats
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMarkets(_ context.Context) ([]model.CoinMarket, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Markets != nil {
		return m.Markets, nil
	}
	now := time.Now()
	return []model.CoinMarket{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", Rank: 1, CurrentPrice: m.basePrice(), FetchedAt: now},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", Rank: 2, CurrentPrice: m.basePrice() / 20, FetchedAt: now},
	}, nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, coinID string, days int) ([]model.PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.History != nil {
		if h, ok := m.History[coinID]; ok {
			return h, nil
		}
		return nil, fmt.Errorf("mock: unknown coin %q", strings.ToLower(coinID))
	}
	return generateMockHistory(m.basePrice(), days), nil
}

func (m *MockFetcher) FetchGlobalStats(_ context.Context) (*model.GlobalStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Global != nil {
		return m.Global, nil
	}
	return &model.GlobalStats{
		TotalMarketCap:         m.basePrice() * 50_000_000,
		MarketCapChangePct24h:  0.5,
		TotalVolume24h:         m.basePrice() * 2_000_000,
		BTCDominance:           52,
		ActiveCryptocurrencies: 2,
		FetchedAt:              time.Now(),
	}, nil
}

func (m *MockFetcher) basePrice() float64 {
	if m.BasePrice > 0 {
		return m.BasePrice
	}
	return 50000
}

func generateMockHistory(basePrice float64, count int) []model.PricePoint {
	start := time.Now().UTC().AddDate(0, 0, -count)
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Date:  start.AddDate(0, 0, i+1).Format("2006-01-02"),
			Price: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}
