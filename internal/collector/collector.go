package collector

import (
	"context"
	"fmt"
	"strings"

	"CryptoFollow/internal/calculator"
	"CryptoFollow/internal/model"
	"CryptoFollow/internal/strategy"

	"github.com/rs/zerolog"
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher     Fetcher
	HistoryDays int
	log         zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, historyDays int, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		HistoryDays: historyDays,
		log:         log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// Markets returns the current market table.
func (c *Collector) Markets(ctx context.Context) ([]model.CoinMarket, error) {
	markets, err := c.Fetcher.FetchMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	return markets, nil
}

// GlobalStats returns the market-wide summary.
func (c *Collector) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	stats, err := c.Fetcher.FetchGlobalStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch global stats: %w", err)
	}
	return stats, nil
}

// CurrentPrices returns the latest price per upper-cased symbol.
// When two coins share a symbol the higher-ranked one wins.
func (c *Collector) CurrentPrices(ctx context.Context) (map[string]float64, error) {
	markets, err := c.Markets(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(markets))
	for _, m := range markets {
		sym := strings.ToUpper(m.Symbol)
		if _, seen := prices[sym]; seen {
			continue
		}
		prices[sym] = m.CurrentPrice
	}
	return prices, nil
}

// ResolveCoinID maps a coin id or ticker symbol to a coin id known to the market table.
// Unknown queries are returned lower-cased so the history endpoint can still try them.
func (c *Collector) ResolveCoinID(ctx context.Context, query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	markets, err := c.Fetcher.FetchMarkets(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("query", q).Msg("resolve coin id failed, using query as id")
		return q
	}
	for _, m := range markets {
		if m.ID == q {
			return m.ID
		}
	}
	for _, m := range markets {
		if strings.ToLower(m.Symbol) == q {
			return m.ID
		}
	}
	return q
}

// Analyze fetches the coin's history and runs the regression and indicator engines over it.
func (c *Collector) Analyze(ctx context.Context, coinID string, horizon int) (*model.CoinAnalysis, error) {
	history, err := c.Fetcher.FetchHistory(ctx, coinID, c.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", coinID, err)
	}

	prediction, err := calculator.PredictPrices(history, horizon)
	if err != nil {
		return nil, err
	}

	indicators := calculator.AddSMAIndicators(history)
	prices := make([]float64, len(history))
	for i, p := range history {
		prices[i] = p.Price
	}
	last := prices[len(prices)-1]

	a := &model.CoinAnalysis{
		CoinID:     coinID,
		LastPrice:  last,
		Prediction: prediction,
		Confidence: calculator.ConfidenceLevel(prediction.RSquared),
		Crossover:  calculator.DetectCrossovers(indicators),
		Indicators: indicators,
	}

	if rsi, err := calculator.CalculateRSI(prices, calculator.RSIPeriod); err != nil {
		c.log.Warn().Err(err).Str("coin", coinID).Msg("RSI calculation failed, defaulting to 50")
		a.RSI = 50
	} else {
		a.RSI = rsi
	}

	high, low, err := calculator.PriceRange(prices, 0)
	if err != nil {
		return nil, err
	}
	a.PeriodHigh, a.PeriodLow = high, low
	if pos, err := calculator.RangePosition(last, high, low); err != nil {
		c.log.Warn().Err(err).Str("coin", coinID).Msg("range position calculation failed")
		a.RangePosition = 0.5
	} else {
		a.RangePosition = pos
	}

	a.Outlook = strategy.Evaluate(a)

	c.log.Debug().
		Str("coin", coinID).
		Str("trend", string(prediction.Trend)).
		Str("outlook", a.Outlook.Label).
		Float64("r_squared", prediction.RSquared).
		Int("points", len(history)).
		Msg("analysis complete")
	return a, nil
}
