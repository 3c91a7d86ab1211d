package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"CryptoFollow/internal/model"
)

// CoinGeckoFetcher implements Fetcher using the CoinGecko public API.
type CoinGeckoFetcher struct {
	BaseURL    string
	VsCurrency string
	PerPage    int
	Client     *http.Client
}

// NewCoinGeckoFetcher creates a new CoinGecko fetcher with optional proxy support.
func NewCoinGeckoFetcher(baseURL, vsCurrency string, perPage int, proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoFetcher{
		BaseURL:    baseURL,
		VsCurrency: vsCurrency,
		PerPage:    perPage,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// coinGeckoMarket is one element of the /coins/markets response.
type coinGeckoMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	MarketCapRank            int      `json:"market_cap_rank"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	SparklineIn7d            *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// coinGeckoChart is the /coins/{id}/market_chart response; each sample is [unix ms, value].
type coinGeckoChart struct {
	Prices [][2]float64 `json:"prices"`
}

// coinGeckoGlobal is the /global response. Amount maps are keyed by currency code.
type coinGeckoGlobal struct {
	Data struct {
		ActiveCryptocurrencies int                `json:"active_cryptocurrencies"`
		TotalMarketCap         map[string]float64 `json:"total_market_cap"`
		TotalVolume            map[string]float64 `json:"total_volume"`
		MarketCapPercentage    map[string]float64 `json:"market_cap_percentage"`
		MarketCapChangePct24h  float64            `json:"market_cap_change_percentage_24h_usd"`
	} `json:"data"`
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (f *CoinGeckoFetcher) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := f.BaseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("coingecko read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("coingecko decode: %w", err)
	}
	return nil
}

func (f *CoinGeckoFetcher) FetchMarkets(ctx context.Context) ([]model.CoinMarket, error) {
	q := url.Values{}
	q.Set("vs_currency", f.VsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(f.PerPage))
	q.Set("page", "1")
	q.Set("sparkline", "true")
	q.Set("price_change_percentage", "24h")

	var raw []coinGeckoMarket
	if err := f.get(ctx, "/coins/markets", q, &raw); err != nil {
		return nil, err
	}

	now := time.Now()
	markets := make([]model.CoinMarket, 0, len(raw))
	for _, r := range raw {
		m := model.CoinMarket{
			ID:           r.ID,
			Symbol:       r.Symbol,
			Name:         r.Name,
			Rank:         r.MarketCapRank,
			CurrentPrice: deref(r.CurrentPrice),
			MarketCap:    deref(r.MarketCap),
			Volume24h:    deref(r.TotalVolume),
			ChangePct24h: deref(r.PriceChangePercentage24h),
			FetchedAt:    now,
		}
		if r.SparklineIn7d != nil {
			m.Sparkline = r.SparklineIn7d.Price
		}
		markets = append(markets, m)
	}
	return markets, nil
}

func (f *CoinGeckoFetcher) FetchHistory(ctx context.Context, coinID string, days int) ([]model.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", f.VsCurrency)
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", "daily")

	var chart coinGeckoChart
	if err := f.get(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart", q, &chart); err != nil {
		return nil, err
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("coingecko: no history for %s", coinID)
	}
	return dailyPoints(chart.Prices), nil
}

// dailyPoints collapses [ms, price] samples to one point per UTC calendar day.
// The last sample of a day wins, so the live "now" sample replaces that day's close.
func dailyPoints(samples [][2]float64) []model.PricePoint {
	sorted := make([][2]float64, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	points := make([]model.PricePoint, 0, len(sorted))
	for _, s := range sorted {
		date := time.UnixMilli(int64(s[0])).UTC().Format("2006-01-02")
		if n := len(points); n > 0 && points[n-1].Date == date {
			points[n-1].Price = s[1]
			continue
		}
		points = append(points, model.PricePoint{Date: date, Price: s[1]})
	}
	return points
}

// FetchGlobalStats returns market-wide totals in the fetcher's quote currency.
func (f *CoinGeckoFetcher) FetchGlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	var raw coinGeckoGlobal
	if err := f.get(ctx, "/global", url.Values{}, &raw); err != nil {
		return nil, err
	}
	if raw.Data.TotalMarketCap == nil {
		return nil, fmt.Errorf("coingecko: empty global stats")
	}
	cur := strings.ToLower(f.VsCurrency)
	return &model.GlobalStats{
		TotalMarketCap:         raw.Data.TotalMarketCap[cur],
		MarketCapChangePct24h:  raw.Data.MarketCapChangePct24h,
		TotalVolume24h:         raw.Data.TotalVolume[cur],
		BTCDominance:           raw.Data.MarketCapPercentage["btc"],
		ActiveCryptocurrencies: raw.Data.ActiveCryptocurrencies,
		FetchedAt:              time.Now(),
	}, nil
}
