package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CryptoFollow/internal/alert"
	"CryptoFollow/internal/collector"
	"CryptoFollow/internal/fund"
	"CryptoFollow/internal/metrics"
	"CryptoFollow/internal/model"
	"CryptoFollow/internal/notifier"
	"CryptoFollow/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rising(n int) []model.PricePoint {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.PricePoint, n)
	for i := range out {
		out[i] = model.PricePoint{Date: day.AddDate(0, 0, i).Format("2006-01-02"), Price: 100 + float64(i)*10}
	}
	return out
}

func newTestServer(t *testing.T, cronSecret string) *Server {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	fetcher := &collector.MockFetcher{
		Markets: []model.CoinMarket{
			{ID: "bitcoin", Symbol: "btc", CurrentPrice: 60000},
			{ID: "ethereum", Symbol: "eth", CurrentPrice: 3000},
		},
		History: map[string][]model.PricePoint{
			"bitcoin": rising(40),
			"tiny":    rising(1),
		},
	}
	col := collector.NewCollector(fetcher, 40, log)
	st := store.NewMemoryStore()
	fm, err := fund.NewManager("", log)
	require.NoError(t, err)
	rec := metrics.New()
	checker := alert.NewChecker(st, col, notifier.NewDispatcher(log), rec, log)

	return New(Config{
		Addr:       ":0",
		CronSecret: cronSecret,
		Log:        log,
		Collector:  col,
		Store:      st,
		Fund:       fm,
		Checker:    checker,
		Metrics:    rec,
	})
}

func do(t *testing.T, s *Server, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, "GET", "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "timestamp")
	assert.Contains(t, body, "uptime")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	do(t, s, "GET", "/api/health", "")
	rec := do(t, s, "GET", "/api/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cryptofollow_http_requests_total{method="GET",status="200"}`)
}

func TestAnalysis(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, "GET", "/api/coins/bitcoin/analysis?horizon=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var a model.CoinAnalysis
	decode(t, rec, &a)
	assert.Equal(t, "bitcoin", a.CoinID)
	assert.Equal(t, model.TrendBullish, a.Prediction.Trend)
	assert.Len(t, a.Prediction.Predictions, 3)

	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/coins/bitcoin/analysis?horizon=abc", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, "GET", "/api/coins/tiny/analysis", "").Code)
	assert.Equal(t, http.StatusBadGateway, do(t, s, "GET", "/api/coins/unknown/analysis", "").Code)
}

func TestTransactionsAndPortfolio(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, "POST", "/api/transactions", `{"user_id":"u1","symbol":"btc","kind":"BUY","amount":1,"price_per_unit":50000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var tx model.Transaction
	decode(t, rec, &tx)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "BTC", tx.Symbol)

	rec = do(t, s, "POST", "/api/transactions", `{"user_id":"u1","symbol":"btc","kind":"SELL","amount":0.5,"price_per_unit":55000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, "GET", "/api/transactions?user=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []model.Transaction
	decode(t, rec, &txs)
	assert.Len(t, txs, 2)

	rec = do(t, s, "GET", "/api/portfolio?user=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p portfolioResponse
	decode(t, rec, &p)
	require.Len(t, p.Holdings, 1)
	assert.InDelta(t, 0.5, p.Holdings[0].Amount, 1e-12)
	// Sells leave the accumulated buy cost untouched.
	assert.InDelta(t, 50000.0, p.TotalInvested, 1e-9)
	assert.InDelta(t, 30000.0, p.CurrentValue, 1e-9)
	assert.Equal(t, 2, p.TotalTransactions)
	assert.Equal(t, "-$20,000.00", p.Display["total_pnl"])
	assert.Equal(t, "-40.00%", p.Display["total_pnl_percentage"])

	assert.Equal(t, http.StatusNoContent, do(t, s, "DELETE", "/api/transactions/"+tx.ID+"?user=u1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "DELETE", "/api/transactions/"+tx.ID+"?user=u1", "").Code)
}

func TestTransactionValidation(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, "POST", "/api/transactions", `{"user_id":"u1","symbol":"btc","kind":"HOLD","amount":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	decode(t, rec, &body)
	fields := map[string]string{}
	for _, d := range body.Details {
		fields[d.Field] = d.Code
	}
	assert.Equal(t, "ERR_ONEOF", fields["kind"])
	assert.Equal(t, "ERR_GT", fields["amount"])

	rec = do(t, s, "POST", "/api/transactions", `{"user_id":"u1","symbol":"btc","kind":"BUY","amount":1,"price_per_unit":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = errorResponse{}
	decode(t, rec, &body)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "price_per_unit", body.Details[0].Field)
	assert.Equal(t, "ERR_GT", body.Details[0].Code)

	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/coins/bitcoin/analysis?horizon=366", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/api/transactions", `{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/transactions", "").Code)
}

func TestGlobalStats(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, "GET", "/api/global", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.GlobalStats
	decode(t, rec, &stats)
	assert.Equal(t, 52.0, stats.BTCDominance)
	assert.Equal(t, 2, stats.ActiveCryptocurrencies)
	assert.Greater(t, stats.TotalMarketCap, 0.0)

	s.collector.Fetcher = &collector.MockFetcher{Err: errors.New("down")}
	rec = do(t, s, "GET", "/api/global", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestEmptyPortfolio(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, "GET", "/api/portfolio?user=nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p portfolioResponse
	decode(t, rec, &p)
	assert.Empty(t, p.Holdings)
	assert.Equal(t, 0.0, p.TotalPnLPercentage)
	assert.Equal(t, "+$0.00", p.Display["total_pnl"])
}

func TestAlertsAndCronCheck(t *testing.T) {
	s := newTestServer(t, "s3cret")

	rec := do(t, s, "POST", "/api/alerts", `{"user_id":"u1","symbol":"btc","target_price":55000,"condition":"ABOVE"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var a model.Alert
	decode(t, rec, &a)
	assert.True(t, a.Active)

	assert.Equal(t, http.StatusBadRequest,
		do(t, s, "POST", "/api/alerts", `{"user_id":"u1","symbol":"btc","target_price":1,"condition":"ABOVE","user_email":"nope"}`).Code)

	assert.Equal(t, http.StatusUnauthorized, do(t, s, "GET", "/api/cron/check-alerts", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, "GET", "/api/cron/check-alerts", "", "Authorization", "Bearer wrong").Code)

	rec = do(t, s, "GET", "/api/cron/check-alerts", "", "Authorization", "Bearer s3cret")
	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string]interface{}
	decode(t, rec, &res)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, 1.0, res["checked"])
	assert.Equal(t, 1.0, res["triggered"])

	rec = do(t, s, "GET", "/api/alerts?user=u1", "")
	var alerts []model.Alert
	decode(t, rec, &alerts)
	require.Len(t, alerts, 1)
	assert.False(t, alerts[0].Active)

	assert.Equal(t, http.StatusNoContent, do(t, s, "DELETE", "/api/alerts/"+a.ID+"?user=u1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "DELETE", "/api/alerts/"+a.ID+"?user=u2", "").Code)
}

func TestDepositAndBalance(t *testing.T) {
	s := newTestServer(t, "")

	assert.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/api/deposit", `{"amount":-1}`).Code)

	rec := do(t, s, "POST", "/api/deposit", `{"amount":250.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, "GET", "/api/balance", "")
	var w model.WalletState
	decode(t, rec, &w)
	assert.Equal(t, 250.5, w.Balance)
	assert.Equal(t, 1, w.DepositCount)
}
