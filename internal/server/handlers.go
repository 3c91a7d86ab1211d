package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CryptoFollow/internal/calculator"
	"CryptoFollow/internal/fund"
	"CryptoFollow/internal/model"
	"CryptoFollow/internal/notifier"
	"CryptoFollow/internal/portfolio"
	"CryptoFollow/internal/store"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps package sentinel errors onto status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculator.ErrInvalidInput), errors.Is(err, fund.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, calculator.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// userParam returns the required ?user= query value.
func userParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "user query parameter is required")
		return "", false
	}
	return user, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	coinID := strings.ToLower(chi.URLParam(r, "id"))
	horizon := calculator.DefaultHorizon
	if v := r.URL.Query().Get("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > calculator.MaxHorizon {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("horizon must be an integer between 1 and %d", calculator.MaxHorizon))
			return
		}
		horizon = n
	}

	start := time.Now()
	a, err := s.collector.Analyze(r.Context(), coinID, horizon)
	if err != nil {
		if errors.Is(err, calculator.ErrInsufficientData) || errors.Is(err, calculator.ErrInvalidInput) {
			s.writeDomainError(w, err)
			return
		}
		s.log.Error().Err(err).Str("coin", coinID).Msg("analysis failed")
		writeError(w, http.StatusBadGateway, "market data unavailable")
		return
	}
	s.metrics.ObserveAnalysis(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	markets, err := s.collector.Markets(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("market fetch failed")
		writeError(w, http.StatusBadGateway, "market data unavailable")
		return
	}
	writeJSON(w, http.StatusOK, markets)
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	stats, err := s.collector.GlobalStats(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("global stats fetch failed")
		writeError(w, http.StatusBadGateway, "market data unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type portfolioResponse struct {
	model.PortfolioSummary
	Cash    float64           `json:"cash"`
	Display map[string]string `json:"display"`
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	user, ok := userParam(w, r)
	if !ok {
		return
	}
	txs, err := s.store.ListTransactions(r.Context(), user)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	prices := map[string]float64{}
	if len(txs) > 0 {
		if prices, err = s.collector.CurrentPrices(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("price fetch failed, valuing holdings at zero")
			prices = map[string]float64{}
		}
	}

	summary := portfolio.CalculatePortfolioSummary(txs, prices)
	writeJSON(w, http.StatusOK, portfolioResponse{
		PortfolioSummary: summary,
		Cash:             s.fund.Balance(),
		Display: map[string]string{
			"total_invested":       notifier.FormatCurrency(summary.TotalInvested),
			"current_value":        notifier.FormatCurrency(summary.CurrentValue),
			"total_pnl":            notifier.FormatPnL(summary.TotalPnL).Text,
			"total_pnl_percentage": notifier.FormatPercentage(summary.TotalPnLPercentage).Text,
		},
	})
}

type createTransactionRequest struct {
	UserID       string     `json:"user_id" validate:"required,max=64"`
	Symbol       string     `json:"symbol" validate:"required,max=20"`
	Kind         string     `json:"kind" validate:"required,oneof=BUY SELL"`
	Amount       float64    `json:"amount" validate:"gt=0"`
	PricePerUnit float64    `json:"price_per_unit" validate:"gt=0"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if errs := decodeAndValidate(r, &req); errs != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: errs})
		return
	}
	tx := &model.Transaction{
		UserID:       req.UserID,
		Symbol:       req.Symbol,
		Kind:         model.TxKind(req.Kind),
		Amount:       req.Amount,
		PricePerUnit: req.PricePerUnit,
	}
	if req.Timestamp != nil {
		tx.Timestamp = req.Timestamp.UTC()
	}
	if err := s.store.AddTransaction(r.Context(), tx); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := userParam(w, r)
	if !ok {
		return
	}
	txs, err := s.store.ListTransactions(r.Context(), user)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := userParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createAlertRequest struct {
	UserID      string  `json:"user_id" validate:"required,max=64"`
	Symbol      string  `json:"symbol" validate:"required,max=20"`
	TargetPrice float64 `json:"target_price" validate:"gt=0"`
	Condition   string  `json:"condition" validate:"required,oneof=ABOVE BELOW"`
	UserEmail   string  `json:"user_email,omitempty" validate:"omitempty,email"`
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if errs := decodeAndValidate(r, &req); errs != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: errs})
		return
	}
	a := &model.Alert{
		UserID:      req.UserID,
		Symbol:      req.Symbol,
		TargetPrice: req.TargetPrice,
		Condition:   model.Condition(req.Condition),
		UserEmail:   req.UserEmail,
		Active:      true,
	}
	if err := s.store.AddAlert(r.Context(), a); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	user, ok := userParam(w, r)
	if !ok {
		return
	}
	alerts, err := s.store.ListAlerts(r.Context(), user)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	user, ok := userParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteAlert(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type depositRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if errs := decodeAndValidate(r, &req); errs != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Details: errs})
		return
	}
	if _, err := s.fund.Deposit(req.Amount); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.fund.GetState())
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.fund.GetState())
}

func (s *Server) handleCheckAlerts(w http.ResponseWriter, r *http.Request) {
	res, err := s.checker.Check(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("cron alert check failed")
		writeError(w, http.StatusInternalServerError, "alert check failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"checked":   res.Checked,
		"triggered": res.Triggered,
	})
}
