// Package portfolio folds a transaction ledger into per-symbol holdings and a
// portfolio-level profit and loss summary.
//
// Cost basis is an average-cost approximation: sells reduce the held amount but
// never the accumulated buy cost.
package portfolio

import (
	"sort"

	"CryptoFollow/internal/model"
)

// position accumulates one symbol's ledger entries.
type position struct {
	amount    float64 // signed net units
	totalCost float64 // cumulative buy spend
	buyCount  int
}

func (p *position) apply(tx model.Transaction) {
	switch tx.Kind {
	case model.TxBuy:
		p.amount += tx.Amount
		p.totalCost += tx.Amount * tx.PricePerUnit
		p.buyCount++
	default:
		p.amount -= tx.Amount
	}
}

// CalculateHoldings returns the open positions in transactions, valued at currentPrices
// and sorted by current value, largest first. Symbols missing from currentPrices are
// valued at zero. Symbols whose net amount is zero or negative are left out.
func CalculateHoldings(transactions []model.Transaction, currentPrices map[string]float64) []model.Holding {
	positions := make(map[string]*position)
	for _, tx := range transactions {
		p, ok := positions[tx.Symbol]
		if !ok {
			p = &position{}
			positions[tx.Symbol] = p
		}
		p.apply(tx)
	}

	holdings := make([]model.Holding, 0, len(positions))
	for symbol, p := range positions {
		if p.amount <= 0 {
			continue
		}

		currentPrice := currentPrices[symbol]
		averageBuyPrice := 0.0
		if p.buyCount > 0 {
			averageBuyPrice = p.totalCost / p.amount
		}
		currentValue := p.amount * currentPrice
		costBasis := p.amount * averageBuyPrice
		pnl := currentValue - costBasis
		pnlPct := 0.0
		if costBasis > 0 {
			pnlPct = pnl / costBasis * 100
		}

		holdings = append(holdings, model.Holding{
			Symbol:          symbol,
			Amount:          p.amount,
			AverageBuyPrice: averageBuyPrice,
			TotalInvested:   costBasis,
			CurrentPrice:    currentPrice,
			CurrentValue:    currentValue,
			PnL:             pnl,
			PnLPercentage:   pnlPct,
		})
	}

	// Map iteration order is random; the symbol tie-break keeps equal values stable.
	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].CurrentValue != holdings[j].CurrentValue {
			return holdings[i].CurrentValue > holdings[j].CurrentValue
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})
	return holdings
}

// CalculatePortfolioSummary totals the holdings derived from transactions.
// TotalTransactions counts every input entry, including those of closed positions.
func CalculatePortfolioSummary(transactions []model.Transaction, currentPrices map[string]float64) model.PortfolioSummary {
	holdings := CalculateHoldings(transactions, currentPrices)

	var totalInvested, currentValue float64
	for _, h := range holdings {
		totalInvested += h.TotalInvested
		currentValue += h.CurrentValue
	}
	totalPnL := currentValue - totalInvested
	totalPnLPct := 0.0
	if totalInvested > 0 {
		totalPnLPct = totalPnL / totalInvested * 100
	}

	return model.PortfolioSummary{
		TotalInvested:      totalInvested,
		CurrentValue:       currentValue,
		TotalPnL:           totalPnL,
		TotalPnLPercentage: totalPnLPct,
		Holdings:           holdings,
		TotalTransactions:  len(transactions),
	}
}
