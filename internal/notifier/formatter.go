package notifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"CryptoFollow/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders v as US dollars with thousands grouping: $1,234.56, -$500.00.
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + groupedAmount(-v)
	}
	return "$" + groupedAmount(v)
}

// FormatPnL renders a signed profit or loss: +$1,234.56, -$500.00. Zero counts as positive.
func FormatPnL(v float64) model.Formatted {
	positive := v >= 0
	return model.Formatted{
		Text:       sign(positive) + "$" + groupedAmount(math.Abs(v)),
		IsPositive: positive,
	}
}

// FormatPercentage renders a signed percentage with two decimals: +25.50%, -10.25%.
func FormatPercentage(v float64) model.Formatted {
	positive := v >= 0
	return model.Formatted{
		Text:       fmt.Sprintf("%s%.2f%%", sign(positive), math.Abs(v)),
		IsPositive: positive,
	}
}

func groupedAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func sign(positive bool) string {
	if positive {
		return "+"
	}
	return "-"
}

// FormatAnalysisReport formats a coin analysis into a Telegram message.
func FormatAnalysisReport(a *model.CoinAnalysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", strings.ToUpper(a.CoinID), time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Last price: %s\n", FormatCurrency(a.LastPrice)))
	b.WriteString(fmt.Sprintf("Range: %s – %s (position %.0f%%)\n", FormatCurrency(a.PeriodLow), FormatCurrency(a.PeriodHigh), a.RangePosition*100))
	b.WriteString(fmt.Sprintf("RSI(14): %.0f\n\n", a.RSI))

	p := a.Prediction
	b.WriteString(fmt.Sprintf("📈 <b>Trend:</b> %s (confidence %s, R² %.2f)\n", p.Trend, a.Confidence, p.RSquared))
	for _, pt := range p.Predictions {
		b.WriteString(fmt.Sprintf("  %s  %s\n", pt.Date, FormatCurrency(pt.Price)))
	}

	switch {
	case a.Crossover.GoldenCross:
		b.WriteString(fmt.Sprintf("\n🟢 Golden cross at point %d\n", *a.Crossover.LastCrossoverIndex))
	case a.Crossover.DeathCross:
		b.WriteString(fmt.Sprintf("\n🔴 Death cross at point %d\n", *a.Crossover.LastCrossoverIndex))
	}

	if o := a.Outlook; o != nil {
		b.WriteString(fmt.Sprintf("\n🧭 <b>Outlook:</b> %s (score %+.2f)\n", o.Label, o.TotalScore))
		for _, f := range o.Factors {
			b.WriteString(fmt.Sprintf("  %s: %+.1f (%s)\n", f.Name, f.RawScore, f.Commentary))
		}
		if o.Warning != "" {
			b.WriteString("⚠️ " + o.Warning + "\n")
		}
	}
	return b.String()
}

// FormatPortfolioReport formats a portfolio summary and cash balance for display.
func FormatPortfolioReport(s *model.PortfolioSummary, cash float64) string {
	var b strings.Builder
	b.WriteString("💼 <b>Portfolio</b>\n\n")
	if len(s.Holdings) == 0 {
		b.WriteString("No open positions.\n")
	}
	for _, h := range s.Holdings {
		b.WriteString(fmt.Sprintf("%s  %.4f @ %s = %s (%s, %s)\n",
			h.Symbol, h.Amount, FormatCurrency(h.CurrentPrice), FormatCurrency(h.CurrentValue),
			FormatPnL(h.PnL).Text, FormatPercentage(h.PnLPercentage).Text))
	}
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("Invested: %s\n", FormatCurrency(s.TotalInvested)))
	b.WriteString(fmt.Sprintf("Value: %s\n", FormatCurrency(s.CurrentValue)))
	b.WriteString(fmt.Sprintf("P&L: %s (%s)\n", FormatPnL(s.TotalPnL).Text, FormatPercentage(s.TotalPnLPercentage).Text))
	b.WriteString(fmt.Sprintf("Cash: %s\n", FormatCurrency(cash)))
	b.WriteString(fmt.Sprintf("Transactions: %d\n", s.TotalTransactions))
	return b.String()
}

// FormatAlertMessage formats a triggered alert.
func FormatAlertMessage(n model.AlertNotification) string {
	return fmt.Sprintf("🚨 <b>%s alert triggered</b>\n\nCondition: price %s %s\nCurrent price: %s",
		n.Symbol, conditionText(n.Condition), FormatCurrency(n.TargetPrice), FormatCurrency(n.CurrentPrice))
}

// FormatAlertList formats a user's alerts.
func FormatAlertList(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return "No alerts."
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Alerts</b>\n\n")
	for _, a := range alerts {
		state := "active"
		if !a.Active {
			state = "triggered"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%s)\n", a.Symbol, conditionText(a.Condition), FormatCurrency(a.TargetPrice), state))
	}
	return b.String()
}

func conditionText(c model.Condition) string {
	if c == model.ConditionAbove {
		return "above"
	}
	return "below"
}
