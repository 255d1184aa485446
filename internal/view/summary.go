package view

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/banking-view/internal/service"
)

type CurrencyTotal struct {
	Currency string
	Total    decimal.Decimal
}

// Summary is the dashboard header over the loaded accounts.
type Summary struct {
	ActiveCount int
	Totals      []CurrencyTotal
}

// Summarize counts active accounts and sums balances per currency. Totals
// are sorted by currency code; balances in different currencies are never
// added together.
func Summarize(accounts []service.Account) Summary {
	var summary Summary
	totals := make(map[string]decimal.Decimal)

	for _, account := range accounts {
		if account.Active {
			summary.ActiveCount++
		}
		totals[account.Currency] = totals[account.Currency].Add(account.Balance)
	}

	for currency, total := range totals {
		summary.Totals = append(summary.Totals, CurrencyTotal{Currency: currency, Total: total})
	}
	sort.Slice(summary.Totals, func(i, j int) bool {
		return summary.Totals[i].Currency < summary.Totals[j].Currency
	})
	return summary
}
