package account

import (
	"time"

	"github.com/carson-networks/banking-view/internal/service"
	"github.com/carson-networks/banking-view/internal/view"
)

// Account is the API response model for an account.
type Account struct {
	ID             string `json:"id" doc:"Account UUID"`
	AccountNumber  string `json:"accountNumber" doc:"Server-assigned account number"`
	Name           string `json:"name" doc:"Display name, also used by the history account filter"`
	Type           string `json:"type" doc:"checking, savings, trading or mobile_money"`
	Balance        string `json:"balance" doc:"Decimal balance"`
	BalanceDisplay string `json:"balanceDisplay" doc:"Formatted balance, e.g. 1234,50 EUR"`
	Currency       string `json:"currency" doc:"ISO currency code"`
	Active         bool   `json:"active" doc:"Whether the account is active"`
	CreatedAt      string `json:"createdAt" doc:"RFC3339 creation time"`
}

// Total is the balance sum for one currency.
type Total struct {
	Currency string `json:"currency" doc:"ISO currency code"`
	Amount   string `json:"amount" doc:"Decimal sum of balances"`
	Display  string `json:"display" doc:"Formatted sum"`
}

// Summary is the dashboard header.
type Summary struct {
	ActiveCount int     `json:"activeCount" doc:"Number of active accounts"`
	Totals      []Total `json:"totals" doc:"Balance sums per currency"`
}

func fromService(a service.Account) Account {
	return Account{
		ID:             a.ID.String(),
		AccountNumber:  a.AccountNumber,
		Name:           a.DisplayName(),
		Type:           string(a.Type),
		Balance:        a.Balance.StringFixed(2),
		BalanceDisplay: view.FormatAmount(a.Balance, a.Currency),
		Currency:       a.Currency,
		Active:         a.Active,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

func fromSummary(s view.Summary) Summary {
	out := Summary{
		ActiveCount: s.ActiveCount,
		Totals:      make([]Total, len(s.Totals)),
	}
	for i, total := range s.Totals {
		out.Totals[i] = Total{
			Currency: total.Currency,
			Amount:   total.Total.StringFixed(2),
			Display:  view.FormatAmount(total.Total, total.Currency),
		}
	}
	return out
}
