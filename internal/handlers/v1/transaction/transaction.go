package transaction

import (
	"time"

	"github.com/carson-networks/banking-view/internal/view"
)

// Transaction is the API response model for a transaction.
type Transaction struct {
	ID            string `json:"id" doc:"Transaction UUID"`
	AccountID     string `json:"accountID" doc:"Owning account UUID"`
	AccountName   string `json:"accountName" doc:"Owning account display name"`
	Amount        string `json:"amount" doc:"Decimal amount"`
	DisplayAmount string `json:"displayAmount" doc:"Amount with display polarity, e.g. -120,50 EUR"`
	Type          string `json:"type" doc:"deposit, withdrawal or transfer"`
	Method        string `json:"method,omitempty" doc:"Payment method"`
	Status        string `json:"status,omitempty" doc:"completed, pending or failed"`
	Reference     string `json:"reference,omitempty" doc:"Reference number"`
	Description   string `json:"description,omitempty" doc:"Free-text description"`
	CreatedAt     string `json:"createdAt" doc:"RFC3339 creation time"`
}

// FromHistoryItem converts a view history row for the response.
func FromHistoryItem(item view.HistoryItem, currency string) Transaction {
	return Transaction{
		ID:            item.ID.String(),
		AccountID:     item.AccountID.String(),
		AccountName:   item.AccountName,
		Amount:        item.Amount.StringFixed(2),
		DisplayAmount: view.SignedAmount(item.Transaction, currency),
		Type:          string(item.Type),
		Method:        item.Method,
		Status:        string(item.Status),
		Reference:     item.Reference,
		Description:   item.Description,
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
	}
}

// FromState converts items using the currency of each owning account.
func FromState(items []view.HistoryItem, st view.State) []Transaction {
	out := make([]Transaction, len(items))
	for i, item := range items {
		var currency string
		if account, ok := st.Account(item.AccountID); ok {
			currency = account.Currency
		}
		out[i] = FromHistoryItem(item, currency)
	}
	return out
}
