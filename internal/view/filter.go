package view

import (
	"strings"

	"github.com/carson-networks/banking-view/internal/service"
)

// All matches every value of a criteria field.
const All = "all"

// HistoryItem is a transaction joined with the display name of its
// owning account.
type HistoryItem struct {
	service.Transaction
	AccountName string
}

// Criteria narrows the transaction history. An empty Account or Type
// behaves like All.
type Criteria struct {
	Search  string
	Account string
	Type    string
}

// HistoryItems joins the loaded transactions with the loaded accounts.
// A transaction whose account is not loaded gets an empty account name.
func HistoryItems(s State) []HistoryItem {
	if len(s.Transactions) == 0 {
		return nil
	}

	names := make(map[string]string, len(s.Accounts))
	for _, account := range s.Accounts {
		names[account.ID.String()] = account.DisplayName()
	}

	items := make([]HistoryItem, len(s.Transactions))
	for i, tx := range s.Transactions {
		items[i] = HistoryItem{Transaction: tx, AccountName: names[tx.AccountID.String()]}
	}
	return items
}

// Filter returns the items matching all three criteria, in their original
// order. It never fails; a missing field simply does not match.
func Filter(items []HistoryItem, c Criteria) []HistoryItem {
	search := strings.ToLower(c.Search)
	wantType, _ := service.ParseTransactionType(c.Type)

	var out []HistoryItem
	for _, item := range items {
		if !matchesSearch(item, search) {
			continue
		}
		if !isAll(c.Account) && item.AccountName != c.Account {
			continue
		}
		if !isAll(c.Type) {
			gotType, _ := service.ParseTransactionType(string(item.Type))
			if item.Type == "" || gotType != wantType {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func isAll(v string) bool {
	return v == "" || v == All
}

func matchesSearch(item HistoryItem, search string) bool {
	if search == "" {
		return true
	}
	return containsFold(item.Description, search) || containsFold(item.Reference, search)
}

func containsFold(field, lowered string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), lowered)
}
