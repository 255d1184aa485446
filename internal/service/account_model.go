package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

// AccountType is one of the fixed account kinds offered by the creation form.
type AccountType string

const (
	AccountTypeChecking    AccountType = "checking"
	AccountTypeSavings     AccountType = "savings"
	AccountTypeTrading     AccountType = "trading"
	AccountTypeMobileMoney AccountType = "mobile_money"
)

// AccountTypes lists the values the creation form offers, in display order.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeTrading,
	AccountTypeMobileMoney,
}

// Valid reports whether t is one of AccountTypes.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the human-readable name of t. Unknown types are shown as stored.
func (t AccountType) Label() string {
	switch t {
	case AccountTypeChecking:
		return "Checking"
	case AccountTypeSavings:
		return "Savings"
	case AccountTypeTrading:
		return "Trading"
	case AccountTypeMobileMoney:
		return "Mobile Money"
	default:
		return string(t)
	}
}

const defaultCurrency = "EUR"

// Account represents an account in the service layer.
type Account struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountNumber string
	Type          AccountType
	Balance       decimal.Decimal
	Currency      string
	Active        bool
	CreatedAt     time.Time
}

// DisplayName is how the account is named in lists and in the history
// account filter, e.g. "Checking FR760000000001".
func (a Account) DisplayName() string {
	if a.AccountNumber == "" {
		return a.Type.Label()
	}
	return a.Type.Label() + " " + a.AccountNumber
}

func accountFromStorage(row *sqlconfig.Account) Account {
	return Account{
		ID:            row.ID,
		UserID:        row.UserID,
		AccountNumber: row.AccountNumber,
		Type:          AccountType(row.Type),
		Balance:       row.Balance,
		Currency:      row.Currency,
		Active:        row.IsActive,
		CreatedAt:     row.CreatedAt,
	}
}
