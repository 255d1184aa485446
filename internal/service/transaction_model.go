package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

// TransactionType is the canonical type tag of a transaction.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// Legacy history tags. They are accepted as input only and never stored.
const (
	legacyTypeCredit = "credit"
	legacyTypeDebit  = "debit"
)

// ParseTransactionType maps a type tag onto the canonical set:
// credit is a deposit and debit is a withdrawal. Canonical tags map to
// themselves. Any other tag is returned unchanged with ok=false, so it
// only ever matches an identical tag.
func ParseTransactionType(tag string) (TransactionType, bool) {
	switch tag {
	case string(TransactionTypeDeposit), legacyTypeCredit:
		return TransactionTypeDeposit, true
	case string(TransactionTypeWithdrawal), legacyTypeDebit:
		return TransactionTypeWithdrawal, true
	case string(TransactionTypeTransfer):
		return TransactionTypeTransfer, true
	default:
		return TransactionType(tag), false
	}
}

// TransactionStatus is the processing state recorded by the back office.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Type        TransactionType
	Method      string
	Status      TransactionStatus
	Reference   string
	Description string
	CreatedAt   time.Time
}

// Polarity is the sign shown next to the amount. Only withdrawals are
// shown as outgoing; the stored balance is not affected either way.
func (t Transaction) Polarity() string {
	if t.Type == TransactionTypeWithdrawal {
		return "-"
	}
	return "+"
}

func transactionFromStorage(row *sqlconfig.Transaction) Transaction {
	return Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Amount:      row.Amount,
		Type:        TransactionType(row.TransactionType),
		Method:      row.Method,
		Status:      TransactionStatus(row.Status),
		Reference:   row.ReferenceNumber,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}
