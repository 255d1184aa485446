package sqlconfig

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const transactionsTableName = "financial_transactions"

var transactionColumns = []any{
	"id", "account_id", "amount", "transaction_type", "method", "status",
	"reference_number", "description", "created_at",
}

// Transaction represents a financial_transactions record.
type Transaction struct {
	ID              uuid.UUID       `db:"id"`
	AccountID       uuid.UUID       `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType string          `db:"transaction_type"`
	Method          string          `db:"method"`
	Status          string          `db:"status"`
	ReferenceNumber string          `db:"reference_number"`
	Description     string          `db:"description"`
	CreatedAt       time.Time       `db:"created_at"`
}

// TransactionFilter specifies filters for listing transactions. Both UserID
// and AccountID are required; rows are only returned when the account is
// owned by the user.
type TransactionFilter struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Limit     int
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}
