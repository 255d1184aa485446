package sqlconfig

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const accountsTableName = "user_accounts"

var accountColumns = []any{
	"id", "user_id", "account_number", "account_type", "balance", "currency", "is_active", "created_at",
}

// Account represents a user_accounts record.
type Account struct {
	ID            uuid.UUID       `db:"id"`
	UserID        uuid.UUID       `db:"user_id"`
	AccountNumber string          `db:"account_number"`
	Type          AccountType     `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	Currency      string          `db:"currency"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
}

// AccountCreate is the input for creating a new account. The account number
// and creation time are assigned by the database.
type AccountCreate struct {
	UserID   uuid.UUID
	Type     AccountType
	Balance  decimal.Decimal
	Currency string
	IsActive bool
}

// AccountFilter specifies filters for listing accounts. UserID is required.
type AccountFilter struct {
	UserID uuid.UUID
	Limit  int
}

// IAccountTable defines the interface for account storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name IAccountTable --output mock_IAccountTable.go
type IAccountTable interface {
	Insert(ctx context.Context, create *AccountCreate) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) ([]*Account, error)
}
