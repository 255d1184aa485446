package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/storage"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

const defaultLimit = 20

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage *storage.Storage
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage) *TransactionService {
	return &TransactionService{storage: store}
}

// ListTransactions returns up to limit of the account's most recent
// transactions, newest first. The user id scopes the query so another
// user's account yields nothing.
func (s *TransactionService) ListTransactions(ctx context.Context, userID, accountID uuid.UUID, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{
		UserID:    userID,
		AccountID: accountID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w: %w", ErrStoreUnavailable, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}

	transactions := make([]Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = transactionFromStorage(row)
	}
	return transactions, nil
}
