package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/banking-view/internal/storage"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

func newTransactionTestService(t *testing.T) (*TransactionService, *sqlconfig.MockITransactionTable) {
	t.Helper()
	mockTable := sqlconfig.NewMockITransactionTable(t)
	store := &storage.Storage{Transactions: mockTable}
	svc := NewTransactionService(store)
	return svc, mockTable
}

func makeStorageTransactions(n int, accountID uuid.UUID, createdAt time.Time) []*sqlconfig.Transaction {
	rows := make([]*sqlconfig.Transaction, n)
	for i := range rows {
		rows[i] = &sqlconfig.Transaction{
			ID:              uuid.Must(uuid.NewV4()),
			AccountID:       accountID,
			Amount:          decimal.RequireFromString("50.00"),
			TransactionType: "deposit",
			Method:          "card",
			Status:          "completed",
			ReferenceNumber: "REF",
			Description:     "Coffee",
			CreatedAt:       createdAt.Add(-time.Duration(i) * time.Minute),
		}
	}
	return rows
}

func TestListTransactions_Success(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)
	userID := uuid.Must(uuid.NewV4())
	accountID := uuid.Must(uuid.NewV4())
	rows := makeStorageTransactions(3, accountID, time.Now())

	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.TransactionFilter) bool {
		return f.UserID == userID && f.AccountID == accountID && f.Limit == 20
	})).Return(rows, nil)

	transactions, err := svc.ListTransactions(context.Background(), userID, accountID, 20)

	require.NoError(t, err)
	require.Len(t, transactions, 3)
	assert.Equal(t, rows[0].ID, transactions[0].ID)
	assert.Equal(t, TransactionTypeDeposit, transactions[0].Type)
	assert.Equal(t, TransactionStatusCompleted, transactions[0].Status)
	assert.Equal(t, "REF", transactions[0].Reference)
}

func TestListTransactions_DefaultLimit(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.TransactionFilter) bool {
		return f.Limit == defaultLimit
	})).Return(nil, nil)

	transactions, err := svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), 0)

	assert.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestListTransactions_TruncatesToLimit(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)
	accountID := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().List(mock.Anything, mock.Anything).
		Return(makeStorageTransactions(5, accountID, time.Now()), nil)

	transactions, err := svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), accountID, 2)

	require.NoError(t, err)
	assert.Len(t, transactions, 2)
}

func TestListTransactions_StorageError(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	mockTable.EXPECT().List(mock.Anything, mock.Anything).Return(nil, errors.New("db unavailable"))

	transactions, err := svc.ListTransactions(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), 20)

	assert.Nil(t, transactions)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorContains(t, err, "db unavailable")
}

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		tag  string
		want TransactionType
		ok   bool
	}{
		{"deposit", TransactionTypeDeposit, true},
		{"credit", TransactionTypeDeposit, true},
		{"withdrawal", TransactionTypeWithdrawal, true},
		{"debit", TransactionTypeWithdrawal, true},
		{"transfer", TransactionTypeTransfer, true},
		{"refund", TransactionType("refund"), false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := ParseTransactionType(tt.tag)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTransaction_Polarity(t *testing.T) {
	assert.Equal(t, "-", Transaction{Type: TransactionTypeWithdrawal}.Polarity())
	assert.Equal(t, "+", Transaction{Type: TransactionTypeDeposit}.Polarity())
	assert.Equal(t, "+", Transaction{Type: TransactionTypeTransfer}.Polarity())
}
