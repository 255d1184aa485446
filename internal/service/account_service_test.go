package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/banking-view/internal/storage"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

func newAccountTestService(t *testing.T) (*AccountService, *sqlconfig.MockIAccountTable) {
	t.Helper()
	mockTable := sqlconfig.NewMockIAccountTable(t)
	store := &storage.Storage{Accounts: mockTable}
	svc := NewAccountService(store)
	return svc, mockTable
}

func makeStorageAccounts(n int, userID uuid.UUID, createdAt time.Time) []*sqlconfig.Account {
	rows := make([]*sqlconfig.Account, n)
	for i := range rows {
		rows[i] = &sqlconfig.Account{
			ID:            uuid.Must(uuid.NewV4()),
			UserID:        userID,
			AccountNumber: fmt.Sprintf("FR76%010d", i+1),
			Type:          sqlconfig.AccountTypeChecking,
			Balance:       decimal.RequireFromString("100.00"),
			Currency:      "EUR",
			IsActive:      true,
			CreatedAt:     createdAt,
		}
	}
	return rows
}

// -- CreateAccount tests --

func TestCreateAccount_Success(t *testing.T) {
	svc, mockTable := newAccountTestService(t)
	userID := uuid.Must(uuid.NewV4())

	mockTable.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.AccountCreate) bool {
		return c.UserID == userID &&
			c.Type == sqlconfig.AccountTypeSavings &&
			c.Balance.IsZero() &&
			c.Currency == "EUR" &&
			c.IsActive
	})).Return(&sqlconfig.Account{
		ID:            uuid.Must(uuid.NewV4()),
		UserID:        userID,
		AccountNumber: "FR760000000007",
		Type:          sqlconfig.AccountTypeSavings,
		Balance:       decimal.Zero,
		Currency:      "EUR",
		IsActive:      true,
	}, nil)

	account, err := svc.CreateAccount(context.Background(), userID, AccountTypeSavings, "")

	require.NoError(t, err)
	assert.Equal(t, AccountTypeSavings, account.Type)
	assert.Equal(t, "FR760000000007", account.AccountNumber)
	assert.True(t, account.Active)
	assert.Equal(t, "Savings FR760000000007", account.DisplayName())
}

func TestCreateAccount_NormalizesCurrency(t *testing.T) {
	svc, mockTable := newAccountTestService(t)

	mockTable.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.AccountCreate) bool {
		return c.Currency == "XOF" && c.Type == sqlconfig.AccountTypeMobileMoney
	})).Return(&sqlconfig.Account{Type: sqlconfig.AccountTypeMobileMoney, Currency: "XOF"}, nil)

	account, err := svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), AccountTypeMobileMoney, " xof ")

	require.NoError(t, err)
	assert.Equal(t, "XOF", account.Currency)
}

func TestCreateAccount_EmptyTypeNeverReachesStore(t *testing.T) {
	svc, _ := newAccountTestService(t)

	account, err := svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), "", "EUR")

	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrValidation)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "accountType", validationErr.Field)
}

func TestCreateAccount_UnknownType(t *testing.T) {
	svc, _ := newAccountTestService(t)

	_, err := svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), "crypto", "EUR")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateAccount_InvalidCurrency(t *testing.T) {
	svc, _ := newAccountTestService(t)

	_, err := svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), AccountTypeChecking, "EURO")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "currency", validationErr.Field)
}

func TestCreateAccount_StorageError(t *testing.T) {
	svc, mockTable := newAccountTestService(t)

	mockTable.EXPECT().Insert(mock.Anything, mock.Anything).
		Return(nil, errors.New("insert failed"))

	account, err := svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), AccountTypeChecking, "EUR")

	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorContains(t, err, "insert failed")
}

func TestCreateAccount_ConstraintViolation(t *testing.T) {
	svc, mockTable := newAccountTestService(t)

	mockTable.EXPECT().Insert(mock.Anything, mock.Anything).
		Return(nil, &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), AccountTypeTrading, "EUR")

	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
}

// -- ListAccounts tests --

func TestListAccounts_Success(t *testing.T) {
	svc, mockTable := newAccountTestService(t)
	userID := uuid.Must(uuid.NewV4())
	now := time.Now().UTC().Truncate(time.Second)
	rows := makeStorageAccounts(2, userID, now)

	mockTable.EXPECT().List(mock.Anything, mock.MatchedBy(func(f *sqlconfig.AccountFilter) bool {
		return f.UserID == userID
	})).Return(rows, nil)

	accounts, err := svc.ListAccounts(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, rows[0].ID, accounts[0].ID)
	assert.Equal(t, AccountTypeChecking, accounts[0].Type)
	assert.True(t, accounts[1].Balance.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, now, accounts[1].CreatedAt)
}

func TestListAccounts_Empty(t *testing.T) {
	svc, mockTable := newAccountTestService(t)

	mockTable.EXPECT().List(mock.Anything, mock.Anything).Return(nil, nil)

	accounts, err := svc.ListAccounts(context.Background(), uuid.Must(uuid.NewV4()))

	assert.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestListAccounts_StorageError(t *testing.T) {
	svc, mockTable := newAccountTestService(t)

	mockTable.EXPECT().List(mock.Anything, mock.Anything).Return(nil, errors.New("db unavailable"))

	accounts, err := svc.ListAccounts(context.Background(), uuid.Must(uuid.NewV4()))

	assert.Nil(t, accounts)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

// -- Model tests --

func TestAccountType_Label(t *testing.T) {
	assert.Equal(t, "Checking", AccountTypeChecking.Label())
	assert.Equal(t, "Mobile Money", AccountTypeMobileMoney.Label())
	assert.Equal(t, "legacy", AccountType("legacy").Label())
}

func TestAccount_DisplayNameWithoutNumber(t *testing.T) {
	assert.Equal(t, "Trading", Account{Type: AccountTypeTrading}.DisplayName())
}
