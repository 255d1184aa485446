package view

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/banking-view/internal/service"
)

var testTime = time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

func makeAccounts(n int) []service.Account {
	accounts := make([]service.Account, n)
	for i := range accounts {
		accounts[i] = service.Account{
			ID:            uuid.Must(uuid.NewV4()),
			AccountNumber: fmt.Sprintf("FR76%010d", i+1),
			Type:          service.AccountTypeChecking,
			Balance:       decimal.RequireFromString("100.00"),
			Currency:      "EUR",
			Active:        true,
		}
	}
	return accounts
}

func loadedState(t *testing.T, accounts []service.Account) State {
	t.Helper()
	s, _ := Reduce(NewState(uuid.Must(uuid.NewV4()), 20), Mounted{})
	s, _ = Reduce(s, AccountsFetchSucceeded{Accounts: accounts})
	require.True(t, s.AccountsLoaded)
	return s
}

func TestReduce_MountedFetchesAccountsOnce(t *testing.T) {
	s, effects := Reduce(NewState(uuid.Must(uuid.NewV4()), 20), Mounted{})
	assert.Equal(t, []Effect{FetchAccounts{}}, effects)
	assert.True(t, s.AccountsLoading)

	_, effects = Reduce(s, Mounted{})
	assert.Empty(t, effects, "duplicate fetch while one is in flight is dropped")
}

func TestReduce_PickBeforeLoadIsIgnored(t *testing.T) {
	accounts := makeAccounts(2)
	s, _ := Reduce(NewState(uuid.Must(uuid.NewV4()), 20), Mounted{})

	s, effects := Reduce(s, AccountSelected{AccountID: accounts[1].ID, Token: 1})
	assert.Empty(t, effects)
	assert.False(t, s.Selection.IsSelected())
	assert.Equal(t, uint64(1), s.RejectedPick)

	s, effects = Reduce(s, AccountsFetchSucceeded{Accounts: accounts})
	id, ok := s.Selection.AccountID()
	require.True(t, ok)
	assert.Equal(t, accounts[0].ID, id)
	assert.Equal(t, []Effect{FetchTransactions{Generation: 1, AccountID: accounts[0].ID, Limit: 20}}, effects)
	assert.True(t, s.TransactionsLoading)
}

func TestReduce_EmptyAccountListStaysUnselected(t *testing.T) {
	s, effects := Reduce(NewState(uuid.Must(uuid.NewV4()), 20), AccountsFetchSucceeded{})
	assert.Empty(t, effects)
	assert.True(t, s.AccountsLoaded)
	assert.Equal(t, Unselected(), s.Selection)
}

func TestReduce_ManualPickSurvivesRefresh(t *testing.T) {
	accounts := makeAccounts(2)
	s := loadedState(t, accounts)

	s, effects := Reduce(s, AccountSelected{AccountID: accounts[1].ID, Token: 7})
	require.Len(t, effects, 1)
	assert.Equal(t, uint64(7), s.SelectToken)

	s, _ = Reduce(s, Mounted{})
	s, effects = Reduce(s, AccountsFetchSucceeded{Accounts: accounts})
	assert.Empty(t, effects)
	assert.Equal(t, Selected(accounts[1].ID), s.Selection)
}

func TestReduce_PickUnknownAccountIsIgnored(t *testing.T) {
	s := loadedState(t, makeAccounts(1))
	before := s

	s, effects := Reduce(s, AccountSelected{AccountID: uuid.Must(uuid.NewV4()), Token: 3})
	assert.Empty(t, effects)
	assert.Equal(t, uint64(3), s.RejectedPick)

	s.RejectedPick = before.RejectedPick
	assert.Equal(t, before, s, "nothing else changes")
}

func TestReduce_ReselectRefetches(t *testing.T) {
	accounts := makeAccounts(1)
	s := loadedState(t, accounts)
	txs := []service.Transaction{{ID: uuid.Must(uuid.NewV4()), AccountID: accounts[0].ID}}
	s, _ = Reduce(s, TransactionsFetchSucceeded{Generation: s.Generation, AccountID: accounts[0].ID, Transactions: txs})

	s, effects := Reduce(s, AccountSelected{AccountID: accounts[0].ID, Token: 1})
	assert.Equal(t, []Effect{FetchTransactions{Generation: 2, AccountID: accounts[0].ID, Limit: 20}}, effects)
	assert.Equal(t, txs, s.Transactions, "same account keeps its rows while refetching")
}

func TestReduce_SwitchAccountClearsRows(t *testing.T) {
	accounts := makeAccounts(2)
	s := loadedState(t, accounts)
	s, _ = Reduce(s, TransactionsFetchSucceeded{
		Generation:   s.Generation,
		AccountID:    accounts[0].ID,
		Transactions: []service.Transaction{{ID: uuid.Must(uuid.NewV4()), AccountID: accounts[0].ID}},
	})

	s, _ = Reduce(s, AccountSelected{AccountID: accounts[1].ID, Token: 1})
	assert.Empty(t, s.Transactions)
}

func TestReduce_StaleTransactionsDiscarded(t *testing.T) {
	accounts := makeAccounts(2)
	s := loadedState(t, accounts)
	first := s.Generation

	s, _ = Reduce(s, AccountSelected{AccountID: accounts[1].ID, Token: 1})
	second := s.Generation
	require.NotEqual(t, first, second)

	stale := []service.Transaction{{ID: uuid.Must(uuid.NewV4()), AccountID: accounts[0].ID}}
	before := s
	s, _ = Reduce(s, TransactionsFetchSucceeded{Generation: first, AccountID: accounts[0].ID, Transactions: stale})
	assert.Equal(t, before, s)

	s, _ = Reduce(s, TransactionsFetchFailed{Generation: first, AccountID: accounts[0].ID, Err: errors.New("late"), At: testTime})
	assert.Equal(t, before, s, "a stale failure posts nothing")

	fresh := []service.Transaction{{ID: uuid.Must(uuid.NewV4()), AccountID: accounts[1].ID}}
	s, _ = Reduce(s, TransactionsFetchSucceeded{Generation: second, AccountID: accounts[1].ID, Transactions: fresh})
	assert.Equal(t, fresh, s.Transactions)
	assert.False(t, s.TransactionsLoading)
}

func TestReduce_TransactionsFailureClearsList(t *testing.T) {
	accounts := makeAccounts(2)
	s := loadedState(t, accounts)
	s, _ = Reduce(s, TransactionsFetchSucceeded{
		Generation:   s.Generation,
		AccountID:    accounts[0].ID,
		Transactions: []service.Transaction{{ID: uuid.Must(uuid.NewV4())}},
	})
	s, _ = Reduce(s, AccountSelected{AccountID: accounts[0].ID, Token: 1})

	storeErr := errors.New("store unavailable")
	s, effects := Reduce(s, TransactionsFetchFailed{Generation: s.Generation, AccountID: accounts[0].ID, Err: storeErr, At: testTime})

	assert.Empty(t, effects)
	assert.Empty(t, s.Transactions)
	assert.False(t, s.TransactionsLoading)
	assert.Equal(t, storeErr, s.TransactionsErr)
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, LevelError, s.Notifications[0].Level)
	assert.Equal(t, testTime, s.Notifications[0].At)
	assert.Equal(t, Selected(accounts[0].ID), s.Selection)
}

func TestReduce_AccountsFailureNotifies(t *testing.T) {
	s, _ := Reduce(NewState(uuid.Must(uuid.NewV4()), 20), Mounted{})
	s, effects := Reduce(s, AccountsFetchFailed{Err: errors.New("down"), At: testTime})

	assert.Empty(t, effects)
	assert.False(t, s.AccountsLoaded)
	assert.False(t, s.AccountsLoading)
	assert.Empty(t, s.Accounts)
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, "Could not load accounts", s.Notifications[0].Message)
}

func TestReduce_EmptyRefreshClearsSelection(t *testing.T) {
	accounts := makeAccounts(1)
	s := loadedState(t, accounts)
	require.True(t, s.Selection.IsSelected())

	s, _ = Reduce(s, Mounted{})
	s, effects := Reduce(s, AccountsFetchSucceeded{})

	assert.Equal(t, []Effect{CancelTransactions{}}, effects)
	assert.False(t, s.Selection.IsSelected())
	assert.False(t, s.TransactionsLoading)
}

func TestReduce_CreateWithEmptyTypeNeverSubmits(t *testing.T) {
	s := loadedState(t, makeAccounts(1))

	s, effects := Reduce(s, CreateAccountSubmitted{Token: 1, AccountType: "", Currency: "EUR", At: testTime})

	assert.Empty(t, effects)
	assert.False(t, s.Form.Submitting)
	assert.ErrorIs(t, s.Form.LastError, service.ErrValidation)
	assert.Equal(t, "EUR", s.Form.Currency, "entered values are kept")
	require.Len(t, s.Notifications, 1)
}

func TestReduce_CreateSubmitsNormalizedValues(t *testing.T) {
	s := loadedState(t, makeAccounts(1))

	s, effects := Reduce(s, CreateAccountSubmitted{Token: 4, AccountType: service.AccountTypeSavings, Currency: "usd"})

	assert.Equal(t, []Effect{SubmitAccount{Token: 4, AccountType: service.AccountTypeSavings, Currency: "USD"}}, effects)
	assert.True(t, s.Form.Submitting)

	_, effects = Reduce(s, CreateAccountSubmitted{Token: 5, AccountType: service.AccountTypeChecking})
	assert.Empty(t, effects, "a second submit while one is in flight is dropped")
}

func TestReduce_AccountCreatedClearsFormAndRefreshes(t *testing.T) {
	s := loadedState(t, makeAccounts(1))
	s, _ = Reduce(s, CreateAccountSubmitted{Token: 1, AccountType: service.AccountTypeTrading, Currency: "EUR"})

	created := service.Account{ID: uuid.Must(uuid.NewV4()), Type: service.AccountTypeTrading}
	s, effects := Reduce(s, AccountCreated{Token: 1, Account: created, At: testTime})

	assert.Equal(t, []Effect{FetchAccounts{}}, effects)
	assert.False(t, s.Form.Submitting)
	assert.Empty(t, s.Form.AccountType)
	assert.Empty(t, s.Form.Currency)
	require.NotNil(t, s.Form.LastCreated)
	assert.Equal(t, created.ID, s.Form.LastCreated.ID)
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, LevelSuccess, s.Notifications[0].Level)
}

func TestReduce_AccountCreatedDuringFetchRefetchesAfter(t *testing.T) {
	accounts := makeAccounts(1)
	s := loadedState(t, accounts)
	s, _ = Reduce(s, CreateAccountSubmitted{Token: 1, AccountType: service.AccountTypeChecking})
	s, _ = Reduce(s, Mounted{})
	require.True(t, s.AccountsLoading)

	s, effects := Reduce(s, AccountCreated{Token: 1, Account: service.Account{ID: uuid.Must(uuid.NewV4())}})
	assert.Empty(t, effects)
	assert.True(t, s.AccountsStale)

	s, effects = Reduce(s, AccountsFetchSucceeded{Accounts: accounts})
	assert.Equal(t, []Effect{FetchAccounts{}}, effects)
	assert.True(t, s.AccountsLoading)
	assert.False(t, s.AccountsStale)
}

func TestReduce_CreateFailedKeepsForm(t *testing.T) {
	s := loadedState(t, makeAccounts(1))
	s, _ = Reduce(s, CreateAccountSubmitted{Token: 2, AccountType: service.AccountTypeSavings, Currency: "EUR"})

	storeErr := errors.New("insert failed")
	s, effects := Reduce(s, AccountCreateFailed{Token: 2, Err: storeErr, At: testTime})

	assert.Empty(t, effects)
	assert.False(t, s.Form.Submitting)
	assert.Equal(t, service.AccountTypeSavings, s.Form.AccountType)
	assert.Equal(t, "EUR", s.Form.Currency)
	assert.Equal(t, storeErr, s.Form.LastError)
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, "Could not create the account", s.Notifications[0].Message)
}

func TestReduce_DismissNotifications(t *testing.T) {
	s := NewState(uuid.Must(uuid.NewV4()), 20)
	s = s.notify(LevelError, titleError, "one", testTime)
	s = s.notify(LevelError, titleError, "two", testTime)
	s = s.notify(LevelSuccess, titleSuccess, "three", testTime)

	s, _ = Reduce(s, NotificationsDismissed{Through: 2})
	require.Len(t, s.Notifications, 1)
	assert.Equal(t, "three", s.Notifications[0].Message)

	s, _ = Reduce(s, NotificationsDismissed{Through: 3})
	assert.Empty(t, s.Notifications)
}

func TestReduce_NotificationsAreCopied(t *testing.T) {
	s := NewState(uuid.Must(uuid.NewV4()), 20)
	first := s.notify(LevelError, titleError, "one", testTime)
	second := first.notify(LevelError, titleError, "two", testTime)

	assert.Len(t, first.Notifications, 1)
	assert.Len(t, second.Notifications, 2)
}
