package view

import (
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/service"
)

const (
	titleError   = "Error"
	titleSuccess = "Success"
)

// Reduce applies one event to the state. It is pure: all I/O is returned
// as effects for the session to run.
func Reduce(s State, event Event) (State, []Effect) {
	switch ev := event.(type) {
	case Mounted:
		return requestAccounts(s)
	case AccountsFetchSucceeded:
		return accountsLoaded(s, ev)
	case AccountsFetchFailed:
		return accountsFailed(s, ev)
	case AccountSelected:
		return accountPicked(s, ev)
	case TransactionsFetchSucceeded:
		return transactionsLoaded(s, ev)
	case TransactionsFetchFailed:
		return transactionsFailed(s, ev)
	case CreateAccountSubmitted:
		return createSubmitted(s, ev)
	case AccountCreated:
		return accountCreated(s, ev)
	case AccountCreateFailed:
		return createFailed(s, ev)
	case NotificationsDismissed:
		return dismissNotifications(s, ev), nil
	}
	return s, nil
}

// requestAccounts drops the request while a fetch is already in flight.
func requestAccounts(s State) (State, []Effect) {
	if s.AccountsLoading {
		return s, nil
	}
	s.AccountsLoading = true
	return s, []Effect{FetchAccounts{}}
}

func accountsLoaded(s State, ev AccountsFetchSucceeded) (State, []Effect) {
	s.Accounts = ev.Accounts
	s.AccountsLoading = false
	s.AccountsLoaded = true
	s.AccountsErr = nil

	var effects []Effect
	if s.AccountsStale {
		s.AccountsStale = false
		s.AccountsLoading = true
		effects = append(effects, FetchAccounts{})
	}

	if len(s.Accounts) == 0 {
		if s.Selection.IsSelected() || s.TransactionsLoading {
			s = clearTransactions(s)
			s.Selection = Unselected()
			effects = append(effects, CancelTransactions{})
		}
		return s, effects
	}

	if id, ok := s.Selection.AccountID(); ok {
		if _, found := s.Account(id); found {
			return s, effects
		}
	}

	s, fetch := selectAccount(s, s.Accounts[0].ID)
	return s, append(effects, fetch...)
}

func accountsFailed(s State, ev AccountsFetchFailed) (State, []Effect) {
	s.AccountsLoading = false
	s.AccountsErr = ev.Err
	s = s.notify(LevelError, titleError, "Could not load accounts", ev.At)

	if s.AccountsStale {
		s.AccountsStale = false
		s.AccountsLoading = true
		return s, []Effect{FetchAccounts{}}
	}
	return s, nil
}

// accountPicked ignores picks of accounts that are not loaded, which
// includes every pick made before the first account list arrives.
func accountPicked(s State, ev AccountSelected) (State, []Effect) {
	if _, ok := s.Account(ev.AccountID); !s.AccountsLoaded || !ok {
		s.RejectedPick = ev.Token
		return s, nil
	}
	s.SelectToken = ev.Token
	return selectAccount(s, ev.AccountID)
}

// selectAccount always starts a new fetch, even when re-selecting the
// current account.
func selectAccount(s State, accountID uuid.UUID) (State, []Effect) {
	if current, ok := s.Selection.AccountID(); !ok || current != accountID {
		s.Transactions = nil
	}
	s.Selection = Selected(accountID)
	s.Generation++
	s.TransactionsLoading = true
	s.TransactionsErr = nil
	return s, []Effect{FetchTransactions{Generation: s.Generation, AccountID: accountID, Limit: s.Limit}}
}

func clearTransactions(s State) State {
	s.Generation++
	s.Transactions = nil
	s.TransactionsLoading = false
	s.TransactionsErr = nil
	return s
}

func transactionsLoaded(s State, ev TransactionsFetchSucceeded) (State, []Effect) {
	if ev.Generation != s.Generation {
		return s, nil
	}
	s.Transactions = ev.Transactions
	s.TransactionsLoading = false
	s.TransactionsErr = nil
	return s, nil
}

// transactionsFailed clears the list so it never shows another account's
// rows or a partial result.
func transactionsFailed(s State, ev TransactionsFetchFailed) (State, []Effect) {
	if ev.Generation != s.Generation {
		return s, nil
	}
	s.Transactions = nil
	s.TransactionsLoading = false
	s.TransactionsErr = ev.Err
	s = s.notify(LevelError, titleError, "Could not load the transaction history", ev.At)
	return s, nil
}

func createSubmitted(s State, ev CreateAccountSubmitted) (State, []Effect) {
	if s.Form.Submitting {
		return s, nil
	}

	s.Form = Form{
		AccountType: ev.AccountType,
		Currency:    ev.Currency,
		Token:       ev.Token,
	}

	accountType, currency, err := service.ValidateCreateAccount(ev.AccountType, ev.Currency)
	if err != nil {
		s.Form.LastError = err
		s = s.notify(LevelError, titleError, err.Error(), ev.At)
		return s, nil
	}

	s.Form.Submitting = true
	return s, []Effect{SubmitAccount{Token: ev.Token, AccountType: accountType, Currency: currency}}
}

func accountCreated(s State, ev AccountCreated) (State, []Effect) {
	if !s.Form.Submitting || ev.Token != s.Form.Token {
		return s, nil
	}

	created := ev.Account
	s.Form = Form{Token: ev.Token, LastCreated: &created}
	s = s.notify(LevelSuccess, titleSuccess, "New account created", ev.At)

	if s.AccountsLoading {
		s.AccountsStale = true
		return s, nil
	}
	return requestAccounts(s)
}

// createFailed keeps the entered values so the user can retry.
func createFailed(s State, ev AccountCreateFailed) (State, []Effect) {
	if !s.Form.Submitting || ev.Token != s.Form.Token {
		return s, nil
	}
	s.Form.Submitting = false
	s.Form.LastError = ev.Err
	s = s.notify(LevelError, titleError, "Could not create the account", ev.At)
	return s, nil
}

func dismissNotifications(s State, ev NotificationsDismissed) State {
	kept := make([]Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if n.Seq > ev.Through {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	s.Notifications = kept
	return s
}
