package view

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/service"
)

// Event is anything the session's reducer reacts to.
type Event interface {
	eventName() string
}

// Mounted opens the view and requests the account list.
type Mounted struct{}

type AccountsFetchSucceeded struct {
	Accounts []service.Account
}

type AccountsFetchFailed struct {
	Err error
	At  time.Time
}

// AccountSelected is an explicit user pick.
type AccountSelected struct {
	AccountID uuid.UUID
	Token     uint64
}

type TransactionsFetchSucceeded struct {
	Generation   uint64
	AccountID    uuid.UUID
	Transactions []service.Transaction
}

type TransactionsFetchFailed struct {
	Generation uint64
	AccountID  uuid.UUID
	Err        error
	At         time.Time
}

type CreateAccountSubmitted struct {
	Token       uint64
	AccountType service.AccountType
	Currency    string
	At          time.Time
}

type AccountCreated struct {
	Token   uint64
	Account service.Account
	At      time.Time
}

type AccountCreateFailed struct {
	Token uint64
	Err   error
	At    time.Time
}

// NotificationsDismissed drops every notification up to and including Through.
type NotificationsDismissed struct {
	Through uint64
}

func (Mounted) eventName() string                    { return "Mounted" }
func (AccountsFetchSucceeded) eventName() string     { return "AccountsFetchSucceeded" }
func (AccountsFetchFailed) eventName() string        { return "AccountsFetchFailed" }
func (AccountSelected) eventName() string            { return "AccountSelected" }
func (TransactionsFetchSucceeded) eventName() string { return "TransactionsFetchSucceeded" }
func (TransactionsFetchFailed) eventName() string    { return "TransactionsFetchFailed" }
func (CreateAccountSubmitted) eventName() string     { return "CreateAccountSubmitted" }
func (AccountCreated) eventName() string             { return "AccountCreated" }
func (AccountCreateFailed) eventName() string        { return "AccountCreateFailed" }
func (NotificationsDismissed) eventName() string     { return "NotificationsDismissed" }

// Effect is work the session performs outside the reducer. Results come
// back as events.
type Effect interface {
	effectName() string
}

type FetchAccounts struct{}

type FetchTransactions struct {
	Generation uint64
	AccountID  uuid.UUID
	Limit      int
}

// CancelTransactions aborts any in-flight transaction fetch.
type CancelTransactions struct{}

type SubmitAccount struct {
	Token       uint64
	AccountType service.AccountType
	Currency    string
}

func (FetchAccounts) effectName() string      { return "FetchAccounts" }
func (FetchTransactions) effectName() string  { return "FetchTransactions" }
func (CancelTransactions) effectName() string { return "CancelTransactions" }
func (SubmitAccount) effectName() string      { return "SubmitAccount" }
