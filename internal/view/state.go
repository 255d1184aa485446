package view

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/service"
)

// Selection is either Unselected or Selected(accountID). The zero value is
// Unselected.
type Selection struct {
	accountID uuid.UUID
	selected  bool
}

func Unselected() Selection {
	return Selection{}
}

func Selected(accountID uuid.UUID) Selection {
	return Selection{accountID: accountID, selected: true}
}

// AccountID returns the selected account, ok is false when Unselected.
func (s Selection) AccountID() (uuid.UUID, bool) {
	return s.accountID, s.selected
}

func (s Selection) IsSelected() bool {
	return s.selected
}

func (s Selection) String() string {
	if !s.selected {
		return "unselected"
	}
	return "selected(" + s.accountID.String() + ")"
}

type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Notification is a non-blocking message for the user. Seq increases
// monotonically within a session.
type Notification struct {
	Seq     uint64
	Level   Level
	Title   string
	Message string
	At      time.Time
}

// Form holds the account creation form. Entered values survive a failed
// submission and are cleared after a successful one.
type Form struct {
	AccountType service.AccountType
	Currency    string
	Submitting  bool

	// Token identifies the submission the fields below describe.
	Token       uint64
	LastError   error
	LastCreated *service.Account
}

// State is the whole view of one user. Slices are never modified in place
// once published, so a State handed out by a Session is safe to read
// concurrently but must not be mutated.
type State struct {
	UserID uuid.UUID
	Limit  int

	Accounts        []service.Account
	AccountsLoaded  bool
	AccountsLoading bool
	AccountsErr     error
	// AccountsStale requests another fetch once the in-flight one lands,
	// because an account was created while it was running.
	AccountsStale bool

	Selection Selection
	// SelectToken is the token of the last accepted user pick.
	SelectToken uint64
	// RejectedPick is the token of the last pick that was ignored.
	RejectedPick uint64

	// Generation tags each transaction fetch. Results carrying an older
	// generation are discarded.
	Generation          uint64
	Transactions        []service.Transaction
	TransactionsLoading bool
	TransactionsErr     error

	Form Form

	Notifications []Notification
	nextSeq       uint64
}

// NewState returns the initial Unselected state for a user.
func NewState(userID uuid.UUID, limit int) State {
	return State{UserID: userID, Limit: limit}
}

// Account looks up a loaded account.
func (s State) Account(id uuid.UUID) (service.Account, bool) {
	for _, account := range s.Accounts {
		if account.ID == id {
			return account, true
		}
	}
	return service.Account{}, false
}

// SelectedAccount returns the selected account when one is selected and loaded.
func (s State) SelectedAccount() (service.Account, bool) {
	id, ok := s.Selection.AccountID()
	if !ok {
		return service.Account{}, false
	}
	return s.Account(id)
}

// Settled reports that no account or transaction fetch is in flight.
func (s State) Settled() bool {
	return !s.AccountsLoading && !s.TransactionsLoading
}

func (s State) notify(level Level, title, message string, at time.Time) State {
	s.nextSeq++
	notifications := make([]Notification, len(s.Notifications), len(s.Notifications)+1)
	copy(notifications, s.Notifications)
	s.Notifications = append(notifications, Notification{
		Seq:     s.nextSeq,
		Level:   level,
		Title:   title,
		Message: message,
		At:      at,
	})
	return s
}
