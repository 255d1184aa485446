package view

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/banking-view/internal/service"
)

var (
	ErrUnknownAccount      = errors.New("account is not loaded")
	ErrSessionStopped      = errors.New("view session stopped")
	ErrSubmitInProgress    = errors.New("an account creation is already in progress")
	ErrSelectionSuperseded = errors.New("a later account selection replaced this one")
)

// AccountStore is the account side of the record store.
type AccountStore interface {
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]service.Account, error)
	CreateAccount(ctx context.Context, userID uuid.UUID, accountType service.AccountType, currency string) (*service.Account, error)
}

// TransactionStore is the transaction side of the record store.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID, accountID uuid.UUID, limit int) ([]service.Transaction, error)
}

type waiter struct {
	ctx   context.Context
	until func(State) bool
	reply chan State
}

type envelope struct {
	event Event
	// peek sees the state before event is applied, in the same loop step.
	peek func(State)
	// forget removes the pending waiter that replies on this channel.
	forget chan State
	waiter
}

// Session owns one user's State. A single goroutine applies events in
// arrival order; store calls run concurrently and report back as events.
type Session struct {
	userID       uuid.UUID
	accounts     AccountStore
	transactions TransactionStore
	log          *logrus.Entry
	now          func() time.Time

	events  chan envelope
	done    chan struct{}
	stopped chan struct{}
	tokens  atomic.Uint64

	effectCtx    context.Context
	cancelEffect context.CancelFunc
	effects      sync.WaitGroup
	stopOnce     sync.Once

	// Owned by the loop goroutine.
	state         State
	waiters       []waiter
	cancelPending context.CancelFunc
}

// NewSession starts the session loop and mounts the view.
func NewSession(userID uuid.UUID, accounts AccountStore, transactions TransactionStore, limit int, logger *logrus.Logger) *Session {
	effectCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		userID:       userID,
		accounts:     accounts,
		transactions: transactions,
		log:          logger.WithField("userID", userID.String()),
		now:          time.Now,
		events:       make(chan envelope),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
		effectCtx:    effectCtx,
		cancelEffect: cancel,
		state:        NewState(userID, limit),
	}
	go s.run()
	return s
}

func (s *Session) run() {
	defer close(s.stopped)

	s.apply(Mounted{})

	for {
		select {
		case env := <-s.events:
			s.handle(env)
		case <-s.done:
			return
		}
	}
}

func (s *Session) handle(env envelope) {
	if env.forget != nil {
		s.dropWaiter(env.forget)
		return
	}
	if env.peek != nil {
		env.peek(s.state)
	}
	if env.event != nil {
		s.apply(env.event)
	}
	if env.reply == nil {
		return
	}

	if env.until == nil || env.until(s.state) {
		env.reply <- s.state
		return
	}
	s.waiters = append(s.waiters, env.waiter)
}

func (s *Session) apply(event Event) {
	before := s.state.Selection
	next, effects := Reduce(s.state, event)
	s.state = next

	if before != next.Selection {
		s.log.WithFields(logrus.Fields{
			"from": before.String(),
			"to":   next.Selection.String(),
		}).Debug("View.Selection.Changed")
	}

	for _, effect := range effects {
		s.perform(effect)
	}
	s.wake()
}

// wake replies to every waiter whose condition now holds and drops the
// ones whose caller went away.
func (s *Session) wake() {
	if len(s.waiters) == 0 {
		return
	}
	pending := s.waiters[:0]
	for _, w := range s.waiters {
		if w.ctx.Err() != nil {
			continue
		}
		if w.until(s.state) {
			w.reply <- s.state
			continue
		}
		pending = append(pending, w)
	}
	s.waiters = pending
}

func (s *Session) dropWaiter(reply chan State) {
	for i, w := range s.waiters {
		if w.reply == reply {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return
		}
	}
}

func (s *Session) perform(effect Effect) {
	switch eff := effect.(type) {
	case FetchAccounts:
		s.spawn(func() Event {
			accounts, err := s.accounts.ListAccounts(s.effectCtx, s.userID)
			if err != nil {
				s.log.WithError(err).Warn("View.Accounts.FetchFailed")
				return AccountsFetchFailed{Err: err, At: s.now()}
			}
			return AccountsFetchSucceeded{Accounts: accounts}
		})

	case FetchTransactions:
		s.cancelTransactions()
		ctx, cancel := context.WithCancel(s.effectCtx)
		s.cancelPending = cancel
		s.spawn(func() Event {
			defer cancel()
			txs, err := s.transactions.ListTransactions(ctx, s.userID, eff.AccountID, eff.Limit)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					s.log.WithError(err).WithField("accountID", eff.AccountID.String()).Warn("View.Transactions.FetchFailed")
				}
				return TransactionsFetchFailed{Generation: eff.Generation, AccountID: eff.AccountID, Err: err, At: s.now()}
			}
			return TransactionsFetchSucceeded{Generation: eff.Generation, AccountID: eff.AccountID, Transactions: txs}
		})

	case CancelTransactions:
		s.cancelTransactions()

	case SubmitAccount:
		s.spawn(func() Event {
			account, err := s.accounts.CreateAccount(s.effectCtx, s.userID, eff.AccountType, eff.Currency)
			if err != nil {
				s.log.WithError(err).Warn("View.CreateAccount.Failed")
				return AccountCreateFailed{Token: eff.Token, Err: err, At: s.now()}
			}
			s.log.WithField("accountID", account.ID.String()).Info("View.CreateAccount.Complete")
			return AccountCreated{Token: eff.Token, Account: *account, At: s.now()}
		})
	}
}

func (s *Session) cancelTransactions() {
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
}

// spawn runs work outside the loop and posts its result event back. The
// result is dropped when the session has stopped.
func (s *Session) spawn(work func() Event) {
	s.effects.Add(1)
	go func() {
		defer s.effects.Done()
		event := work()
		select {
		case s.events <- envelope{event: event}:
		case <-s.done:
		}
	}()
}

func (s *Session) send(ctx context.Context, env envelope) (State, error) {
	env.ctx = ctx
	env.reply = make(chan State, 1)

	select {
	case s.events <- env:
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-s.stopped:
		return State{}, ErrSessionStopped
	}

	select {
	case st := <-env.reply:
		return st, nil
	case <-ctx.Done():
		s.forget(env.reply)
		return State{}, ctx.Err()
	case <-s.stopped:
		return State{}, ErrSessionStopped
	}
}

// forget tells the loop to drop a waiter whose caller gave up, so an idle
// session does not hold it until the next event.
func (s *Session) forget(reply chan State) {
	select {
	case s.events <- envelope{forget: reply}:
	case <-s.stopped:
	}
}

// Dispatch applies an event and returns the state right after it.
func (s *Session) Dispatch(ctx context.Context, event Event) (State, error) {
	return s.send(ctx, envelope{event: event})
}

// WaitFor blocks until until holds for the current or a later state.
func (s *Session) WaitFor(ctx context.Context, until func(State) bool) (State, error) {
	return s.send(ctx, envelope{waiter: waiter{until: until}})
}

// DispatchAndWait applies an event and blocks until until holds. The
// condition is first checked on the state right after the event.
func (s *Session) DispatchAndWait(ctx context.Context, event Event, until func(State) bool) (State, error) {
	return s.send(ctx, envelope{event: event, waiter: waiter{until: until}})
}

// Snapshot returns the current state.
func (s *Session) Snapshot(ctx context.Context) (State, error) {
	return s.Dispatch(ctx, nil)
}

// Stop ends the loop and cancels in-flight store calls.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.cancelEffect()
		<-s.stopped
		s.effects.Wait()
	})
}

func accountsSettled(st State) bool {
	return !st.AccountsLoading
}

// Accounts waits for the account list. When an earlier load failed and
// nothing is in flight, the list is fetched again.
func (s *Session) Accounts(ctx context.Context) (State, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return st, err
	}
	if !st.AccountsLoaded && !st.AccountsLoading {
		st, err = s.DispatchAndWait(ctx, Mounted{}, accountsSettled)
	} else {
		st, err = s.WaitFor(ctx, accountsSettled)
	}
	if err != nil {
		return st, err
	}
	if !st.AccountsLoaded && st.AccountsErr != nil {
		return st, st.AccountsErr
	}
	return st, nil
}

// Select picks an account and waits for its transactions.
func (s *Session) Select(ctx context.Context, accountID uuid.UUID) (State, error) {
	if _, err := s.Accounts(ctx); err != nil {
		return State{}, err
	}

	token := s.tokens.Add(1)
	st, err := s.DispatchAndWait(ctx, AccountSelected{AccountID: accountID, Token: token}, func(st State) bool {
		return st.RejectedPick == token || st.SelectToken != token || !st.TransactionsLoading
	})
	if err != nil {
		return st, err
	}
	if st.RejectedPick == token {
		return st, fmt.Errorf("%w: %s", ErrUnknownAccount, accountID)
	}
	if st.SelectToken != token {
		return st, ErrSelectionSuperseded
	}
	if st.TransactionsErr != nil {
		return st, st.TransactionsErr
	}
	return st, nil
}

// CreateAccount submits the creation form and waits for the outcome.
func (s *Session) CreateAccount(ctx context.Context, accountType service.AccountType, currency string) (*service.Account, State, error) {
	token := s.tokens.Add(1)
	st, err := s.DispatchAndWait(ctx, CreateAccountSubmitted{
		Token:       token,
		AccountType: accountType,
		Currency:    currency,
		At:          s.now(),
	}, func(st State) bool {
		return st.Form.Token != token || !st.Form.Submitting
	})
	if err != nil {
		return nil, st, err
	}
	if st.Form.Token != token {
		return nil, st, ErrSubmitInProgress
	}
	if st.Form.LastError != nil {
		return nil, st, st.Form.LastError
	}
	return st.Form.LastCreated, st, nil
}

// History waits for the view to settle and filters the loaded transactions.
func (s *Session) History(ctx context.Context, criteria Criteria) ([]HistoryItem, State, error) {
	if _, err := s.Accounts(ctx); err != nil {
		return nil, State{}, err
	}
	st, err := s.WaitFor(ctx, State.Settled)
	if err != nil {
		return nil, st, err
	}
	return Filter(HistoryItems(st), criteria), st, nil
}

// PendingNotifications returns the notifications without dismissing them.
func (s *Session) PendingNotifications(ctx context.Context) ([]Notification, error) {
	st, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return st.Notifications, nil
}

// DrainNotifications returns the pending notifications and dismisses them
// in one loop step, so concurrent drains never return the same one twice.
func (s *Session) DrainNotifications(ctx context.Context) ([]Notification, error) {
	var drained []Notification
	_, err := s.send(ctx, envelope{
		event: NotificationsDismissed{Through: math.MaxUint64},
		peek:  func(st State) { drained = st.Notifications },
	})
	if err != nil {
		return nil, err
	}
	return drained, nil
}
