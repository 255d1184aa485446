package view

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/banking-view/internal/service"
)

type registryEntry struct {
	session  *Session
	lastSeen time.Time
	inUse    int
}

// Registry holds one Session per user. A session is created, and so
// mounted, the first time its user is seen. Sessions unused for longer
// than the idle timeout are stopped and forgotten; the next request
// mounts a fresh one.
type Registry struct {
	accounts     AccountStore
	transactions TransactionStore
	limit        int
	idleTimeout  time.Duration
	logger       *logrus.Logger
	now          func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*registryEntry
	stopped  bool

	done    chan struct{}
	sweeper sync.WaitGroup
}

// NewRegistry builds the registry. An idleTimeout of zero keeps sessions
// until Stop.
func NewRegistry(accounts AccountStore, transactions TransactionStore, limit int, idleTimeout time.Duration, logger *logrus.Logger) *Registry {
	r := &Registry{
		accounts:     accounts,
		transactions: transactions,
		limit:        limit,
		idleTimeout:  idleTimeout,
		logger:       logger,
		now:          time.Now,
		sessions:     make(map[uuid.UUID]*registryEntry),
		done:         make(chan struct{}),
	}
	if idleTimeout > 0 {
		r.sweeper.Add(1)
		go r.sweepLoop()
	}
	return r
}

// Session returns the user's session, starting it if needed.
func (r *Registry) Session(userID uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.lookup(userID)
	if err != nil {
		return nil, err
	}
	return entry.session, nil
}

// lookup must be called with r.mu held.
func (r *Registry) lookup(userID uuid.UUID) (*registryEntry, error) {
	if r.stopped {
		return nil, ErrSessionStopped
	}
	if entry, ok := r.sessions[userID]; ok {
		entry.lastSeen = r.now()
		return entry, nil
	}

	entry := &registryEntry{
		session:  NewSession(userID, r.accounts, r.transactions, r.limit, r.logger),
		lastSeen: r.now(),
	}
	r.sessions[userID] = entry
	r.logger.WithFields(logrus.Fields{
		"userID":   userID.String(),
		"sessions": len(r.sessions),
	}).Info("View.Session.Mounted")
	return entry, nil
}

// acquire returns the user's session and keeps it from being swept until
// the returned release is called.
func (r *Registry) acquire(userID uuid.UUID) (*Session, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.lookup(userID)
	if err != nil {
		return nil, nil, err
	}
	entry.inUse++
	return entry.session, func() {
		r.mu.Lock()
		entry.inUse--
		entry.lastSeen = r.now()
		r.mu.Unlock()
	}, nil
}

func (r *Registry) sweepLoop() {
	defer r.sweeper.Done()

	ticker := time.NewTicker(r.sweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.done:
			return
		}
	}
}

func (r *Registry) sweepInterval() time.Duration {
	interval := r.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// sweep stops every session that is idle and not serving a request. It
// returns the number of sessions removed.
func (r *Registry) sweep() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.idleTimeout)
	var idle []*Session
	for userID, entry := range r.sessions {
		if entry.inUse > 0 || entry.lastSeen.After(cutoff) {
			continue
		}
		delete(r.sessions, userID)
		idle = append(idle, entry.session)
	}
	remaining := len(r.sessions)
	r.mu.Unlock()

	for _, s := range idle {
		s.Stop()
		r.logger.WithFields(logrus.Fields{
			"userID":   s.userID.String(),
			"sessions": remaining,
		}).Info("View.Session.Unmounted")
	}
	return len(idle)
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Stop stops every session. Later lookups fail with ErrSessionStopped.
func (r *Registry) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	entries := r.sessions
	r.sessions = make(map[uuid.UUID]*registryEntry)
	r.stopped = true
	r.mu.Unlock()

	close(r.done)
	r.sweeper.Wait()

	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.Stop()
		}(entry.session)
	}
	wg.Wait()
}

func (r *Registry) Accounts(ctx context.Context, userID uuid.UUID) (State, error) {
	s, release, err := r.acquire(userID)
	if err != nil {
		return State{}, err
	}
	defer release()
	return s.Accounts(ctx)
}

func (r *Registry) Select(ctx context.Context, userID, accountID uuid.UUID) (State, error) {
	s, release, err := r.acquire(userID)
	if err != nil {
		return State{}, err
	}
	defer release()
	return s.Select(ctx, accountID)
}

func (r *Registry) CreateAccount(ctx context.Context, userID uuid.UUID, accountType service.AccountType, currency string) (*service.Account, error) {
	s, release, err := r.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer release()
	account, _, err := s.CreateAccount(ctx, accountType, currency)
	return account, err
}

func (r *Registry) History(ctx context.Context, userID uuid.UUID, criteria Criteria) ([]HistoryItem, State, error) {
	s, release, err := r.acquire(userID)
	if err != nil {
		return nil, State{}, err
	}
	defer release()
	return s.History(ctx, criteria)
}

func (r *Registry) PendingNotifications(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	s, release, err := r.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.PendingNotifications(ctx)
}

func (r *Registry) DrainNotifications(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	s, release, err := r.acquire(userID)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.DrainNotifications(ctx)
}
