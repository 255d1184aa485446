package resilient

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/banking-view/internal/metrics"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

// AccountsTable decorates an IAccountTable with timeout, breaker and retry.
type AccountsTable struct {
	next  sqlconfig.IAccountTable
	guard *guard
}

var _ sqlconfig.IAccountTable = (*AccountsTable)(nil)

func NewAccountsTable(next sqlconfig.IAccountTable, cfg Config, collector metrics.Collector, logger *logrus.Logger) *AccountsTable {
	return &AccountsTable{
		next:  next,
		guard: newGuard("user_accounts", cfg, collector, logger),
	}
}

// Insert is not retried; a retried insert could create a second account.
func (t *AccountsTable) Insert(ctx context.Context, create *sqlconfig.AccountCreate) (*sqlconfig.Account, error) {
	result, err := t.guard.write(ctx, "insert", func(ctx context.Context) (interface{}, error) {
		return t.next.Insert(ctx, create)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sqlconfig.Account), nil
}

func (t *AccountsTable) List(ctx context.Context, filter *sqlconfig.AccountFilter) ([]*sqlconfig.Account, error) {
	result, err := t.guard.read(ctx, "list", func(ctx context.Context) (interface{}, error) {
		return t.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*sqlconfig.Account), nil
}
