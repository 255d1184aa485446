package resilient

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/banking-view/internal/metrics"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

type TransactionsTable struct {
	next  sqlconfig.ITransactionTable
	guard *guard
}

var _ sqlconfig.ITransactionTable = (*TransactionsTable)(nil)

func NewTransactionsTable(next sqlconfig.ITransactionTable, cfg Config, collector metrics.Collector, logger *logrus.Logger) *TransactionsTable {
	return &TransactionsTable{
		next:  next,
		guard: newGuard("financial_transactions", cfg, collector, logger),
	}
}

func (t *TransactionsTable) List(ctx context.Context, filter *sqlconfig.TransactionFilter) ([]*sqlconfig.Transaction, error) {
	result, err := t.guard.read(ctx, "list", func(ctx context.Context) (interface{}, error) {
		return t.next.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*sqlconfig.Transaction), nil
}
