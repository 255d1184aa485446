package sqlconfig

import (
	"context"
	"database/sql"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ ITransactionTable = (*TransactionsTable)(nil)

type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(db *sql.DB) *TransactionsTable {
	return &TransactionsTable{exec: bob.NewDB(db)}
}

// List returns the most recent transactions of one account, newest first.
// The owning user is part of the predicate so rows of an account the user
// does not own are never returned.
func (t *TransactionsTable) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(filter.AccountID))),
		sm.Where(psql.Raw(
			"account_id IN (SELECT id FROM "+accountsTableName+" WHERE user_id = ?)",
			filter.UserID,
		)),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}

	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
