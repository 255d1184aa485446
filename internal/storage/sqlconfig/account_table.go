package sqlconfig

import (
	"context"
	"database/sql"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

// AccountsTable provides access to the user_accounts table.
type AccountsTable struct {
	exec bob.Executor
}

// Ensure AccountsTable implements IAccountTable at compile time.
var _ IAccountTable = (*AccountsTable)(nil)

// NewAccountsTable creates an AccountsTable for the given database.
func NewAccountsTable(db *sql.DB) *AccountsTable {
	return &AccountsTable{exec: bob.NewDB(db)}
}

// Insert creates a new account and returns the stored row, including the
// account number assigned by the database.
func (t *AccountsTable) Insert(ctx context.Context, create *AccountCreate) (*Account, error) {
	query := psql.Insert(
		im.Into(accountsTableName, "user_id", "account_type", "balance", "currency", "is_active"),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(string(create.Type)),
			psql.Arg(create.Balance),
			psql.Arg(create.Currency),
			psql.Arg(create.IsActive),
		),
		im.Returning(accountColumns...),
	)

	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[Account]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns the user's accounts, newest first.
func (t *AccountsTable) List(ctx context.Context, filter *AccountFilter) ([]*Account, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(accountColumns...),
		sm.From(accountsTableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	}
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit))
	}

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Account]())
	if err != nil {
		return nil, err
	}

	result := make([]*Account, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
