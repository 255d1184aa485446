package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/banking-view/internal/config"
	"github.com/carson-networks/banking-view/internal/metrics"
	"github.com/carson-networks/banking-view/internal/storage/resilient"
	"github.com/carson-networks/banking-view/internal/storage/sqlconfig"
)

// Storage is the record store the view reads accounts and transactions from.
type Storage struct {
	DB           *sql.DB
	Accounts     sqlconfig.IAccountTable
	Transactions sqlconfig.ITransactionTable
}

// NewStorage opens the postgres pool and wraps each table with the
// resilient decorator.
func NewStorage(env *config.Config, collector metrics.Collector, logger *logrus.Logger) (*Storage, error) {
	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return nil, err
	}

	cfg := resilient.FromConfig(env)

	return &Storage{
		DB:           db,
		Accounts:     resilient.NewAccountsTable(sqlconfig.NewAccountsTable(db), cfg, collector, logger),
		Transactions: resilient.NewTransactionsTable(sqlconfig.NewTransactionsTable(db), cfg, collector, logger),
	}, nil
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
