package main

import (
	"database/sql"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/banking-view/internal/config"
	"github.com/carson-networks/banking-view/internal/logging"
)

func main() {
	logger := logging.SetupLogging()

	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	logger.WithFields(logrus.Fields{
		"address": env.Postgres.Address,
		"port":    env.Postgres.Port,
		"db":      env.Postgres.DB,
	}).Info("Migration target")

	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		logger.WithError(err).Fatal("sql.Open")
		return
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		logger.WithError(err).Fatal("postgres.WithInstance")
		return
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		logger.WithError(err).Fatal("migrate.NewWithDatabaseInstance")
		return
	}

	preMigrationVersion, _, err := m.Version()
	if err != nil && errors.Is(err, migrate.ErrNilVersion) {
		preMigrationVersion = 0
	} else if err != nil {
		logger.WithError(err).Fatal("m.Version.preMigrationVersion")
		return
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.WithError(err).Fatal("m.Up")
		return
	}

	postMigrationVersion, _, err := m.Version()
	if err != nil {
		logger.WithError(err).Fatal("m.Version.postMigrationVersion")
		return
	}

	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
}
