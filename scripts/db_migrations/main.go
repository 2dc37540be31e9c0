package main

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

func main() {
	logging.SetupLogging()

	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	logrus.WithFields(logrus.Fields{
		"address":  env.PostgresAddress,
		"database": env.PostgresDB,
	}).Info("Migrating")

	if err := storage.RunMigrations(env.PostgresConnectionString()); err != nil {
		logrus.WithError(err).Fatal("storage.RunMigrations")
		return
	}
}
