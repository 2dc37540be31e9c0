package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/budget-ledger/api"
	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/budget-ledger/internal/importer"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/service"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/memstore"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("budget-ledger starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logrus.WithError(err).Fatal("logging.SetLevel")
		return
	}

	statusHandler := status.NewHandler()
	var backend storage.Backend
	switch envConfig.StorageBackend {
	case config.StorageBackendMemory:
		backend = memstore.New()
		logger.Warn("main.storage.memory: data is lost on exit")
	default:
		if envConfig.MigrateOnStart {
			if err := storage.RunMigrations(envConfig.PostgresConnectionString()); err != nil {
				logger.WithError(err).Fatal("storage.RunMigrations")
				return
			}
		}
		dbStorage, err := storage.NewStorage(envConfig)
		if err != nil {
			logger.WithError(err).Fatal("storage.NewStorage")
			return
		}
		defer dbStorage.Close()
		statusHandler = statusHandler.WithCheck("postgres", dbStorage.Ping)
		backend = dbStorage
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if envConfig.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(envConfig.AMQPURL, envConfig.AMQPExchange, logger)
		if err != nil {
			logger.WithError(err).Fatal("events.NewAMQPPublisher")
			return
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()

	delegator := operator.NewOperatorDelegator(backend, envConfig.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewService(backend, delegator, publisher, service.OptionsFromConfig(envConfig), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.HTTPPort,
			Service: svc,
			PayPal:  importer.NewPayPalParser(),
			Status:  statusHandler,
		}
		return httpRest.Serve(groupCtx)
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("budget-ledger stopped")
		return
	}
	logger.Info("budget-ledger stopped")
}
