package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/account"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/budget"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/reconcile"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/report"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/rule"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/split"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-ledger/internal/importer"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	PayPal  *importer.PayPalParser
	Status  status.Handler
}

// Routes builds the HTTP handler: /status plus the huma API under /v1.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()

	statusHandler := r.Status
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Budget Ledger", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	svc := r.Service
	account.NewCreateAccountHandler(svc.Account).Register(api)
	account.NewGetAccountHandler(svc.Account).Register(api)
	transaction.NewCreateTransactionHandler(svc.Transaction).Register(api)
	transaction.NewImportTransactionsHandler(svc.Transaction).Register(api)
	transaction.NewSetCategoryHandler(svc.Transaction).Register(api)
	transaction.NewListTransactionsHandler(svc.Transaction).Register(api)
	split.NewHandler(svc.Split).Register(api)
	reconcile.NewHandler(svc.Reconciliation, r.PayPal).Register(api)
	budget.NewHandler(svc.Budget).Register(api)
	report.NewHandler(svc.Report).Register(api)
	rule.NewHandler(svc.Rule).Register(api)

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
