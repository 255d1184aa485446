package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/banking-view/internal/auth"
	"github.com/carson-networks/banking-view/internal/handlers/v1/account"
	"github.com/carson-networks/banking-view/internal/handlers/v1/notification"
	"github.com/carson-networks/banking-view/internal/handlers/v1/status"
	"github.com/carson-networks/banking-view/internal/handlers/v1/transaction"
	"github.com/carson-networks/banking-view/internal/logging"
	"github.com/carson-networks/banking-view/internal/view"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	View     *view.Registry
	DB       status.Pinger
	Gatherer prometheus.Gatherer

	server *http.Server
}

// Router builds the HTTP routes. /status and /metrics are open; every huma
// operation requires an identity.
func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	statusHandler := status.NewHandler(r.DB)
	router.Get("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	if r.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}

	api := humachi.New(router, huma.DefaultConfig("Banking View", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger), auth.Middleware(api))

	account.NewListAccountsHandler(r.View).Register(api)
	account.NewCreateAccountHandler(r.View).Register(api)
	account.NewSelectAccountHandler(r.View).Register(api)
	transaction.NewListTransactionsHandler(r.View).Register(api)
	notification.NewListNotificationsHandler(r.View).Register(api)
	notification.NewDrainNotificationsHandler(r.View).Register(api)

	return router
}

// Serve blocks until the server stops.
func (r *Rest) Serve() {
	r.server = &http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := r.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

func (r *Rest) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
