package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/banking-view/api"
	"github.com/carson-networks/banking-view/internal/config"
	"github.com/carson-networks/banking-view/internal/logging"
	promcollector "github.com/carson-networks/banking-view/internal/metrics/prometheus"
	"github.com/carson-networks/banking-view/internal/service"
	"github.com/carson-networks/banking-view/internal/storage"
	"github.com/carson-networks/banking-view/internal/view"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLoggingWithLevel(envConfig.Log.Level)
	logger.Info("banking-view starting")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := promcollector.NewCollector("bankview")
	if err := collector.Register(registry); err != nil {
		logger.WithError(err).Fatal("metrics.Register")
		return
	}

	dbStorage, err := storage.NewStorage(envConfig, collector, logger)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	svc := service.NewService(dbStorage)
	views := view.NewRegistry(svc.Account, svc.Transaction, envConfig.View.TransactionLimit, envConfig.View.IdleTimeout, logger)

	httpRest := &api.Rest{
		Logger:   logger,
		Port:     envConfig.HTTP.Port,
		View:     views,
		DB:       dbStorage.DB,
		Gatherer: registry,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		httpRest.Serve()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		logger.WithField("signal", sig.String()).Info("banking-view stopping")
	case <-done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpRest.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("HttpServer.Shutdown")
	}
	views.Stop()
	<-done
}
