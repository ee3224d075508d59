package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dividendtracker/src/api"
	"dividendtracker/src/config"
	"dividendtracker/src/dependencies"
	"dividendtracker/src/utils"
	"dividendtracker/src/worker"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}

	level, err := logrus.ParseLevel(cfg.Service.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger, err := utils.NewLogger(level, cfg.Service.LogFormat, cfg.Service.LogFile)
	if err != nil {
		log.Println(err, "Error while creating logger")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Error while running")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	deps, err := dependencies.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close repository")
		}
	}()

	if _, err := deps.Portfolios.EnsureDefaultPortfolio(utils.WithLogger(ctx, logrus.NewEntry(logger))); err != nil {
		return err
	}

	var httpServer *http.Server
	if cfg.Service.Type == config.WORKER {
		server := worker.NewServer(deps)
		if err := server.Start(); err != nil {
			return err
		}
		defer server.Stop()
		httpServer = worker.NewHTTPServer(server, cfg.Service.Port)
	} else {
		server := api.NewServer(deps)
		httpServer = api.NewHTTPServer(server, cfg.Service.Port)
	}

	errC := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"type":    cfg.Service.Type,
			"port":    cfg.Service.Port,
			"backend": cfg.Databases.Backend,
		}).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
