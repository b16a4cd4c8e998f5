package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/softvask/followup/internal/api"
	"github.com/softvask/followup/internal/api/health"
	"github.com/softvask/followup/internal/api/sweep"
	"github.com/softvask/followup/internal/api/webhook"
	"github.com/softvask/followup/internal/config"
	"github.com/softvask/followup/internal/followup"
	"github.com/softvask/followup/internal/mail"
	"github.com/softvask/followup/internal/pipedrive"
	"github.com/softvask/followup/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	crm := pipedrive.New(pipedrive.Config{
		BaseURL:  cfg.PipedriveBase,
		APIToken: cfg.APIToken,
	})
	sender := mail.NewLogSender()
	pool := worker.NewPool(2, cfg.WorkerQueue)
	// Drain deferred annotation writes on every exit path, not just a
	// graceful shutdown.
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pool.Shutdown(drainCtx); err != nil {
			slog.Error("worker pool drain timed out", "error", err)
		}
	}()
	engine := followup.New(followup.Config{
		CRM:         crm,
		Sender:      sender,
		Parallelism: cfg.SweepParallel,
	})

	mux := http.NewServeMux()
	health.RegisterRoutes(mux)
	webhook.RegisterRoutes(mux, crm, pool)
	sweep.RegisterRoutes(mux, engine)

	// Catch-all: 404 in the service's error envelope.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound,
			fmt.Sprintf("no route found for %s %s", r.Method, r.URL.Path),
			api.CorrelationID(r.Context()))
	})

	handler := api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.Auth(cfg.AuthToken),
		api.JSONContentType(),
		api.Logging(),
	)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("shutting down server")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting followup server", "addr", cfg.Addr, "pipedrive", cfg.PipedriveBase)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
