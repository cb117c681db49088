package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levantar el servidor HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := router.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Warn("closing backends", logger.Fields{"err": err})
		}
	}()

	srv := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     router.NewRouter(backends.Options),
		ReadTimeout: cfg.Server.ReadTimeout,
		// las conexiones websocket manejan sus propios deadlines
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", logger.Fields{
			"addr":      srv.Addr,
			"db":        cfg.DB.Driver,
			"auth":      cfg.Auth.Mode,
			"redis":     cfg.Redis.Enabled(),
			"amqp":      cfg.AMQP.Enabled(),
			"reminders": cfg.Reminder.Interval.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
