// The worker runs scheduled maintenance against the same database as the API
// server. Its only job today is the session auto-close sweep.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/parishdesk/parishdesk/internal/config"
	"github.com/parishdesk/parishdesk/internal/infrastructure/observability"
	"github.com/parishdesk/parishdesk/internal/infrastructure/persistence/postgres"
	"github.com/parishdesk/parishdesk/internal/schedule"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	otelCfg := observability.Config{Enabled: cfg.OTelEnabled}

	lp, logger, err := observability.InitLogger(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := lp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown logger provider", "error", err)
		}
	}()
	slog.SetDefault(logger)

	slog.InfoContext(ctx, "starting parishdesk worker", "env", cfg.Env, "schedule", cfg.CloseSchedule)

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.PostgresURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	slog.InfoContext(ctx, "storage initialized", "url", maskPassword(cfg.PostgresURL))

	svc := schedule.NewService(store, schedule.Config{})

	c := cron.New()
	if _, err := c.AddFunc(cfg.CloseSchedule, func() {
		sweep(ctx, svc)
	}); err != nil {
		return fmt.Errorf("failed to schedule auto-close sweep: %w", err)
	}

	// Run one sweep at startup so a long-stopped worker catches up
	// immediately instead of waiting for the next tick.
	sweep(ctx, svc)

	c.Start()
	<-ctx.Done()

	slog.Info("shutting down worker")
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(shutdownTimeout):
		slog.Warn("worker shutdown timed out waiting for running jobs")
	}
	return nil
}

// sweep closes sessions whose end time has passed.
func sweep(ctx context.Context, svc *schedule.Service) {
	closed, err := svc.CloseExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		slog.ErrorContext(ctx, "auto-close sweep failed", "error", err)
		return
	}
	if closed > 0 {
		slog.InfoContext(ctx, "auto-close sweep finished", "sessions_closed", closed)
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
