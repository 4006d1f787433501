package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/ai"
	"github.com/dukerupert/choreboard/internal/backup"
	"github.com/dukerupert/choreboard/internal/database"
	"github.com/dukerupert/choreboard/internal/logging"
	"github.com/dukerupert/choreboard/internal/push"
	"github.com/dukerupert/choreboard/internal/scheduler"
	"github.com/dukerupert/choreboard/internal/server"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server.

Configuration comes from CHOREBOARD_* environment variables:
  CHOREBOARD_PORT             listen port (default 8080)
  CHOREBOARD_DB_PATH          SQLite database path (default choreboard.db)
  CHOREBOARD_LOG_LEVEL        debug, info, warn or error (default info)
  CHOREBOARD_LOG_FORMAT       text or json (default text)
  CHOREBOARD_SECURE_COOKIES   mark session cookies Secure (default false)
  CHOREBOARD_OLLAMA_HOST      Ollama base URL (default http://localhost:11434)
  CHOREBOARD_OLLAMA_MODEL     model name (default llama3.2)
  CHOREBOARD_OLLAMA_TIMEOUT   per-request model timeout (default 2m)

Scheduled backups (see "choreboard backup --help"):
  CHOREBOARD_BACKUP_SCHEDULE  five-field cron spec, e.g. "0 3 * * *" (default off)
  CHOREBOARD_BACKUP_DIR       snapshot directory (default backups)
  CHOREBOARD_BACKUP_RETAIN    local snapshots to keep (default 7)

Push reminders (see "choreboard vapid-keys"):
  CHOREBOARD_VAPID_PUBLIC_KEY   VAPID public key (reminders are off without keys)
  CHOREBOARD_VAPID_PRIVATE_KEY  VAPID private key
  CHOREBOARD_REMIND_HOUR        hour of day reminders go out (default 8)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	gen := ai.NewOllamaClient(ai.Config{
		Host:    cfg.Ollama.Host,
		Model:   cfg.Ollama.Model,
		Timeout: cfg.Ollama.Timeout,
	})
	srv := server.New(db, gen, server.Options{
		SecureCookies: cfg.SecureCookies,
		Push: push.Config{
			PublicKey:  cfg.Push.VAPIDPublicKey,
			PrivateKey: cfg.Push.VAPIDPrivateKey,
			Subscriber: cfg.Push.Subscriber,
		},
		RemindHour: cfg.Push.RemindHour,
	}, logger)

	sched := scheduler.New(logger.With("component", "scheduler"))
	if err := sched.AddHousekeeping(srv.SessionStore(), srv.RateLimiter(), srv.Reopener()); err != nil {
		return err
	}
	if r := srv.Reminder(); r != nil {
		if err := sched.AddReminders(ctx, r, srv.PushStore()); err != nil {
			return err
		}
	}
	if cfg.Backup.Schedule != "" {
		mgr := backup.NewManager(db, backupConfig(cfg), logger.With("component", "backup"))
		if _, err := sched.AddCron(cfg.Backup.Schedule, func() { mgr.Run(ctx) }); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     srv.Router(),
		ReadTimeout: 5 * time.Second,
		// AI routes wait on the model.
		WriteTimeout: cfg.Ollama.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("choreboard running", "addr", cfg.Addr(), "db", cfg.DBPath, "model", gen.Model())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	srv.Hub().Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
