// Package scheduler runs the server's periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/choreboard/internal/metrics"
)

const (
	SessionPurgeInterval = time.Hour
	RateLimitInterval    = 10 * time.Minute
	RecurringInterval    = 15 * time.Minute
	ReminderInterval     = 15 * time.Minute

	// SentRetention is how long sent notification records are kept.
	SentRetention = 30 * 24 * time.Hour
)

// SessionPurger deletes expired sessions.
type SessionPurger interface {
	DeleteExpired() (int64, error)
}

// Sweeper drops stale entries and reports how many.
type Sweeper interface {
	Cleanup() int
}

// ChoreRoller reopens recurring chores whose next cycle has started.
type ChoreRoller interface {
	Run(now time.Time) (int, error)
}

// ReminderSender sends the day's push reminders.
type ReminderSender interface {
	Run(ctx context.Context, now time.Time) (int, error)
}

// SentPruner forgets old sent notification records.
type SentPruner interface {
	DeleteSentBefore(before time.Time) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		logger: logger,
	}
}

// cronLogger adapts slog to cron.Logger. Recovered job panics arrive
// through Error.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}

// Every registers job to run at a fixed interval.
func (s *Scheduler) Every(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval < time.Second {
		return 0, fmt.Errorf("interval must be at least 1s, got %s", interval)
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %s", interval), job)
}

// AddHousekeeping registers the expired-session purge, the rate limiter
// sweep and the recurring chore rollover.
func (s *Scheduler) AddHousekeeping(sessions SessionPurger, limiter Sweeper, roller ChoreRoller) error {
	if _, err := s.Every(SessionPurgeInterval, func() { PurgeSessions(sessions, s.logger) }); err != nil {
		return fmt.Errorf("schedule session purge: %w", err)
	}
	if _, err := s.Every(RateLimitInterval, func() { SweepRateLimiter(limiter, s.logger) }); err != nil {
		return fmt.Errorf("schedule rate limiter sweep: %w", err)
	}
	if _, err := s.Every(RecurringInterval, func() { RollRecurring(roller, s.logger) }); err != nil {
		return fmt.Errorf("schedule recurring chores: %w", err)
	}
	return nil
}

// AddReminders registers the push reminder job and the pruning of its
// sent records.
func (s *Scheduler) AddReminders(ctx context.Context, reminder ReminderSender, sent SentPruner) error {
	if _, err := s.Every(ReminderInterval, func() { SendReminders(ctx, reminder, s.logger) }); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	if _, err := s.Every(SessionPurgeInterval, func() { PruneSent(sent, s.logger) }); err != nil {
		return fmt.Errorf("schedule sent notification cleanup: %w", err)
	}
	return nil
}

// AddCron registers job on a standard five-field cron spec.
func (s *Scheduler) AddCron(spec string, job func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return id, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func PurgeSessions(sessions SessionPurger, logger *slog.Logger) {
	n, err := sessions.DeleteExpired()
	if err != nil {
		logger.Error("purge expired sessions", "error", err)
		return
	}
	metrics.SessionsPurgedTotal.Add(float64(n))
	if n > 0 {
		logger.Info("purged expired sessions", "count", n)
	}
}

func SweepRateLimiter(limiter Sweeper, logger *slog.Logger) {
	if n := limiter.Cleanup(); n > 0 {
		logger.Debug("swept rate limiter", "entries", n)
	}
}

func RollRecurring(roller ChoreRoller, logger *slog.Logger) {
	if _, err := roller.Run(time.Now()); err != nil {
		logger.Error("reopen recurring chores", "error", err)
	}
}

func SendReminders(ctx context.Context, reminder ReminderSender, logger *slog.Logger) {
	n, err := reminder.Run(ctx, time.Now())
	if err != nil {
		logger.Error("send reminders", "error", err)
		return
	}
	if n > 0 {
		logger.Info("sent reminders", "count", n)
	}
}

func PruneSent(sent SentPruner, logger *slog.Logger) {
	n, err := sent.DeleteSentBefore(time.Now().Add(-SentRetention))
	if err != nil {
		logger.Error("prune sent notifications", "error", err)
		return
	}
	if n > 0 {
		logger.Debug("pruned sent notifications", "count", n)
	}
}
