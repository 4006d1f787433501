package chore

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/model"
)

type fakeStore struct {
	completed []model.Chore
	open      []model.Chore
	reopened  map[int64]time.Time
	failOn    int64
}

func (f *fakeStore) ListCompletedRecurring() ([]model.Chore, error) { return f.completed, nil }

func (f *fakeStore) ListIncomplete() ([]model.Chore, error) { return f.open, nil }

func (f *fakeStore) Reopen(id int64, due time.Time) error {
	if id == f.failOn {
		return errors.New("database is locked")
	}
	if f.reopened == nil {
		f.reopened = make(map[int64]time.Time)
	}
	f.reopened[id] = due
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReopenerRun(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &fakeStore{
		completed: []model.Chore{
			{ID: 1, Completed: true, IsRecurring: true, RecurrencePattern: "daily", DueDate: at(day(2026, 3, 9)), CompletedAt: at(day(2026, 3, 9))},
			{ID: 2, Completed: true, IsRecurring: true, RecurrencePattern: "weekly", DueDate: at(day(2026, 3, 9)), CompletedAt: at(day(2026, 3, 9))},
		},
		open: []model.Chore{
			{ID: 3, DueDate: at(day(2026, 3, 1))},
			{ID: 4, DueDate: at(day(2026, 3, 20))},
			{ID: 5},
		},
	}

	var notified []int64
	r := NewReopener(store, discardLogger(), func(ids []int64) { notified = ids })

	before := testutil.ToFloat64(metrics.RecurringReopenedTotal)
	n, err := r.Run(now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 {
		t.Errorf("reopened = %d, want 1", n)
	}
	if due, ok := store.reopened[1]; !ok || !due.Equal(day(2026, 3, 10)) {
		t.Errorf("daily chore reopened with due %v, want 2026-03-10", due)
	}
	if _, ok := store.reopened[2]; ok {
		t.Error("weekly chore reopened too early")
	}
	if len(notified) != 1 || notified[0] != 1 {
		t.Errorf("notified = %v, want [1]", notified)
	}
	if got := testutil.ToFloat64(metrics.RecurringReopenedTotal) - before; got != 1 {
		t.Errorf("reopened metric grew by %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.ChoresOverdue); got != 1 {
		t.Errorf("overdue gauge = %v, want 1", got)
	}
}

func TestReopenerStopsOnStoreError(t *testing.T) {
	store := &fakeStore{
		completed: []model.Chore{
			{ID: 7, Completed: true, IsRecurring: true, RecurrencePattern: "daily", DueDate: at(day(2026, 3, 1)), CompletedAt: at(day(2026, 3, 1))},
		},
		failOn: 7,
	}
	called := false
	r := NewReopener(store, discardLogger(), func([]int64) { called = true })

	if _, err := r.Run(day(2026, 3, 5)); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("notify called after a failed reopen")
	}
}
