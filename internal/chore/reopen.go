package chore

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/model"
)

// Store is the chore persistence the reopener needs.
type Store interface {
	ListCompletedRecurring() ([]model.Chore, error)
	ListIncomplete() ([]model.Chore, error)
	Reopen(id int64, due time.Time) error
}

// Reopener moves completed recurring chores into their next cycle.
type Reopener struct {
	store  Store
	logger *slog.Logger
	notify func(ids []int64)
}

// NewReopener creates a Reopener. notify, if non-nil, receives the ids of
// chores reopened by each run.
func NewReopener(store Store, logger *slog.Logger, notify func(ids []int64)) *Reopener {
	return &Reopener{store: store, logger: logger, notify: notify}
}

// Run reopens every recurring chore whose next cycle has started by now
// and refreshes the overdue gauge. It returns how many were reopened.
func (r *Reopener) Run(now time.Time) (int, error) {
	done, err := r.store.ListCompletedRecurring()
	if err != nil {
		return 0, fmt.Errorf("list completed recurring chores: %w", err)
	}

	var ids []int64
	for _, c := range done {
		due, ok := ShouldReopen(c, now)
		if !ok {
			continue
		}
		if err := r.store.Reopen(c.ID, due); err != nil {
			return len(ids), err
		}
		r.logger.Info("recurring chore reopened", "chore_id", c.ID, "due", due.Format(time.DateOnly))
		ids = append(ids, c.ID)
	}
	metrics.RecurringReopenedTotal.Add(float64(len(ids)))

	if len(ids) > 0 && r.notify != nil {
		r.notify(ids)
	}

	if err := r.refreshOverdue(now); err != nil {
		return len(ids), err
	}
	return len(ids), nil
}

func (r *Reopener) refreshOverdue(now time.Time) error {
	open, err := r.store.ListIncomplete()
	if err != nil {
		return fmt.Errorf("list incomplete chores: %w", err)
	}
	overdue := 0
	for _, c := range open {
		if ComputeStatus(c, now) == StatusOverdue {
			overdue++
		}
	}
	metrics.ChoresOverdue.Set(float64(overdue))
	return nil
}
