// Package chore computes due-date status for chores and rolls completed
// recurring chores into their next cycle.
package chore

import (
	"time"

	"github.com/dukerupert/choreboard/internal/model"
	"github.com/dukerupert/choreboard/internal/recurrence"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusUpcoming  Status = "upcoming"
)

// ComputeStatus classifies c against the UTC day containing now. Open chores
// without a due date, or due today, are pending.
func ComputeStatus(c model.Chore, now time.Time) Status {
	if c.Completed {
		return StatusCompleted
	}
	if c.DueDate == nil {
		return StatusPending
	}
	today := startOfDay(now)
	due := startOfDay(*c.DueDate)
	switch {
	case due.Before(today):
		return StatusOverdue
	case due.After(today):
		return StatusUpcoming
	}
	return StatusPending
}

// NextDue returns the due date of the cycle after the one c was completed
// for. ok is false when c is open, does not repeat, or has an unknown
// pattern.
func NextDue(c model.Chore) (next time.Time, ok bool) {
	if !c.Completed || !c.IsRecurring {
		return time.Time{}, false
	}
	p, err := recurrence.Parse(c.RecurrencePattern)
	if err != nil {
		return time.Time{}, false
	}

	doneAt := c.UpdatedAt
	if c.CompletedAt != nil {
		doneAt = *c.CompletedAt
	}
	anchor := startOfDay(doneAt)
	if c.DueDate != nil {
		anchor = startOfDay(*c.DueDate)
	}

	// Finishing early still counts for the current cycle.
	after := anchor
	if doneDay := startOfDay(doneAt); doneDay.After(after) {
		after = doneDay
	}
	return p.NextAfter(anchor, after), true
}

// ShouldReopen reports whether the next cycle of a completed recurring
// chore has begun, and its due date.
func ShouldReopen(c model.Chore, now time.Time) (time.Time, bool) {
	next, ok := NextDue(c)
	if !ok {
		return time.Time{}, false
	}
	return next, !startOfDay(now).Before(next)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
