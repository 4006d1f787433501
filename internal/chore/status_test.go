package chore

import (
	"testing"
	"time"

	"github.com/dukerupert/choreboard/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(t time.Time) *time.Time { return &t }

func TestComputeStatus(t *testing.T) {
	now := time.Date(2026, 2, 5, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		name  string
		chore model.Chore
		want  Status
	}{
		{"completed", model.Chore{Completed: true, DueDate: at(day(2026, 1, 1))}, StatusCompleted},
		{"no due date", model.Chore{}, StatusPending},
		{"due today", model.Chore{DueDate: at(day(2026, 2, 5))}, StatusPending},
		{"due yesterday", model.Chore{DueDate: at(day(2026, 2, 4))}, StatusOverdue},
		{"due tomorrow", model.Chore{DueDate: at(day(2026, 2, 6))}, StatusUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStatus(tt.chore, now); got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextDueIgnoresOneOffAndOpen(t *testing.T) {
	cases := []model.Chore{
		{Completed: true},
		{IsRecurring: true, RecurrencePattern: "daily"},
		{Completed: true, IsRecurring: true, RecurrencePattern: "fortnightly"},
	}
	for _, c := range cases {
		if _, ok := NextDue(c); ok {
			t.Errorf("NextDue(%+v) ok = true, want false", c)
		}
	}
}

func TestNextDue(t *testing.T) {
	tests := []struct {
		name  string
		chore model.Chore
		want  time.Time
	}{
		{
			name: "weekly finished on time",
			chore: model.Chore{
				Completed: true, IsRecurring: true, RecurrencePattern: "weekly",
				DueDate: at(day(2026, 3, 2)), CompletedAt: at(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)),
			},
			want: day(2026, 3, 9),
		},
		{
			name: "weekly finished early",
			chore: model.Chore{
				Completed: true, IsRecurring: true, RecurrencePattern: "weekly",
				DueDate: at(day(2026, 3, 9)), CompletedAt: at(day(2026, 3, 7)),
			},
			want: day(2026, 3, 16),
		},
		{
			name: "weekly finished late",
			chore: model.Chore{
				Completed: true, IsRecurring: true, RecurrencePattern: "weekly",
				DueDate: at(day(2026, 3, 2)), CompletedAt: at(day(2026, 3, 11)),
			},
			want: day(2026, 3, 16),
		},
		{
			name: "daily without due date",
			chore: model.Chore{
				Completed: true, IsRecurring: true, RecurrencePattern: "daily",
				CompletedAt: at(time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)),
			},
			want: day(2026, 3, 3),
		},
		{
			name: "monthly",
			chore: model.Chore{
				Completed: true, IsRecurring: true, RecurrencePattern: "Monthly",
				DueDate: at(day(2026, 1, 31)), CompletedAt: at(day(2026, 1, 31)),
			},
			want: day(2026, 2, 28),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextDue(tt.chore)
			if !ok {
				t.Fatal("ok = false, want true")
			}
			if !got.Equal(tt.want) {
				t.Errorf("next = %s, want %s", got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
			}
		})
	}
}

func TestShouldReopen(t *testing.T) {
	c := model.Chore{
		Completed: true, IsRecurring: true, RecurrencePattern: "weekly",
		DueDate: at(day(2026, 3, 2)), CompletedAt: at(day(2026, 3, 2)),
	}

	if _, ok := ShouldReopen(c, time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)); ok {
		t.Error("reopened before the next cycle")
	}
	due, ok := ShouldReopen(c, time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC))
	if !ok {
		t.Fatal("not reopened on the next due date")
	}
	if !due.Equal(day(2026, 3, 9)) {
		t.Errorf("due = %s, want 2026-03-09", due.Format(time.DateOnly))
	}
}
