package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/choreboard/internal/chore"
	"github.com/dukerupert/choreboard/internal/metrics"
	"github.com/dukerupert/choreboard/internal/model"
)

// DefaultRemindHour is the local hour after which daily reminders go out.
const DefaultRemindHour = 8

type Sender interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload Payload) error
}

type Subscriptions interface {
	ListUserIDs() ([]int64, error)
	ListByUser(userID int64) ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
	MarkSent(kind, refID string) (bool, error)
}

type ChoreLister interface {
	List(f model.ChoreFilter) ([]model.Chore, error)
}

// Reminder sends each subscribed user one notification a day listing their
// chores that are due today or overdue.
type Reminder struct {
	subs   Subscriptions
	chores ChoreLister
	sender Sender
	hour   int
	logger *slog.Logger
}

func NewReminder(subs Subscriptions, chores ChoreLister, sender Sender, hour int, logger *slog.Logger) *Reminder {
	return &Reminder{subs: subs, chores: chores, sender: sender, hour: hour, logger: logger}
}

// Run sends the day's reminders once now is past the reminder hour. It
// returns the number of deliveries that succeeded.
func (r *Reminder) Run(ctx context.Context, now time.Time) (int, error) {
	if now.Hour() < r.hour {
		return 0, nil
	}
	userIDs, err := r.subs.ListUserIDs()
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, uid := range userIDs {
		n, err := r.remind(ctx, uid, now)
		if err != nil {
			r.logger.Error("send chore reminder", "user_id", uid, "error", err)
			continue
		}
		sent += n
	}
	return sent, nil
}

func (r *Reminder) remind(ctx context.Context, userID int64, now time.Time) (int, error) {
	due, err := r.dueChores(userID, now)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	refID := fmt.Sprintf("%d-%s", userID, now.UTC().Format(time.DateOnly))
	first, err := r.subs.MarkSent(model.NotifyChoreDue, refID)
	if err != nil || !first {
		return 0, err
	}

	subs, err := r.subs.ListByUser(userID)
	if err != nil {
		return 0, err
	}
	payload := reminderPayload(due, now)

	sent := 0
	for i := range subs {
		err := r.sender.Send(ctx, &subs[i], payload)
		switch {
		case err == nil:
			sent++
			metrics.PushNotificationsTotal.WithLabelValues("sent").Inc()
		case errors.Is(err, ErrExpired):
			metrics.PushNotificationsTotal.WithLabelValues("expired").Inc()
			if err := r.subs.DeleteByEndpoint(subs[i].Endpoint); err != nil {
				r.logger.Error("delete expired subscription", "error", err)
			}
		default:
			metrics.PushNotificationsTotal.WithLabelValues("error").Inc()
			r.logger.Warn("push delivery failed", "user_id", userID, "error", err)
		}
	}
	return sent, nil
}

func (r *Reminder) dueChores(userID int64, now time.Time) ([]model.Chore, error) {
	open := false
	chores, err := r.chores.List(model.ChoreFilter{AssignedTo: &userID, Completed: &open})
	if err != nil {
		return nil, err
	}
	var due []model.Chore
	for _, c := range chores {
		if c.DueDate == nil {
			continue
		}
		if s := chore.ComputeStatus(c, now); s == chore.StatusOverdue || s == chore.StatusPending {
			due = append(due, c)
		}
	}
	return due, nil
}

func reminderPayload(due []model.Chore, now time.Time) Payload {
	overdue := 0
	for _, c := range due {
		if chore.ComputeStatus(c, now) == chore.StatusOverdue {
			overdue++
		}
	}

	var body string
	switch {
	case len(due) == 1 && overdue == 1:
		body = fmt.Sprintf("Overdue: %s", due[0].Title)
	case len(due) == 1:
		body = fmt.Sprintf("Due today: %s", due[0].Title)
	case overdue > 0:
		body = fmt.Sprintf("%d chores due, %d overdue", len(due), overdue)
	default:
		body = fmt.Sprintf("%d chores due today", len(due))
	}
	return Payload{
		Title: "Chore reminder",
		Body:  body,
		URL:   "/",
		Tag:   "chore-due",
	}
}
