package model

import "time"

// NotifyChoreDue is the daily reminder of a user's due and overdue chores.
const NotifyChoreDue = "chore_due"

type PushSubscription struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"-"`
	AuthKey    string    `json:"-"`
	DeviceName string    `json:"deviceName"`
	CreatedAt  time.Time `json:"createdAt"`
}
