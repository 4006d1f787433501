package model

import "time"

// Session is a signed-in device. Token is the plaintext cookie value and is
// only known when the session is created or looked up by token.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
