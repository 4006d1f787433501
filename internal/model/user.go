package model

import "time"

const DefaultAvatarColor = "#8B5CF6"

type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PINHash     string    `json:"-"`
	AvatarColor string    `json:"avatarColor"`
	CreatedAt   time.Time `json:"createdAt"`
}
