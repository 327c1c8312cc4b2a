package entity

import "time"

type PushToken struct {
	Token     string    `json:"token"`
	UID       string    `json:"uid"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
