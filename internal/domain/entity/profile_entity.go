package entity

import "time"

// UserProfile is keyed by the identity provider's uid.
type UserProfile struct {
	UID             string    `json:"uid"`
	PhoneNumber     string    `json:"phoneNumber"`
	DisplayName     string    `json:"displayName"`
	Age             int       `json:"age,omitempty"`
	PhotoURL        string    `json:"photoURL,omitempty"`
	ProfileComplete bool      `json:"profileComplete"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
