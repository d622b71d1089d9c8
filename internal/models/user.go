package models

import "time"

// User represents a registered account. Email is stored lowercase; the
// PasswordHash is a bcrypt hash and never serialized to JSON.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"_id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	DisplayName  string    `bson:"displayName" json:"displayName"`
	Roles        []string  `bson:"roles,omitempty" json:"roles,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicName is what other users see in listings and request queues.
func (u *User) PublicName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
