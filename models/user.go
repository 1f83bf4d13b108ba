package models

import "time"

// User is an account that can act as guest, host or admin.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	IsAdmin      bool      `bson:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Actor is the authenticated identity attached to a request by the
// auth middleware.
type Actor struct {
	ID      string
	Email   string
	IsAdmin bool
}
