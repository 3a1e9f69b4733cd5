package models

import "time"

// User represents a row in the PostgreSQL users table.
type User struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"` // opaque session token, never serialized
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest is the JSON body for POST /users.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
