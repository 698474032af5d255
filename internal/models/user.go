package models

import (
	"time"
)

// User is the narrow view of a user this service needs. Authentication is
// out of scope; callers arrive with a verified identity.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Avatar    string    `json:"avatar,omitempty" db:"avatar"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
