package models

import (
	"time"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Owner identifies who a gradebook belongs to and which store keeps it.
type Owner struct {
	ID    string
	Guest bool
}

func (o Owner) Kind() string {
	if o.Guest {
		return "guest"
	}
	return "user"
}
