package models

import "time"

// Account is a registered user. Username is the unique, case-sensitive key.
type Account struct {
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}
