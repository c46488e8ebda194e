package model

import "time"

// User represents a registered customer of the shop.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
