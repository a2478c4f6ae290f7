package models

import "time"

// Account maps to table `accounts`
type Account struct {
	ID          int64
	Name        string
	Email       string
	Address     string
	PhoneNumber string
	DateJoined  time.Time
}
