package domain

import "time"

type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
}
