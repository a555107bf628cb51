package domain

import "time"

type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "SENT"
	NotificationStatusFailed NotificationStatus = "FAILED"
)

type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Type      string
	Status    NotificationStatus
	CreatedAt time.Time
}
