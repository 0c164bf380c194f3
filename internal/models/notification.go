package models

import "time"

// NotificationKind classifies an in-app notification
type NotificationKind string

const (
	NotifySuccess  NotificationKind = "success"
	NotifyReminder NotificationKind = "reminder"
)

// Notification is a transient in-app alert. It is never persisted: it lives
// in the notification center until it expires or the user dismisses it.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"createdAt"`
}
