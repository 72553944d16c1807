package domain

import (
	"context"
	"time"
)

type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifySuccess NotificationLevel = "success"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Notification is a user-facing toast emitted as a side effect of an operation.
type Notification struct {
	ID      string            `json:"id"`
	OwnerID string            `json:"owner_id,omitempty"`
	Level   NotificationLevel `json:"level"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	At      time.Time         `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
