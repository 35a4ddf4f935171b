package models

import (
	"github.com/google/uuid"
)

// NotificationType identifies what a notification is about
type NotificationType string

const (
	NotificationSessionCancelled NotificationType = "SESSION_CANCELLED"
)

// Notification is one record handed to the external notification sink.
// Delivery is best-effort; the engine never waits on it.
type Notification struct {
	RecipientID uuid.UUID         `json:"recipient_id"`
	Type        NotificationType  `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	LeagueID    uuid.UUID         `json:"league_id"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}
