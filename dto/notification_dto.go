package dto

import "gin-inventory/models"

const NotificationEventCreated = "notification.created"

// NotificationEvent is pushed to websocket subscribers.
type NotificationEvent struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}
