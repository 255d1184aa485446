package notification

import (
	"time"

	"github.com/carson-networks/banking-view/internal/view"
)

// Notification is the API response model for a user notification.
type Notification struct {
	Seq     uint64 `json:"seq" doc:"Increases monotonically within a session"`
	Level   string `json:"level" doc:"error or success"`
	Title   string `json:"title" doc:"Short title"`
	Message string `json:"message" doc:"Message for the user"`
	At      string `json:"at" doc:"RFC3339 time the notification was raised"`
}

// NotificationsResponseBody is the response body of both notification endpoints.
type NotificationsResponseBody struct {
	Notifications []Notification `json:"notifications" doc:"Pending notifications, oldest first"`
}

// NotificationsOutput is the Huma output of both notification endpoints.
type NotificationsOutput struct {
	Body NotificationsResponseBody
}

func toOutput(notifications []view.Notification) *NotificationsOutput {
	resp := NotificationsResponseBody{
		Notifications: make([]Notification, len(notifications)),
	}
	for i, n := range notifications {
		resp.Notifications[i] = Notification{
			Seq:     n.Seq,
			Level:   string(n.Level),
			Title:   n.Title,
			Message: n.Message,
			At:      n.At.Format(time.RFC3339),
		}
	}
	return &NotificationsOutput{Body: resp}
}
