package notification

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/banking-view/internal/handlers/v1/apierr"
	"github.com/carson-networks/banking-view/internal/logging"
	"github.com/carson-networks/banking-view/internal/view"
)

// notificationReader is the interface for reading pending notifications.
type notificationReader interface {
	PendingNotifications(ctx context.Context, userID uuid.UUID) ([]view.Notification, error)
}

// ListNotificationsHandler handles GET /v1/notifications.
type ListNotificationsHandler struct {
	View notificationReader
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(v notificationReader) *ListNotificationsHandler {
	return &ListNotificationsHandler{View: v}
}

// Register registers the notifications endpoint with the Huma API.
func (h *ListNotificationsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the pending notifications. They stay pending until drained.",
		Tags:        []string{"Notifications"},
	}, h.handle)
}

func (h *ListNotificationsHandler) handle(ctx context.Context, _ *struct{}) (*NotificationsOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apierr.UserID(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := h.View.PendingNotifications(ctx, userID)
	if err != nil {
		return nil, apierr.FromView("failed to read notifications", err)
	}

	if logData != nil {
		logData.AddData("notificationCount", len(notifications))
	}
	return toOutput(notifications), nil
}
