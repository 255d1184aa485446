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

// notificationDrainer is the interface for draining notifications.
type notificationDrainer interface {
	DrainNotifications(ctx context.Context, userID uuid.UUID) ([]view.Notification, error)
}

// DrainNotificationsHandler handles POST /v1/notifications/drain.
type DrainNotificationsHandler struct {
	View notificationDrainer
}

// NewDrainNotificationsHandler creates a new DrainNotificationsHandler.
func NewDrainNotificationsHandler(v notificationDrainer) *DrainNotificationsHandler {
	return &DrainNotificationsHandler{View: v}
}

// Register registers the drain endpoint with the Huma API.
func (h *DrainNotificationsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "drain-notifications",
		Method:      http.MethodPost,
		Path:        "/v1/notifications/drain",
		Summary:     "Drain notifications",
		Description: "Returns the pending notifications and dismisses them. Each notification is returned by exactly one drain.",
		Tags:        []string{"Notifications"},
	}, h.handle)
}

func (h *DrainNotificationsHandler) handle(ctx context.Context, _ *struct{}) (*NotificationsOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apierr.UserID(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := h.View.DrainNotifications(ctx, userID)
	if err != nil {
		return nil, apierr.FromView("failed to drain notifications", err)
	}

	if logData != nil {
		logData.AddData("notificationCount", len(notifications))
	}
	return toOutput(notifications), nil
}
