package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/heardesk/complaint-service/internal/events"
)

// NotificationService logs complaint lifecycle events as they happen. It
// stands in for outbound channels (email, toasts) the deployment may add.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to complaint events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllComplaintEvents() {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	n.logger.Info("complaint event",
		zap.String("type", string(event.Type)),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("owner_id", event.OwnerID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
	)
	return nil
}
