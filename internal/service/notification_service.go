package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/events"
	"github.com/spec-kit/registration-service/internal/messaging"
)

// MessageSender delivers one message to one phone number.
type MessageSender interface {
	Send(ctx context.Context, number, message string) error
}

// NotificationService sends completion notices for registration events.
// Delivery is best-effort: a failure for one member is logged and affects
// neither other members' attempts nor the registration outcome.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     MessageSender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender MessageSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRegistrationCompleted, n.handleRegistrationCompleted)
}

func (n *NotificationService) handleRegistrationCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RegistrationCompletedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for registration_completed event")
		return nil
	}

	message := fmt.Sprintf("Registration successful for %s!", payload.EventName)
	for _, member := range payload.Members {
		if member.Phone == "" {
			continue
		}
		if err := n.sender.Send(ctx, member.Phone, message); err != nil {
			if errors.Is(err, messaging.ErrNotReady) {
				n.logger.Warn("notification skipped, gateway session not ready",
					zap.String("member", member.Name))
			} else {
				n.logger.Warn("notification delivery failed",
					zap.String("member", member.Name),
					zap.Error(err))
			}
			continue
		}
		n.logger.Info("notification delivered",
			zap.String("member", member.Name),
			zap.String("registration_id", payload.RegistrationID))
	}
	return nil
}
