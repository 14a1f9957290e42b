package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/events"
	"github.com/spec-kit/registration-service/internal/messaging"
)

type recordingSender struct {
	sent    map[string]string
	failFor map[string]error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: map[string]string{}, failFor: map[string]error{}}
}

func (s *recordingSender) Send(_ context.Context, number, message string) error {
	if err, ok := s.failFor[number]; ok {
		return err
	}
	s.sent[number] = message
	return nil
}

func completedEvent(eventName string, members ...events.MemberContact) events.Event {
	return events.Event{
		Type:    events.EventRegistrationCompleted,
		Payload: events.RegistrationCompletedPayload{RegistrationID: "reg-1", EventName: eventName, Members: members},
	}
}

func TestNotificationSendsToEveryMember(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := newRecordingSender()
	NewNotificationService(dispatcher, sender, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), completedEvent("City Marathon",
		events.MemberContact{Name: "Raj", Phone: "919876543210"},
		events.MemberContact{Name: "Anita", Phone: "919876500000"},
	))
	assert.NoError(t, err)
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, "Registration successful for City Marathon!", sender.sent["919876543210"])
}

func TestNotificationSkipsMembersWithoutPhone(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := newRecordingSender()
	NewNotificationService(dispatcher, sender, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), completedEvent("City Marathon",
		events.MemberContact{Name: "Raj"},
		events.MemberContact{Name: "Anita", Phone: "919876500000"},
	))
	assert.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestNotificationFailureDoesNotBlockOthers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := newRecordingSender()
	sender.failFor["919876543210"] = messaging.ErrNotReady
	NewNotificationService(dispatcher, sender, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), completedEvent("City Marathon",
		events.MemberContact{Name: "Raj", Phone: "919876543210"},
		events.MemberContact{Name: "Anita", Phone: "919876500000"},
	))
	assert.NoError(t, err)
	assert.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent, "919876500000")
}

func TestNotificationDeliveryErrorIsSwallowed(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := newRecordingSender()
	sender.failFor["919876543210"] = errors.New("gateway status 500")
	NewNotificationService(dispatcher, sender, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), completedEvent("City Marathon",
		events.MemberContact{Name: "Raj", Phone: "919876543210"},
	))
	assert.NoError(t, err)
}
