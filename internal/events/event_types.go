package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRegistrationStarted   EventType = "registration_started"
	EventRegistrationCompleted EventType = "registration_completed"
	EventCertificatesGenerated EventType = "certificates_generated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EventID   string      `json:"event_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MemberContact carries the per-member data the notification step needs.
type MemberContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// RegistrationStartedPayload payload.
type RegistrationStartedPayload struct {
	RegistrationID string `json:"registration_id"`
	EventName      string `json:"event_name"`
	MemberCount    int    `json:"member_count"`
}

// RegistrationCompletedPayload payload.
type RegistrationCompletedPayload struct {
	RegistrationID string          `json:"registration_id"`
	EventName      string          `json:"event_name"`
	Members        []MemberContact `json:"members"`
}

// CertificatesGeneratedPayload payload.
type CertificatesGeneratedPayload struct {
	Count int `json:"count"`
}
