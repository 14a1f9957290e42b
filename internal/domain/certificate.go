package domain

import "time"

// Certificate is a participation artifact generated for one verified member
// of a completed registration.
type Certificate struct {
	ID              string
	EventID         string
	RegistrationID  string
	ParticipantName string
	FilePath        string
	CreatedAt       time.Time
}
