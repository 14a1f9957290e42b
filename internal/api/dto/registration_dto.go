package dto

import (
	"time"

	"github.com/spec-kit/registration-service/internal/domain"
)

// MemberRequest carries one member's claimed details in phase 1.
type MemberRequest struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// StartRegistrationRequest payload for phase 1.
type StartRegistrationRequest struct {
	Type     domain.EventType `json:"type"`
	TeamName string           `json:"teamName"`
	Location string           `json:"location"`
	Members  []MemberRequest  `json:"members"`
}

// StartRegistrationResponse returned on successful phase 1.
type StartRegistrationResponse struct {
	Message        string `json:"message"`
	RegistrationID string `json:"registrationId"`
}

// UploadedDocumentResponse describes one bound document.
type UploadedDocumentResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// MemberResponse describes one member of a registration.
type MemberResponse struct {
	Name         string                     `json:"name"`
	Age          int                        `json:"age"`
	Email        string                     `json:"email"`
	Phone        string                     `json:"phone"`
	UploadedDocs []UploadedDocumentResponse `json:"uploadedDocs"`
}

// RegistrationResponse is the full aggregate view.
type RegistrationResponse struct {
	ID        string                    `json:"id"`
	EventID   string                    `json:"eventId"`
	Type      domain.EventType          `json:"type"`
	TeamName  *string                   `json:"teamName,omitempty"`
	Location  string                    `json:"location"`
	Members   []MemberResponse          `json:"members"`
	Status    domain.RegistrationStatus `json:"status"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// VerifyAndCompleteResponse returned on successful phase 2.
type VerifyAndCompleteResponse struct {
	Message      string               `json:"message"`
	Registration RegistrationResponse `json:"registration"`
}
