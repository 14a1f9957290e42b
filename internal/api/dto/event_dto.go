package dto

import (
	"time"

	"github.com/spec-kit/registration-service/internal/domain"
)

// CreateEventRequest payload. Sent as multipart form fields alongside
// optional poster/guideline files; requiredDocs arrives as a JSON string.
type CreateEventRequest struct {
	Name         string  `form:"name"`
	Sport        string  `form:"sport"`
	Date         string  `form:"date"`
	Location     string  `form:"location"`
	Fee          float64 `form:"fee"`
	FeeCurrency  string  `form:"feeCurrency"`
	EventType    string  `form:"eventType"`
	TeamSize     int     `form:"teamSize"`
	RequiredDocs string  `form:"requiredDocs"`
}

// EventResponse is the external view of an event.
type EventResponse struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Sport         string                    `json:"sport"`
	Date          time.Time                 `json:"date"`
	Location      string                    `json:"location"`
	Fee           float64                   `json:"fee"`
	FeeCurrency   string                    `json:"feeCurrency"`
	EventType     domain.EventType          `json:"eventType"`
	TeamSize      int                       `json:"teamSize,omitempty"`
	RequiredDocs  []domain.RequiredDocument `json:"requiredDocs"`
	PosterPath    *string                   `json:"poster,omitempty"`
	GuidelinePath *string                   `json:"guidelineFile,omitempty"`
	OrganizerID   string                    `json:"organizerId"`
	CreatedAt     time.Time                 `json:"createdAt"`
}
