package domain

import "time"

// IdentityDocumentName is the document used for automated identity
// verification. It is implicitly required on every event, regardless of the
// event's own required-document flags.
const IdentityDocumentName = "Aadhar Card"

// EventType distinguishes individual and team competitions.
type EventType string

const (
	EventTypeIndividual EventType = "Individual"
	EventTypeTeam       EventType = "Team"
)

// RequiredDocument describes a document participants must upload.
type RequiredDocument struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Event is the aggregate for a sports event.
type Event struct {
	ID            string
	Name          string
	Sport         string
	Date          time.Time
	Location      string
	Fee           float64
	FeeCurrency   string
	EventType     EventType
	TeamSize      int
	RequiredDocs  []RequiredDocument
	PosterPath    *string
	GuidelinePath *string
	OrganizerID   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
