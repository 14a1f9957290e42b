package domain

import "time"

// RegistrationStatus enumerates lifecycle states for registrations. The
// transition is monotonic: details_submitted -> complete, nothing else.
type RegistrationStatus string

const (
	RegistrationStatusDetailsSubmitted RegistrationStatus = "details_submitted"
	RegistrationStatusComplete         RegistrationStatus = "complete"
)

// UploadedDocument records a file bound to a member during phase 2.
type UploadedDocument struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Member holds the claimed details captured in phase 1 plus the documents
// bound in phase 2. Member order within a registration is stable; the index
// is the addressing key for document binding.
type Member struct {
	Name         string             `json:"name"`
	Age          int                `json:"age"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	UploadedDocs []UploadedDocument `json:"uploaded_docs"`
}

// Registration is the aggregate for one registration attempt. It is always
// read, mutated in memory and saved back whole; no partial-field updates
// exist, which is what keeps a failed verification from leaving a
// half-verified record behind.
type Registration struct {
	ID        string
	EventID   string
	Type      EventType
	TeamName  *string
	Location  string
	Members   []Member
	Status    RegistrationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsComplete reports whether verification has already succeeded.
func (r *Registration) IsComplete() bool {
	return r.Status == RegistrationStatusComplete
}
