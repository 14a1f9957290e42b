package dto

import "time"

// CertificateResponse is the external view of a certificate record.
type CertificateResponse struct {
	ID              string    `json:"id"`
	EventID         string    `json:"eventId"`
	RegistrationID  string    `json:"registrationId"`
	ParticipantName string    `json:"participantName"`
	FilePath        string    `json:"filePath"`
	CreatedAt       time.Time `json:"createdAt"`
}

// GenerateCertificatesResponse reports how many artifacts were produced.
type GenerateCertificatesResponse struct {
	Message           string `json:"message"`
	TotalCertificates int    `json:"totalCertificates"`
}
