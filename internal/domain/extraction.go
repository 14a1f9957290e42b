package domain

// ExtractedIdentity is the transient result of running a document through the
// external extraction service. Age is nil when the raw DOB text could not be
// normalized; callers must treat that as "cannot verify".
type ExtractedIdentity struct {
	Name   string
	RawDOB string
	Age    *int
}
