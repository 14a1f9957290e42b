package verification

import (
	"fmt"
	"strings"

	"github.com/spec-kit/registration-service/internal/domain"
)

// MatchResult reports how a member's claimed details compare to the values
// extracted from their identity document.
type MatchResult struct {
	NameOK bool
	AgeOK  bool
	Reason string
}

// OK reports whether both checks passed.
func (r MatchResult) OK() bool {
	return r.NameOK && r.AgeOK
}

// EvaluateMatch compares claimed name/age against an extracted identity. The
// name rule is case-insensitive substring containment in either direction,
// deliberately tolerant of partial names, honorifics and OCR noise. The age
// rule is exact equality; a nil extracted age never matches. Reason names the
// member and the expected vs. actual value, suitable for surfacing to the
// caller.
func EvaluateMatch(claimedName string, claimedAge int, extracted domain.ExtractedIdentity) MatchResult {
	result := MatchResult{}

	claimed := strings.ToLower(strings.TrimSpace(claimedName))
	found := strings.ToLower(strings.TrimSpace(extracted.Name))
	result.NameOK = claimed != "" && found != "" &&
		(strings.Contains(claimed, found) || strings.Contains(found, claimed))

	if extracted.Age != nil {
		result.AgeOK = claimedAge == *extracted.Age
	}

	if !result.NameOK {
		result.Reason = fmt.Sprintf("Name mismatch for %s: claimed %q, document shows %q",
			claimedName, claimedName, extracted.Name)
		return result
	}
	if !result.AgeOK {
		if extracted.Age == nil {
			result.Reason = fmt.Sprintf("Age mismatch for %s: claimed %d, document date of birth %q could not be read",
				claimedName, claimedAge, extracted.RawDOB)
		} else {
			result.Reason = fmt.Sprintf("Age mismatch for %s: claimed %d, document shows %d",
				claimedName, claimedAge, *extracted.Age)
		}
	}
	return result
}
