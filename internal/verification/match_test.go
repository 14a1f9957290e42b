package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/registration-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestEvaluateMatchNameContainment(t *testing.T) {
	// Partial names match in either direction.
	result := EvaluateMatch("Raj Kumar", 30, domain.ExtractedIdentity{Name: "Raj", Age: intPtr(30)})
	assert.True(t, result.OK())

	result = EvaluateMatch("Raj", 30, domain.ExtractedIdentity{Name: "Raj Kumar", Age: intPtr(30)})
	assert.True(t, result.OK())

	result = EvaluateMatch("RAJ KUMAR", 30, domain.ExtractedIdentity{Name: "raj kumar", Age: intPtr(30)})
	assert.True(t, result.OK())
}

func TestEvaluateMatchNameMismatch(t *testing.T) {
	result := EvaluateMatch("Amit", 30, domain.ExtractedIdentity{Name: "Sunil", Age: intPtr(30)})
	assert.False(t, result.OK())
	assert.False(t, result.NameOK)
	assert.Contains(t, result.Reason, "Name mismatch for Amit")
}

func TestEvaluateMatchEmptyNamesNeverMatch(t *testing.T) {
	result := EvaluateMatch("Amit", 30, domain.ExtractedIdentity{Name: "", Age: intPtr(30)})
	assert.False(t, result.NameOK)

	result = EvaluateMatch("", 30, domain.ExtractedIdentity{Name: "Amit", Age: intPtr(30)})
	assert.False(t, result.NameOK)
}

func TestEvaluateMatchAgeExactEquality(t *testing.T) {
	result := EvaluateMatch("Anita Sharma", 25, domain.ExtractedIdentity{Name: "Anita Sharma", Age: intPtr(26)})
	assert.False(t, result.OK())
	assert.True(t, result.NameOK)
	assert.False(t, result.AgeOK)
	assert.Contains(t, result.Reason, "Age mismatch for Anita Sharma")
	assert.Contains(t, result.Reason, "claimed 25")
	assert.Contains(t, result.Reason, "shows 26")
}

func TestEvaluateMatchNilExtractedAge(t *testing.T) {
	result := EvaluateMatch("Anita Sharma", 25, domain.ExtractedIdentity{Name: "Anita Sharma", RawDOB: "??/??/????"})
	assert.False(t, result.OK())
	assert.False(t, result.AgeOK)
	assert.Contains(t, result.Reason, "Age mismatch for Anita Sharma")
	assert.Contains(t, result.Reason, "could not be read")
}
