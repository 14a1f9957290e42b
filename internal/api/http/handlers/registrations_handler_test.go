package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/registration-service/internal/service"
)

func TestParseDocumentKey(t *testing.T) {
	key, ok := parseDocumentKey("member0_Aadhar Card")
	assert.True(t, ok)
	assert.Equal(t, service.DocumentKey{MemberIndex: 0, DocumentName: "Aadhar Card"}, key)

	key, ok = parseDocumentKey("member12_Medical Certificate")
	assert.True(t, ok)
	assert.Equal(t, service.DocumentKey{MemberIndex: 12, DocumentName: "Medical Certificate"}, key)

	// Document names keep their own underscores intact.
	key, ok = parseDocumentKey("member3_ID_Proof")
	assert.True(t, ok)
	assert.Equal(t, service.DocumentKey{MemberIndex: 3, DocumentName: "ID_Proof"}, key)
}

func TestParseDocumentKeyRejectsOtherFields(t *testing.T) {
	for _, field := range []string{"registrationId", "member_Aadhar Card", "memberX_doc", "member1_", "poster"} {
		_, ok := parseDocumentKey(field)
		assert.False(t, ok, field)
	}
}
