package verification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/domain"
)

type stubExtractor struct {
	identity domain.ExtractedIdentity
	calls    int
}

func (s *stubExtractor) ExtractIdentity(_ context.Context, _ []byte, _ string) (*domain.ExtractedIdentity, error) {
	s.calls++
	copied := s.identity
	return &copied, nil
}

func TestCachedExtractorNilClientDelegates(t *testing.T) {
	inner := &stubExtractor{identity: domain.ExtractedIdentity{Name: "Raj Kumar", RawDOB: "15/08/1990"}}
	cached := NewCachedExtractor(inner, nil, 0, zap.NewNop())

	identity, err := cached.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Raj Kumar", identity.Name)
	assert.Equal(t, 1, inner.calls)

	_, err = cached.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCacheKeyDependsOnContentOnly(t *testing.T) {
	assert.Equal(t, cacheKey([]byte("doc")), cacheKey([]byte("doc")))
	assert.NotEqual(t, cacheKey([]byte("doc")), cacheKey([]byte("other")))
}
