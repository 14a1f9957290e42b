package verification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/domain"
)

const cacheKeyPrefix = "extraction:"

// CachedExtractor wraps an Extractor with a best-effort Redis cache keyed by
// document content digest, so a retried phase-2 attempt with unchanged
// documents does not hit the external service again. Cache failures degrade
// to a normal extraction call.
type CachedExtractor struct {
	inner  Extractor
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedExtractor decorates the given extractor. A nil client disables
// caching entirely.
func NewCachedExtractor(inner Extractor, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedExtractor {
	return &CachedExtractor{inner: inner, client: client, ttl: ttl, logger: logger}
}

type cachedIdentity struct {
	Name   string `json:"name"`
	RawDOB string `json:"raw_dob"`
}

// ExtractIdentity serves from cache when possible, delegating misses to the
// wrapped extractor. Only the extracted fields are cached, never the age: age
// depends on the clock at evaluation time.
func (c *CachedExtractor) ExtractIdentity(ctx context.Context, document []byte, mimeType string) (*domain.ExtractedIdentity, error) {
	if c.client == nil {
		return c.inner.ExtractIdentity(ctx, document, mimeType)
	}

	key := cacheKey(document)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached cachedIdentity
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &domain.ExtractedIdentity{Name: cached.Name, RawDOB: cached.RawDOB}, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("extraction cache read failed", zap.Error(err))
	}

	extracted, err := c.inner.ExtractIdentity(ctx, document, mimeType)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(cachedIdentity{Name: extracted.Name, RawDOB: extracted.RawDOB})
	if err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("extraction cache write failed", zap.Error(err))
		}
	}
	return extracted, nil
}

func cacheKey(document []byte) string {
	sum := sha256.Sum256(document)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
