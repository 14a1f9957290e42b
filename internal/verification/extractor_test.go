package verification

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/config"
)

func newTestExtractor(t *testing.T, url string) (*GeminiExtractor, *[]time.Duration) {
	t.Helper()
	cfg := config.ExtractionConfig{
		APIURL:          url,
		APIKey:          "test-key",
		MaxAttempts:     3,
		BaseDelayMillis: 1000,
		TimeoutSeconds:  5,
	}
	delays := &[]time.Duration{}
	extractor := NewGeminiExtractor(cfg, zap.NewNop()).WithSleep(func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	})
	return extractor, delays
}

func candidateBody(text string) string {
	payload := fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
	return payload
}

func TestExtractIdentitySuccessWithFences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		fmt.Fprint(w, candidateBody("```json\n{\"extracted_name\": \"Raj Kumar\", \"extracted_dob\": \"15/08/1990\"}\n```"))
	}))
	defer server.Close()

	extractor, _ := newTestExtractor(t, server.URL)
	identity, err := extractor.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Raj Kumar", identity.Name)
	assert.Equal(t, "15/08/1990", identity.RawDOB)
	assert.Nil(t, identity.Age)
}

func TestExtractIdentityRetriesExhausted(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	extractor, delays := newTestExtractor(t, server.URL)
	_, err := extractor.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
}

func TestExtractIdentityTransientThenSuccess(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, candidateBody(`{"extracted_name": "Anita", "extracted_dob": "01/01/2000"}`))
	}))
	defer server.Close()

	extractor, delays := newTestExtractor(t, server.URL)
	identity, err := extractor.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Anita", identity.Name)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{time.Second}, *delays)
}

func TestExtractIdentityClientErrorIsFatal(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	extractor, delays := newTestExtractor(t, server.URL)
	_, err := extractor.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *delays)
}

func TestExtractIdentityUnparseableContentIsFatal(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, candidateBody("I could not read this document."))
	}))
	defer server.Close()

	extractor, _ := newTestExtractor(t, server.URL)
	_, err := extractor.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}

func TestExtractIdentityMissingNameIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateBody(`{"extracted_name": "", "extracted_dob": "15/08/1990"}`))
	}))
	defer server.Close()

	extractor, _ := newTestExtractor(t, server.URL)
	_, err := extractor.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.Error(t, err)
}

func TestExtractIdentityNoURLConfigured(t *testing.T) {
	extractor := NewGeminiExtractor(config.ExtractionConfig{}, zap.NewNop())
	_, err := extractor.ExtractIdentity(context.Background(), []byte("doc"), "image/jpeg")
	require.Error(t, err)
}
