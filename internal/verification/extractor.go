package verification

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/config"
	"github.com/spec-kit/registration-service/internal/domain"
)

const extractionPrompt = `Extract the 'Name' and 'Date of Birth' (format DD/MM/YYYY) from this ID. Return ONLY JSON: {"extracted_name": "...", "extracted_dob": "..."}`

// ExtractionError is returned when the external document-understanding
// service is unreachable, keeps failing after the retry budget, or returns a
// body that cannot be parsed.
type ExtractionError struct {
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor produces a best-effort structured identity guess from a document
// image.
type Extractor interface {
	ExtractIdentity(ctx context.Context, document []byte, mimeType string) (*domain.ExtractedIdentity, error)
}

// GeminiExtractor calls a generative-language endpoint to read name and date
// of birth off an identity document. Transient failures are retried with
// exponential backoff within a fixed attempt budget; content errors are fatal
// immediately.
type GeminiExtractor struct {
	apiURL      string
	apiKey      string
	client      *http.Client
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(context.Context, time.Duration) error
	logger      *zap.Logger
}

// NewGeminiExtractor builds the extraction client from configuration.
func NewGeminiExtractor(cfg config.ExtractionConfig, logger *zap.Logger) *GeminiExtractor {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &GeminiExtractor{
		apiURL:      cfg.APIURL,
		apiKey:      cfg.APIKey,
		client:      &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		maxAttempts: maxAttempts,
		baseDelay:   cfg.BaseDelay(),
		sleep:       sleepWithContext,
		logger:      logger,
	}
}

// WithSleep replaces the backoff sleeper; tests use this to avoid real delays.
func (g *GeminiExtractor) WithSleep(sleep func(context.Context, time.Duration) error) *GeminiExtractor {
	g.sleep = sleep
	return g
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type extractedFields struct {
	ExtractedName string `json:"extracted_name"`
	ExtractedDOB  string `json:"extracted_dob"`
}

// ExtractIdentity sends the document to the external service and parses the
// returned name and raw date-of-birth string. Age is left nil; callers derive
// it with ComputeAge against their own clock.
func (g *GeminiExtractor) ExtractIdentity(ctx context.Context, document []byte, mimeType string) (*domain.ExtractedIdentity, error) {
	if g.apiURL == "" {
		return nil, &ExtractionError{Message: "extraction API URL not configured"}
	}

	payload := generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: extractionPrompt},
				{InlineData: &inlineData{
					Data:     base64.StdEncoding.EncodeToString(document),
					MimeType: mimeType,
				}},
			},
		}},
		GenerationConfig: generationConfig{Temperature: 0.1},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ExtractionError{Message: "encode extraction request", Err: err}
	}

	raw, err := g.doWithRetry(ctx, body)
	if err != nil {
		return nil, err
	}
	return parseExtractionResponse(raw)
}

func (g *GeminiExtractor) doWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			// 1s, 2s, 4s: base delay doubling per attempt.
			delay := g.baseDelay << (attempt - 1)
			if err := g.sleep(ctx, delay); err != nil {
				return nil, &ExtractionError{Message: "extraction cancelled", Err: err}
			}
		}

		raw, retryable, err := g.doOnce(ctx, body)
		if err == nil {
			return raw, nil
		}
		if !retryable {
			return nil, &ExtractionError{Message: "extraction request rejected", Err: err}
		}
		lastErr = err
		g.logger.Warn("extraction attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", g.maxAttempts),
			zap.Error(err),
		)
	}
	return nil, &ExtractionError{Message: "extraction retries exhausted", Err: lastErr}
}

// doOnce performs a single request. The bool reports whether the failure is
// transient (network error, 429, 5xx) and worth another attempt.
func (g *GeminiExtractor) doOnce(ctx context.Context, body []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("x-goog-api-key", g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("extraction API status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("extraction API status %d", resp.StatusCode)
	}
}

// parseExtractionResponse digs the model text out of the candidate list and
// decodes the two expected fields. The model wraps its JSON in ``` fences
// often enough that they are stripped unconditionally. Parse failures are
// fatal: the content is bad, not the transport, so retrying cannot help.
func parseExtractionResponse(raw []byte) (*domain.ExtractedIdentity, error) {
	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ExtractionError{Message: "decode extraction response", Err: err}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &ExtractionError{Message: "extraction response empty"}
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	var fields extractedFields
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, &ExtractionError{Message: "could not parse identity fields", Err: err}
	}
	if fields.ExtractedName == "" {
		return nil, &ExtractionError{Message: "extraction returned no name"}
	}

	return &domain.ExtractedIdentity{
		Name:   fields.ExtractedName,
		RawDOB: fields.ExtractedDOB,
	}, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
