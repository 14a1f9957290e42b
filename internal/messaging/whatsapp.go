package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/config"
)

// ErrNotReady is returned when the gateway session has not been established.
// It is distinct from a delivery failure: the message was never attempted.
var ErrNotReady = errors.New("whatsapp gateway session not ready")

// Session tracks gateway connection state explicitly, replacing any notion of
// a global ready flag.
type Session struct {
	mu    sync.RWMutex
	ready bool
}

func (s *Session) setReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// Ready reports whether the gateway session is usable.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Client sends WhatsApp messages through an HTTP gateway. Delivery is
// best-effort by contract; callers log failures and move on.
type Client struct {
	gatewayURL    string
	authToken     string
	countryPrefix string
	http          *http.Client
	session       *Session
	logger        *zap.Logger
}

// NewClient builds the gateway client. The session starts not-ready until
// Connect succeeds.
func NewClient(cfg config.MessagingConfig, logger *zap.Logger) *Client {
	return &Client{
		gatewayURL:    cfg.GatewayURL,
		authToken:     cfg.AuthToken,
		countryPrefix: cfg.CountryPrefix,
		http:          &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		session:       &Session{},
		logger:        logger,
	}
}

// Connect probes the gateway status endpoint and marks the session ready.
// Failure leaves the session not-ready; sends will return ErrNotReady until a
// later Connect succeeds.
func (c *Client) Connect(ctx context.Context) error {
	if c.gatewayURL == "" {
		c.logger.Warn("whatsapp gateway URL not configured; notifications disabled")
		return ErrNotReady
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+"/status", nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.session.setReady(false)
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.session.setReady(false)
		return fmt.Errorf("gateway status %d", resp.StatusCode)
	}

	c.session.setReady(true)
	c.logger.Info("whatsapp gateway session established")
	return nil
}

// Ready reports whether messages can currently be sent.
func (c *Client) Ready() bool {
	return c.session.Ready()
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send delivers one message. Numbers entered as bare national digits are
// prefixed with the configured country code.
func (c *Client) Send(ctx context.Context, number, message string) error {
	if !c.session.Ready() {
		return ErrNotReady
	}

	body, err := json.Marshal(sendRequest{To: c.normalize(number), Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send to %s: %w", number, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send to %s: gateway status %d", number, resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

func (c *Client) normalize(number string) string {
	number = strings.TrimSpace(number)
	number = strings.TrimPrefix(number, "+")
	if c.countryPrefix != "" && !strings.HasPrefix(number, c.countryPrefix) {
		number = c.countryPrefix + number
	}
	return number
}
