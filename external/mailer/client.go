// Package mailer is the HTTP client for the transactional email relay that
// delivers gazette issues.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/blingaleague/companion/internal/platform/logging"
	"github.com/blingaleague/companion/internal/platform/resilience"
)

type Config struct {
	Endpoint string
	Token    string
	From     string
	Circuit  resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	from       string
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Circuit.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(cfg.Circuit)
		breaker = resilience.NewCircuitBreaker(
			normalized.FailureThreshold,
			normalized.OpenTimeout,
			normalized.HalfOpenMaxReq,
		)
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		from:       cfg.From,
		breaker:    breaker,
		logger:     logger,
	}
}

type sendRequest struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	HTMLBody string   `json:"html_body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Send delivers one message through the relay. Recipient addresses travel
// in the payload; the relay handles per-recipient fan-out.
func (c *Client) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return errors.New("mailer: no recipients")
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return errors.Wrap(err, "mailer")
		}
	}

	err := c.send(ctx, to, subject, htmlBody)
	if c.breaker != nil {
		if err != nil {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return err
}

func (c *Client) send(ctx context.Context, to []string, subject, htmlBody string) error {
	payload, err := sonic.Marshal(sendRequest{
		From:     c.from,
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
	if err != nil {
		return errors.Wrap(err, "mailer: encode payload")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf.B))
	if err != nil {
		return errors.Wrap(err, "mailer: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "mailer: send request")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var parsed sendResponse
		if decodeErr := sonic.Unmarshal(body, &parsed); decodeErr == nil && parsed.Error != "" {
			return errors.Newf("mailer: relay returned %d: %s", resp.StatusCode, parsed.Error)
		}
		return errors.Newf("mailer: relay returned %d", resp.StatusCode)
	}

	var parsed sendResponse
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return errors.Wrap(err, "mailer: read response")
	}
	if err := sonic.Unmarshal(body, &parsed); err == nil && parsed.MessageID != "" {
		c.logger.InfoContext(ctx, "mail accepted by relay",
			"message_id", parsed.MessageID,
			"recipients", len(to),
		)
	}

	return nil
}

// Disabled is the mailer used when delivery is switched off; every send
// fails loudly instead of silently dropping an issue.
type Disabled struct{}

func (Disabled) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	return fmt.Errorf("mailer is disabled")
}
