// Package fraudengine delivers outbox events to the fraud analysis
// service over HTTP. The event id travels in the X-Event-Id header as the
// consumer's idempotency key; the payload is forwarded verbatim.
package fraudengine

import (
	"context"
	"log/slog"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/apiclient"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
)

// Upstream is the id this client reports to the resilience executor.
const Upstream = "FraudEngineApi"

const analyzePath = "/api/fraud/analyze"

// Client calls the fraud engine.
type Client struct {
	api    *apiclient.Client
	logger *slog.Logger
}

// New creates a fraud engine client.
func New(baseURL string, exec *resilience.Executor, logger *slog.Logger) *Client {
	return &Client{
		api:    apiclient.New(Upstream, baseURL, exec, logger),
		logger: logger.With("client", Upstream),
	}
}

// SendEvent submits one event payload for analysis. The returned error is
// classified; circuit-open rejections surface as such so the caller can
// avoid charging a delivery attempt.
func (c *Client) SendEvent(ctx context.Context, eventID string, payload []byte) error {
	err := c.api.Post(ctx, analyzePath, payload, map[string]string{"X-Event-Id": eventID})
	if err != nil {
		c.logger.Warn("event delivery failed", "event_id", eventID, "error", err)
		return err
	}

	c.logger.Debug("event delivered", "event_id", eventID)
	return nil
}
