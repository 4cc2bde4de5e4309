package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/logger"
	"github.com/vzlrn/cardcasebot/internal/metrics"
)

// ActionClaim is the only payload action the delivery side honors.
const ActionClaim = "claim"

// Payload is the structured claim message handed to the external channel.
type Payload struct {
	Action string           `json:"action"`
	CardID string           `json:"cardId"`
	Title  string           `json:"title"`
	Rarity string           `json:"rarity"`
	Image  string           `json:"image"`
	User   *domain.ChatUser `json:"user"`
}

// NewClaim builds a claim payload for an owned card.
func NewClaim(item domain.InventoryItem, user *domain.ChatUser) Payload {
	return Payload{
		Action: ActionClaim,
		CardID: item.CardID,
		Title:  item.Title,
		Rarity: string(item.Rarity),
		Image:  item.Image,
		User:   user,
	}
}

// Channel is the one-way handoff to the external messaging channel. Sends are
// best-effort: the engine does not require delivery acknowledgment and the
// claimed card stays in the user's inventory regardless of the outcome.
type Channel interface {
	Send(ctx context.Context, payload Payload) error
}

// HTTPChannel posts claim payloads to the delivery bot's relay endpoint.
type HTTPChannel struct {
	url    string
	client *http.Client
}

// NewHTTPChannel creates a channel that POSTs to url.
func NewHTTPChannel(url string) *HTTPChannel {
	return &HTTPChannel{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers one payload. A non-2xx response is an error so the caller can
// log it, but callers never retry or surface it to the user.
func (c *HTTPChannel) Send(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode claim payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver claim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("relay rejected claim: status %d", resp.StatusCode)
	}
	return nil
}

// NoopChannel drops every payload. Used when no relay is configured.
type NoopChannel struct{}

// Send discards the payload.
func (NoopChannel) Send(ctx context.Context, payload Payload) error {
	logger.FromContext(ctx).Debug("No relay configured, claim dropped", "card_id", payload.CardID)
	return nil
}

// SendClaim is the fire-and-forget wrapper used by the claim handler: errors
// are logged and swallowed, never returned to the economy.
func SendClaim(ctx context.Context, ch Channel, payload Payload) {
	if err := ch.Send(ctx, payload); err != nil {
		logger.FromContext(ctx).Warn("Claim delivery failed",
			"card_id", payload.CardID, "error", err)
		return
	}
	metrics.ClaimsRelayed.Inc()
}
