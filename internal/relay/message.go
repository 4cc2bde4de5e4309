package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Parse/format errors on the delivery side. The bot logs and drops payloads
// that fail these checks; nothing is ever reported back to the claimer.
var (
	ErrMalformedPayload = errors.New("malformed claim payload")
	ErrNotClaim         = errors.New("payload is not a claim")
)

var titleCaser = cases.Upper(language.English)

// ParseClaim decodes raw payload bytes and validates the claim action.
func ParseClaim(raw []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.Action != ActionClaim {
		return Payload{}, fmt.Errorf("%w: action %q", ErrNotClaim, payload.Action)
	}
	if payload.Title == "" || payload.CardID == "" {
		return Payload{}, fmt.Errorf("%w: missing card fields", ErrMalformedPayload)
	}
	return payload, nil
}

// FormatMessage renders the chat message body for a claimed card: the card
// title and the uppercased rarity label.
func FormatMessage(payload Payload) string {
	return fmt.Sprintf("Your card: **%s**\nRarity: **%s**", payload.Title, titleCaser.String(payload.Rarity))
}

// ResolveImage joins the card's relative image path onto the asset base URL.
func ResolveImage(baseURL, image string) string {
	if baseURL == "" {
		return image
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(image, "/")
}
