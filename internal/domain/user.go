package domain

import (
	"fmt"
	"time"
)

// GuestKey is the shared fallback identity used when the hosting environment
// provides no user object. Guest state is real state; it is simply shared.
const GuestKey = "guest"

// ChatUser is the optional current-user identity handed in by the hosting
// chat environment. It is used only for display and for the sender label on
// offers; a nil ChatUser degrades to guest behavior.
type ChatUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// StateKey derives the stable per-user storage key.
func (u *ChatUser) StateKey() string {
	if u == nil || u.ID == 0 {
		return GuestKey
	}
	return fmt.Sprintf("user_%d", u.ID)
}

// Label returns the display label used as the "from" field on offers.
func (u *ChatUser) Label() string {
	switch {
	case u == nil:
		return "anonymous"
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "":
		return u.FirstName
	default:
		return "anonymous"
	}
}

// UserState is the durable per-user record: the owned-card inventory in
// acquisition order, and the timestamps of free-tier opens used only for
// rate limiting. Opens need not be pruned eagerly; the quota computation
// always re-filters by current time.
type UserState struct {
	Inventory []InventoryItem `json:"inventory"`
	Opens     []time.Time     `json:"opens"`
}

// Offer is a pending card transfer. Its existence implies the referenced
// card has already been removed from the sender's inventory: while the offer
// is open the card is in flight, owned by neither party.
type Offer struct {
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
	From      string    `json:"from"`
	CreatedAt time.Time `json:"created_at"`
}
