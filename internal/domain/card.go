package domain

import "time"

// Rarity is the discrete drop-probability class of a card.
// The four standard tiers cover the stock catalog; unique named rarities
// (e.g. a one-off promotional card) pass through the loader untouched.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
	RaritySuperRare Rarity = "super-rare"
)

// StandardRarities is the set of rarity tiers the stock catalog uses.
var StandardRarities = map[Rarity]bool{
	RarityCommon:    true,
	RarityRare:      true,
	RarityLegendary: true,
	RaritySuperRare: true,
}

// Card is an immutable catalog entry. Identity is ID; the catalog is loaded
// once per process and treated as read-only afterwards.
type Card struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Rarity Rarity `json:"rarity"`
	Image  string `json:"image"`
	Weight int    `json:"weight,omitempty"` // relative selection weight, defaulted to 1 by the loader
}

// InventoryItem is a snapshot of a Card owned by a user at acquisition time.
// It is copied by value from the Card on draw so later catalog edits do not
// retroactively alter owned items.
type InventoryItem struct {
	CardID     string    `json:"card_id"`
	Title      string    `json:"title"`
	Rarity     Rarity    `json:"rarity"`
	Image      string    `json:"image"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Snapshot copies a catalog card into a fresh inventory item.
func Snapshot(card Card, now time.Time) InventoryItem {
	return InventoryItem{
		CardID:     card.ID,
		Title:      card.Title,
		Rarity:     card.Rarity,
		Image:      card.Image,
		AcquiredAt: now,
	}
}

// OpenMode distinguishes free-tier draws (quota-limited, jackpot overrides)
// from paid-tier draws (no quota, boosted legendary odds).
type OpenMode string

const (
	ModeFree OpenMode = "free"
	ModePaid OpenMode = "paid"
)

// Valid reports whether the mode is one of the two supported draw modes.
func (m OpenMode) Valid() bool {
	return m == ModeFree || m == ModePaid
}
