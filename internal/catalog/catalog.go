package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vzlrn/cardcasebot/internal/domain"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateCardID = errors.New("duplicate card id")

	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the JSON configuration for the card catalog
type Config struct {
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Cards []domain.Card `json:"cards"`
}

// Catalog is the read-only runtime view of the card set. It is built once at
// startup; every derived pool preserves catalog declaration order so repeated
// runs with a fixed random source are reproducible.
type Catalog struct {
	cards  []domain.Card
	byID   map[string]domain.Card
	byTier map[domain.Rarity][]domain.Card
}

// Load reads, parses and validates a catalog JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return New(config)
}

// New validates a parsed config and builds the runtime catalog.
// Missing and non-positive weights are normalized to 1 here so the selector
// never sees a zero-weight card; a truly unselectable card is not a
// supported concept.
func New(config Config) (*Catalog, error) {
	if len(config.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards defined", ErrInvalidConfig)
	}

	c := &Catalog{
		cards:  make([]domain.Card, 0, len(config.Cards)),
		byID:   make(map[string]domain.Card, len(config.Cards)),
		byTier: make(map[domain.Rarity][]domain.Card),
	}

	for i, card := range config.Cards {
		if card.ID == "" {
			return nil, fmt.Errorf("%w: card at index %d has empty id", ErrInvalidConfig, i)
		}
		if _, exists := c.byID[card.ID]; exists {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateCardID, card.ID)
		}
		if card.Title == "" {
			return nil, fmt.Errorf("%w: card '%s' has empty title", ErrInvalidConfig, card.ID)
		}
		if card.Rarity == "" {
			return nil, fmt.Errorf("%w: card '%s' has empty rarity", ErrInvalidConfig, card.ID)
		}
		if card.Weight <= 0 {
			card.Weight = 1
		}

		c.cards = append(c.cards, card)
		c.byID[card.ID] = card
		c.byTier[card.Rarity] = append(c.byTier[card.Rarity], card)
	}

	return c, nil
}

// All returns every card in declaration order.
func (c *Catalog) All() []domain.Card {
	return c.cards
}

// Get looks up a card by id.
func (c *Catalog) Get(id string) (domain.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Tier returns all cards of the given rarity in declaration order.
func (c *Catalog) Tier(rarity domain.Rarity) []domain.Card {
	return c.byTier[rarity]
}

// BasePool returns the free-mode fallback pool: every card except the
// legendary and super-rare tiers.
func (c *Catalog) BasePool() []domain.Card {
	pool := make([]domain.Card, 0, len(c.cards))
	for _, card := range c.cards {
		if card.Rarity == domain.RarityLegendary || card.Rarity == domain.RaritySuperRare {
			continue
		}
		pool = append(pool, card)
	}
	return pool
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int {
	return len(c.cards)
}
