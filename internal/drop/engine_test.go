package drop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzlrn/cardcasebot/internal/catalog"
	"github.com/vzlrn/cardcasebot/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Config{Cards: []domain.Card{
		{ID: "c1", Title: "Card 1", Rarity: domain.RarityCommon, Weight: 10},
		{ID: "c2", Title: "Card 2", Rarity: domain.RarityRare, Weight: 4},
		{ID: "c3", Title: "Card 3", Rarity: domain.RarityLegendary, Weight: 1},
		{ID: "c4", Title: "Card 4", Rarity: domain.RaritySuperRare, Weight: 1},
	}})
	require.NoError(t, err)
	return cat
}

func TestDrawFreeUltraRareOverride(t *testing.T) {
	odds := Odds{UltraRare: 0.5, UltraRareCardID: "c4", LegendaryFree: 0.5}

	// Sample below the ultra-rare threshold short-circuits immediately.
	engine := NewEngine(testCatalog(t), odds, seq(0.4))
	card, err := engine.Draw(domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, "c4", card.ID)
}

func TestDrawFreeLegendaryOverride(t *testing.T) {
	odds := Odds{UltraRare: 0.5, UltraRareCardID: "c4", LegendaryFree: 0.5}

	// Ultra-rare misses, legendary hits, tier pick consumes the third sample.
	engine := NewEngine(testCatalog(t), odds, seq(0.9, 0.1, 0.0))
	card, err := engine.Draw(domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, "c3", card.ID)
	assert.Equal(t, domain.RarityLegendary, card.Rarity)
}

func TestDrawFreeBasePool(t *testing.T) {
	odds := Odds{UltraRare: 0.5, UltraRareCardID: "c4", LegendaryFree: 0.5}

	// Both overrides miss; the base pool excludes legendary and super-rare,
	// so weights are c1=10, c2=4 and a low sample lands on c1.
	engine := NewEngine(testCatalog(t), odds, seq(0.9, 0.9, 0.0))
	card, err := engine.Draw(domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, "c1", card.ID)

	// A high sample lands on c2; legendary and super-rare are unreachable.
	engine = NewEngine(testCatalog(t), odds, seq(0.9, 0.9, 0.99))
	card, err = engine.Draw(domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, "c2", card.ID)
}

func TestDrawFreeOverridesDisabled(t *testing.T) {
	// Zero probabilities never trigger, whatever the samples.
	engine := NewEngine(testCatalog(t), Odds{UltraRareCardID: "c4"}, seq(0.0, 0.0, 0.0))
	card, err := engine.Draw(domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, "c1", card.ID)
}

func TestDrawFreeUnknownUltraRareID(t *testing.T) {
	// A hit on the override for a card not in the catalog falls through.
	odds := Odds{UltraRare: 1.0, UltraRareCardID: "missing"}
	engine := NewEngine(testCatalog(t), odds, seq(0.0, 0.9, 0.0))
	card, err := engine.Draw(domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, "c1", card.ID)
}

func TestDrawFreeEmptyLegendaryTierFallsThrough(t *testing.T) {
	cat, err := catalog.New(catalog.Config{Cards: []domain.Card{
		{ID: "c1", Title: "Card 1", Rarity: domain.RarityCommon, Weight: 1},
	}})
	require.NoError(t, err)

	engine := NewEngine(cat, Odds{LegendaryFree: 1.0}, seq(0.0, 0.0))
	card, drawErr := engine.Draw(domain.ModeFree)
	require.NoError(t, drawErr)
	assert.Equal(t, "c1", card.ID)
}

func TestDrawFreeEmptyPool(t *testing.T) {
	// A catalog holding only excluded tiers leaves free mode with nothing.
	cat, err := catalog.New(catalog.Config{Cards: []domain.Card{
		{ID: "c3", Title: "Card 3", Rarity: domain.RarityLegendary, Weight: 1},
	}})
	require.NoError(t, err)

	engine := NewEngine(cat, Odds{}, seq(0.9, 0.9))
	_, drawErr := engine.Draw(domain.ModeFree)
	assert.ErrorIs(t, drawErr, domain.ErrEmptyPool)
}

func TestDrawPaidLegendaryOverride(t *testing.T) {
	engine := NewEngine(testCatalog(t), Odds{LegendaryPaid: 0.005}, seq(0.004, 0.0))
	card, err := engine.Draw(domain.ModePaid)
	require.NoError(t, err)
	assert.Equal(t, domain.RarityLegendary, card.Rarity)
}

func TestDrawPaidFullCatalog(t *testing.T) {
	// Override misses; the paid pool spans all tiers, so a sample at the top
	// of the range can land on the super-rare card (weights 10,4,1,1).
	engine := NewEngine(testCatalog(t), Odds{LegendaryPaid: 0.005}, seq(0.9, 0.99))
	card, err := engine.Draw(domain.ModePaid)
	require.NoError(t, err)
	assert.Equal(t, "c4", card.ID)
}

func TestNewEngineDefaultRand(t *testing.T) {
	engine := NewEngine(testCatalog(t), Odds{}, nil)
	card, err := engine.Draw(domain.ModePaid)
	require.NoError(t, err)
	assert.NotEmpty(t, card.ID)
}
