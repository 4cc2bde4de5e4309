package drop

import (
	"github.com/vzlrn/cardcasebot/internal/catalog"
	"github.com/vzlrn/cardcasebot/internal/domain"
)

// Odds holds the override probabilities for the tiered drop policy.
// Each is an independent Bernoulli trial evaluated with a fresh uniform
// sample, so headline jackpot odds stay exact no matter how many low-rarity
// cards are added to the catalog later.
type Odds struct {
	// UltraRare is the free-mode probability of the single named jackpot card.
	UltraRare float64
	// UltraRareCardID names the jackpot card; the override is skipped when
	// the id is empty or absent from the catalog.
	UltraRareCardID string
	// LegendaryFree is the free-mode probability of a legendary-tier draw.
	LegendaryFree float64
	// LegendaryPaid is the paid-mode probability of a legendary-tier draw.
	LegendaryPaid float64
}

// Engine decides the candidate pool and override short-circuits for a draw,
// then delegates to the weighted selector.
type Engine struct {
	cat  *catalog.Catalog
	odds Odds
	rnd  Rand
}

// NewEngine creates a drop engine over a loaded catalog.
func NewEngine(cat *catalog.Catalog, odds Odds, rnd Rand) *Engine {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &Engine{cat: cat, odds: odds, rnd: rnd}
}

// Draw produces one card for the given acquisition mode.
// Returns domain.ErrEmptyPool only if the catalog leaves a mode with zero
// eligible candidates after all fallbacks (a misconfigured catalog).
func (e *Engine) Draw(mode domain.OpenMode) (domain.Card, error) {
	if mode == domain.ModePaid {
		return e.drawPaid()
	}
	return e.drawFree()
}

// drawFree evaluates the free-mode overrides in priority order, each trial
// consuming exactly one uniform sample and short-circuiting on success:
// ultra-rare named card, then legendary tier, then the base pool.
func (e *Engine) drawFree() (domain.Card, error) {
	if e.odds.UltraRareCardID != "" && e.rnd() < e.odds.UltraRare {
		if card, ok := e.cat.Get(e.odds.UltraRareCardID); ok {
			return card, nil
		}
	}

	if e.rnd() < e.odds.LegendaryFree {
		if card, ok := Pick(e.cat.Tier(domain.RarityLegendary), e.rnd); ok {
			return card, nil
		}
		// Empty legendary tier falls through to the base pool.
	}

	card, ok := Pick(e.cat.BasePool(), e.rnd)
	if !ok {
		return domain.Card{}, domain.ErrEmptyPool
	}
	return card, nil
}

// drawPaid applies the single boosted legendary override, falling back to a
// weighted pick over the full catalog.
func (e *Engine) drawPaid() (domain.Card, error) {
	if e.rnd() < e.odds.LegendaryPaid {
		if card, ok := Pick(e.cat.Tier(domain.RarityLegendary), e.rnd); ok {
			return card, nil
		}
	}

	card, ok := Pick(e.cat.All(), e.rnd)
	if !ok {
		return domain.Card{}, domain.ErrEmptyPool
	}
	return card, nil
}
