package drop

import (
	"math/rand"

	"github.com/vzlrn/cardcasebot/internal/domain"
)

// Rand produces a uniform value in [0, 1). Injected so tests can supply
// deterministic sequences; production wiring uses math/rand.
type Rand func() float64

// DefaultRand returns the production random source.
func DefaultRand() Rand {
	return rand.Float64 //nolint:gosec // Game odds, not security critical
}

// Pick selects one card from the pool with probability weight_i/sum(weights),
// consuming exactly one uniform sample. Iteration follows pool order; the
// last element absorbs any floating-point residual at the boundary.
// An empty pool yields (zero, false).
func Pick(pool []domain.Card, rnd Rand) (domain.Card, bool) {
	if len(pool) == 0 {
		return domain.Card{}, false
	}

	total := 0
	for _, card := range pool {
		total += card.Weight
	}

	remainder := rnd() * float64(total)
	for _, card := range pool {
		remainder -= float64(card.Weight)
		if remainder < 0 {
			return card, true
		}
	}

	// Rounding left a residual; the final element is the deterministic fallback.
	return pool[len(pool)-1], true
}
