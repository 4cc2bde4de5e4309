package cases

import (
	"context"
	"fmt"
	"time"

	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/drop"
	"github.com/vzlrn/cardcasebot/internal/ledger"
	"github.com/vzlrn/cardcasebot/internal/logger"
	"github.com/vzlrn/cardcasebot/internal/metrics"
	"github.com/vzlrn/cardcasebot/internal/quota"
)

// OpenResult is the outcome of one case open.
type OpenResult struct {
	Card      domain.Card     `json:"card"`
	Mode      domain.OpenMode `json:"mode"`
	Remaining int             `json:"remaining_free_opens"`
}

// Service defines the case-opening interface
type Service interface {
	// Open draws one card for the user in the given mode, records it in the
	// inventory, and for free mode consumes one quota slot.
	Open(ctx context.Context, user *domain.ChatUser, mode domain.OpenMode) (*OpenResult, error)
	// Remaining reports how many free opens the user has left.
	Remaining(ctx context.Context, user *domain.ChatUser) (int, error)
	// Inventory lists the user's cards, newest first, optionally filtered by rarity.
	Inventory(ctx context.Context, user *domain.ChatUser, filter string) ([]domain.InventoryItem, error)
}

type service struct {
	engine *drop.Engine
	ledger *ledger.Ledger
	quota  quota.Quota
	now    func() time.Time
}

// NewService creates a case service. The now seam is for tests; pass nil for
// wall-clock time.
func NewService(engine *drop.Engine, led *ledger.Ledger, q quota.Quota, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{engine: engine, ledger: led, quota: q, now: now}
}

func (s *service) Open(ctx context.Context, user *domain.ChatUser, mode domain.OpenMode) (*OpenResult, error) {
	log := logger.FromContext(ctx)
	userKey := user.StateKey()
	now := s.now()

	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown open mode %q", domain.ErrInvalidInput, mode)
	}
	if s.engine == nil {
		// No draw is permitted until the catalog load has completed.
		return nil, domain.ErrCatalogUnavailable
	}

	var result *OpenResult
	err := s.ledger.Update(ctx, userKey, func(state *domain.UserState) error {
		if mode == domain.ModeFree {
			if s.quota.Remaining(state, now) <= 0 {
				return domain.ErrRateLimited
			}
		}

		card, err := s.engine.Draw(mode)
		if err != nil {
			return err
		}

		if mode == domain.ModeFree {
			s.quota.Register(state, now)
			s.quota.Prune(state, now)
		}
		state.Inventory = append(state.Inventory, domain.Snapshot(card, now))

		result = &OpenResult{
			Card:      card,
			Mode:      mode,
			Remaining: s.quota.Remaining(state, now),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Case opened", "user_key", userKey, "mode", mode,
		"card_id", result.Card.ID, "rarity", result.Card.Rarity)
	metrics.CasesOpened.WithLabelValues(string(mode)).Inc()
	metrics.CardsDropped.WithLabelValues(string(result.Card.Rarity)).Inc()

	return result, nil
}

func (s *service) Remaining(ctx context.Context, user *domain.ChatUser) (int, error) {
	remaining := 0
	err := s.ledger.View(ctx, user.StateKey(), func(state *domain.UserState) {
		remaining = s.quota.Remaining(state, s.now())
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (s *service) Inventory(ctx context.Context, user *domain.ChatUser, filter string) ([]domain.InventoryItem, error) {
	return s.ledger.Inventory(ctx, user.StateKey(), filter)
}
