package cases

import (
	"context"
	"time"

	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/ledger"
	"github.com/vzlrn/cardcasebot/internal/logger"
	"github.com/vzlrn/cardcasebot/internal/metrics"
)

// ExchangeService is the peer-to-peer transfer interface. An offer is created
// unilaterally by a card's owner and may be accepted exactly once by whoever
// presents its id.
type ExchangeService interface {
	CreateOffer(ctx context.Context, user *domain.ChatUser, cardID string) (domain.Offer, error)
	AcceptOffer(ctx context.Context, user *domain.ChatUser, offerID string) (domain.InventoryItem, error)
	ListOffers(ctx context.Context) ([]domain.Offer, error)
}

type exchange struct {
	ledger *ledger.Ledger
	now    func() time.Time
}

// NewExchange creates the transfer service over the shared ledger.
func NewExchange(led *ledger.Ledger, now func() time.Time) ExchangeService {
	if now == nil {
		now = time.Now
	}
	return &exchange{ledger: led, now: now}
}

func (e *exchange) CreateOffer(ctx context.Context, user *domain.ChatUser, cardID string) (domain.Offer, error) {
	offer, err := e.ledger.CreateOffer(ctx, user.StateKey(), cardID, user.Label(), e.now())
	if err != nil {
		return domain.Offer{}, err
	}

	logger.FromContext(ctx).Info("Offer created",
		"offer_id", offer.ID, "card_id", cardID, "from", offer.From)
	metrics.OffersCreated.Inc()
	return offer, nil
}

func (e *exchange) AcceptOffer(ctx context.Context, user *domain.ChatUser, offerID string) (domain.InventoryItem, error) {
	item, err := e.ledger.AcceptOffer(ctx, user.StateKey(), offerID, e.now())
	if err != nil {
		return domain.InventoryItem{}, err
	}

	logger.FromContext(ctx).Info("Offer accepted",
		"offer_id", offerID, "card_id", item.CardID, "user_key", user.StateKey())
	metrics.OffersAccepted.Inc()
	return item, nil
}

func (e *exchange) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	return e.ledger.Offers(ctx)
}
