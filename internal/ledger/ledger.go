package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vzlrn/cardcasebot/internal/catalog"
	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/logger"
	"github.com/vzlrn/cardcasebot/internal/storage"
)

// State cache sizing. Decoded user states are small; the cache only exists
// to skip store reads and JSON decoding on hot users.
const (
	stateCacheSize = 1024
	stateCacheTTL  = 5 * time.Minute
)

// FilterAll returns the unfiltered inventory.
const FilterAll = "all"

// Ledger owns all durable state: per-user inventories and open timestamps,
// and the process-wide offer ledger. Every operation is a single
// load-mutate-save sequence serialized by one mutex, so the lost-update race
// between two acceptances of the same offer cannot occur inside a process.
// Sharing one store between processes still requires external locking.
type Ledger struct {
	store storage.Store
	cat   *catalog.Catalog

	mu    sync.Mutex
	cache *expirable.LRU[string, *domain.UserState]
}

// New creates a ledger over the given store and catalog.
func New(store storage.Store, cat *catalog.Catalog) *Ledger {
	return &Ledger{
		store: store,
		cat:   cat,
		cache: expirable.NewLRU[string, *domain.UserState](stateCacheSize, nil, stateCacheTTL),
	}
}

// loadState decodes the state stored under the user key. Missing or corrupt
// records decode to the empty-default state, never an error: a user with
// broken persisted state starts over rather than being locked out.
func (l *Ledger) loadState(ctx context.Context, userKey string) (*domain.UserState, error) {
	if state, ok := l.cache.Get(userKey); ok {
		return state, nil
	}

	raw, found, err := l.store.Get(ctx, storage.UserKeyPrefix+userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load user state: %w", err)
	}

	state := &domain.UserState{}
	if found {
		if err := json.Unmarshal(raw, state); err != nil {
			logger.FromContext(ctx).Warn("Corrupt user state, substituting empty default",
				"user_key", userKey, "error", err)
			state = &domain.UserState{}
		}
	}

	l.cache.Add(userKey, state)
	return state, nil
}

func (l *Ledger) saveState(ctx context.Context, userKey string, state *domain.UserState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode user state: %w", err)
	}
	if err := l.store.Set(ctx, storage.UserKeyPrefix+userKey, raw); err != nil {
		return fmt.Errorf("failed to save user state: %w", err)
	}
	l.cache.Add(userKey, state)
	return nil
}

// Update runs fn against the user's state inside a single serialized
// load-mutate-save sequence. If fn returns an error the state is not saved.
func (l *Ledger) Update(ctx context.Context, userKey string, fn func(*domain.UserState) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.loadState(ctx, userKey)
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		// fn may have partially mutated the cached state; drop it so the
		// next load re-reads the persisted record.
		l.cache.Remove(userKey)
		return err
	}
	if err := l.saveState(ctx, userKey, state); err != nil {
		// fn mutated the cached state in place but the store never saw it;
		// drop the entry so reads do not serve unpersisted state.
		l.cache.Remove(userKey)
		return err
	}
	return nil
}

// View runs fn against a read-only snapshot of the user's state.
func (l *Ledger) View(ctx context.Context, userKey string, fn func(*domain.UserState)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.loadState(ctx, userKey)
	if err != nil {
		return err
	}
	fn(state)
	return nil
}

// AddToInventory appends a snapshot of the card to the user's inventory.
func (l *Ledger) AddToInventory(ctx context.Context, userKey string, card domain.Card, now time.Time) error {
	return l.Update(ctx, userKey, func(state *domain.UserState) error {
		state.Inventory = append(state.Inventory, domain.Snapshot(card, now))
		return nil
	})
}

// Inventory returns the user's items matching the rarity filter,
// most-recently-acquired first. Filter "all" or "" returns everything.
func (l *Ledger) Inventory(ctx context.Context, userKey, filter string) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := l.View(ctx, userKey, func(state *domain.UserState) {
		for i := len(state.Inventory) - 1; i >= 0; i-- {
			item := state.Inventory[i]
			if filter == "" || filter == FilterAll || string(item.Rarity) == filter {
				items = append(items, item)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (l *Ledger) loadOffers(ctx context.Context) ([]domain.Offer, error) {
	raw, found, err := l.store.Get(ctx, storage.OffersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer ledger: %w", err)
	}

	var offers []domain.Offer
	if found {
		if err := json.Unmarshal(raw, &offers); err != nil {
			logger.FromContext(ctx).Warn("Corrupt offer ledger, substituting empty default", "error", err)
			offers = nil
		}
	}
	return offers, nil
}

func (l *Ledger) saveOffers(ctx context.Context, offers []domain.Offer) error {
	raw, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("failed to encode offer ledger: %w", err)
	}
	if err := l.store.Set(ctx, storage.OffersKey, raw); err != nil {
		return fmt.Errorf("failed to save offer ledger: %w", err)
	}
	return nil
}

// Offers returns every pending offer.
func (l *Ledger) Offers(ctx context.Context) ([]domain.Offer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadOffers(ctx)
}

// CreateOffer removes the sender's first inventory item matching cardID and
// appends a pending offer to the global ledger. While the offer is open the
// card is owned by neither party. Returns domain.ErrCardNotFound if the user
// owns no item with that id.
func (l *Ledger) CreateOffer(ctx context.Context, userKey, cardID, fromLabel string, now time.Time) (domain.Offer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, err := l.loadState(ctx, userKey)
	if err != nil {
		return domain.Offer{}, err
	}

	idx := -1
	for i, item := range state.Inventory {
		if item.CardID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Offer{}, fmt.Errorf("%w: %s", domain.ErrCardNotFound, cardID)
	}

	offers, err := l.loadOffers(ctx)
	if err != nil {
		return domain.Offer{}, err
	}

	offer := domain.Offer{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		CardID:    cardID,
		From:      fromLabel,
		CreatedAt: now,
	}

	// Removal and ledger append are one unit: persist the removal first, then
	// the append, and put the item back if the append cannot be persisted so
	// the card is neither duplicated nor destroyed.
	removed := state.Inventory[idx]
	state.Inventory = append(state.Inventory[:idx], state.Inventory[idx+1:]...)
	if err := l.saveState(ctx, userKey, state); err != nil {
		l.cache.Remove(userKey)
		return domain.Offer{}, err
	}

	if err := l.saveOffers(ctx, append(offers, offer)); err != nil {
		state.Inventory = slices.Insert(state.Inventory, idx, removed)
		if restoreErr := l.saveState(ctx, userKey, state); restoreErr != nil {
			logger.FromContext(ctx).Error("Failed to restore inventory after offer append failure",
				"user_key", userKey, "card_id", cardID, "error", restoreErr)
		}
		return domain.Offer{}, err
	}

	return offer, nil
}

// AcceptOffer consumes the offer and places a fresh snapshot of the
// referenced card, re-synthesized from the catalog, into the acceptor's
// inventory. Removal from the ledger is destructive, so a second acceptance
// of the same id fails with domain.ErrOfferNotFound: exactly-once transfer.
func (l *Ledger) AcceptOffer(ctx context.Context, userKey, offerID string, now time.Time) (domain.InventoryItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	offers, err := l.loadOffers(ctx)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	idx := -1
	for i, offer := range offers {
		if offer.ID == offerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.InventoryItem{}, fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
	}

	card, ok := l.cat.Get(offers[idx].CardID)
	if !ok {
		return domain.InventoryItem{}, fmt.Errorf("%w: %s", domain.ErrCardNotFound, offers[idx].CardID)
	}

	state, err := l.loadState(ctx, userKey)
	if err != nil {
		return domain.InventoryItem{}, err
	}

	remaining := append(offers[:idx:idx], offers[idx+1:]...)
	if err := l.saveOffers(ctx, remaining); err != nil {
		return domain.InventoryItem{}, err
	}

	item := domain.Snapshot(card, now)
	state.Inventory = append(state.Inventory, item)
	if err := l.saveState(ctx, userKey, state); err != nil {
		// Put the offer back so the transfer can be retried.
		l.cache.Remove(userKey)
		if restoreErr := l.saveOffers(ctx, offers); restoreErr != nil {
			logger.FromContext(ctx).Error("Failed to restore offer after acceptance failure",
				"offer_id", offerID, "error", restoreErr)
		}
		return domain.InventoryItem{}, err
	}

	return item, nil
}
