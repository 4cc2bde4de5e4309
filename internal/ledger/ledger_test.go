package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vzlrn/cardcasebot/internal/catalog"
	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/storage"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Config{Cards: []domain.Card{
		{ID: "c1", Title: "Card 1", Rarity: domain.RarityCommon, Image: "assets/images/card1.jpg", Weight: 10},
		{ID: "c2", Title: "Card 2", Rarity: domain.RarityRare, Weight: 4},
		{ID: "c3", Title: "Card 3", Rarity: domain.RarityLegendary, Weight: 1},
	}})
	require.NoError(t, err)
	return cat
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(storage.NewMemoryStore(), testCatalog(t))
}

func TestInventoryEmptyUser(t *testing.T) {
	led := newTestLedger(t)

	items, err := led.Inventory(context.Background(), "user_1", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddToInventoryAndList(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()
	cat := testCatalog(t)

	c1, _ := cat.Get("c1")
	c3, _ := cat.Get("c3")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))
	require.NoError(t, led.AddToInventory(ctx, "user_1", c3, now.Add(time.Minute)))

	// Newest first.
	items, err := led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c3", items[0].CardID)
	assert.Equal(t, "c1", items[1].CardID)
	assert.Equal(t, now, items[1].AcquiredAt)

	// Rarity filter.
	items, err = led.Inventory(ctx, "user_1", "legendary")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c3", items[0].CardID)

	// Other users are unaffected.
	items, err = led.Inventory(ctx, "user_2", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCorruptStateRecovers(t *testing.T) {
	store := storage.NewMemoryStore()
	led := New(store, testCatalog(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, storage.UserKeyPrefix+"user_1", []byte("{broken")))

	items, err := led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The empty default is usable: subsequent writes succeed.
	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))
	items, err = led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestStatePersistsAcrossLedgers(t *testing.T) {
	store := storage.NewMemoryStore()
	led := New(store, testCatalog(t))
	ctx := context.Background()

	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))

	// A fresh ledger over the same store sees the persisted state, not a cache.
	led2 := New(store, testCatalog(t))
	items, err := led2.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCreateOfferUnownedCard(t *testing.T) {
	led := newTestLedger(t)

	_, err := led.CreateOffer(context.Background(), "user_1", "c1", "@alice", now)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
}

func TestCreateOfferRemovesItem(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()
	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))

	offer, err := led.CreateOffer(ctx, "user_1", "c1", "@alice", now)
	require.NoError(t, err)
	assert.Equal(t, "c1", offer.CardID)
	assert.Equal(t, "@alice", offer.From)
	assert.NotEmpty(t, offer.ID)

	// The card left the sender's inventory when the offer was created.
	items, err := led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, items)

	offers, err := led.Offers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, offer.ID, offers[0].ID)
}

func TestCreateOfferRemovesOnlyFirstMatch(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()
	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now.Add(time.Minute)))

	_, err := led.CreateOffer(ctx, "user_1", "c1", "@alice", now)
	require.NoError(t, err)

	items, err := led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAcceptOfferTransfersCard(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()
	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))

	offer, err := led.CreateOffer(ctx, "user_1", "c1", "@alice", now)
	require.NoError(t, err)

	accepted := now.Add(time.Hour)
	item, err := led.AcceptOffer(ctx, "user_2", offer.ID, accepted)
	require.NoError(t, err)
	assert.Equal(t, "c1", item.CardID)
	assert.Equal(t, "Card 1", item.Title)
	assert.Equal(t, accepted, item.AcquiredAt)

	items, err := led.Inventory(ctx, "user_2", FilterAll)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c1", items[0].CardID)

	// The ledger no longer lists the offer.
	offers, err := led.Offers(ctx)
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestAcceptOfferExactlyOnce(t *testing.T) {
	led := newTestLedger(t)
	ctx := context.Background()
	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))

	offer, err := led.CreateOffer(ctx, "user_1", "c1", "@alice", now)
	require.NoError(t, err)

	_, err = led.AcceptOffer(ctx, "user_2", offer.ID, now)
	require.NoError(t, err)

	// Second acceptance of the same id must fail, even by another user.
	_, err = led.AcceptOffer(ctx, "user_3", offer.ID, now)
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)

	items, err := led.Inventory(ctx, "user_3", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAcceptOfferUnknownID(t *testing.T) {
	led := newTestLedger(t)

	_, err := led.AcceptOffer(context.Background(), "user_2", "999-deadbeef", now)
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)
}

func TestAcceptOfferCardGoneFromCatalog(t *testing.T) {
	store := storage.NewMemoryStore()
	led := New(store, testCatalog(t))
	ctx := context.Background()
	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))

	offer, err := led.CreateOffer(ctx, "user_1", "c1", "@alice", now)
	require.NoError(t, err)

	// A later deployment shipped a catalog without c1.
	shrunk, err := catalog.New(catalog.Config{Cards: []domain.Card{
		{ID: "c2", Title: "Card 2", Rarity: domain.RarityRare},
	}})
	require.NoError(t, err)
	led2 := New(store, shrunk)

	_, err = led2.AcceptOffer(ctx, "user_2", offer.ID, now)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)

	// The offer stays pending.
	offers, err := led2.Offers(ctx)
	require.NoError(t, err)
	assert.Len(t, offers, 1)
}

func TestCreateOfferRestoresItemOnLedgerWriteFailure(t *testing.T) {
	store := new(storage.MockStore)
	led := New(store, testCatalog(t))
	ctx := context.Background()

	state := []byte(`{"inventory":[{"card_id":"c1","title":"Card 1","rarity":"common"}]}`)
	store.On("Get", mock.Anything, storage.UserKeyPrefix+"user_1").Return(state, true, nil)
	store.On("Get", mock.Anything, storage.OffersKey).Return(nil, false, nil)
	// Removal persists, the offer append fails, the restore write follows.
	store.On("Set", mock.Anything, storage.UserKeyPrefix+"user_1", mock.Anything).Return(nil)
	store.On("Set", mock.Anything, storage.OffersKey, mock.Anything).Return(errors.New("disk full"))

	_, err := led.CreateOffer(ctx, "user_1", "c1", "@alice", now)
	require.Error(t, err)

	store.AssertNumberOfCalls(t, "Set", 3)
}

func TestFailedSaveDoesNotServePhantomState(t *testing.T) {
	store := new(storage.MockStore)
	led := New(store, testCatalog(t))
	ctx := context.Background()

	store.On("Get", mock.Anything, storage.UserKeyPrefix+"user_1").Return(nil, false, nil)
	store.On("Set", mock.Anything, storage.UserKeyPrefix+"user_1", mock.Anything).
		Return(errors.New("disk full"))

	c1, _ := testCatalog(t).Get("c1")
	err := led.AddToInventory(ctx, "user_1", c1, now)
	require.Error(t, err)

	// The store never persisted the card, so no read may show it.
	items, err := led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateOfferRestorePreservesOrder(t *testing.T) {
	store := new(storage.MockStore)
	led := New(store, testCatalog(t))
	ctx := context.Background()

	state := []byte(`{"inventory":[` +
		`{"card_id":"c1","title":"Card 1","rarity":"common"},` +
		`{"card_id":"c2","title":"Card 2","rarity":"rare"}]}`)
	store.On("Get", mock.Anything, storage.UserKeyPrefix+"user_1").Return(state, true, nil)
	store.On("Get", mock.Anything, storage.OffersKey).Return(nil, false, nil)
	store.On("Set", mock.Anything, storage.UserKeyPrefix+"user_1", mock.Anything).Return(nil)
	store.On("Set", mock.Anything, storage.OffersKey, mock.Anything).Return(errors.New("disk full"))

	_, err := led.CreateOffer(ctx, "user_1", "c1", "@alice", now)
	require.Error(t, err)

	// The restored item keeps its acquisition position: c1 before c2,
	// so the newest-first listing still leads with c2.
	items, err := led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c2", items[0].CardID)
	assert.Equal(t, "c1", items[1].CardID)
}

func TestUpdateDropsCacheOnError(t *testing.T) {
	store := storage.NewMemoryStore()
	led := New(store, testCatalog(t))
	ctx := context.Background()

	c1, _ := testCatalog(t).Get("c1")
	require.NoError(t, led.AddToInventory(ctx, "user_1", c1, now))

	// fn mutates the state, then fails; the mutation must not leak into
	// subsequent reads.
	err := led.Update(ctx, "user_1", func(state *domain.UserState) error {
		state.Inventory = nil
		return errors.New("rejected")
	})
	require.Error(t, err)

	items, err := led.Inventory(ctx, "user_1", FilterAll)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
