package cases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzlrn/cardcasebot/internal/catalog"
	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/drop"
	"github.com/vzlrn/cardcasebot/internal/ledger"
	"github.com/vzlrn/cardcasebot/internal/quota"
	"github.com/vzlrn/cardcasebot/internal/storage"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Config{Cards: []domain.Card{
		{ID: "c1", Title: "Card 1", Rarity: domain.RarityCommon, Weight: 10},
		{ID: "c2", Title: "Card 2", Rarity: domain.RarityRare, Weight: 4},
		{ID: "c3", Title: "Card 3", Rarity: domain.RarityLegendary, Weight: 1},
	}})
	require.NoError(t, err)
	return cat
}

// fixedRand always returns the same sample, which makes free-mode draws with
// zero odds land on the first base-pool card.
func fixedRand(v float64) drop.Rand {
	return func() float64 { return v }
}

type fixture struct {
	svc   Service
	led   *ledger.Ledger
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := testCatalog(t)
	led := ledger.New(storage.NewMemoryStore(), cat)
	engine := drop.NewEngine(cat, drop.Odds{}, fixedRand(0.0))
	q := quota.New(3, 24*time.Hour)

	clock := baseTime
	f := &fixture{led: led, clock: &clock}
	f.svc = NewService(engine, led, q, func() time.Time { return *f.clock })
	return f
}

func TestOpenInvalidMode(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open(context.Background(), nil, "premium")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenWithoutEngine(t *testing.T) {
	f := newFixture(t)
	svc := NewService(nil, f.led, quota.New(3, 24*time.Hour), nil)

	_, err := svc.Open(context.Background(), nil, domain.ModeFree)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestOpenFreeConsumesQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &domain.ChatUser{ID: 7}

	for i, expected := range []int{2, 1, 0} {
		result, err := f.svc.Open(ctx, user, domain.ModeFree)
		require.NoError(t, err, "open %d", i+1)
		assert.Equal(t, "c1", result.Card.ID)
		assert.Equal(t, expected, result.Remaining)
	}

	// Fourth open inside the window is rejected without drawing.
	_, err := f.svc.Open(ctx, user, domain.ModeFree)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	items, err := f.svc.Inventory(ctx, user, ledger.FilterAll)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestOpenFreeQuotaRecovers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &domain.ChatUser{ID: 7}

	for i := 0; i < 3; i++ {
		_, err := f.svc.Open(ctx, user, domain.ModeFree)
		require.NoError(t, err)
	}
	_, err := f.svc.Open(ctx, user, domain.ModeFree)
	require.ErrorIs(t, err, domain.ErrRateLimited)

	*f.clock = baseTime.Add(25 * time.Hour)
	result, err := f.svc.Open(ctx, user, domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Remaining)
}

func TestOpenPaidIgnoresQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &domain.ChatUser{ID: 7}

	for i := 0; i < 3; i++ {
		_, err := f.svc.Open(ctx, user, domain.ModeFree)
		require.NoError(t, err)
	}

	// Paid opens keep working past the free limit and do not consume it.
	for i := 0; i < 5; i++ {
		result, err := f.svc.Open(ctx, user, domain.ModePaid)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Remaining)
	}

	items, err := f.svc.Inventory(ctx, user, ledger.FilterAll)
	require.NoError(t, err)
	assert.Len(t, items, 8)
}

func TestOpenNilUserUsesGuestState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Open(ctx, nil, domain.ModeFree)
	require.NoError(t, err)

	// Guest state is shared: a second anonymous caller sees the same quota.
	remaining, err := f.svc.Remaining(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestRemainingFreshUser(t *testing.T) {
	f := newFixture(t)

	remaining, err := f.svc.Remaining(context.Background(), &domain.ChatUser{ID: 99})
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestOpenQuotaIsPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Open(ctx, &domain.ChatUser{ID: 1}, domain.ModeFree)
		require.NoError(t, err)
	}

	result, err := f.svc.Open(ctx, &domain.ChatUser{ID: 2}, domain.ModeFree)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Remaining)
}
