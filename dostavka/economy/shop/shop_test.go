package shop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
	"github.com/whitewenty/dostavka/dostavka/economy/ledger"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[string]*models.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]*models.User)}
}

func (r *memoryRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.byID[user.DiscordID] = &clone
	return nil
}

func (r *memoryRepo) GetByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[discordID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.byID[user.DiscordID] = &clone
	return nil
}

func (r *memoryRepo) GetUsers(_ context.Context) ([]*models.User, error) {
	return nil, nil
}

func (r *memoryRepo) GetTopByDeliveries(_ context.Context, _ int) ([]*models.User, error) {
	return nil, nil
}

func (r *memoryRepo) AggregateTotals(_ context.Context) (int64, int64, int64, error) {
	return 0, 0, 0, nil
}

func newTestShop(t *testing.T, now time.Time) (*Shop, *ledger.Ledger) {
	t.Helper()
	l := ledger.New(newMemoryRepo())
	s := New(l)
	s.now = func() time.Time { return now }
	return s, l
}

func TestPurchase_Success(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s, l := newTestShop(t, now)

	_, err := l.AdjustBalance(ctx, "1", "courier", 2000)
	require.NoError(t, err)

	// index 2 is Мега Бафф: 1800 rubles, 30 minutes, +25%
	message, err := s.Purchase(ctx, "1", "courier", 2)
	require.NoError(t, err)
	assert.Equal(t, "✅ Вы приобрели Мега Бафф на 30 минут!", message)

	user, err := l.GetOrCreate(ctx, "1", "courier")
	require.NoError(t, err)
	assert.Equal(t, int64(200), user.Earnings)
	require.Len(t, user.ActiveBuffs, 1)
	assert.Equal(t, "mega_buff", user.ActiveBuffs[0].ID)
	assert.Equal(t, now, user.ActiveBuffs[0].PurchasedAt)
	assert.Equal(t, now.Add(30*time.Minute), user.ActiveBuffs[0].ExpiresAt)
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	s, l := newTestShop(t, time.Now())

	_, err := l.AdjustBalance(ctx, "1", "courier", 100)
	require.NoError(t, err)

	_, err = s.Purchase(ctx, "1", "courier", 1)
	require.Error(t, err)

	message, ok := IsInsufficientFunds(err)
	require.True(t, ok)
	assert.Equal(t, "❌ Недостаточно средств! Нужно: 850 рублей.", message)

	// failed purchase must not touch the balance
	user, err := l.GetOrCreate(ctx, "1", "courier")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Earnings)
	assert.Empty(t, user.ActiveBuffs)
}

func TestPurchase_SameBuffStacks(t *testing.T) {
	ctx := context.Background()
	s, l := newTestShop(t, time.Now())

	_, err := l.AdjustBalance(ctx, "1", "courier", 2000)
	require.NoError(t, err)

	_, err = s.Purchase(ctx, "1", "courier", 1)
	require.NoError(t, err)
	_, err = s.Purchase(ctx, "1", "courier", 1)
	require.NoError(t, err)

	user, err := l.GetOrCreate(ctx, "1", "courier")
	require.NoError(t, err)
	assert.Equal(t, int64(300), user.Earnings)
	assert.Len(t, user.ActiveBuffs, 2)

	total, err := l.EffectiveMultiplier(ctx, "1", "courier")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, total, 1e-9)
}

func TestPurchase_IndexWraparound(t *testing.T) {
	ctx := context.Background()
	s, l := newTestShop(t, time.Now())

	_, err := l.AdjustBalance(ctx, "1", "courier", 3000)
	require.NoError(t, err)

	// -1 wraps to the last catalog entry
	message, err := s.Purchase(ctx, "1", "courier", -1)
	require.NoError(t, err)
	assert.Contains(t, message, "Мега Бафф")
}

func TestIsInsufficientFunds_OtherError(t *testing.T) {
	_, ok := IsInsufficientFunds(context.Canceled)
	assert.False(t, ok)
}
