package web

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
	"github.com/whitewenty/dostavka/dostavka/economy/ledger"
)

type fakeRepo struct {
	mu         sync.Mutex
	users      []*models.User
	aggregates int
	failAll    bool
}

func (r *fakeRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.users) + 1)
	r.users = append(r.users, user)
	return nil
}

func (r *fakeRepo) GetByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DiscordID == discordID {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeRepo) Update(_ context.Context, _ *models.User) error { return nil }

func (r *fakeRepo) GetUsers(_ context.Context) ([]*models.User, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users, nil
}

func (r *fakeRepo) GetTopByDeliveries(_ context.Context, limit int) ([]*models.User, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.users) > limit {
		return r.users[:limit], nil
	}
	return r.users, nil
}

func (r *fakeRepo) AggregateTotals(_ context.Context) (int64, int64, int64, error) {
	if r.failAll {
		return 0, 0, 0, errors.New("db down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aggregates++
	var deliveries, earnings int64
	for _, u := range r.users {
		deliveries += u.Deliveries
		earnings += u.Earnings
	}
	return int64(len(r.users)), deliveries, earnings, nil
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{users: []*models.User{
		{DiscordID: "1", Username: "a", Deliveries: 9, Earnings: 900,
			ActiveBuffs: []models.ActiveBuff{
				{Name: "live", Multiplier: 0.5, ExpiresAt: now.Add(time.Minute)},
				{Name: "expired", Multiplier: 0.15, ExpiresAt: now.Add(-time.Minute)},
			}},
		{DiscordID: "2", Username: "b", Deliveries: 3, Earnings: 300},
	}}

	s := NewStatsService(repo, ledger.New(repo), true)
	s.now = func() time.Time { return now }

	stats := s.Snapshot(context.Background())

	assert.True(t, stats.BotStatus)
	assert.Equal(t, int64(2), stats.Bot.TotalUsers)
	assert.Equal(t, int64(12), stats.Bot.TotalDeliveries)
	assert.Equal(t, int64(1200), stats.Bot.TotalEarnings)
	assert.Equal(t, int64(1), stats.Bot.ActiveBuffs)
	require.Len(t, stats.TopUsers, 2)
	assert.Equal(t, "a", stats.TopUsers[0].Username)
}

func TestSnapshot_ZeroedShapeOnFailure(t *testing.T) {
	repo := &fakeRepo{failAll: true}
	s := NewStatsService(repo, ledger.New(repo), false)

	stats := s.Snapshot(context.Background())

	assert.False(t, stats.BotStatus)
	assert.Zero(t, stats.Bot.TotalUsers)
	assert.Zero(t, stats.Bot.TotalDeliveries)
	assert.Zero(t, stats.Bot.TotalEarnings)
	assert.Zero(t, stats.Bot.ActiveBuffs)
	require.NotNil(t, stats.TopUsers)
	assert.Empty(t, stats.TopUsers)
}

func TestSnapshot_CachesBriefly(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	s := NewStatsService(repo, ledger.New(repo), true)
	s.now = func() time.Time { return now }

	s.Snapshot(context.Background())
	s.Snapshot(context.Background())
	assert.Equal(t, 1, repo.aggregates)

	s.now = func() time.Time { return now.Add(statsCacheExpiry + time.Second) }
	s.Snapshot(context.Background())
	assert.Equal(t, 2, repo.aggregates)
}
