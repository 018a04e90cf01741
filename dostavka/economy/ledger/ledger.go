package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
	"github.com/whitewenty/dostavka/dostavka/economy/buffs"
	"github.com/whitewenty/dostavka/dostavka/economy/delivery"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger owns all mutable per-user state. Every mutation runs under the
// user's lock, so the read-modify-write-persist step is serialized per
// account and concurrent deliveries or purchases cannot interleave.
// Each mutation persists the whole row; fine at this scale, a ceiling
// beyond it.
type Ledger struct {
	repo  repositories.UserRepository
	locks sync.Map // discord id -> *sync.Mutex
	now   func() time.Time
}

func New(repo repositories.UserRepository) *Ledger {
	return &Ledger{
		repo: repo,
		now:  time.Now,
	}
}

func (l *Ledger) lockFor(userID string) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GetOrCreate returns the user's record, initializing a zeroed one on
// first contact. Legacy rows without an active_buffs list are backfilled
// with an empty slice.
func (l *Ledger) GetOrCreate(ctx context.Context, userID, username string) (*models.User, error) {
	user, err := l.repo.GetByDiscordID(ctx, userID)
	if err == nil {
		if user.ActiveBuffs == nil {
			user.ActiveBuffs = []models.ActiveBuff{}
		}
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{
		DiscordID:   userID,
		Username:    username,
		ActiveBuffs: []models.ActiveBuff{},
	}
	if err := l.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", userID, err)
	}

	slog.Info("New user registered",
		slog.String("type", "db"),
		slog.String("discord_id", userID),
		slog.String("username", username))
	return user, nil
}

// Update runs fn against the user's record under the per-user lock and
// persists the whole row when fn succeeds.
func (l *Ledger) Update(ctx context.Context, userID, username string, fn func(*models.User) error) (*models.User, error) {
	mu := l.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	user, err := l.GetOrCreate(ctx, userID, username)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}

	if err := l.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist user %s: %w", userID, err)
	}
	return user, nil
}

// RecordDelivery credits a delivery: the effective multiplier is applied
// to the raw earnings (truncating), counters and the cooldown stamp are
// updated, and the row is persisted — all under the user's lock.
// Inputs are not validated; callers pass non-negative values.
func (l *Ledger) RecordDelivery(ctx context.Context, userID, username string, deliveries, rawEarnings int64) (int64, int64, error) {
	var credited int64
	_, err := l.Update(ctx, userID, username, func(user *models.User) error {
		now := l.now()

		live, _ := buffs.Sweep(user.ActiveBuffs, now)
		user.ActiveBuffs = live

		multiplier := buffs.TotalMultiplier(live)
		credited = int64(float64(rawEarnings) * (1 + multiplier))

		user.Deliveries += deliveries
		user.Earnings += credited
		user.Experience++
		user.LastDeliveryAt = &now
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return rawEarnings, credited, nil
}

// CanDeliver checks the 2-minute cooldown gate. Pure read.
func (l *Ledger) CanDeliver(ctx context.Context, userID, username string) (bool, time.Duration, error) {
	user, err := l.GetOrCreate(ctx, userID, username)
	if err != nil {
		return false, 0, err
	}
	allowed, remaining := delivery.CanDeliver(user.LastDeliveryAt, l.now())
	return allowed, remaining, nil
}

// EffectiveMultiplier sweeps expired buffs and returns the additive sum of
// the live multipliers. When the sweep removed anything the row is
// persisted unconditionally.
func (l *Ledger) EffectiveMultiplier(ctx context.Context, userID, username string) (float64, error) {
	var total float64
	_, err := l.Update(ctx, userID, username, func(user *models.User) error {
		live, _ := buffs.Sweep(user.ActiveBuffs, l.now())
		user.ActiveBuffs = live
		total = buffs.TotalMultiplier(live)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ActiveBuffs sweeps and returns the live buffs formatted for display.
func (l *Ledger) ActiveBuffs(ctx context.Context, userID, username string) ([]buffs.View, error) {
	var views []buffs.View
	_, err := l.Update(ctx, userID, username, func(user *models.User) error {
		now := l.now()
		live, _ := buffs.Sweep(user.ActiveBuffs, now)
		user.ActiveBuffs = live
		views = buffs.BuildView(live, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// AdjustBalance credits or debits a user's balance. Debits that would take
// the balance negative are rejected, keeping earnings >= 0 everywhere.
func (l *Ledger) AdjustBalance(ctx context.Context, userID, username string, delta int64) (int64, error) {
	var balance int64
	_, err := l.Update(ctx, userID, username, func(user *models.User) error {
		if user.Earnings+delta < 0 {
			return ErrInsufficientFunds
		}
		user.Earnings += delta
		balance = user.Earnings
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// GrantBuff appends a fresh buff instance without charging the user.
func (l *Ledger) GrantBuff(ctx context.Context, userID, username string, item buffs.Item) error {
	_, err := l.Update(ctx, userID, username, func(user *models.User) error {
		user.ActiveBuffs = append(user.ActiveBuffs, buffs.NewActiveBuff(item, l.now()))
		return nil
	})
	return err
}

// SetBlocked toggles the block flag on a user.
func (l *Ledger) SetBlocked(ctx context.Context, userID, username string, blocked bool) error {
	_, err := l.Update(ctx, userID, username, func(user *models.User) error {
		user.Blocked = blocked
		return nil
	})
	return err
}

// Entry is one leaderboard row.
type Entry struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Deliveries int64  `json:"deliveries"`
}

// DefaultTopLimit is the leaderboard size when callers pass limit <= 0.
const DefaultTopLimit = 5

// TopN returns the leaderboard by delivery count, ties stable by
// insertion order. Pure read.
func (l *Ledger) TopN(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	users, err := l.repo.GetTopByDeliveries(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		name := u.Username
		if name == "" {
			name = "Unknown"
		}
		entries = append(entries, Entry{
			UserID:     u.DiscordID,
			Username:   name,
			Deliveries: u.Deliveries,
		})
	}
	return entries, nil
}
